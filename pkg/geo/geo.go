// Package geo provides workshop-friendly helpers for transforming
// coordinates between common coordinate reference systems.
//
// Why these two?
//   - EPSG:3857 (Web Mercator) is commonly used for web map display.
//   - EPSG:25832 (ETRS89 / UTM zone 32N) is useful for coordinate
//     manipulation because units are meters.
//
// Transforms are delegated to the wgs84 library; transformer functions are
// cached per (from, to) pair.
package geo

import (
	"sync"

	"github.com/wroge/wgs84"
)

// EPSG codes used throughout the workshop.
const (
	EPSG4326  = 4326  // WGS84 latitude/longitude
	EPSG3857  = 3857  // Web Mercator
	EPSG25832 = 25832 // ETRS89 / UTM zone 32N
)

var (
	epsgOnce sync.Once
	epsgRepo *wgs84.Repository

	cacheMu        sync.Mutex
	transformCache = map[[2]int]wgs84.Func{}
)

// Wgs2UTM converts WGS84 latitude/longitude (degrees) to EPSG:25832
// easting/northing (meters). Note the (x, y) axis ordering of the
// underlying transform: for EPSG:4326 that is (lon, lat).
func Wgs2UTM(lat, lon float64) (easting, northing float64) {
	easting, northing = TransformXY(lon, lat, EPSG4326, EPSG25832)
	return easting, northing
}

// UTM2Wgs converts EPSG:25832 easting/northing (meters) to WGS84
// latitude/longitude (degrees).
func UTM2Wgs(easting, northing float64) (lat, lon float64) {
	lon, lat = TransformXY(easting, northing, EPSG25832, EPSG4326)
	return lat, lon
}

// WebMercatorToUTM converts a point from EPSG:3857 to EPSG:25832.
func WebMercatorToUTM(x, y float64) (easting, northing float64) {
	return TransformXY(x, y, EPSG3857, EPSG25832)
}

// UTMToWebMercator converts a point from EPSG:25832 to EPSG:3857.
func UTMToWebMercator(easting, northing float64) (x, y float64) {
	return TransformXY(easting, northing, EPSG25832, EPSG3857)
}

// TransformXY transforms a single (x, y) coordinate between two CRS given
// by EPSG code.
func TransformXY(x, y float64, fromEPSG, toEPSG int) (float64, float64) {
	tx, ty, _ := transformer(fromEPSG, toEPSG)(x, y, 0)
	return tx, ty
}

// TransformMany transforms parallel coordinate slices between two CRS.
// Inputs beyond the shorter slice's length are ignored.
func TransformMany(xs, ys []float64, fromEPSG, toEPSG int) ([]float64, []float64) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}

	f := transformer(fromEPSG, toEPSG)
	xsOut := make([]float64, n)
	ysOut := make([]float64, n)
	for i := 0; i < n; i++ {
		xsOut[i], ysOut[i], _ = f(xs[i], ys[i], 0)
	}
	return xsOut, ysOut
}

// transformer returns a cached transform function for the CRS pair.
func transformer(fromEPSG, toEPSG int) wgs84.Func {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	key := [2]int{fromEPSG, toEPSG}
	if f, ok := transformCache[key]; ok {
		return f
	}

	epsgOnce.Do(func() {
		epsgRepo = wgs84.EPSG()
	})

	f := wgs84.Transform(epsgRepo.Code(fromEPSG), epsgRepo.Code(toEPSG))
	transformCache[key] = f
	return f
}
