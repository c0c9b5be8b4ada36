// Package topics defines the canonical topic names shared by the workshop
// agents.
package topics

// CityRoot is the root of the shared city topic tree.
const CityRoot = "city"

// WeatherState returns the canonical weather-state topic.
func WeatherState() string {
	return CityRoot + "/weather/state"
}

// WeatherTick returns the canonical weather-tick topic.
func WeatherTick() string {
	return CityRoot + "/weather/tick"
}
