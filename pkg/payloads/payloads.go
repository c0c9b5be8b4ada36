// Package payloads builds and validates the JSON payloads published by the
// workshop agents.
package payloads

import (
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/simulated-city/simcity/pkg/cityerrors"
)

// Weather states accepted by BuildWeatherPayload.
const (
	WeatherSunny = "sunny"
	WeatherRain  = "rain"
)

// DefaultWeatherSource identifies the weather agent in payloads.
const DefaultWeatherSource = "agent_weather"

// WeatherPayload is the message published on the weather-state topic.
type WeatherPayload struct {
	Source       string `json:"source"`
	WeatherState string `json:"weather_state"`
	Tick         int    `json:"tick"`
	Timestamp    string `json:"timestamp"`
}

// BuildWeatherPayload builds a validated weather payload. State must be
// "sunny" or "rain" and tick must be >= 0. An empty source falls back to
// DefaultWeatherSource.
func BuildWeatherPayload(weatherState string, tick int, source string) (*WeatherPayload, error) {
	normalized := strings.ToLower(strings.TrimSpace(weatherState))
	if normalized != WeatherSunny && normalized != WeatherRain {
		return nil, cityerrors.Newf(cityerrors.ErrorTypeValidation,
			"weather state must be %q or %q", WeatherSunny, WeatherRain)
	}
	if tick < 0 {
		return nil, cityerrors.New(cityerrors.ErrorTypeValidation, "tick must be >= 0")
	}
	if source == "" {
		source = DefaultWeatherSource
	}

	return &WeatherPayload{
		Source:       source,
		WeatherState: normalized,
		Tick:         tick,
		Timestamp:    UTCTimestamp(),
	}, nil
}

// JSON renders the payload as a JSON string.
func (p *WeatherPayload) JSON() (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", cityerrors.Wrap(err, cityerrors.ErrorTypeData, "failed to marshal weather payload")
	}
	return string(body), nil
}

// UTCTimestamp returns the current instant as an ISO-8601 UTC string.
func UTCTimestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
}
