package payloads

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWeatherPayload(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		payload, err := BuildWeatherPayload("sunny", 3, "")
		require.NoError(t, err)
		assert.Equal(t, DefaultWeatherSource, payload.Source)
		assert.Equal(t, WeatherSunny, payload.WeatherState)
		assert.Equal(t, 3, payload.Tick)
		assert.NotEmpty(t, payload.Timestamp)
	})

	t.Run("state is normalized", func(t *testing.T) {
		payload, err := BuildWeatherPayload("  RAIN ", 0, "agent_test")
		require.NoError(t, err)
		assert.Equal(t, WeatherRain, payload.WeatherState)
		assert.Equal(t, "agent_test", payload.Source)
	})

	t.Run("unknown state is rejected", func(t *testing.T) {
		_, err := BuildWeatherPayload("snow", 0, "")
		require.Error(t, err)
	})

	t.Run("negative tick is rejected", func(t *testing.T) {
		_, err := BuildWeatherPayload("sunny", -1, "")
		require.Error(t, err)
	})
}

func TestWeatherPayloadJSON(t *testing.T) {
	payload, err := BuildWeatherPayload("rain", 9, "agent_weather")
	require.NoError(t, err)

	body, err := payload.JSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.Equal(t, "rain", decoded["weather_state"])
	assert.Equal(t, float64(9), decoded["tick"])
	assert.Equal(t, "agent_weather", decoded["source"])
}
