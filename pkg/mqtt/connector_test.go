package mqtt

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simulated-city/simcity/pkg/config"
)

func testBrokerConfig() config.BrokerConfig {
	return config.BrokerConfig{
		Host:           "broker.example.com",
		Port:           1883,
		ClientIDPrefix: "simcity",
		KeepAlive:      60 * time.Second,
		BaseTopic:      "simulated-city",
	}
}

func TestBrokerURL(t *testing.T) {
	cfg := testBrokerConfig()
	assert.Equal(t, "tcp://broker.example.com:1883", brokerURL(cfg))

	cfg.TLS = true
	cfg.Port = 8883
	assert.Equal(t, "ssl://broker.example.com:8883", brokerURL(cfg))
}

func TestClientID(t *testing.T) {
	assert.Equal(t, "simcity", ClientID("simcity", ""))
	assert.Equal(t, "simcity-weather", ClientID("simcity", "weather"))
	assert.Equal(t, "trimmed-x", ClientID("  trimmed ", "x"))
	// Blank prefix falls back to the default.
	assert.Equal(t, config.DefaultClientIDPrefix, ClientID("   ", ""))
}

func TestRandomSuffix(t *testing.T) {
	a := RandomSuffix()
	b := RandomSuffix()
	assert.Len(t, a, 8)
	assert.NotEqual(t, a, b)
}

func TestConnectorReadinessFollowsCallbacks(t *testing.T) {
	conn := NewConnector(testBrokerConfig(), "test")

	assert.False(t, conn.IsConnected())
	assert.False(t, conn.WaitForConnection(10*time.Millisecond))

	// The handshake-success callback sets the readiness flag.
	conn.onConnect(nil)
	assert.True(t, conn.IsConnected())
	assert.True(t, conn.WaitForConnection(10*time.Millisecond))

	// Any disconnect clears it again without caller action.
	conn.onConnectionLost(nil, errors.New("broken pipe"))
	assert.False(t, conn.IsConnected())
}

func TestWaitForConnectionWakesBlockedWaiter(t *testing.T) {
	conn := NewConnector(testBrokerConfig(), "test")

	var wg sync.WaitGroup
	wg.Add(1)
	result := false
	go func() {
		defer wg.Done()
		result = conn.WaitForConnection(2 * time.Second)
	}()

	time.Sleep(20 * time.Millisecond)
	conn.onConnect(nil)
	wg.Wait()

	assert.True(t, result)
}

func TestReadyFlag(t *testing.T) {
	flag := newReadyFlag()

	assert.False(t, flag.IsSet())
	assert.False(t, flag.Wait(5*time.Millisecond))

	flag.Set()
	assert.True(t, flag.IsSet())
	assert.True(t, flag.Wait(5*time.Millisecond))

	// Set is idempotent.
	flag.Set()
	assert.True(t, flag.IsSet())

	// Clear re-arms the wait channel.
	flag.Clear()
	assert.False(t, flag.IsSet())
	assert.False(t, flag.Wait(5*time.Millisecond))

	flag.Set()
	assert.True(t, flag.Wait(5*time.Millisecond))
}

func TestConnectorUsesProfilePrefix(t *testing.T) {
	cfg := testBrokerConfig()
	cfg.ClientIDPrefix = "workshop"

	conn := NewConnector(cfg, "agent-1")
	assert.Equal(t, "workshop-agent-1", conn.ClientID())
	assert.Equal(t, cfg, conn.Config())
}

func TestPublishJSONMarshalFailure(t *testing.T) {
	conn := NewConnector(testBrokerConfig(), "test")
	publisher := NewPublisher(conn)

	// Channels are not JSON-serializable; the error surfaces before any
	// network activity.
	_, err := publisher.PublishJSON("city/weather/state", make(chan int), 0, false)
	require.Error(t, err)
}
