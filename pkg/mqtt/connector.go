// Package mqtt wraps one broker profile into a managed, reconnecting
// publish/subscribe client. The connection lifecycle is driven entirely by
// the transport's callbacks: the success handler sets the readiness flag,
// the connection-lost handler clears it, and automatic reconnection is
// delegated to the transport's built-in retry loop. This layer never
// issues a manual reconnect.
package mqtt

import (
	"crypto/tls"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/simulated-city/simcity/pkg/cityerrors"
	"github.com/simulated-city/simcity/pkg/config"
	"github.com/simulated-city/simcity/pkg/logger"
	"github.com/simulated-city/simcity/pkg/metrics"
)

const (
	// defaultConnectTimeout bounds the synchronous part of Connect so that
	// immediately-detectable failures (refused connection, DNS, TLS) are
	// surfaced to the caller instead of hanging.
	defaultConnectTimeout = 10 * time.Second

	// disconnectQuiesce is how long Disconnect waits for in-flight work
	// before tearing the network loop down, in milliseconds.
	disconnectQuiesce = 250
)

// Connector manages one broker connection. The readiness flag it exposes
// through IsConnected / WaitForConnection is the single source of truth
// for whether the broker is usable right now.
type Connector struct {
	cfg            config.BrokerConfig
	client         paho.Client
	clientID       string
	ready          *readyFlag
	connectTimeout time.Duration
	log            *zap.Logger
}

// NewConnector builds a connector for one broker profile. The client id is
// derived from the profile's prefix and the optional suffix; pass
// RandomSuffix() when running several clients against the same broker.
func NewConnector(cfg config.BrokerConfig, clientIDSuffix string) *Connector {
	c := &Connector{
		cfg:            cfg,
		clientID:       ClientID(cfg.ClientIDPrefix, clientIDSuffix),
		ready:          newReadyFlag(),
		connectTimeout: defaultConnectTimeout,
		log: logger.With(
			zap.String("component", "mqtt_connector"),
			zap.String("broker", cfg.Address()),
		),
	}

	opts := paho.NewClientOptions().
		AddBroker(brokerURL(cfg)).
		SetClientID(c.clientID).
		SetKeepAlive(cfg.KeepAlive).
		SetAutoReconnect(true).
		SetConnectTimeout(c.connectTimeout).
		SetOnConnectHandler(c.onConnect).
		SetConnectionLostHandler(c.onConnectionLost)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.TLS {
		// Default trust store; unverifiable broker certificates are rejected.
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	c.client = paho.NewClient(opts)
	return c
}

// Config returns the broker configuration this connector was built from.
func (c *Connector) Config() config.BrokerConfig {
	return c.cfg
}

// ClientID returns the derived client identifier.
func (c *Connector) ClientID() string {
	return c.clientID
}

// Connect initiates the handshake and starts the transport's background
// network loop. Immediately-detectable failures (refused connection, DNS,
// TLS handshake) are returned synchronously and are not retried here; the
// caller decides whether to call Connect again. Once connected, later
// drops are handled by the transport's automatic reconnection.
func (c *Connector) Connect() error {
	token := c.client.Connect()
	if !token.WaitTimeout(c.connectTimeout) {
		return cityerrors.New(cityerrors.ErrorTypeTimeout, "timed out connecting to mqtt broker").
			WithDetail("broker", c.cfg.Address())
	}
	if err := token.Error(); err != nil {
		return cityerrors.Wrap(err, cityerrors.ErrorTypeConnection, "failed to connect to mqtt broker").
			WithDetail("broker", c.cfg.Address())
	}
	return nil
}

// Disconnect stops the background network loop and issues a clean
// disconnect. Safe to call on an already-disconnected client.
func (c *Connector) Disconnect() {
	if c.client.IsConnected() {
		c.client.Disconnect(disconnectQuiesce)
		metrics.DisconnectsTotal.WithLabelValues(c.cfg.Address(), metrics.ReasonClean).Inc()
	}
	c.ready.Clear()
	metrics.Connected.WithLabelValues(c.cfg.Address()).Set(0)
	c.log.Info("disconnected from mqtt broker")
}

// WaitForConnection blocks until the readiness flag is set by the
// handshake-success callback or the timeout elapses, and reports whether
// the flag became set. This is the only sanctioned way to know the
// connection is ready for publish/subscribe traffic.
func (c *Connector) WaitForConnection(timeout time.Duration) bool {
	return c.ready.Wait(timeout)
}

// IsConnected reports the current readiness flag.
func (c *Connector) IsConnected() bool {
	return c.ready.IsSet()
}

func (c *Connector) onConnect(_ paho.Client) {
	c.log.Info("connected to mqtt broker",
		zap.String("host", c.cfg.Host),
		zap.Int("port", c.cfg.Port))
	c.ready.Set()
	metrics.ConnectsTotal.WithLabelValues(c.cfg.Address()).Inc()
	metrics.Connected.WithLabelValues(c.cfg.Address()).Set(1)
}

func (c *Connector) onConnectionLost(_ paho.Client, err error) {
	c.log.Warn("disconnected from mqtt broker, transport will reconnect", zap.Error(err))
	c.ready.Clear()
	metrics.DisconnectsTotal.WithLabelValues(c.cfg.Address(), metrics.ReasonLost).Inc()
	metrics.Connected.WithLabelValues(c.cfg.Address()).Set(0)
}

// brokerURL renders the transport URL for a broker config, selecting the
// TLS scheme when the profile asks for it.
func brokerURL(cfg config.BrokerConfig) string {
	scheme := "tcp"
	if cfg.TLS {
		scheme = "ssl"
	}
	return scheme + "://" + cfg.Address()
}
