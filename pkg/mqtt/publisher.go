package mqtt

import (
	"strconv"

	paho "github.com/eclipse/paho.mqtt.golang"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/simulated-city/simcity/pkg/cityerrors"
	"github.com/simulated-city/simcity/pkg/metrics"
)

// Publisher publishes JSON payloads through a Connector.
type Publisher struct {
	conn *Connector
	log  *zap.Logger
}

// NewPublisher wraps a connector into a publisher.
func NewPublisher(conn *Connector) *Publisher {
	return &Publisher{
		conn: conn,
		log: conn.log.With(
			zap.String("component", "mqtt_publisher"),
		),
	}
}

// PublishJSON marshals payload and publishes it on topic. A not-ready
// connection degrades to a logged warning rather than an error, since the
// transport may still queue the message locally. For QoS 1 and 2 the call
// blocks until the transport confirms the handoff; for QoS 0 it returns
// immediately after handoff. The returned token describes the publish
// outcome.
func (p *Publisher) PublishJSON(topic string, payload interface{}, qos byte, retain bool) (paho.Token, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		metrics.PublishesTotal.WithLabelValues(qosLabel(qos), metrics.OutcomeError).Inc()
		return nil, cityerrors.Wrap(err, cityerrors.ErrorTypeData, "failed to marshal publish payload").
			WithDetail("topic", topic)
	}

	if !p.conn.IsConnected() {
		p.log.Warn("mqtt client not connected, message may not be published",
			zap.String("topic", topic))
	}

	token := p.conn.client.Publish(topic, qos, retain, body)
	if qos > 0 {
		token.Wait()
		if err := token.Error(); err != nil {
			metrics.PublishesTotal.WithLabelValues(qosLabel(qos), metrics.OutcomeError).Inc()
			return token, cityerrors.Wrap(err, cityerrors.ErrorTypeConnection, "publish was not confirmed by the broker").
				WithDetail("topic", topic).
				WithDetail("qos", int(qos))
		}
	}

	metrics.PublishesTotal.WithLabelValues(qosLabel(qos), metrics.OutcomeOK).Inc()
	return token, nil
}

func qosLabel(qos byte) string {
	return strconv.Itoa(int(qos))
}
