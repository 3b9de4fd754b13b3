package publisher

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	config "gitlab.com/homesense1/iot.home_server/src/production/IOT.Config"
	logger "gitlab.com/homesense1/iot.home_server/src/production/IOT.Logger"
	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
)

// Publisher fans recorded events out to an MQTT broker on
// <prefix>/<user_id>/<slug>. Publication is fire-and-forget; a broker outage
// never affects request handling.
type Publisher struct {
	cfg        config.MQTTConfig
	brokerURL  string
	mqttClient mqtt.Client
	logger     *logger.Logger
}

// New creates a new event publisher
func New(cfg *config.Config, logger *logger.Logger) *Publisher {
	return &Publisher{
		cfg:       cfg.MQTT,
		brokerURL: cfg.GetMQTTBrokerURL(),
		logger:    logger.WithComponent("publisher"),
	}
}

// Start connects to the broker. The client keeps reconnecting on its own
// after transient failures.
func (p *Publisher) Start() error {
	opts := mqtt.NewClientOptions().
		AddBroker(p.brokerURL).
		SetClientID(p.cfg.ClientID).
		SetOrderMatters(false).
		SetKeepAlive(p.cfg.KeepAlive).
		SetPingTimeout(p.cfg.PingTimeout).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetCleanSession(true)

	if p.cfg.BrokerUser != "" {
		opts.SetUsername(p.cfg.BrokerUser)
		opts.SetPassword(p.cfg.BrokerPass)
	}

	if p.cfg.UseTLS {
		tlsCfg, err := p.tlsConfig(p.cfg.CACertPath)
		if err != nil {
			return err
		}
		opts.SetTLSConfig(tlsCfg)
	}

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		p.logger.Logger.Error().Err(err).Msg("MQTT connection lost")
	}
	opts.OnConnect = func(_ mqtt.Client) {
		p.logger.Logger.Info().Str("broker", p.brokerURL).Msg("MQTT connected")
	}

	p.mqttClient = mqtt.NewClient(opts)
	if tk := p.mqttClient.Connect(); tk.Wait() && tk.Error() != nil {
		return tk.Error()
	}

	return nil
}

// Stop disconnects from the broker
func (p *Publisher) Stop() {
	if p.mqttClient != nil && p.mqttClient.IsConnected() {
		p.mqttClient.Disconnect(500)
	}
}

// IsConnected reports broker connectivity
func (p *Publisher) IsConnected() bool {
	return p.mqttClient != nil && p.mqttClient.IsConnected()
}

// Publish sends one event to the broker, best effort. Delivery is awaited off
// the request path only to log failures.
func (p *Publisher) Publish(event iotmodels.Event) {
	if p.mqttClient == nil || !p.mqttClient.IsConnected() {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorWithError(err, "failed to marshal event")
		return
	}

	topic := fmt.Sprintf("%s/%s/%s", p.cfg.TopicPrefix, event.UserID.Hex(), event.Slug)
	token := p.mqttClient.Publish(topic, 0, false, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			p.logger.Logger.Warn().Err(token.Error()).Str("topic", topic).Msg("failed to publish event")
		}
	}()
}

func (p *Publisher) tlsConfig(caCertPath string) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if caCertPath != "" {
		caCert, err := os.ReadFile(caCertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert %s", caCertPath)
		}
		cfg.RootCAs = pool
	}

	return cfg, nil
}
