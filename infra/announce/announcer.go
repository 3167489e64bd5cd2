// Package announce publishes overlay events to an MQTT broker so downstream
// dashboards can react without polling the API.
package announce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/gridlens/gridlens/core/model"
	"github.com/gridlens/gridlens/infra/logger"
	"github.com/gridlens/gridlens/internal/eventbus"
)

// Config defines the connection parameters for the announcer.
type Config struct {
	Enabled     bool   `json:"enabled" koanf:"enabled"`
	Broker      string `json:"broker" koanf:"broker"`
	ClientID    string `json:"client_id" koanf:"client_id"`
	Username    string `json:"username" koanf:"username"`
	Password    string `json:"password" koanf:"password"`
	TopicPrefix string `json:"topic_prefix" koanf:"topic_prefix"`
	QoS         byte   `json:"qos" koanf:"qos"`
}

// SetDefaults fills unset fields with safe values.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "gridlens-announcer"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "gridlens"
	}
}

// Validate checks the config when the announcer is enabled.
func (c *Config) Validate() error {
	if c.Enabled && c.Broker == "" {
		return fmt.Errorf("announce: broker is required")
	}
	return nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Announcer publishes opportunity and connectivity updates.
type Announcer struct {
	cli    pahoClient
	prefix string
	qos    byte
	log    logger.Logger
}

// New connects to the broker and returns a ready announcer.
func New(cfg Config) (*Announcer, error) {
	log := logger.New("announcer")
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Announcer{cli: c, prefix: cfg.TopicPrefix, qos: cfg.QoS, log: log}, nil
}

// Watch consumes bus events until the context is canceled or the bus closes.
func (a *Announcer) Watch(ctx context.Context, bus *eventbus.Bus) {
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			a.handle(ev)
		}
	}
}

func (a *Announcer) handle(ev eventbus.Event) {
	switch e := ev.(type) {
	case eventbus.OpportunitiesUpdated:
		a.publishOpportunities(e.Opportunities)
	case eventbus.SourceOffline:
		a.publishConnectivity(e.Connected, e.At)
	}
}

func (a *Announcer) publishOpportunities(opps []model.FlexibilityOpportunity) {
	payload, err := json.Marshal(opps)
	if err != nil {
		a.log.Errorf("marshal opportunities: %v", err)
		return
	}
	a.publish(a.prefix+"/opportunities", payload)
}

func (a *Announcer) publishConnectivity(connected bool, at time.Time) {
	payload, err := json.Marshal(struct {
		Connected bool      `json:"connected"`
		At        time.Time `json:"at"`
	}{connected, at})
	if err != nil {
		a.log.Errorf("marshal connectivity: %v", err)
		return
	}
	a.publish(a.prefix+"/status", payload)
}

func (a *Announcer) publish(topic string, payload []byte) {
	token := a.cli.Publish(topic, a.qos, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		a.log.Errorf("publish %s: %v", topic, err)
	}
}

// Close gracefully disconnects from the broker.
func (a *Announcer) Close() {
	if a.cli != nil && a.cli.IsConnected() {
		a.cli.Disconnect(250)
	}
}
