// Package notify pushes guide-update events to display devices over MQTT
// so they re-render without polling.
package notify

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/overscan-labs/epgrid/internal/model"
)

const updateTopic = "guide/updated"

// Notifier publishes sync reports to the broker. A nil *Notifier is valid
// and publishes nothing; notification is optional infrastructure.
type Notifier struct {
	client mqtt.Client
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Error().Err(err).Msg("MQTT connection lost")
}

func New(brokerURL string) (*Notifier, error) {
	if brokerURL == "" {
		return nil, nil
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID("epgrid-sync")
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return &Notifier{client: client}, nil
}

// GuideUpdated announces a completed guide replacement.
func (n *Notifier) GuideUpdated(report model.SyncReport) error {
	if n == nil {
		return nil
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal sync report: %w", err)
	}

	token := n.client.Publish(updateTopic, 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("publish to %s: %w", updateTopic, token.Error())
	}

	log.Info().Int("channels", report.Channels).Int("programmes", report.Programmes).
		Msg("guide update published")
	return nil
}

func (n *Notifier) Close() {
	if n == nil {
		return
	}
	n.client.Disconnect(250)
}
