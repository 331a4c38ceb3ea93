// SPDX-License-Identifier: GPL-3.0-only

package notifications

import (
	"context"
	"time"
)

type NotificationTypes string

const (
	CountryChanged NotificationTypes = "COUNTRY_CHANGED"
)

type NotificationProviders string

const (
	AMQP NotificationProviders = "amqp"
	Mock NotificationProviders = "mock"
)

type CountryChange struct {
	PhoneID     int       `json:"phone_id"`
	Previous    string    `json:"previous"`
	Current     string    `json:"current"`
	CallingCode int32     `json:"calling_code"`
	Source      string    `json:"source"`
	ChangedAt   time.Time `json:"changed_at"`
}

// Publisher sends an encoded message to the broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte, messageID string) error
}
