// SPDX-License-Identifier: GPL-3.0-only

package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"locale-tracker/commons"
	"locale-tracker/locale"
	"locale-tracker/models"
	"locale-tracker/rabbitmq"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
)

// CallingCode returns the E.164 calling code for a lower-case ISO country,
// or 0 when the country is empty or unknown.
func CallingCode(iso string) int32 {
	if iso == "" {
		return 0
	}
	return int32(phonenumbers.GetCountryCodeForRegion(strings.ToUpper(iso)))
}

func FromLocale(c locale.CountryChange) CountryChange {
	return CountryChange{
		PhoneID:     c.PhoneID,
		Previous:    c.Previous,
		Current:     c.Current,
		CallingCode: CallingCode(c.Current),
		Source:      string(c.Source),
		ChangedAt:   c.ChangedAt,
	}
}

// DispatchCountryChange delivers one change through provider.
func DispatchCountryChange(ctx context.Context, provider NotificationProviders, publisher Publisher, change CountryChange) error {
	commons.Logger.Debugf("Dispatching notification:\n- type=%s\n- provider=%s", CountryChanged, provider)

	if commons.GetEnv("MOCK_NOTIFICATIONS") == "true" {
		commons.Logger.Debug("Mock notifications enabled, using mock provider")
		provider = Mock
	}

	var err error
	switch provider {
	case AMQP:
		err = publishCountryChange(ctx, publisher, change)
	case Mock:
		err = MockClient(change)
	default:
		err = fmt.Errorf("unsupported notification provider: %s", provider)
	}

	if err != nil {
		commons.Logger.Errorf("Failed to dispatch notification:\n%v", err)
		return err
	}

	commons.Logger.Infof("Notification dispatched successfully:\n- type=%s\n- provider=%s", CountryChanged, provider)
	return nil
}

func publishCountryChange(ctx context.Context, publisher Publisher, change CountryChange) error {
	if publisher == nil {
		return fmt.Errorf("amqp provider requires a publisher")
	}
	msg := models.NewCountryChangedMessage(change.PhoneID, change.Previous, change.Current, change.CallingCode, change.Source)
	if !change.ChangedAt.IsZero() {
		msg.CreatedAt = change.ChangedAt
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode country change: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return publisher.Publish(ctx, rabbitmq.RoutingKey(change.PhoneID), body, msg.Mid)
}

func MockClient(change CountryChange) error {
	commons.Logger.Info("=== MOCK COUNTRY CHANGE NOTIFICATION ===")
	commons.Logger.Infof("Phone: %d", change.PhoneID)
	commons.Logger.Infof("Country: %q -> %q (+%d)", change.Previous, change.Current, change.CallingCode)
	commons.Logger.Infof("Source: %s", change.Source)
	return nil
}
