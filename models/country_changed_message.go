// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"github.com/google/uuid"
)

// CountryChangedMessage is the broker payload announcing a new country
type CountryChangedMessage struct {
	// Mid is the unique message identifier
	Mid string `json:"mid"`
	// PhoneID identifies the radio the country was derived from
	PhoneID int `json:"phone_id"`
	// Previous is the country before the change, empty when none was known
	Previous string `json:"previous"`
	// Current is the lower-case ISO 3166-1 alpha-2 country, empty when unknown
	Current string `json:"current"`
	// CallingCode is the E.164 country calling code for Current, 0 when unknown
	CallingCode int32 `json:"calling_code"`
	// Source names the input the country was resolved from
	Source string `json:"source"`
	// Timestamp when the message was created
	CreatedAt time.Time `json:"created_at"`
}

// NewCountryChangedMessage creates a new message with a generated message ID
func NewCountryChangedMessage(phoneID int, previous, current string, callingCode int32, source string) *CountryChangedMessage {
	return &CountryChangedMessage{
		Mid:         uuid.New().String(),
		PhoneID:     phoneID,
		Previous:    previous,
		Current:     current,
		CallingCode: callingCode,
		Source:      source,
		CreatedAt:   time.Now(),
	}
}
