// SPDX-License-Identifier: GPL-3.0-only

package handlers

import "locale-tracker/locale"

// swagger:model LocaleResponse
type LocaleResponse struct {
	// Identifier of the radio the country is derived from
	PhoneID int `json:"phone_id" example:"0"`
	// Current lower-case ISO 3166-1 alpha-2 country, empty when unknown
	Country string `json:"country" example:"us"`
	// E.164 calling code of Country, 0 when unknown
	CallingCode int32 `json:"calling_code" example:"1"`
	// Input the country was resolved from
	Source string `json:"source" example:"CELL_INFO"`
	// Whether cell info is being polled
	Tracking bool `json:"tracking" example:"true"`
	// Registered operator MCC+MNC, empty when not registered
	OperatorNumeric string `json:"operator_numeric" example:"310260"`
	// Last reported service state, omitted until one is reported
	ServiceState *string `json:"service_state,omitempty" example:"OUT_OF_SERVICE"`
	// Number of cells currently cached
	CellCount int `json:"cell_count" example:"1"`
	// Consecutive failed cell info scans
	FailCount int `json:"fail_count" example:"0"`
	// Timestamp of the last processed event
	UpdatedAt string `json:"updated_at" example:"2024-01-01T12:00:00Z"`
	// Message indicating successful operation
	Message string `json:"message" example:"Locale retrieved successfully"`
}

// swagger:model OperatorNumericRequest
type OperatorNumericRequest struct {
	// MCC+MNC of the registered operator, empty string when not registered
	// required: true
	Numeric *string `json:"numeric" example:"310260"`
}

// swagger:model ServiceStateRequest
type ServiceStateRequest struct {
	// One of IN_SERVICE, OUT_OF_SERVICE, EMERGENCY_ONLY, POWER_OFF
	// required: true
	State string `json:"state" example:"OUT_OF_SERVICE"`
}

// swagger:model CellRequest
type CellRequest struct {
	// Radio access technology
	Type string `json:"type" example:"GSM"`
	// Mobile country code
	MCC string `json:"mcc" example:"310"`
	// Mobile network code
	MNC string `json:"mnc" example:"123"`
	// Location or tracking area code
	LAC int `json:"lac" example:"0"`
	// Cell identity
	CID int64 `json:"cid" example:"0"`
	// Whether the radio is registered on this cell
	Registered bool `json:"registered" example:"false"`
}

// swagger:model CellInfoRequest
type CellInfoRequest struct {
	// Cells visible to the radio
	Cells []CellRequest `json:"cells"`
}

// swagger:model LocalLogResponse
type LocalLogResponse struct {
	// Tracker decisions, oldest first
	Data []locale.LogEntry `json:"data"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"Local log retrieved successfully"`
}

// swagger:model PaginationDetails
type PaginationDetails struct {
	// Current page number
	Page int `json:"page"`
	// Page size
	PageSize int `json:"page_size"`
	// Total number of items
	Total int64 `json:"total"`
	// Total number of pages
	TotalPages int `json:"total_pages"`
}

// swagger:model LocaleEventDetails
type LocaleEventDetails struct {
	// Unique identifier of the event
	EID string `json:"eid" example:"2f1c0c3e-8a4b-4f0e-9b59-3f4b8a1c2d3e"`
	// OPERATOR, SERVICE_STATE, CELL_INFO or COUNTRY
	Category string `json:"category" example:"COUNTRY"`
	// Radio the event belongs to
	PhoneID int `json:"phone_id" example:"0"`
	// New value
	Value string `json:"value" example:"us"`
	// Value before the event, when known
	Previous *string `json:"previous,omitempty" example:""`
	// Input a country was resolved from
	Source *string `json:"source,omitempty" example:"CELL_INFO"`
	// Timestamp of the event
	CreatedAt string `json:"created_at" example:"2024-01-01T12:00:00Z"`
}

// swagger:model LocaleEventListResponse
type LocaleEventListResponse struct {
	// List of locale events, newest first
	Data []LocaleEventDetails `json:"data"`
	// Pagination details
	Pagination PaginationDetails `json:"pagination"`
	// Message indicating successful retrieval
	Message string `json:"message" example:"Locale events retrieved successfully"`
}
