// SPDX-License-Identifier: GPL-3.0-only

// Package locale derives the device's current country from cellular network
// identity and pushes it to downstream consumers.
//
// # Event loop
//
// A Tracker owns all of its state on a single worker goroutine. Operator
// numeric updates, service state transitions and cell info reports are
// queued as events and applied in submission order. Every submission returns
// a completion channel; the blocking helpers (UpdateOperatorNumeric,
// NotifyServiceState, NotifyCellInfo, Sync) wait on it.
//
// # Resolution
//
//   - A non-empty operator numeric whose MCC is known always wins.
//   - Otherwise the most frequent MCC among the cached cells is used.
//   - Otherwise the country is empty, which clears the regulatory domain.
//
// # Tracking
//
// While the operator numeric is empty and the radio reports OUT_OF_SERVICE or
// EMERGENCY_ONLY, the tracker polls the phone for cell info. A successful scan
// is refreshed every PollInterval; failed or empty scans are retried with
// exponential backoff between RetryMinDelay and RetryMaxDelay.
package locale
