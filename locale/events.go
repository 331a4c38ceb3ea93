// SPDX-License-Identifier: GPL-3.0-only

package locale

import (
	"locale-tracker/telephony"
)

// Event is an input applied on the tracker's worker goroutine.
type Event interface {
	apply(t *Tracker)
}

type OperatorNumericEvent struct {
	Numeric string
}

func (e OperatorNumericEvent) apply(t *Tracker) {
	if t.st.numericSet && t.st.numeric == e.Numeric {
		return
	}
	t.st.numeric = e.Numeric
	t.st.numericSet = true
	t.record("Operator numeric changes to %q", e.Numeric)
	t.updateTrackingStatus(false)
	t.updateLocale()
}

type ServiceStateEvent struct {
	State telephony.ServiceState
}

func (e ServiceStateEvent) apply(t *Tracker) {
	if t.st.serviceStateKnown && t.st.serviceState == e.State {
		return
	}
	t.st.serviceState = e.State
	t.st.serviceStateKnown = true
	t.record("Service state %s", e.State)
	if e.State == telephony.PowerOff {
		// Cells seen before airplane mode say nothing about where we are now.
		t.st.cells = nil
	}
	t.updateTrackingStatus(true)
	t.updateLocale()
}

// CellInfoEvent is an unsolicited cell info report from the radio.
type CellInfoEvent struct {
	Cells []telephony.CellInfo
}

func (e CellInfoEvent) apply(t *Tracker) {
	if t.st.serviceStateKnown && t.st.serviceState == telephony.PowerOff {
		t.logger.Debugf("Ignoring %d unsolicited cells while powered off", len(e.Cells))
		return
	}
	t.st.cells = copyCells(e.Cells)
	t.logger.Debugf("Unsolicited cell info: %d cells", len(e.Cells))
	t.updateLocale()
	if t.st.tracking && len(e.Cells) > 0 {
		t.st.failCount = 0
		t.schedulePoll(t.pollInterval)
	}
}

// cellInfoResponse carries the result of a solicited AllCellInfo call.
type cellInfoResponse struct {
	generation uint64
	cells      []telephony.CellInfo
	err        error
}

func (e cellInfoResponse) apply(t *Tracker) {
	if !t.st.tracking || e.generation != t.st.generation {
		t.logger.Debugf("Discarding stale cell info response (generation %d, current %d)", e.generation, t.st.generation)
		return
	}

	if e.err != nil {
		t.st.failCount++
		delay := cellInfoDelay(t.st.failCount, t.retryMinDelay, t.retryMaxDelay)
		t.logger.Warnf("Cell info request failed (%d in a row): %v, retry in %s", t.st.failCount, e.err, delay)
		t.schedulePoll(delay)
		return
	}

	t.st.cells = copyCells(e.cells)
	t.updateLocale()

	if len(e.cells) == 0 {
		t.st.failCount++
		delay := cellInfoDelay(t.st.failCount, t.retryMinDelay, t.retryMaxDelay)
		t.logger.Debugf("No cells visible, retry in %s", delay)
		t.schedulePoll(delay)
		return
	}
	t.st.failCount = 0
	t.schedulePoll(t.pollInterval)
}

type pollRequest struct {
	generation uint64
}

func (e pollRequest) apply(t *Tracker) {
	if !t.st.tracking || e.generation != t.st.generation {
		return
	}
	t.st.pollTimer = nil
	t.requestCellInfo()
}

type barrier struct{}

func (barrier) apply(*Tracker) {}

func copyCells(cells []telephony.CellInfo) []telephony.CellInfo {
	if len(cells) == 0 {
		return nil
	}
	out := make([]telephony.CellInfo, len(cells))
	copy(out, cells)
	return out
}
