// SPDX-License-Identifier: GPL-3.0-only

package telephony

import (
	"context"
	"locale-tracker/commons"
	"strconv"
	"sync"
)

// SimulatedPhone is an in-memory radio whose cell scan result is set by hand.
type SimulatedPhone struct {
	id int

	mu      sync.RWMutex
	cells   []CellInfo
	scanErr error
}

func NewSimulatedPhone(id int, cells []CellInfo) *SimulatedPhone {
	return &SimulatedPhone{id: id, cells: copyCells(cells)}
}

// NewSimulatedPhoneFromEnv reads SIM_PHONE_ID and SIM_CELLS.
func NewSimulatedPhoneFromEnv() (*SimulatedPhone, error) {
	id, err := strconv.Atoi(commons.GetEnv("SIM_PHONE_ID", "0"))
	if err != nil {
		return nil, err
	}
	cells, err := ParseCellSpecs(commons.GetEnv("SIM_CELLS"))
	if err != nil {
		return nil, err
	}
	commons.Logger.Debugf("Simulated phone %d seeded with %d cells", id, len(cells))
	return NewSimulatedPhone(id, cells), nil
}

func (p *SimulatedPhone) PhoneID() int {
	return p.id
}

func (p *SimulatedPhone) AllCellInfo(ctx context.Context) ([]CellInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.scanErr != nil {
		return nil, p.scanErr
	}
	return copyCells(p.cells), nil
}

func (p *SimulatedPhone) SetCells(cells []CellInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cells = copyCells(cells)
}

// SetScanError makes subsequent scans fail with err. A nil err clears it.
func (p *SimulatedPhone) SetScanError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scanErr = err
}

func copyCells(cells []CellInfo) []CellInfo {
	if cells == nil {
		return nil
	}
	out := make([]CellInfo, len(cells))
	copy(out, cells)
	return out
}
