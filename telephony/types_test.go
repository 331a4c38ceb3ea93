// SPDX-License-Identifier: GPL-3.0-only

package telephony

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceStateRoundTrip(t *testing.T) {
	for _, s := range []ServiceState{InService, OutOfService, EmergencyOnly, PowerOff} {
		parsed, err := ParseServiceState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	parsed, err := ParseServiceState(" emergency_only ")
	require.NoError(t, err)
	assert.Equal(t, EmergencyOnly, parsed)

	_, err = ParseServiceState("ROAMING")
	assert.Error(t, err)
	assert.Equal(t, "UNKNOWN", ServiceState(42).String())
}

func TestCellInfoMCC(t *testing.T) {
	tests := []struct {
		name string
		cell CellInfo
		want string
	}{
		{"gsm", NewGSMCell(310, 123, 0, 0), "310"},
		{"lte", CellInfo{Type: CellLTE, Identity: CellIdentity{MCC: "234", MNC: "15"}}, "234"},
		{"cdma has no mcc", CellInfo{Type: CellCDMA, Identity: CellIdentity{MCC: "310"}}, ""},
		{"unknown mcc", CellInfo{Type: CellGSM, Identity: CellIdentity{MCC: ""}}, ""},
		{"int max sentinel", CellInfo{Type: CellWCDMA, Identity: CellIdentity{MCC: "2147483647"}}, ""},
		{"signed", CellInfo{Type: CellNR, Identity: CellIdentity{MCC: "+31"}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cell.MCC())
		})
	}
}

func TestNewGSMCellPadsCodes(t *testing.T) {
	cell := NewGSMCell(1, 1, 7, 42)
	assert.Equal(t, "001", cell.Identity.MCC)
	assert.Equal(t, "01", cell.Identity.MNC)
	assert.Equal(t, 7, cell.Identity.AreaCode)
	assert.Equal(t, int64(42), cell.Identity.CID)
}

func TestParseCellSpecs(t *testing.T) {
	cells, err := ParseCellSpecs("310-123, lte:234-15,")
	require.NoError(t, err)
	require.Len(t, cells, 2)
	assert.Equal(t, CellGSM, cells[0].Type)
	assert.Equal(t, "310", cells[0].MCC())
	assert.Equal(t, CellLTE, cells[1].Type)
	assert.Equal(t, "15", cells[1].Identity.MNC)

	cells, err = ParseCellSpecs("")
	require.NoError(t, err)
	assert.Empty(t, cells)

	_, err = ParseCellSpecs("310")
	assert.Error(t, err)
}

func TestParseCellType(t *testing.T) {
	tests := []struct {
		in      string
		want    CellType
		wantErr bool
	}{
		{"", CellGSM, false},
		{"gsm", CellGSM, false},
		{" Lte ", CellLTE, false},
		{"NR", CellNR, false},
		{"tdscdma", CellTDSCDMA, false},
		{"FOO", "", true},
		{"AMPS", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCellType(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseCellSpecRejectsUnknownType(t *testing.T) {
	_, err := ParseCellSpec("FOO:310-1")
	assert.ErrorContains(t, err, "unsupported cell type")

	_, err = ParseCellSpecs("310-260,FOO:310-1")
	assert.Error(t, err)

	cell, err := ParseCellSpec("wcdma:310-1")
	require.NoError(t, err)
	assert.Equal(t, CellWCDMA, cell.Type)
}

func TestSimulatedPhone(t *testing.T) {
	phone := NewSimulatedPhone(3, []CellInfo{NewGSMCell(310, 123, 0, 0)})
	assert.Equal(t, 3, phone.PhoneID())

	cells, err := phone.AllCellInfo(context.Background())
	require.NoError(t, err)
	require.Len(t, cells, 1)

	cells[0].Identity.MCC = "999"
	again, err := phone.AllCellInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "310", again[0].Identity.MCC, "scan result must be a copy")

	scanErr := errors.New("modem busy")
	phone.SetScanError(scanErr)
	_, err = phone.AllCellInfo(context.Background())
	assert.ErrorIs(t, err, scanErr)

	phone.SetScanError(nil)
	phone.SetCells(nil)
	cells, err = phone.AllCellInfo(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cells)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = phone.AllCellInfo(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSimulatedPhoneFromEnv(t *testing.T) {
	t.Setenv("SIM_PHONE_ID", "1")
	t.Setenv("SIM_CELLS", "310-260")

	phone, err := NewSimulatedPhoneFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 1, phone.PhoneID())

	cells, err := phone.AllCellInfo(context.Background())
	require.NoError(t, err)
	require.Len(t, cells, 1)
	assert.Equal(t, "310", cells[0].MCC())
}
