// SPDX-License-Identifier: GPL-3.0-only

// Package telephony holds the radio-side value types consumed by the locale
// tracker and an in-memory radio used when no modem is attached.
package telephony

import (
	"fmt"
	"locale-tracker/commons/mccmnc"
	"strings"
)

// ServiceState is the radio registration status. Values match the ones
// reported by the platform radio layer.
type ServiceState int

const (
	InService ServiceState = iota
	OutOfService
	EmergencyOnly
	PowerOff
)

func (s ServiceState) String() string {
	switch s {
	case InService:
		return "IN_SERVICE"
	case OutOfService:
		return "OUT_OF_SERVICE"
	case EmergencyOnly:
		return "EMERGENCY_ONLY"
	case PowerOff:
		return "POWER_OFF"
	default:
		return "UNKNOWN"
	}
}

func ParseServiceState(s string) (ServiceState, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IN_SERVICE":
		return InService, nil
	case "OUT_OF_SERVICE":
		return OutOfService, nil
	case "EMERGENCY_ONLY":
		return EmergencyOnly, nil
	case "POWER_OFF":
		return PowerOff, nil
	default:
		return 0, fmt.Errorf("unknown service state: %q", s)
	}
}

type CellType string

const (
	CellGSM     CellType = "GSM"
	CellCDMA    CellType = "CDMA"
	CellWCDMA   CellType = "WCDMA"
	CellTDSCDMA CellType = "TDSCDMA"
	CellLTE     CellType = "LTE"
	CellNR      CellType = "NR"
)

// CellIdentity identifies a cell. MCC and MNC are kept as strings so that
// leading zeros in the MNC survive.
type CellIdentity struct {
	MCC string `json:"mcc"`
	MNC string `json:"mnc"`
	// LAC for GSM/WCDMA/TDSCDMA, TAC for LTE/NR.
	AreaCode int   `json:"area_code"`
	CID      int64 `json:"cid"`
}

type CellInfo struct {
	Type       CellType     `json:"type"`
	Registered bool         `json:"registered"`
	Identity   CellIdentity `json:"identity"`
}

// MCC returns the cell's mobile country code, or "" when the cell type does
// not carry one or the reported value is not three digits.
func (c CellInfo) MCC() string {
	if c.Type == CellCDMA {
		return ""
	}
	if !mccmnc.IsValidMCC(c.Identity.MCC) {
		return ""
	}
	return c.Identity.MCC
}

func (c CellInfo) String() string {
	return fmt.Sprintf("%s{mcc=%s mnc=%s area=%d cid=%d registered=%t}",
		c.Type, c.Identity.MCC, c.Identity.MNC, c.Identity.AreaCode, c.Identity.CID, c.Registered)
}

// NewGSMCell builds a GSM cell from integer MCC/MNC the way a modem reports them.
func NewGSMCell(mcc, mnc, lac int, cid int64) CellInfo {
	return CellInfo{
		Type: CellGSM,
		Identity: CellIdentity{
			MCC:      fmt.Sprintf("%03d", mcc),
			MNC:      fmt.Sprintf("%02d", mnc),
			AreaCode: lac,
			CID:      cid,
		},
	}
}

// ParseCellType accepts a cell type name in any case. An empty name is GSM.
func ParseCellType(s string) (CellType, error) {
	t := CellType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case "":
		return CellGSM, nil
	case CellGSM, CellCDMA, CellWCDMA, CellTDSCDMA, CellLTE, CellNR:
		return t, nil
	}
	return "", fmt.Errorf("unsupported cell type %q", s)
}

// ParseCellSpec parses "310-123" or "GSM:310-123" into a cell.
func ParseCellSpec(spec string) (CellInfo, error) {
	spec = strings.TrimSpace(spec)
	cellType := CellGSM
	if i := strings.IndexByte(spec, ':'); i >= 0 {
		t, err := ParseCellType(spec[:i])
		if err != nil {
			return CellInfo{}, err
		}
		cellType = t
		spec = spec[i+1:]
	}
	mcc, mnc, ok := strings.Cut(spec, "-")
	if !ok || mcc == "" || mnc == "" {
		return CellInfo{}, fmt.Errorf("invalid cell spec %q, expected MCC-MNC", spec)
	}
	return CellInfo{
		Type:     cellType,
		Identity: CellIdentity{MCC: mcc, MNC: mnc},
	}, nil
}

func ParseCellSpecs(specs string) ([]CellInfo, error) {
	var cells []CellInfo
	for _, part := range strings.Split(specs, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		cell, err := ParseCellSpec(part)
		if err != nil {
			return nil, err
		}
		cells = append(cells, cell)
	}
	return cells, nil
}
