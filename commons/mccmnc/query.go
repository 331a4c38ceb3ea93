// SPDX-License-Identifier: GPL-3.0-only

package mccmnc

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed mcc_table.json
var defaultTable []byte

var ErrUnsupportedFormat = errors.New("unsupported mcc table format")

// Default returns the entries of the table compiled into the binary.
func Default() ([]Entry, error) {
	return ParseJSON(defaultTable)
}

func ParseJSON(data []byte) ([]Entry, error) {
	var raw RawData
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return normalize(raw.Lookup), nil
}

func ParseYAML(data []byte) ([]Entry, error) {
	var raw RawData
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return normalize(raw.Lookup), nil
}

func LoadJSON(filePath string) ([]Entry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseJSON(data)
}

func LoadYAML(filePath string) ([]Entry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseYAML(data)
}

// LoadFile picks the decoder from the file extension.
func LoadFile(filePath string) ([]Entry, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		return LoadJSON(filePath)
	case ".yaml", ".yml":
		return LoadYAML(filePath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filePath)
	}
}

func normalize(entries []Entry) []Entry {
	for i := range entries {
		entries[i].ISO = strings.ToLower(strings.TrimSpace(entries[i].ISO))
	}
	return entries
}

// Merge returns base with every entry of overwrite replacing the base entry
// that has the same MCC. The result is sorted by MCC.
func Merge(base, overwrite []Entry) []Entry {
	entryMap := make(map[int]Entry, len(base)+len(overwrite))
	for _, entry := range base {
		entryMap[entry.MCC] = entry
	}
	for _, entry := range overwrite {
		entryMap[entry.MCC] = entry
	}

	merged := make([]Entry, 0, len(entryMap))
	for _, entry := range entryMap {
		merged = append(merged, entry)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].MCC < merged[j].MCC })
	return merged
}

func BuildIndex(entries []Entry) *LookupIndex {
	idx := &LookupIndex{
		ByMCC:     make(map[int]Entry),
		ByCountry: make(map[string][]Entry),
	}

	for _, e := range entries {
		if prev, ok := idx.ByMCC[e.MCC]; ok {
			idx.ByCountry[prev.ISO] = removeMCC(idx.ByCountry[prev.ISO], e.MCC)
		}
		idx.ByMCC[e.MCC] = e
		idx.ByCountry[e.ISO] = append(idx.ByCountry[e.ISO], e)
	}

	return idx
}

func removeMCC(entries []Entry, mcc int) []Entry {
	out := entries[:0]
	for _, e := range entries {
		if e.MCC != mcc {
			out = append(out, e)
		}
	}
	return out
}

// CountryCodeForMCC returns the lower-case ISO 3166-1 code for mcc, or "".
func (idx *LookupIndex) CountryCodeForMCC(mcc int) string {
	if idx == nil {
		return ""
	}
	return idx.ByMCC[mcc].ISO
}

func (idx *LookupIndex) CountryCodeForMCCString(mcc string) string {
	if !IsValidMCC(mcc) {
		return ""
	}
	n, err := strconv.Atoi(mcc)
	if err != nil {
		return ""
	}
	return idx.CountryCodeForMCC(n)
}

// IsValidMCC reports whether mcc is exactly three decimal digits.
func IsValidMCC(mcc string) bool {
	if len(mcc) != 3 {
		return false
	}
	for _, r := range mcc {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CountryCodeForNumeric resolves an operator numeric (MCC followed by MNC).
func (idx *LookupIndex) CountryCodeForNumeric(numeric string) string {
	if len(numeric) < 3 {
		return ""
	}
	return idx.CountryCodeForMCCString(numeric[:3])
}

func (idx *LookupIndex) LookupByCountry(iso string) []Entry {
	if idx == nil {
		return nil
	}
	return idx.ByCountry[strings.ToLower(iso)]
}

func (idx *LookupIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.ByMCC)
}
