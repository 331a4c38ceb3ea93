// SPDX-License-Identifier: GPL-3.0-only

package mccmnc

type Entry struct {
	MCC               int    `json:"mcc" yaml:"mcc"`
	ISO               string `json:"iso" yaml:"iso"`
	Country           string `json:"country" yaml:"country"`
	SmallestDigitsMNC int    `json:"smallest_digits_mnc" yaml:"smallest_digits_mnc"`
}

type RawData struct {
	Lookup []Entry `json:"lookup" yaml:"lookup"`
}

type LookupIndex struct {
	ByMCC     map[int]Entry
	ByCountry map[string][]Entry
}
