// SPDX-License-Identifier: GPL-3.0-only

package commons

import (
	"locale-tracker/commons/mccmnc"
	"os"
)

var MCCMNCIndex *mccmnc.LookupIndex

func InitMCCMNC() {
	entries, err := mccmnc.Default()
	if err != nil {
		Logger.Fatalf("Failed to load MCC table: %v", err)
	}

	overwritePath := GetEnv("MCC_TABLE_OVERWRITE", "mcc_table_overwrite.json")
	if _, err := os.Stat(overwritePath); err == nil {
		overwriteEntries, err := mccmnc.LoadFile(overwritePath)
		if err != nil {
			Logger.Printf("Warning: Failed to load MCC overwrite data: %v", err)
		} else {
			entries = mccmnc.Merge(entries, overwriteEntries)
			Logger.Printf("Loaded %d MCC overwrite entries from %s", len(overwriteEntries), overwritePath)
		}
	}

	MCCMNCIndex = mccmnc.BuildIndex(entries)
	Logger.Printf("Loaded %d total MCC entries", MCCMNCIndex.Len())
}
