// SPDX-License-Identifier: GPL-3.0-only

package locale

import (
	"locale-tracker/telephony"
	"time"
)

// mostFrequentMCC returns the MCC reported by the most cells. Ties go to the
// MCC that reached the winning count first.
func mostFrequentMCC(cells []telephony.CellInfo) string {
	counts := make(map[string]int)
	selected := ""
	maxCount := 0
	for _, cell := range cells {
		mcc := cell.MCC()
		if mcc == "" {
			continue
		}
		counts[mcc]++
		if counts[mcc] > maxCount {
			maxCount = counts[mcc]
			selected = mcc
		}
	}
	return selected
}

// cellInfoDelay is min * 2^(failCount-1), clamped to [min, max].
func cellInfoDelay(failCount int, minDelay, maxDelay time.Duration) time.Duration {
	if failCount < 1 {
		failCount = 1
	}
	if failCount > maxFailCount {
		failCount = maxFailCount
	}
	delay := minDelay
	for i := 1; i < failCount && delay < maxDelay; i++ {
		delay *= 2
	}
	if delay > maxDelay {
		delay = maxDelay
	}
	if delay < minDelay {
		delay = minDelay
	}
	return delay
}
