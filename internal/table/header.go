// SPDX-License-Identifier: Apache-2.0

package table

import (
	"fmt"
	"strings"
)

// HeaderLabels turns a raw header row into unique column labels.
// Blank cells become "Unnamed: <index>" and repeats get ".1", ".2", ... suffixes.
func HeaderLabels(raw []string) []string {
	labels := make([]string, len(raw))
	taken := make(map[string]bool, len(raw))
	counts := make(map[string]int, len(raw))

	for i, h := range raw {
		label := h
		if strings.TrimSpace(label) == "" {
			label = fmt.Sprintf("Unnamed: %d", i)
		}
		if taken[label] {
			base := label
			for taken[label] {
				counts[base]++
				label = fmt.Sprintf("%s.%d", base, counts[base])
			}
		}
		taken[label] = true
		labels[i] = label
	}
	return labels
}
