// Package zoxide tracks directory frecency for jump ranking, matching the
// real zoxide algorithm: visit count weighted by recency of last access.
package zoxide

import (
	"sort"
	"time"
)

// Entry is the frecency record for one directory path string.
type Entry struct {
	Count      int       `json:"count"`
	LastAccess time.Time `json:"last_access"`
}

// Frecency scores an entry with time decay: visits in the last hour weigh
// x4, last day x2, last week x0.5, older x0.25.
func Frecency(e Entry, now time.Time) float64 {
	elapsed := now.Sub(e.LastAccess)
	var multiplier float64
	switch {
	case elapsed < time.Hour:
		multiplier = 4
	case elapsed < 24*time.Hour:
		multiplier = 2
	case elapsed < 7*24*time.Hour:
		multiplier = 0.5
	default:
		multiplier = 0.25
	}
	return float64(e.Count) * multiplier
}

// Touch records a visit to path.
func Touch(data map[string]Entry, path string, now time.Time) {
	e := data[path]
	e.Count++
	e.LastAccess = now
	data[path] = e
}

// Ranked returns the known paths ordered by descending frecency, ties
// broken alphabetically.
func Ranked(data map[string]Entry, now time.Time) []string {
	paths := make([]string, 0, len(data))
	for p := range data {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool {
		si := Frecency(data[paths[i]], now)
		sj := Frecency(data[paths[j]], now)
		if si != sj {
			return si > sj
		}
		return paths[i] < paths[j]
	})
	return paths
}
