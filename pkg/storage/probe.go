package storage

import (
	"context"
	"math"
)

const (
	probeKey = "__storage_test__"

	// BudgetKB is the assumed storage quota.
	BudgetKB = 5120.0
)

// Probe reports whether the backend accepts a write and a delete.
func Probe(ctx context.Context, backend Backend) Result {
	if err := backend.Set(ctx, probeKey, probeKey); err != nil {
		return Failed(StatusUnavailable, "set", probeKey, err)
	}
	if err := backend.Remove(ctx, probeKey); err != nil {
		return Failed(StatusUnavailable, "remove", probeKey, err)
	}
	return OK
}

// UsageInfo estimates how much of the storage budget the managed keys use.
type UsageInfo struct {
	UsedKB     float64 `json:"used"`
	TotalKB    float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Usage sums key and value lengths of keys. On failure the usage is reported as zero.
func Usage(ctx context.Context, store *Store, keys ...string) (UsageInfo, Result) {
	info := UsageInfo{TotalKB: BudgetKB}

	used := 0
	for _, key := range keys {
		n, res := store.Size(ctx, key)
		if !res.IsOK() {
			return info, res
		}
		used += n
	}

	usedKB := float64(used) / 1024
	info.UsedKB = round2(usedKB)
	info.Percentage = round2(usedKB / BudgetKB * 100)
	return info, OK
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
