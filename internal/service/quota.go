package service

import (
	"time"

	"github.com/castroh/pdi-agent/internal/domain"
)

// QuotaStatus is the result of checking the rolling analysis quota.
type QuotaStatus struct {
	Exhausted bool
	// RecentRuns is how many runs fall inside the trailing window.
	RecentRuns int
	// WaitDays is how many whole days until the oldest in-window run
	// ages out. Zero when the quota is not exhausted.
	WaitDays int
}

// CheckQuota counts the runs recorded inside the trailing window ending at
// now. When the limit is reached, WaitDays is the ceiling of the time left
// until the oldest of those runs leaves the window, so a run made exactly
// 20 days ago under a 30-day window reports 10.
func CheckQuota(usage domain.UsageTracking, now time.Time, limit int, window time.Duration) QuotaStatus {
	recent := usage.RecentRuns(now.Add(-window))
	status := QuotaStatus{RecentRuns: len(recent)}
	if len(recent) < limit {
		return status
	}

	oldest := recent[0]
	for _, ts := range recent[1:] {
		if ts.Before(oldest) {
			oldest = ts
		}
	}

	status.Exhausted = true
	remaining := oldest.Add(window).Sub(now)
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	status.WaitDays = days
	return status
}
