// Package balancer implements LoadBalancer: daily-cap
// enforcement, effective-date smoothing, and overflow redistribution over
// a batch of PreScheduled candidates. Skipped rows and any row already in
// a terminal status pass through untouched.
package balancer

import (
	"sort"

	"github.com/ignite/policymail-scheduler/internal/calendar"
	"github.com/ignite/policymail-scheduler/internal/domain"
	"github.com/ignite/policymail-scheduler/internal/jitter"
)

// DailyCapacity is the resolved per-day numeric envelope for a run,
// derived from the organization's size profile.
type DailyCapacity struct {
	Total int
}

// ResolveDailyCapacity returns round(total_contacts * daily_send_percentage_cap).
func ResolveDailyCapacity(totalContacts int, org domain.OrganizationConfig) int {
	tuple := org.Overrides.Resolve(org.SizeProfile)
	return int(float64(totalContacts)*tuple.DailySendPercentageCap + 0.5)
}

// Balance reorders and redates the PreScheduled members of candidates to
// respect daily capacity, ED smoothing, and overage redistribution. Every
// other row (Skipped, or any already-terminal status) is returned
// unchanged. |out| == |candidates| always.
func Balance(candidates []domain.EmailSchedule, totalContacts int, org domain.OrganizationConfig) []domain.EmailSchedule {
	tuple := org.Overrides.Resolve(org.SizeProfile)
	dailyCap := ResolveDailyCapacity(totalContacts, org)

	var movable []domain.EmailSchedule
	var fixed []domain.EmailSchedule
	for _, c := range candidates {
		if c.Status == domain.StatusPreScheduled {
			movable = append(movable, c)
		} else {
			fixed = append(fixed, c)
		}
	}

	buckets := groupByDate(movable)
	smoothED(buckets, tuple.EDSmoothingWindowDays, tuple.EDDailySoftLimit, edPercentageOfCapLimit(dailyCap, org.EDPercentageOfDailyCap))
	redistributeOverage(buckets, dailyCap, org.OverageThreshold, org.CatchUpSpreadDays)

	out := make([]domain.EmailSchedule, 0, len(candidates))
	out = append(out, fixed...)
	for _, day := range sortedDays(buckets) {
		out = append(out, buckets[day]...)
	}
	return out
}

// edPercentageOfCapLimit computes ed_percentage_of_daily_cap * daily_cap.
func edPercentageOfCapLimit(dailyCap int, pct float64) int {
	return int(float64(dailyCap)*pct + 0.5)
}

func groupByDate(items []domain.EmailSchedule) map[calendar.Date][]domain.EmailSchedule {
	buckets := make(map[calendar.Date][]domain.EmailSchedule)
	for _, it := range items {
		buckets[it.ScheduledDate] = append(buckets[it.ScheduledDate], it)
	}
	for day := range buckets {
		sortWithinDay(buckets[day])
	}
	return buckets
}

// sortWithinDay preserves the pre-balance ordering guarantee: priority
// ascending, then contact_id ascending.
func sortWithinDay(items []domain.EmailSchedule) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority < items[j].Priority
		}
		return items[i].ContactID < items[j].ContactID
	})
}

func sortedDays(buckets map[calendar.Date][]domain.EmailSchedule) []calendar.Date {
	days := make([]calendar.Date, 0, len(buckets))
	for d := range buckets {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func isEffectiveDate(s domain.EmailSchedule) bool {
	return s.Kind.Tag == domain.KindAnniversary && s.Kind.Anniversary == domain.AnniversaryEffectiveDate
}

// smoothED moves excess effective-date items within a sliding window of
// windowDays so that no day's ed_count exceeds min(softLimit, pctCapLimit).
// Only ED items move; destination choice is deterministic, derived from
// jitter.Offset over the window.
func smoothED(buckets map[calendar.Date][]domain.EmailSchedule, windowDays, softLimit, pctCapLimit int) {
	if windowDays <= 0 {
		return
	}
	limit := softLimit
	if pctCapLimit < limit {
		limit = pctCapLimit
	}
	if limit <= 0 {
		return
	}

	for _, day := range sortedDays(buckets) {
		items := buckets[day]
		var edIdx []int
		for i, it := range items {
			if isEffectiveDate(it) {
				edIdx = append(edIdx, i)
			}
		}
		if len(edIdx) <= limit {
			continue
		}

		excess := edIdx[limit:]
		var kept []domain.EmailSchedule
		keep := make(map[int]bool)
		for _, i := range edIdx[:limit] {
			keep[i] = true
		}
		for i, it := range items {
			if keep[i] || !isEffectiveDate(it) {
				kept = append(kept, it)
			}
		}
		buckets[day] = kept

		for _, i := range excess {
			it := items[i]
			offset := jitter.Offset(it.ContactID, it.Kind.String(), day.Year, windowDays)
			if offset < 0 {
				offset = -offset
			}
			dest := day.AddDays(offset % windowDays)
			if dest == day {
				dest = day.AddDays(1)
			}
			it.ScheduledDate = dest
			buckets[dest] = append(buckets[dest], it)
		}
	}

	for day := range buckets {
		sortWithinDay(buckets[day])
	}
}

// redistributeOverage moves overflow items off any day whose total exceeds
// overageThreshold*dailyCap, round-robin across the next catchUpSpreadDays
// days that are not themselves overloaded. Overflow
// selection order is priority descending (least important / highest
// numeric priority first), then (contact_id, email_kind) for stability.
func redistributeOverage(buckets map[calendar.Date][]domain.EmailSchedule, dailyCap int, overageThreshold float64, catchUpSpreadDays int) {
	if catchUpSpreadDays <= 0 {
		return
	}
	limit := int(float64(dailyCap)*overageThreshold + 0.5)

	for _, day := range sortedDays(buckets) {
		items := buckets[day]
		if len(items) <= limit {
			continue
		}
		excessCount := len(items) - limit

		overflow := append([]domain.EmailSchedule(nil), items...)
		sort.SliceStable(overflow, func(i, j int) bool {
			if overflow[i].Priority != overflow[j].Priority {
				return overflow[i].Priority > overflow[j].Priority
			}
			if overflow[i].ContactID != overflow[j].ContactID {
				return overflow[i].ContactID < overflow[j].ContactID
			}
			return overflow[i].Kind.String() < overflow[j].Kind.String()
		})
		moving := overflow[:excessCount]
		movingSet := make(map[domain.ScheduleKey]bool, len(moving))
		for _, m := range moving {
			movingSet[m.Key()] = true
		}

		var remain []domain.EmailSchedule
		for _, it := range items {
			if !movingSet[it.Key()] {
				remain = append(remain, it)
			} else {
				delete(movingSet, it.Key()) // only drop the first occurrence of a duplicate key
			}
		}
		buckets[day] = remain

		targets := make([]calendar.Date, 0, catchUpSpreadDays)
		for i := 1; i <= catchUpSpreadDays; i++ {
			d := day.AddDays(i)
			if len(buckets[d]) <= limit {
				targets = append(targets, d)
			}
		}
		if len(targets) == 0 {
			for i := 1; i <= catchUpSpreadDays; i++ {
				targets = append(targets, day.AddDays(i))
			}
		}

		for i, it := range moving {
			dest := targets[i%len(targets)]
			it.ScheduledDate = dest
			buckets[dest] = append(buckets[dest], it)
		}
	}

	for day := range buckets {
		sortWithinDay(buckets[day])
	}
}
