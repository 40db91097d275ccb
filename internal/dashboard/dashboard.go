// Package dashboard computes the aggregate views over a list of entries:
// per-strand counts, the current month's count, the day streak, progress
// toward a monthly goal and a day-bucketed timeline. Everything here is a
// pure function of the entries, a reference time and a location, so the
// caller decides what "today" means for the viewer.
package dashboard

import (
	"math"
	"sort"
	"strings"
	"time"

	entrymodels "io.winapps.casportfolio/internal/models/entry"
)

// RecentLimit is how many entries the dashboard shows as recent
const RecentLimit = 6

// EffectiveDate is the date an entry is shown under
func EffectiveDate(e entrymodels.Entry) time.Time {
	return e.EffectiveDate()
}

// Filter narrows the timeline. Both conditions must hold when set.
type Filter struct {
	Kind  *entrymodels.Kind
	Query string
}

// Match reports whether the entry passes the kind filter and the
// case-insensitive search over title and description
func (f Filter) Match(e entrymodels.Entry) bool {
	if f.Kind != nil && e.Kind != *f.Kind {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q)
}

// Apply returns the matching entries in their original order
func (f Filter) Apply(entries []entrymodels.Entry) []entrymodels.Entry {
	out := make([]entrymodels.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// DayBucket groups the timeline entries that fall on one local calendar day
type DayBucket struct {
	Day     string
	Entries []entrymodels.Entry
}

type Summary struct {
	Counts      map[entrymodels.Kind]int
	Total       int
	MonthCount  int
	Streak      int
	Goal        int
	GoalPercent int
	Timeline    []DayBucket
	Recent      []entrymodels.Entry
}

// Summarize builds the dashboard for the given reference time. Counts, month
// count and streak cover every entry; the timeline covers the filtered ones.
func Summarize(entries []entrymodels.Entry, now time.Time, loc *time.Location, filter Filter, goal int) Summary {
	if loc == nil {
		loc = time.Local
	}
	month := MonthCount(entries, now, loc)
	return Summary{
		Counts:      Counts(entries),
		Total:       len(entries),
		MonthCount:  month,
		Streak:      Streak(entries, now, loc),
		Goal:        goal,
		GoalPercent: GoalPercent(month, goal),
		Timeline:    Timeline(filter.Apply(entries), loc),
		Recent:      Recent(entries, RecentLimit),
	}
}

// Counts tallies entries per strand, always including every strand
func Counts(entries []entrymodels.Entry) map[entrymodels.Kind]int {
	counts := make(map[entrymodels.Kind]int, len(entrymodels.Kinds))
	for _, k := range entrymodels.Kinds {
		counts[k] = 0
	}
	for _, e := range entries {
		counts[e.Kind]++
	}
	return counts
}

// MonthCount counts entries whose effective date falls in now's calendar month in loc
func MonthCount(entries []entrymodels.Entry, now time.Time, loc *time.Location) int {
	ny, nm, _ := now.In(loc).Date()
	n := 0
	for _, e := range entries {
		y, m, _ := EffectiveDate(e).In(loc).Date()
		if y == ny && m == nm {
			n++
		}
	}
	return n
}

type civilDay struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time, loc *time.Location) civilDay {
	y, m, d := t.In(loc).Date()
	return civilDay{y, m, d}
}

func (c civilDay) prev() civilDay {
	y, m, d := time.Date(c.year, c.month, c.day-1, 12, 0, 0, 0, time.UTC).Date()
	return civilDay{y, m, d}
}

func (c civilDay) String() string {
	return time.Date(c.year, c.month, c.day, 0, 0, 0, 0, time.UTC).Format(entrymodels.DateLayout)
}

// Streak counts consecutive local calendar days with at least one entry,
// walking back from today, or from yesterday when today has none yet.
func Streak(entries []entrymodels.Entry, now time.Time, loc *time.Location) int {
	days := make(map[civilDay]bool, len(entries))
	for _, e := range entries {
		days[dayOf(EffectiveDate(e), loc)] = true
	}

	cur := dayOf(now, loc)
	if !days[cur] {
		cur = cur.prev()
	}
	streak := 0
	for days[cur] {
		streak++
		cur = cur.prev()
	}
	return streak
}

// GoalPercent is the month count as a rounded percentage of goal, capped at 100
func GoalPercent(count, goal int) int {
	if goal <= 0 {
		return 0
	}
	p := int(math.Round(float64(count) / float64(goal) * 100))
	if p > 100 {
		return 100
	}
	return p
}

// SortByEffectiveDate returns a copy sorted newest first; ties keep input order
func SortByEffectiveDate(entries []entrymodels.Entry) []entrymodels.Entry {
	out := append([]entrymodels.Entry{}, entries...)
	sort.SliceStable(out, func(i, j int) bool {
		return EffectiveDate(out[i]).After(EffectiveDate(out[j]))
	})
	return out
}

// Timeline sorts entries by effective date and groups them by local day.
// Buckets and the entries within them keep the sorted order.
func Timeline(entries []entrymodels.Entry, loc *time.Location) []DayBucket {
	sorted := SortByEffectiveDate(entries)

	buckets := []DayBucket{}
	index := map[civilDay]int{}
	for _, e := range sorted {
		d := dayOf(EffectiveDate(e), loc)
		i, ok := index[d]
		if !ok {
			i = len(buckets)
			index[d] = i
			buckets = append(buckets, DayBucket{Day: d.String()})
		}
		buckets[i].Entries = append(buckets[i].Entries, e)
	}
	return buckets
}

// Recent returns up to n entries, newest creation first
func Recent(entries []entrymodels.Entry, n int) []entrymodels.Entry {
	sorted := append([]entrymodels.Entry{}, entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
