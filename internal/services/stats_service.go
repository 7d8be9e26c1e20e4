package services

import (
	"context"
	"strings"
	"time"
)

// StatsCounters are the dashboard's comparative counters derived from the
// dispatched-orders feed. Recomputed on every fetch, nothing is persisted.
type StatsCounters struct {
	YesterdayCount    int `json:"yesterday_count"`
	TodayCount        int `json:"today_count"`
	LastMonthSent     int `json:"last_month_sent"`
	ThisMonthSent     int `json:"this_month_sent"`
	LastMonthReturned int `json:"last_month_returned"`
	ThisMonthReturned int `json:"this_month_returned"`
}

type statusBucket int

const (
	bucketNone statusBucket = iota
	bucketSent
	bucketReturned
)

// statusRules classify free-text statuses by keyword containment, evaluated in
// order so the behavior is deterministic. Return/cancel keywords win over sent
// keywords: a returned shipment was also sent at some point.
var statusRules = []struct {
	bucket   statusBucket
	keywords []string
}{
	{bucketReturned, []string{"trả", "returned", "hủy", "cancelled"}},
	{bucketSent, []string{"đã gửi", "sent", "thành công", "delivered"}},
}

// StatsService derives dashboard counters from the n8n stats feed.
type StatsService struct {
	n8n *N8NService
	now func() time.Time
}

// NewStatsService creates a new StatsService.
func NewStatsService(n8n *N8NService) *StatsService {
	return &StatsService{n8n: n8n, now: time.Now}
}

// Counters fetches the feed and aggregates it. A fetch error yields zero
// counters alongside the error; callers treat it as "no data".
func (s *StatsService) Counters(ctx context.Context) (StatsCounters, error) {
	records, err := s.n8n.FetchStats(ctx)
	if err != nil {
		return StatsCounters{}, err
	}
	return AggregateStats(records, s.now()), nil
}

// AggregateStats classifies each record by status keywords and buckets it into
// day and month counters. Records without a recognizable status or date are
// skipped.
func AggregateStats(records []map[string]any, now time.Time) StatsCounters {
	var counters StatsCounters

	yesterday := now.AddDate(0, 0, -1)
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonth := thisMonth.AddDate(0, -1, 0)

	for _, record := range records {
		bucket := classifyStatus(stringField(record, "Trạng thái", "status", "Status"))
		if bucket == bucketNone {
			continue
		}

		date, ok := parseFeedDate(stringField(record, "Ngày", "date", "Date", "created_at", "createdAt"), now)
		if !ok {
			continue
		}

		if bucket == bucketSent {
			if sameDay(date, now) {
				counters.TodayCount++
			}
			if sameDay(date, yesterday) {
				counters.YesterdayCount++
			}
		}

		switch {
		case sameMonth(date, thisMonth):
			if bucket == bucketSent {
				counters.ThisMonthSent++
			} else {
				counters.ThisMonthReturned++
			}
		case sameMonth(date, lastMonth):
			if bucket == bucketSent {
				counters.LastMonthSent++
			} else {
				counters.LastMonthReturned++
			}
		}
	}

	return counters
}

func classifyStatus(status string) statusBucket {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return bucketNone
	}
	for _, rule := range statusRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(s, keyword) {
				return rule.bucket
			}
		}
	}
	return bucketNone
}

// parseFeedDate accepts the feed's ad hoc formats: "HH:mm dd-MM", "dd-MM",
// either with "/" instead of "-", plus a few generic layouts. Short formats
// carry no year; the current year is assumed, except that a December date seen
// in January belongs to the previous year. That heuristic only covers the
// immediate year boundary, not arbitrary old data.
func parseFeedDate(raw string, now time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	normalized := strings.ReplaceAll(raw, "/", "-")

	for _, layout := range []string{"15:04 02-01", "02-01"} {
		if t, err := time.Parse(layout, normalized); err == nil {
			year := now.Year()
			if t.Month() == time.December && now.Month() == time.January {
				year--
			}
			return time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), true
		}
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "02-01-2006"} {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func stringField(record map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := record[key]; ok {
			if s, ok := value.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
