package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func feedRecord(status, date string) map[string]any {
	return map[string]any{"Trạng thái": status, "Ngày": date}
}

func TestAggregateStats(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	records := []map[string]any{
		feedRecord("Đã gửi thành công", "10:00 15-03"), // today, sent
		feedRecord("Đã gửi hàng", "09:00 14-03"),       // yesterday, sent
		feedRecord("Khách hủy đơn", "15-03"),           // today, returned: not in day counters
		feedRecord("Hoàn trả", "20-02"),                // last month, returned
		feedRecord("delivered", "05/02"),               // last month, sent, "/" separator
		feedRecord("Đã in bill", "15-03"),              // unclassified, skipped
		feedRecord("sent", ""),                         // no date, skipped
		feedRecord("sent", "01-01"),                    // two months back, outside both windows
	}

	counters := AggregateStats(records, now)

	assert.Equal(t, 1, counters.TodayCount)
	assert.Equal(t, 1, counters.YesterdayCount)
	assert.Equal(t, 2, counters.ThisMonthSent)
	assert.Equal(t, 1, counters.ThisMonthReturned)
	assert.Equal(t, 1, counters.LastMonthSent)
	assert.Equal(t, 1, counters.LastMonthReturned)
}

func TestAggregateStatsAlternateKeys(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	records := []map[string]any{
		{"status": "sent", "date": "2025-03-15"},
		{"Status": "returned", "created_at": "2025-03-01 08:30:00"},
	}

	counters := AggregateStats(records, now)
	assert.Equal(t, 1, counters.TodayCount)
	assert.Equal(t, 1, counters.ThisMonthSent)
	assert.Equal(t, 1, counters.ThisMonthReturned)
}

func TestClassifyStatusReturnWinsOverSent(t *testing.T) {
	// A returned shipment was also sent at some point; the return keyword must win.
	assert.Equal(t, bucketReturned, classifyStatus("Đã gửi nhưng khách trả hàng"))
	assert.Equal(t, bucketReturned, classifyStatus("Hủy sau khi gửi thành công"))
	assert.Equal(t, bucketSent, classifyStatus("Đã gửi hàng"))
	assert.Equal(t, bucketNone, classifyStatus("Đã in bill"))
	assert.Equal(t, bucketNone, classifyStatus(""))
}

func TestParseFeedDateYearBoundary(t *testing.T) {
	january := time.Date(2025, time.January, 2, 10, 0, 0, 0, time.UTC)

	date, ok := parseFeedDate("20:15 30-12", january)
	assert.True(t, ok)
	assert.Equal(t, 2024, date.Year(), "a December date seen in January belongs to the previous year")

	date, ok = parseFeedDate("01-01", january)
	assert.True(t, ok)
	assert.Equal(t, 2025, date.Year())

	march := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	date, ok = parseFeedDate("10-12", march)
	assert.True(t, ok)
	assert.Equal(t, 2025, date.Year(), "the heuristic only applies across the immediate boundary")
}

func TestParseFeedDateFormats(t *testing.T) {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	cases := map[string]bool{
		"10:30 15-03":         true,
		"15-03":               true,
		"15/03":               true,
		"2025-03-15":          true,
		"2025-03-15 10:30:00": true,
		"15-03-2025":          true,
		"hôm qua":             false,
		"":                    false,
	}

	for raw, want := range cases {
		_, ok := parseFeedDate(raw, now)
		assert.Equal(t, want, ok, "input %q", raw)
	}
}
