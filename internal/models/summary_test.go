package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummaryRecordDerivedMetrics(t *testing.T) {
	r := SummaryRecord{
		TotalRevenue:    100_000_000,
		CancelledAmount: 5_000_000,
		ReturnedAmount:  3_000_000,
		AdSpend:         10_000_000,
	}

	assert.InDelta(t, 92_000_000, r.RealRevenue(), 0.01)
	assert.InDelta(t, 82_000_000, r.NetProfit(), 0.01)

	// adRate = 10% < 20%: rate = (20-10)/2 + 5 = 10%
	assert.InDelta(t, 8_200_000, r.Commission(), 0.01)
}

func TestSummaryRecordCommissionHighAdSpend(t *testing.T) {
	r := SummaryRecord{
		TotalRevenue: 100_000_000,
		AdSpend:      30_000_000,
	}

	// adRate = 30% >= 20%: the flat 5% rate applies.
	assert.InDelta(t, 0.05*r.NetProfit(), r.Commission(), 0.01)
}

func TestSummaryRecordCommissionZeroCases(t *testing.T) {
	loss := SummaryRecord{TotalRevenue: 1_000_000, AdSpend: 2_000_000}
	assert.Zero(t, loss.Commission(), "no commission on a losing month")

	empty := SummaryRecord{}
	assert.Zero(t, empty.Commission())
}

func TestUserHasPermission(t *testing.T) {
	admin := User{Role: "admin"}
	assert.True(t, admin.HasPermission(PermViewSummary), "admins get every permission implicitly")

	user := User{Role: "user", Permissions: []string{PermViewOrders}}
	assert.True(t, user.HasPermission(PermViewOrders))
	assert.False(t, user.HasPermission(PermEditOrders))
}
