package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeStay(t *testing.T) {
	rate := decimal.NewFromInt(400)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time { t := now.Add(-d); return &t }

	cases := []struct {
		name       string
		bookedAt   *time.Time
		days, mons int
		cost       int64
	}{
		{"null booked_at", nil, 0, 0, 0},
		{"same day", at(5 * time.Hour), 0, 0, 0},
		{"one day", at(24 * time.Hour), 1, 1, 400},
		{"29 days", at(29 * 24 * time.Hour), 29, 1, 400},
		{"30 days", at(30 * 24 * time.Hour), 30, 1, 400},
		{"31 days", at(31 * 24 * time.Hour), 31, 2, 800},
		{"partial day floors", at(31*24*time.Hour + 23*time.Hour), 31, 2, 800},
		{"61 days", at(61 * 24 * time.Hour), 61, 3, 1200},
		{"future booked_at clamps", at(-48 * time.Hour), 0, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := ComputeStay(tc.bookedAt, now, rate)
			assert.Equal(t, tc.days, s.Days)
			assert.Equal(t, tc.mons, s.Months)
			assert.True(t, s.Cost.Equal(decimal.NewFromInt(tc.cost)), s.Cost.String())
			assert.True(t, s.MonthlyRate.Equal(rate))
		})
	}
}

func TestSemesterFee(t *testing.T) {
	price := decimal.RequireFromString("1250.50")
	assert.Equal(t, "2501", SemesterFee(2, price).String())
	assert.True(t, SemesterFee(-1, price).IsZero())
}
