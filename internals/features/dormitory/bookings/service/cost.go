package service

import (
	"time"

	"github.com/shopspring/decimal"
)

const daysPerBillingMonth = 30

// Stay is the billing snapshot taken at checkout.
type Stay struct {
	Days        int
	Months      int
	MonthlyRate decimal.Decimal
	Cost        decimal.Decimal
}

// ComputeStay: whole days since bookedAt (0 when unknown or in the future),
// months rounded up with a minimum of one once any full day has passed.
func ComputeStay(bookedAt *time.Time, now time.Time, monthlyRate decimal.Decimal) Stay {
	days := 0
	if bookedAt != nil {
		if elapsed := now.Sub(*bookedAt); elapsed > 0 {
			days = int(elapsed / (24 * time.Hour))
		}
	}

	months := 0
	if days > 0 {
		months = (days + daysPerBillingMonth - 1) / daysPerBillingMonth
	}

	return Stay{
		Days:        days,
		Months:      months,
		MonthlyRate: monthlyRate,
		Cost:        monthlyRate.Mul(decimal.NewFromInt(int64(months))),
	}
}

// SemesterFee is semester_count × the room's price per semester.
func SemesterFee(semesters int, pricePerSemester decimal.Decimal) decimal.Decimal {
	if semesters < 0 {
		semesters = 0
	}
	return pricePerSemester.Mul(decimal.NewFromInt(int64(semesters)))
}
