// Package cashflow expands projection transactions into a daily series and
// rolls the series up into calendar buckets.
package cashflow

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lifebeyond/planner-api/internal/models"
)

// Project builds the daily cash-flow series for a validated request and
// aggregates it into weekly, monthly, quarterly and annual buckets.
func Project(req *models.ProjectionRequest) *models.ProjectionResponse {
	totalDays := req.StartDate.DaysUntil(req.EndDate) + 1
	revenues := make([]decimal.Decimal, totalDays)
	expenses := make([]decimal.Decimal, totalDays)

	for i := range req.Revenues {
		apply(&req.Revenues[i], revenues, req.StartDate, req.EndDate, 1)
	}
	for i := range req.Expenses {
		apply(&req.Expenses[i], expenses, req.StartDate, req.EndDate, -1)
	}

	daily := make([]models.CashFlowEntry, totalDays)
	for i := 0; i < totalDays; i++ {
		rev := revenues[i].Round(2)
		exp := expenses[i].Round(2)
		daily[i] = models.CashFlowEntry{
			Date:          req.StartDate.AddDays(i),
			TotalRevenues: rev.InexactFloat64(),
			TotalExpenses: exp.Abs().InexactFloat64(),
			NetCashFlow:   rev.Add(exp).InexactFloat64(),
		}
	}

	return &models.ProjectionResponse{
		Daily:     daily,
		Weekly:    Aggregate(daily, "weekly"),
		Monthly:   Aggregate(daily, "monthly"),
		Quarterly: Aggregate(daily, "quarterly"),
		Annual:    Aggregate(daily, "annual"),
	}
}

// apply adds a transaction's occurrences to the daily slice. Occurrences
// outside the horizon are clamped away; sign is +1 for revenues and -1 for
// expenses.
func apply(t *models.Transaction, series []decimal.Decimal, horizonStart, horizonEnd models.Date, sign int64) {
	effectiveStart := t.StartDate
	if effectiveStart.Before(horizonStart.Time) {
		effectiveStart = horizonStart
	}
	effectiveEnd := horizonEnd
	if t.EndDate != nil && t.EndDate.Before(horizonEnd.Time) {
		effectiveEnd = *t.EndDate
	}
	if effectiveStart.After(effectiveEnd.Time) {
		return
	}

	amount := decimal.NewFromFloat(t.Amount).Mul(decimal.NewFromInt(sign))
	if t.Type == models.OneTime {
		if idx := horizonStart.DaysUntil(effectiveStart); idx >= 0 && idx < len(series) {
			series[idx] = series[idx].Add(amount)
		}
		return
	}

	for d := effectiveStart; !d.After(effectiveEnd.Time); d = NextDate(d, t.Frequency) {
		if idx := horizonStart.DaysUntil(d); idx >= 0 && idx < len(series) {
			series[idx] = series[idx].Add(amount)
		}
	}
}

// NextDate advances a date by one frequency step. Month-based steps clamp to
// the last day of the target month, so a Jan 31 monthly schedule lands on
// Feb 28 rather than spilling into March.
func NextDate(d models.Date, freq models.Frequency) models.Date {
	switch freq {
	case models.Daily:
		return d.AddDays(1)
	case models.Weekly:
		return d.AddDays(7)
	case models.Monthly:
		return addMonths(d, 1)
	case models.Quarterly:
		return addMonths(d, 3)
	case models.Annual:
		return addMonths(d, 12)
	}
	return d.AddDays(1)
}

func addMonths(d models.Date, months int) models.Date {
	year, month, day := d.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return models.NewDate(first.Year(), first.Month(), day)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Aggregate sums daily entries into buckets of the given period. Weekly
// buckets are 7-day windows anchored at the first entry; the other periods
// align to the calendar.
func Aggregate(daily []models.CashFlowEntry, period string) []models.AggregatedCashFlow {
	if len(daily) == 0 {
		return []models.AggregatedCashFlow{}
	}

	var out []models.AggregatedCashFlow
	var revenue, expense, net decimal.Decimal
	periodStart := daily[0].Date
	periodEnd := daily[0].Date

	flush := func() {
		out = append(out, models.AggregatedCashFlow{
			Period:        capitalize(period),
			StartDate:     periodStart,
			EndDate:       periodEnd,
			TotalRevenues: revenue.Round(2).InexactFloat64(),
			TotalExpenses: expense.Round(2).InexactFloat64(),
			NetCashFlow:   net.Round(2).InexactFloat64(),
		})
	}

	for _, entry := range daily {
		if !samePeriod(entry.Date, period, periodStart) {
			flush()
			revenue, expense, net = decimal.Zero, decimal.Zero, decimal.Zero
			periodStart = entry.Date
		}
		revenue = revenue.Add(decimal.NewFromFloat(entry.TotalRevenues))
		expense = expense.Add(decimal.NewFromFloat(entry.TotalExpenses))
		net = net.Add(decimal.NewFromFloat(entry.NetCashFlow))
		periodEnd = entry.Date
	}
	flush()
	return out
}

func samePeriod(d models.Date, period string, periodStart models.Date) bool {
	switch period {
	case "weekly":
		days := periodStart.DaysUntil(d)
		return days >= 0 && days <= 6
	case "monthly":
		return d.Month() == periodStart.Month() && d.Year() == periodStart.Year()
	case "quarterly":
		return quarterOf(d) == quarterOf(periodStart) && d.Year() == periodStart.Year()
	case "annual":
		return d.Year() == periodStart.Year()
	}
	return false
}

func quarterOf(d models.Date) int {
	return (int(d.Month())-1)/3 + 1
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
