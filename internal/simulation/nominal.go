package simulation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/lifebeyond/planner-api/internal/models"
)

// futureNominalValue converts a today's-dollars amount into the nominal
// amount for the given simulation year. Custom per-year values take
// precedence over the default; with interpolation enabled, years between
// custom points are linearly interpolated before growth is applied.
func futureNominalValue(year int, custom map[int]float64, defaultValue, growthRate float64, interpolate bool) float64 {
	growth := math.Pow(1+growthRate, float64(year))

	if len(custom) == 0 {
		return defaultValue * growth
	}
	if v, ok := custom[year]; ok {
		return v * growth
	}
	if !interpolate {
		return defaultValue * growth
	}

	years := make([]int, 0, len(custom))
	for y := range custom {
		years = append(years, y)
	}
	sort.Ints(years)

	if year < years[0] {
		return defaultValue * growth
	}
	if year > years[len(years)-1] {
		return custom[years[len(years)-1]] * growth
	}

	xs := make([]float64, len(years))
	ys := make([]float64, len(years))
	for i, y := range years {
		xs[i] = float64(y)
		ys[i] = custom[y]
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return defaultValue * growth
	}
	return pl.Predict(float64(year)) * growth
}

// totalIncome is the nominal income for a simulation year, including social
// security once the user reaches eligibility age. Social security amounts
// are quoted in real dollars, so they are inflated before being added.
func totalIncome(year int, u *models.UserData) float64 {
	income := futureNominalValue(year, u.CustomIncome, u.DefaultIncome, u.IncomeGrowthRate, u.UseIncomeInterpolation)
	if u.Age+year >= u.SocialSecurityAge {
		income += u.SocialSecurityAmount * math.Pow(1+u.InflationRate, float64(year))
	}
	return income
}

// netCashFlow is expenses minus income for the year; positive means a
// withdrawal from the portfolio, negative a contribution.
func netCashFlow(year int, u *models.UserData) float64 {
	expenses := futureNominalValue(year, u.CustomExpenses, u.DefaultExpenses, u.ExpenseGrowthRate, u.UseExpenseInterpolation)
	return expenses - totalIncome(year, u)
}
