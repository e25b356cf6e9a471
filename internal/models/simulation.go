package models

import "math"

// UserData is the full parameter set of a portfolio simulation. Decode JSON
// into the value returned by DefaultUserData so absent fields keep their
// defaults.
type UserData struct {
	StartingPortfolio    float64            `json:"starting_portfolio"`
	PlanningHorizon      int                `json:"planning_horizon"`
	Age                  int                `json:"age"`
	DefaultExpenses      float64            `json:"default_expenses"`
	DefaultIncome        float64            `json:"default_income"`
	CustomExpenses       map[int]float64    `json:"custom_expenses"`
	CustomIncome         map[int]float64    `json:"custom_income"`
	SocialSecurityAge    int                `json:"social_security_age"`
	SocialSecurityAmount float64            `json:"social_security_amount"`
	InflationRate        float64            `json:"inflation_rate"`
	NumSimulations       int                `json:"num_simulations"`
	ExpenseGrowthRate    float64            `json:"expense_growth_rate"`
	IncomeGrowthRate     float64            `json:"income_growth_rate"`
	AssetAllocation      map[string]float64 `json:"asset_allocation"`

	// Optional overrides, interpreted in AssetClasses order. Nil means the
	// package defaults apply.
	MeanReturns       []float64   `json:"mean_returns,omitempty"`
	Volatility        []float64   `json:"volatility,omitempty"`
	CorrelationMatrix [][]float64 `json:"correlation_matrix,omitempty"`

	UseExpenseInterpolation bool `json:"use_expense_interpolation"`
	UseIncomeInterpolation  bool `json:"use_income_interpolation"`
}

// EqualWeightAllocation spreads the portfolio evenly across all asset
// classes.
func EqualWeightAllocation() map[string]float64 {
	allocation := make(map[string]float64, len(AssetClasses))
	for _, asset := range AssetClasses {
		allocation[asset] = 1.0 / float64(len(AssetClasses))
	}
	return allocation
}

// DefaultUserData returns a UserData with every field at its default.
func DefaultUserData() UserData {
	return UserData{
		StartingPortfolio:    1_700_000,
		PlanningHorizon:      40,
		Age:                  45,
		DefaultExpenses:      50_000,
		DefaultIncome:        0,
		SocialSecurityAge:    67,
		SocialSecurityAmount: 10_000,
		InflationRate:        0.02,
		NumSimulations:       1000,
		ExpenseGrowthRate:    0.02,
		IncomeGrowthRate:     0.03,
		AssetAllocation:      EqualWeightAllocation(),
	}
}

// Validate rejects parameter sets outside the supported ranges.
func (u *UserData) Validate() *APIError {
	if len(u.AssetAllocation) == 0 {
		return NewValidationError("asset allocation is required", map[string]any{
			"field":      "asset_allocation",
			"constraint": "must not be empty",
		})
	}
	if u.StartingPortfolio <= 0 {
		return NewValidationError("starting portfolio must be greater than 0", map[string]any{
			"field":          "starting_portfolio",
			"constraint":     "must be positive",
			"provided_value": u.StartingPortfolio,
		})
	}
	if u.PlanningHorizon <= 0 {
		return NewValidationError("planning horizon must be greater than 0", map[string]any{
			"field":          "planning_horizon",
			"constraint":     "must be positive",
			"provided_value": u.PlanningHorizon,
		})
	}
	if err := checkLimit(u.StartingPortfolio, "portfolio"); err != nil {
		return err
	}
	if err := checkLimit(float64(u.PlanningHorizon), "horizon"); err != nil {
		return err
	}
	if err := checkLimit(float64(u.Age), "age"); err != nil {
		return err
	}
	if err := checkLimit(u.DefaultExpenses, "expenses"); err != nil {
		return err
	}
	if err := checkLimit(u.DefaultIncome, "income"); err != nil {
		return err
	}
	if err := checkLimit(float64(u.NumSimulations), "simulations"); err != nil {
		return err
	}
	for _, rate := range []struct {
		name  string
		value float64
	}{
		{"inflation_rate", u.InflationRate},
		{"expense_growth_rate", u.ExpenseGrowthRate},
		{"income_growth_rate", u.IncomeGrowthRate},
	} {
		if err := checkLimit(rate.value, "rate"); err != nil {
			err.Details["field"] = rate.name
			return err
		}
	}
	if err := u.validateAllocation(); err != nil {
		return err
	}
	n := len(AssetClasses)
	if u.MeanReturns != nil && len(u.MeanReturns) != n {
		return NewValidationError("mean returns list must match the number of asset classes", map[string]any{
			"expected_length": n,
			"provided_length": len(u.MeanReturns),
		})
	}
	if u.Volatility != nil && len(u.Volatility) != n {
		return NewValidationError("volatility list must match the number of asset classes", map[string]any{
			"expected_length": n,
			"provided_length": len(u.Volatility),
		})
	}
	if u.CorrelationMatrix != nil {
		if len(u.CorrelationMatrix) != n {
			return correlationSizeError(n)
		}
		for _, row := range u.CorrelationMatrix {
			if len(row) != n {
				return correlationSizeError(n)
			}
		}
	}
	return nil
}

func (u *UserData) validateAllocation() *APIError {
	known := make(map[string]bool, len(AssetClasses))
	for _, asset := range AssetClasses {
		known[asset] = true
	}
	total := 0.0
	for asset, weight := range u.AssetAllocation {
		if !known[asset] {
			return NewValidationError("unknown asset class in allocation", map[string]any{
				"asset": asset,
			})
		}
		total += weight
	}
	if math.Abs(total-1.0) >= 0.0001 {
		return NewValidationError("asset allocation must sum to 1.0 (100%)", map[string]any{
			"current_sum": total,
			"allocation":  u.AssetAllocation,
		})
	}
	return nil
}

func correlationSizeError(n int) *APIError {
	return NewValidationError("correlation matrix must be square and match the asset classes", map[string]any{
		"expected_size": n,
	})
}

// SimulationResult aggregates outcomes across all simulated paths.
type SimulationResult struct {
	Disclaimer           string      `json:"disclaimer"`
	RiskOfDepletion      float64     `json:"risk_of_depletion"`
	MedianFinalPortfolio float64     `json:"median_final_portfolio"`
	PortfolioPaths       [][]float64 `json:"portfolio_paths"`
}

// Disclaimer attached to every simulation response.
const ResultDisclaimer = "Tool is for testing only. Results are not financial advice."
