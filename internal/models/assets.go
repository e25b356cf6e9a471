package models

// AssetClasses fixes the order in which allocation weights, mean returns,
// volatilities and correlation rows are interpreted.
var AssetClasses = []string{
	"stocks",
	"bonds",
	"commodities",
	"gold",
	"foreign_stocks",
	"international_bonds",
}

// Default return assumptions are nominal (inflation included).
var DefaultMeanReturns = map[string]float64{
	"stocks":              0.09,
	"bonds":               0.066,
	"commodities":         0.055,
	"gold":                0.05,
	"foreign_stocks":      0.094,
	"international_bonds": 0.065,
}

// DefaultVolatility holds annual standard deviations per asset class.
var DefaultVolatility = map[string]float64{
	"stocks":              0.15,
	"bonds":               0.138,
	"commodities":         0.167,
	"gold":                0.10,
	"foreign_stocks":      0.179,
	"international_bonds": 0.148,
}

// DefaultCorrelation follows the AssetClasses ordering on both axes.
var DefaultCorrelation = [][]float64{
	{1.00, 0.22, 0.12, 0.10, 0.85, 0.20},
	{0.22, 1.00, 0.15, 0.05, 0.30, 0.80},
	{0.12, 0.15, 1.00, 0.25, 0.20, 0.15},
	{0.10, 0.05, 0.25, 1.00, 0.15, 0.10},
	{0.85, 0.30, 0.20, 0.15, 1.00, 0.35},
	{0.20, 0.80, 0.15, 0.10, 0.35, 1.00},
}

type numericLimit struct {
	Min float64
	Max float64
}

var validationLimits = map[string]numericLimit{
	"portfolio":   {Min: 0, Max: 100_000_000},
	"horizon":     {Min: 1, Max: 100},
	"age":         {Min: 10, Max: 100},
	"expenses":    {Min: 0, Max: 10_000_000},
	"income":      {Min: 0, Max: 10_000_000},
	"simulations": {Min: 100, Max: 10_000},
	"rate":        {Min: -0.1, Max: 0.15},
}

func checkLimit(value float64, field string) *APIError {
	limits := validationLimits[field]
	if value < limits.Min || value > limits.Max {
		return NewValidationError(
			field+" is out of range",
			map[string]any{
				"field": field,
				"value": value,
				"min":   limits.Min,
				"max":   limits.Max,
			},
		)
	}
	return nil
}
