package simulation

import (
	"io"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/lifebeyond/planner-api/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testEngine() *Engine {
	return NewEngine(testLogger(), rand.NewPCG(1, 2))
}

func onesMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			m[i][j] = 1
		}
	}
	return m
}

// deterministicUserData has zero volatility everywhere, so every path is the
// same compounding sequence.
func deterministicUserData() models.UserData {
	u := models.DefaultUserData()
	u.StartingPortfolio = 1_000_000
	u.PlanningHorizon = 10
	u.Age = 45
	u.DefaultExpenses = 50_000
	u.DefaultIncome = 0
	u.SocialSecurityAmount = 0
	u.InflationRate = 0
	u.ExpenseGrowthRate = 0
	u.IncomeGrowthRate = 0
	u.NumSimulations = 100
	u.AssetAllocation = map[string]float64{
		"stocks": 0.5, "bonds": 0.5, "commodities": 0, "gold": 0,
		"foreign_stocks": 0, "international_bonds": 0,
	}
	u.MeanReturns = []float64{0.05, 0.05, 0, 0, 0, 0}
	u.Volatility = []float64{0, 0, 0, 0, 0, 0}
	u.CorrelationMatrix = onesMatrix(6)
	return u
}

func TestRunDeterministicPortfolio(t *testing.T) {
	u := deterministicUserData()
	result := testEngine().Run(&u)

	require.Len(t, result.PortfolioPaths, 100)
	// 5% growth against a 50,000 withdrawal keeps the balance flat at 1M.
	expected := 1_000_000.0
	for _, path := range result.PortfolioPaths {
		require.Len(t, path, 10)
		value := expected
		for year := 0; year < 10; year++ {
			value = value*1.05 - 50_000
			assert.InDelta(t, value, path[year], 1e-6)
		}
	}
	assert.Zero(t, result.RiskOfDepletion)
	assert.InDelta(t, 1_000_000, result.MedianFinalPortfolio, 1e-6)
	assert.Equal(t, models.ResultDisclaimer, result.Disclaimer)
}

func TestRunCertainDepletion(t *testing.T) {
	u := deterministicUserData()
	u.DefaultExpenses = 500_000
	result := testEngine().Run(&u)

	assert.Equal(t, 1.0, result.RiskOfDepletion)
	assert.Zero(t, result.MedianFinalPortfolio)
	// Balances floor at zero but paths keep their full length.
	for _, path := range result.PortfolioPaths {
		assert.Len(t, path, 10)
		assert.Zero(t, path[len(path)-1])
	}
}

func TestNetCashFlowSocialSecurityTransition(t *testing.T) {
	u := models.DefaultUserData()
	u.Age = 65
	u.DefaultExpenses = 50_000
	u.DefaultIncome = 0
	u.SocialSecurityAge = 67
	u.SocialSecurityAmount = 30_000
	u.InflationRate = 0
	u.ExpenseGrowthRate = 0
	u.IncomeGrowthRate = 0

	// Year 1: age 66, no social security yet.
	assert.InDelta(t, 50_000, netCashFlow(1, &u), 1e-9)
	// Year 3: age 68, benefits offset withdrawals.
	assert.InDelta(t, 20_000, netCashFlow(3, &u), 1e-9)
}

func TestNetCashFlowInflatesSocialSecurity(t *testing.T) {
	u := models.DefaultUserData()
	u.Age = 70
	u.DefaultExpenses = 0
	u.SocialSecurityAge = 67
	u.SocialSecurityAmount = 10_000
	u.InflationRate = 0.02
	u.ExpenseGrowthRate = 0
	u.IncomeGrowthRate = 0

	want := -10_000 * math.Pow(1.02, 5)
	assert.InDelta(t, want, netCashFlow(5, &u), 1e-9)
}

func TestFutureNominalValue(t *testing.T) {
	custom := map[int]float64{2: 40_000, 6: 60_000}

	tests := []struct {
		name        string
		year        int
		interpolate bool
		want        float64
	}{
		{"no custom year uses default", 1, false, 50_000 * 1.02},
		{"exact custom year", 2, false, 40_000 * math.Pow(1.02, 2)},
		{"between points without interpolation", 4, false, 50_000 * math.Pow(1.02, 4)},
		{"between points with interpolation", 4, true, 50_000 * math.Pow(1.02, 4)},
		{"below first point with interpolation", 1, true, 50_000 * 1.02},
		{"beyond last point grows last value", 8, true, 60_000 * math.Pow(1.02, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := futureNominalValue(tt.year, custom, 50_000, 0.02, tt.interpolate)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestFutureNominalValueNoCustom(t *testing.T) {
	got := futureNominalValue(3, nil, 50_000, 0.02, true)
	assert.InDelta(t, 50_000*math.Pow(1.02, 3), got, 1e-9)
}

func TestSamplerMeanMatchesAllocationWeightedReturn(t *testing.T) {
	u := models.DefaultUserData()
	sampler := newReturnSampler(&u, rand.NewPCG(7, 11))

	draws := make([]float64, 20_000)
	for i := range draws {
		draws[i] = sampler.portfolioReturn()
	}

	expected := 0.0
	for _, asset := range models.AssetClasses {
		expected += u.AssetAllocation[asset] * models.DefaultMeanReturns[asset]
	}
	assert.InDelta(t, expected, stat.Mean(draws, nil), 0.01)
}

func TestSamplerSingularCorrelationPreservesStructure(t *testing.T) {
	// Stocks and bonds perfectly correlated with nonzero volatility: the
	// covariance is singular, but draws must still move the two assets in
	// lockstep rather than independently.
	corr := make([][]float64, 6)
	for i := range corr {
		corr[i] = make([]float64, 6)
		corr[i][i] = 1
	}
	corr[0][1], corr[1][0] = 1, 1

	u := models.DefaultUserData()
	u.AssetAllocation = map[string]float64{
		"stocks": 0.5, "bonds": 0.5, "commodities": 0, "gold": 0,
		"foreign_stocks": 0, "international_bonds": 0,
	}
	u.MeanReturns = []float64{0.05, 0.08, 0, 0, 0, 0}
	u.Volatility = []float64{0.1, 0.2, 0, 0, 0, 0}
	u.CorrelationMatrix = corr

	sampler := newReturnSampler(&u, rand.NewPCG(13, 17))
	require.Nil(t, sampler.normal)
	require.NotNil(t, sampler.transform)

	sawMovement := false
	for i := 0; i < 200; i++ {
		sampler.portfolioReturn()
		stocks := sampler.buf[0] - 0.05
		bonds := sampler.buf[1] - 0.08
		// Equal correlation with a 2x volatility ratio: the bond shock is
		// exactly twice the stock shock on every draw.
		assert.InDelta(t, 2*stocks, bonds, 1e-9)
		if math.Abs(stocks) > 1e-6 {
			sawMovement = true
		}
	}
	assert.True(t, sawMovement, "volatile assets should not draw flat")
}

func TestSamplerDegenerateCovarianceReturnsMeans(t *testing.T) {
	u := deterministicUserData()
	sampler := newReturnSampler(&u, rand.NewPCG(3, 5))

	for i := 0; i < 10; i++ {
		assert.InDelta(t, 0.05, sampler.portfolioReturn(), 1e-12)
	}
}

func TestDepletionRisk(t *testing.T) {
	tests := []struct {
		name  string
		paths [][]float64
		want  float64
	}{
		{"empty", nil, 0},
		{"none depleted", [][]float64{{10, 20}, {5, 5}}, 0},
		{"half depleted", [][]float64{{10, 0}, {5, 5}}, 0.5},
		{"mid-path depletion counts", [][]float64{{0, 100}, {1, 1}, {2, 2}, {3, 3}}, 0.25},
		{"all depleted", [][]float64{{0}, {0}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DepletionRisk(tt.paths)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestMedianFinal(t *testing.T) {
	tests := []struct {
		name  string
		paths [][]float64
		want  float64
	}{
		{"empty", nil, 0},
		{"odd count", [][]float64{{1, 30}, {1, 10}, {1, 20}}, 20},
		{"even count averages middle pair", [][]float64{{40}, {10}, {20}, {30}}, 25},
		{"single path", [][]float64{{7, 42}}, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MedianFinal(tt.paths))
		})
	}
}
