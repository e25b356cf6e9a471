// Package simulation runs Monte Carlo projections of portfolio balances over
// a planning horizon.
package simulation

import (
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/lifebeyond/planner-api/internal/models"
)

// Engine draws stochastic growth paths for a portfolio. Safe for sequential
// use; each Run consumes from the engine's random source.
type Engine struct {
	log *logrus.Logger
	src rand.Source
}

// NewEngine initializes an engine with the given random source.
func NewEngine(log *logrus.Logger, src rand.Source) *Engine {
	return &Engine{log: log, src: src}
}

// Run simulates u.NumSimulations balance paths over u.PlanningHorizon years.
// u must already be validated.
func (e *Engine) Run(u *models.UserData) *models.SimulationResult {
	years := u.PlanningHorizon
	trials := u.NumSimulations
	sampler := newReturnSampler(u, e.src)

	// The net cash flow of a year is deterministic, so compute it once
	// instead of once per trial.
	netFlows := make([]float64, years)
	for year := 0; year < years; year++ {
		netFlows[year] = netCashFlow(year, u)
	}

	paths := make([][]float64, trials)
	for trial := 0; trial < trials; trial++ {
		path := make([]float64, years)
		value := u.StartingPortfolio
		for year := 0; year < years; year++ {
			value *= 1 + sampler.portfolioReturn()
			value -= netFlows[year]
			if value < 0 {
				value = 0
			}
			path[year] = value
		}
		paths[trial] = path
	}

	result := &models.SimulationResult{
		Disclaimer:           models.ResultDisclaimer,
		RiskOfDepletion:      DepletionRisk(paths),
		MedianFinalPortfolio: MedianFinal(paths),
		PortfolioPaths:       paths,
	}
	e.log.WithFields(logrus.Fields{
		"trials":            trials,
		"years":             years,
		"risk_of_depletion": result.RiskOfDepletion,
	}).Debug("simulation finished")
	return result
}
