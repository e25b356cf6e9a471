package service

import (
	"github.com/sirupsen/logrus"

	"github.com/lifebeyond/planner-api/internal/cashflow"
	"github.com/lifebeyond/planner-api/internal/models"
	"github.com/lifebeyond/planner-api/internal/simulation"
)

// Service handles business logic
type Service struct {
	engine *simulation.Engine
	log    *logrus.Logger
}

// NewService initializes a new service
func NewService(engine *simulation.Engine, log *logrus.Logger) *Service {
	return &Service{engine: engine, log: log}
}

// ForecastCashFlow validates a projection request and expands it into daily
// and aggregated cash-flow series.
func (s *Service) ForecastCashFlow(req *models.ProjectionRequest) (*models.ProjectionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp := cashflow.Project(req)
	s.log.WithFields(logrus.Fields{
		"days":     len(resp.Daily),
		"revenues": len(req.Revenues),
		"expenses": len(req.Expenses),
	}).Info("cash-flow projection generated")
	return resp, nil
}

// Simulate validates the simulation parameters and runs the Monte Carlo
// engine.
func (s *Service) Simulate(u *models.UserData) (*models.SimulationResult, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	result := s.engine.Run(u)
	s.log.WithFields(logrus.Fields{
		"trials":            u.NumSimulations,
		"horizon":           u.PlanningHorizon,
		"risk_of_depletion": result.RiskOfDepletion,
	}).Info("portfolio simulation completed")
	return result, nil
}
