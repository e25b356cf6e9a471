package models

// TransactionType distinguishes single payments from recurring schedules.
type TransactionType string

const (
	OneTime   TransactionType = "one-time"
	Repeating TransactionType = "repeating"
)

// Frequency is the recurrence step of a repeating transaction.
type Frequency string

const (
	Daily     Frequency = "daily"
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Annual    Frequency = "annual"
)

// Transaction is a named cash movement inside a projection request.
type Transaction struct {
	Name      string          `json:"name"`
	Amount    float64         `json:"amount"`
	Type      TransactionType `json:"type"`
	Frequency Frequency       `json:"frequency,omitempty"`
	StartDate Date            `json:"start_date"`
	EndDate   *Date           `json:"end_date,omitempty"`
}

// Validate checks the transaction's internal consistency.
func (t *Transaction) Validate() *APIError {
	if t.Amount <= 0 {
		return NewValidationError("transaction amount must be greater than 0", map[string]any{
			"transaction": t.Name,
			"amount":      t.Amount,
		})
	}
	switch t.Type {
	case OneTime:
		if t.Frequency != "" {
			return NewValidationError("frequency should not be set for one-time transactions", map[string]any{
				"transaction": t.Name,
			})
		}
	case Repeating:
		switch t.Frequency {
		case Daily, Weekly, Monthly, Quarterly, Annual:
		case "":
			return NewValidationError("frequency is required for repeating transactions", map[string]any{
				"transaction": t.Name,
			})
		default:
			return NewValidationError("unsupported frequency", map[string]any{
				"transaction": t.Name,
				"frequency":   string(t.Frequency),
			})
		}
	default:
		return NewValidationError("transaction type must be one-time or repeating", map[string]any{
			"transaction": t.Name,
			"type":        string(t.Type),
		})
	}
	if t.StartDate.IsZero() {
		return NewValidationError("start_date is required", map[string]any{
			"transaction": t.Name,
		})
	}
	if t.EndDate != nil && t.EndDate.Before(t.StartDate.Time) {
		return NewValidationError("end_date cannot be before start_date", map[string]any{
			"transaction": t.Name,
			"start_date":  t.StartDate,
			"end_date":    t.EndDate,
		})
	}
	return nil
}

// ProjectionRequest describes a cash-flow forecast over a date horizon.
type ProjectionRequest struct {
	Expenses  []Transaction `json:"expenses"`
	Revenues  []Transaction `json:"revenues"`
	StartDate Date          `json:"start_date"`
	EndDate   Date          `json:"end_date"`
}

// Validate checks the horizon and every transaction in the request.
func (p *ProjectionRequest) Validate() *APIError {
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return NewValidationError("start_date and end_date are required", nil)
	}
	if p.EndDate.Before(p.StartDate.Time) {
		return NewValidationError("end_date cannot be before start_date", map[string]any{
			"start_date": p.StartDate,
			"end_date":   p.EndDate,
		})
	}
	for i := range p.Revenues {
		if err := p.Revenues[i].Validate(); err != nil {
			return err
		}
	}
	for i := range p.Expenses {
		if err := p.Expenses[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CashFlowEntry is the net cash movement of a single day.
type CashFlowEntry struct {
	Date          Date    `json:"date"`
	TotalRevenues float64 `json:"total_revenues"`
	TotalExpenses float64 `json:"total_expenses"`
	NetCashFlow   float64 `json:"net_cash_flow"`
}

// AggregatedCashFlow sums daily entries over a calendar bucket.
type AggregatedCashFlow struct {
	Period        string  `json:"period"`
	StartDate     Date    `json:"start_date"`
	EndDate       Date    `json:"end_date"`
	TotalRevenues float64 `json:"total_revenues"`
	TotalExpenses float64 `json:"total_expenses"`
	NetCashFlow   float64 `json:"net_cash_flow"`
}

// ProjectionResponse carries the daily series and its rollups.
type ProjectionResponse struct {
	Daily     []CashFlowEntry      `json:"daily"`
	Weekly    []AggregatedCashFlow `json:"weekly"`
	Monthly   []AggregatedCashFlow `json:"monthly"`
	Quarterly []AggregatedCashFlow `json:"quarterly"`
	Annual    []AggregatedCashFlow `json:"annual"`
}
