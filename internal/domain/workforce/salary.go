package workforce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

// Salary is a monthly payment to a supervisor. (SupervisorID, Month, Year) is unique.
type Salary struct {
	ID           uuid.UUID       `json:"id"`
	SupervisorID uuid.UUID       `json:"supervisor_id"`
	Amount       decimal.Decimal `json:"amount"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	PaidDate     time.Time       `json:"paid_date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// SalaryPatch carries the fields supplied on update
type SalaryPatch struct {
	Amount   shared.Optional[decimal.Decimal] `json:"amount"`
	Month    shared.Optional[int]             `json:"month"`
	Year     shared.Optional[int]             `json:"year"`
	PaidDate shared.Optional[time.Time]       `json:"paid_date"`
}

// SalaryHistory is a supervisor's salary list with totals
type SalaryHistory struct {
	Records      []*Salary       `json:"records"`
	TotalRecords int             `json:"total_records"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// NewSalary validates and builds a salary record. A nil paid date defaults to now.
func NewSalary(supervisorID uuid.UUID, amount decimal.Decimal, month, year int, paidDate *time.Time) (*Salary, error) {
	if supervisorID == uuid.Nil {
		return nil, shared.InvalidArgument("supervisor_id", "is required")
	}
	if err := validateSalary(amount, month, year); err != nil {
		return nil, err
	}

	now := shared.Now()
	paid := now
	if paidDate != nil {
		paid = paidDate.UTC()
	}
	return &Salary{
		ID:           uuid.New(),
		SupervisorID: supervisorID,
		Amount:       amount,
		Month:        month,
		Year:         year,
		PaidDate:     paid,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Apply merges a patch and revalidates the record
func (s *Salary) Apply(p SalaryPatch) error {
	if p.Amount.Null {
		return shared.InvalidArgument("amount", "must not be null")
	}
	amount, month, year := p.Amount.Or(s.Amount), p.Month.Or(s.Month), p.Year.Or(s.Year)
	if err := validateSalary(amount, month, year); err != nil {
		return err
	}
	s.Amount, s.Month, s.Year = amount, month, year
	if p.PaidDate.Set && !p.PaidDate.Value.IsZero() {
		s.PaidDate = p.PaidDate.Value.UTC()
	}
	s.UpdatedAt = shared.Now()
	return nil
}

// NewSalaryHistory totals a list of records
func NewSalaryHistory(records []*Salary) SalaryHistory {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	if records == nil {
		records = []*Salary{}
	}
	return SalaryHistory{Records: records, TotalRecords: len(records), TotalAmount: total}
}

func validateSalary(amount decimal.Decimal, month, year int) error {
	if err := shared.ValidateAmount("amount", amount); err != nil {
		return err
	}
	if month < 1 || month > 12 {
		return shared.InvalidArgument("month", "must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return shared.InvalidArgument("year", "must be between 2000 and 2100")
	}
	return nil
}
