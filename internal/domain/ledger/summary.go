package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

// DateRange is an inclusive created_at window. It only filters when both
// bounds are present.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// NewDateRange validates a window. One bound without the other is rejected.
func NewDateRange(from, to *time.Time) (DateRange, error) {
	if (from == nil) != (to == nil) {
		return DateRange{}, shared.InvalidArgument("range", "from and to must be supplied together")
	}
	if from != nil && from.After(*to) {
		return DateRange{}, shared.InvalidArgument("range", "from must not be after to")
	}
	return DateRange{From: from, To: to}, nil
}

// Active reports whether the range filters anything
func (r DateRange) Active() bool {
	return r.From != nil && r.To != nil
}

// Args returns the two SQL parameters, NULL when the range is open
func (r DateRange) Args() []interface{} {
	if !r.Active() {
		return []interface{}{nil, nil}
	}
	return []interface{}{r.From.UTC(), r.To.UTC()}
}

// Summary is the global money position
type Summary struct {
	Credits   decimal.Decimal `json:"credits"`
	Debits    decimal.Decimal `json:"debits"`
	Transfers decimal.Decimal `json:"transfers"`
	Balance   decimal.Decimal `json:"balance"`
}

// NewSummary derives the balance from credits and debits
func NewSummary(credits, debits, transfers decimal.Decimal) Summary {
	return Summary{
		Credits:   credits,
		Debits:    debits,
		Transfers: transfers,
		Balance:   credits.Sub(debits),
	}
}

// SupervisorBalance is the per-supervisor money position
type SupervisorBalance struct {
	SupervisorID uuid.UUID       `json:"supervisor_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Credits      decimal.Decimal `json:"credits"`
	Debits       decimal.Decimal `json:"debits"`
	Balance      decimal.Decimal `json:"balance"`
}

// NewSupervisorBalance derives the balance from credits and debits
func NewSupervisorBalance(id uuid.UUID, code, name string, credits, debits decimal.Decimal) SupervisorBalance {
	return SupervisorBalance{
		SupervisorID: id,
		Code:         code,
		Name:         name,
		Credits:      credits,
		Debits:       debits,
		Balance:      credits.Sub(debits),
	}
}

// Integrity fault reasons
const (
	ReasonLegCount  = "transfer group does not have exactly two legs"
	ReasonKinds     = "transfer group is not one debit and one credit"
	ReasonAmounts   = "transfer legs have different amounts"
	ReasonLocations = "transfer legs do not reference each other's location"
)

// TransferGroupStats is the aggregate the reconciliation query returns per group
type TransferGroupStats struct {
	GroupID      uuid.UUID
	LegCount     int
	DebitCount   int
	CreditCount  int
	AmountsMatch bool
	// PeersSwapped holds when each leg's peer location is the other leg's location
	PeersSwapped bool
	EntryIDs     []uuid.UUID
}

// IntegrityFault describes a transfer group that violates the pair invariant
type IntegrityFault struct {
	TransferGroupID uuid.UUID   `json:"transfer_group_id"`
	LegCount        int         `json:"leg_count"`
	EntryIDs        []uuid.UUID `json:"entry_ids"`
	Reason          string      `json:"reason"`
}

// Check returns the fault for a group, or nil when it is a proper pair
func (s TransferGroupStats) Check() *IntegrityFault {
	var reason string
	switch {
	case s.LegCount != 2:
		reason = ReasonLegCount
	case s.DebitCount != 1 || s.CreditCount != 1:
		reason = ReasonKinds
	case !s.AmountsMatch:
		reason = ReasonAmounts
	case !s.PeersSwapped:
		reason = ReasonLocations
	default:
		return nil
	}
	return &IntegrityFault{
		TransferGroupID: s.GroupID,
		LegCount:        s.LegCount,
		EntryIDs:        s.EntryIDs,
		Reason:          reason,
	}
}
