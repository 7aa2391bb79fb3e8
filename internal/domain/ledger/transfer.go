package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

// TransferRequest moves an amount from one location to another under a supervisor
type TransferRequest struct {
	Amount                decimal.Decimal
	SupervisorID          uuid.UUID
	SourceLocationID      uuid.UUID
	DestinationLocationID uuid.UUID
	Description           string
}

// TransferResult holds both legs of a completed transfer
type TransferResult struct {
	GroupID uuid.UUID `json:"transfer_group_id"`
	Debit   *Entry    `json:"debit"`
	Credit  *Entry    `json:"credit"`
}

// Validate checks the request shape. Source and destination may be equal.
func (r TransferRequest) Validate() error {
	if r.SupervisorID == uuid.Nil {
		return shared.InvalidArgument("supervisor_id", "is required")
	}
	if r.SourceLocationID == uuid.Nil {
		return shared.InvalidArgument("source_location_id", "is required")
	}
	if r.DestinationLocationID == uuid.Nil {
		return shared.InvalidArgument("destination_location_id", "is required")
	}
	return validateAmount(r.Amount)
}

// BuildTransferLegs creates the debit leg at the source and the credit leg at
// the destination. Both share one group id, amount, status and timestamp.
func BuildTransferLegs(req TransferRequest, sourceName, destinationName string, now time.Time) *TransferResult {
	groupID := uuid.New()
	source := req.SourceLocationID
	destination := req.DestinationLocationID

	debitDescription := strings.TrimSpace(req.Description)
	creditDescription := debitDescription
	if debitDescription == "" {
		debitDescription = "Transferred to " + destinationName
		creditDescription = "Received from " + sourceName
	}

	leg := func(kind Kind, location uuid.UUID, peer uuid.UUID, description string) *Entry {
		g, p := groupID, peer
		return &Entry{
			ID:                     uuid.New(),
			Kind:                   kind,
			Amount:                 req.Amount,
			Description:            description,
			SupervisorID:           req.SupervisorID,
			LocationID:             location,
			Status:                 StatusPaid,
			AttachmentKind:         AttachmentNone,
			TransferPeerLocationID: &p,
			TransferGroupID:        &g,
			Items:                  []Item{},
			CreatedAt:              now,
			UpdatedAt:              now,
		}
	}

	return &TransferResult{
		GroupID: groupID,
		Debit:   leg(KindDebit, source, destination, debitDescription),
		Credit:  leg(KindCredit, destination, source, creditDescription),
	}
}

// PairTransferLegs validates the stored legs of one group and returns them as
// a result. Anything other than one debit and one credit of equal amount with
// swapped locations is an integrity fault.
func PairTransferLegs(groupID uuid.UUID, legs []*Entry) (*TransferResult, error) {
	if len(legs) == 0 {
		return nil, ErrTransferNotFound{GroupID: groupID}
	}
	if len(legs) != 2 {
		return nil, ErrIntegrityFault{GroupID: groupID, Reason: ReasonLegCount}
	}

	res := &TransferResult{GroupID: groupID}
	for _, l := range legs {
		switch l.Kind {
		case KindDebit:
			res.Debit = l
		case KindCredit:
			res.Credit = l
		}
	}
	if res.Debit == nil || res.Credit == nil {
		return nil, ErrIntegrityFault{GroupID: groupID, Reason: ReasonKinds}
	}
	if !res.Debit.Amount.Equal(res.Credit.Amount) {
		return nil, ErrIntegrityFault{GroupID: groupID, Reason: ReasonAmounts}
	}
	if !peersSwapped(res.Debit, res.Credit) {
		return nil, ErrIntegrityFault{GroupID: groupID, Reason: ReasonLocations}
	}
	return res, nil
}

func peersSwapped(debit, credit *Entry) bool {
	if debit.TransferPeerLocationID == nil || credit.TransferPeerLocationID == nil {
		return false
	}
	return *debit.TransferPeerLocationID == credit.LocationID &&
		*credit.TransferPeerLocationID == debit.LocationID
}
