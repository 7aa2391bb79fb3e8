package ledger

import (
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

// Kind is the direction of a ledger entry
type Kind string

const (
	KindCredit Kind = "credit"
	KindDebit  Kind = "debit"
)

// RequestTypeInternalTransfer is accepted wherever an entry kind is and is
// routed to the transfer protocol, which persists two legs.
const RequestTypeInternalTransfer = "internal_transfer"

// KindDetailTransferLeg labels legs created by a transfer in API views
const KindDetailTransferLeg = "internal_transfer_leg"

// ParseKind validates a stored or requested kind
func ParseKind(raw string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(raw))); k {
	case KindCredit, KindDebit:
		return k, nil
	case "":
		return "", shared.InvalidArgument("kind", "is required")
	default:
		return "", shared.InvalidArgument("kind", "must be credit or debit")
	}
}

// Status is the settlement state of an entry
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusPartial Status = "partial"
)

// ParseStatus validates a status, empty input yields the paid default
func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case "":
		return StatusPaid, nil
	case StatusPaid, StatusPending, StatusPartial:
		return s, nil
	default:
		return "", shared.InvalidArgument("status", "must be paid, pending or partial")
	}
}

// AttachmentKind classifies the stored attachment
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentPDF   AttachmentKind = "pdf"
	AttachmentNone  AttachmentKind = "none"
)

// ClassifyAttachment maps a content type to an attachment kind
func ClassifyAttachment(contentType string) AttachmentKind {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return AttachmentNone
	}
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return AttachmentImage
	case mediaType == "application/pdf":
		return AttachmentPDF
	default:
		return AttachmentNone
	}
}

// Entry is a single money movement booked against a location and supervisor
type Entry struct {
	ID                     uuid.UUID       `json:"id"`
	Kind                   Kind            `json:"kind"`
	Amount                 decimal.Decimal `json:"amount"`
	Description            string          `json:"description"`
	SupervisorID           uuid.UUID       `json:"supervisor_id"`
	LocationID             uuid.UUID       `json:"location_id"`
	Status                 Status          `json:"status"`
	AttachmentRef          string          `json:"attachment_ref,omitempty"`
	AttachmentKind         AttachmentKind  `json:"attachment_kind"`
	TransferPeerLocationID *uuid.UUID      `json:"transfer_peer_location_id,omitempty"`
	TransferGroupID        *uuid.UUID      `json:"transfer_group_id,omitempty"`
	// IntegrityFault is set on reads when the entry's transfer group is not a pair
	IntegrityFault bool      `json:"integrity_fault,omitempty"`
	Items          []Item    `json:"items"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// EntryPatch carries the fields supplied on update. Unset fields keep their value.
type EntryPatch struct {
	Kind         shared.Optional[Kind]            `json:"kind"`
	Amount       shared.Optional[decimal.Decimal] `json:"amount"`
	Description  shared.Optional[string]          `json:"description"`
	SupervisorID shared.Optional[uuid.UUID]       `json:"supervisor_id"`
	LocationID   shared.Optional[uuid.UUID]       `json:"location_id"`
	Status       shared.Optional[Status]          `json:"status"`
}

// NewEntry validates and builds a direct credit or debit entry
func NewEntry(kind Kind, amount decimal.Decimal, description string, supervisorID, locationID uuid.UUID, status Status) (*Entry, error) {
	k, err := ParseKind(string(kind))
	if err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if supervisorID == uuid.Nil {
		return nil, shared.InvalidArgument("supervisor_id", "is required")
	}
	if locationID == uuid.Nil {
		return nil, shared.InvalidArgument("location_id", "is required")
	}
	st, err := ParseStatus(string(status))
	if err != nil {
		return nil, err
	}

	now := shared.Now()
	return &Entry{
		ID:             uuid.New(),
		Kind:           k,
		Amount:         amount,
		Description:    strings.TrimSpace(description),
		SupervisorID:   supervisorID,
		LocationID:     locationID,
		Status:         st,
		AttachmentKind: AttachmentNone,
		Items:          []Item{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// IsTransferLeg reports whether the entry was created by the transfer protocol
func (e *Entry) IsTransferLeg() bool {
	return e.TransferGroupID != nil
}

// KindDetail is the kind shown to API clients
func (e *Entry) KindDetail() string {
	if e.IsTransferLeg() {
		return KindDetailTransferLeg
	}
	return string(e.Kind)
}

// HasAttachment reports whether a blob is referenced
func (e *Entry) HasAttachment() bool {
	return e.AttachmentRef != ""
}

// Apply merges a patch into the entry. Transfer legs only accept description
// and status changes so the pair stays balanced.
func (e *Entry) Apply(p EntryPatch) error {
	if e.IsTransferLeg() && p.changesPairing(e) {
		return shared.InvalidArgument("transfer_leg", "only description and status can change on a transfer leg")
	}

	if p.Kind.Set {
		k, err := ParseKind(string(p.Kind.Value))
		if err != nil {
			return err
		}
		e.Kind = k
	}
	if p.Amount.Set {
		if p.Amount.Null {
			return shared.InvalidArgument("amount", "must not be null")
		}
		if err := validateAmount(p.Amount.Value); err != nil {
			return err
		}
		e.Amount = p.Amount.Value
	}
	if p.Description.Set {
		e.Description = strings.TrimSpace(p.Description.Value)
	}
	if p.SupervisorID.Set {
		if p.SupervisorID.Value == uuid.Nil {
			return shared.InvalidArgument("supervisor_id", "must not be empty")
		}
		e.SupervisorID = p.SupervisorID.Value
	}
	if p.LocationID.Set {
		if p.LocationID.Value == uuid.Nil {
			return shared.InvalidArgument("location_id", "must not be empty")
		}
		e.LocationID = p.LocationID.Value
	}
	if p.Status.Set {
		if p.Status.Value == "" {
			return shared.InvalidArgument("status", "must not be empty")
		}
		st, err := ParseStatus(string(p.Status.Value))
		if err != nil {
			return err
		}
		e.Status = st
	}

	e.UpdatedAt = shared.Now()
	return nil
}

// IsEmpty reports whether no field was supplied
func (p EntryPatch) IsEmpty() bool {
	return !p.Kind.Set && !p.Amount.Set && !p.Description.Set &&
		!p.SupervisorID.Set && !p.LocationID.Set && !p.Status.Set
}

func (p EntryPatch) changesPairing(e *Entry) bool {
	if p.Kind.Set && p.Kind.Value != e.Kind {
		return true
	}
	if p.Amount.Set && !p.Amount.Value.Equal(e.Amount) {
		return true
	}
	if p.SupervisorID.Set && p.SupervisorID.Value != e.SupervisorID {
		return true
	}
	return p.LocationID.Set && p.LocationID.Value != e.LocationID
}

func validateAmount(amount decimal.Decimal) error {
	return shared.ValidateAmount("amount", amount)
}
