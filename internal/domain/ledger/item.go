package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

var hundred = decimal.NewFromInt(100)

// ItemLine is one quantity/rate row of an item breakdown. GSTRate is a percentage.
type ItemLine struct {
	Qty     decimal.Decimal `json:"qty"`
	Rate    decimal.Decimal `json:"rate"`
	GSTRate decimal.Decimal `json:"gst_rate"`
}

// Total returns qty * rate plus GST
func (l ItemLine) Total() decimal.Decimal {
	base := l.Qty.Mul(l.Rate)
	return base.Add(base.Mul(l.GSTRate).Div(hundred))
}

// Item is a named breakdown attached to a ledger entry
type Item struct {
	ID         uuid.UUID  `json:"id"`
	EntryID    uuid.UUID  `json:"entry_id"`
	ItemName   string     `json:"item_name"`
	LocationID uuid.UUID  `json:"location_id"`
	Lines      []ItemLine `json:"entries"`
	Position   int        `json:"position"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ItemPatch carries the fields supplied on item update
type ItemPatch struct {
	ItemName   shared.Optional[string]     `json:"item_name"`
	LocationID shared.Optional[uuid.UUID]  `json:"location_id"`
	Lines      shared.Optional[[]ItemLine] `json:"entries"`
}

// NewItem validates and builds an item for the given entry
func NewItem(entryID uuid.UUID, name string, locationID uuid.UUID, lines []ItemLine) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.InvalidArgument("item_name", "is required")
	}
	if locationID == uuid.Nil {
		return nil, shared.InvalidArgument("location_id", "is required")
	}
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	return &Item{
		ID:         uuid.New(),
		EntryID:    entryID,
		ItemName:   name,
		LocationID: locationID,
		Lines:      lines,
		CreatedAt:  shared.Now(),
	}, nil
}

// Total sums every line of the item
func (i Item) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range i.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// Apply merges a patch into the item
func (i *Item) Apply(p ItemPatch) error {
	if p.ItemName.Set {
		name := strings.TrimSpace(p.ItemName.Value)
		if name == "" {
			return shared.InvalidArgument("item_name", "must not be empty")
		}
		i.ItemName = name
	}
	if p.LocationID.Set {
		if p.LocationID.Value == uuid.Nil {
			return shared.InvalidArgument("location_id", "must not be empty")
		}
		i.LocationID = p.LocationID.Value
	}
	if p.Lines.Set {
		if err := validateLines(p.Lines.Value); err != nil {
			return err
		}
		i.Lines = p.Lines.Value
	}
	return nil
}

func validateLines(lines []ItemLine) error {
	if len(lines) == 0 {
		return shared.InvalidArgument("entries", "at least one line is required")
	}
	for _, l := range lines {
		if l.Qty.IsNegative() || l.Rate.IsNegative() || l.GSTRate.IsNegative() {
			return shared.InvalidArgument("entries", "qty, rate and gst_rate must not be negative")
		}
	}
	return nil
}
