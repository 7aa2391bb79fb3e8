package registry

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

// Location represents a site or branch that ledger entries are booked against
type Location struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLocation creates a location, name is mandatory
func NewLocation(name, address string, latitude, longitude *float64) (*Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.InvalidArgument("name", "is required")
	}
	if latitude != nil && (*latitude < -90 || *latitude > 90) {
		return nil, shared.InvalidArgument("latitude", "must be between -90 and 90")
	}
	if longitude != nil && (*longitude < -180 || *longitude > 180) {
		return nil, shared.InvalidArgument("longitude", "must be between -180 and 180")
	}

	now := shared.Now()
	return &Location{
		ID:        uuid.New(),
		Name:      name,
		Address:   strings.TrimSpace(address),
		Latitude:  latitude,
		Longitude: longitude,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
