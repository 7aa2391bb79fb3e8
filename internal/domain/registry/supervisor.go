package registry

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

// Supervisor represents a site manager responsible for ledger entries
type Supervisor struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Mobile    string    `json:"mobile"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SupervisorPatch holds the fields a caller supplied on update
type SupervisorPatch struct {
	Name     shared.Optional[string] `json:"name"`
	Mobile   shared.Optional[string] `json:"mobile"`
	Email    shared.Optional[string] `json:"email"`
	IsActive shared.Optional[bool]   `json:"is_active"`
}

// NewSupervisor creates an active supervisor. Email is stored lower-cased.
func NewSupervisor(code, name, mobile, email string) (*Supervisor, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	mobile = strings.TrimSpace(mobile)

	switch {
	case code == "":
		return nil, shared.InvalidArgument("code", "is required")
	case name == "":
		return nil, shared.InvalidArgument("name", "is required")
	case mobile == "":
		return nil, shared.InvalidArgument("mobile", "is required")
	}

	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	now := shared.Now()
	return &Supervisor{
		ID:        uuid.New(),
		Code:      code,
		Name:      name,
		Mobile:    mobile,
		Email:     normalized,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Apply overwrites the supplied fields and refreshes UpdatedAt
func (s *Supervisor) Apply(p SupervisorPatch) error {
	if p.Name.Set {
		name := strings.TrimSpace(p.Name.Value)
		if name == "" {
			return shared.InvalidArgument("name", "must not be empty")
		}
		s.Name = name
	}
	if p.Mobile.Set {
		mobile := strings.TrimSpace(p.Mobile.Value)
		if mobile == "" {
			return shared.InvalidArgument("mobile", "must not be empty")
		}
		s.Mobile = mobile
	}
	if p.Email.Set {
		email, err := normalizeEmail(p.Email.Value)
		if err != nil {
			return err
		}
		s.Email = email
	}
	if p.IsActive.Set {
		s.IsActive = p.IsActive.Value
	}
	s.UpdatedAt = shared.Now()
	return nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", shared.InvalidArgument("email", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", shared.InvalidArgument("email", "is not a valid address")
	}
	return email, nil
}
