package registry

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sitebooks-ledger/internal/domain/shared"
)

// LocationRepository manages location persistence
type LocationRepository interface {
	Create(ctx context.Context, location *Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*Location, error)
	// List returns locations newest first
	List(ctx context.Context) ([]*Location, error)
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx pgx.Tx) LocationRepository
}

// SupervisorRepository manages supervisor persistence
type SupervisorRepository interface {
	Create(ctx context.Context, supervisor *Supervisor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Supervisor, error)
	// List returns supervisors in registry order, oldest first
	List(ctx context.Context) ([]*Supervisor, error)
	Update(ctx context.Context, supervisor *Supervisor) error
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx pgx.Tx) SupervisorRepository
}

// ErrLocationNotFound indicates missing location
type ErrLocationNotFound struct {
	ID uuid.UUID
}

func (e ErrLocationNotFound) Error() string {
	return "location not found: " + e.ID.String()
}

func (e ErrLocationNotFound) Kind() shared.ErrorKind { return shared.KindNotFound }

// Is implements the errors.Is interface for ErrLocationNotFound
func (e ErrLocationNotFound) Is(target error) bool {
	t, ok := target.(ErrLocationNotFound)
	if !ok {
		return false
	}
	// If the target ID is empty, consider it a match for any ErrLocationNotFound
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}

// ErrSupervisorNotFound indicates missing supervisor
type ErrSupervisorNotFound struct {
	ID uuid.UUID
}

func (e ErrSupervisorNotFound) Error() string {
	return "supervisor not found: " + e.ID.String()
}

func (e ErrSupervisorNotFound) Kind() shared.ErrorKind { return shared.KindNotFound }

// Is implements the errors.Is interface for ErrSupervisorNotFound
func (e ErrSupervisorNotFound) Is(target error) bool {
	t, ok := target.(ErrSupervisorNotFound)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}

// ErrDuplicateSupervisor indicates a code or email uniqueness violation
type ErrDuplicateSupervisor struct {
	Field string
}

func (e ErrDuplicateSupervisor) Error() string {
	return "supervisor with this " + e.Field + " already exists"
}

func (e ErrDuplicateSupervisor) Kind() shared.ErrorKind { return shared.KindConflict }

// Is matches any ErrDuplicateSupervisor when the target field is empty
func (e ErrDuplicateSupervisor) Is(target error) bool {
	t, ok := target.(ErrDuplicateSupervisor)
	if !ok {
		return false
	}
	return t.Field == "" || e.Field == t.Field
}

// ErrLocationInUse is returned when deleting a location that is still referenced
type ErrLocationInUse struct {
	ID uuid.UUID
}

func (e ErrLocationInUse) Error() string {
	return "location is still referenced: " + e.ID.String()
}

func (e ErrLocationInUse) Kind() shared.ErrorKind { return shared.KindConflict }

func (e ErrLocationInUse) Is(target error) bool {
	t, ok := target.(ErrLocationInUse)
	if !ok {
		return false
	}
	return t.ID == uuid.Nil || e.ID == t.ID
}

// ErrSupervisorInUse is returned when deleting a supervisor that is still referenced
type ErrSupervisorInUse struct {
	ID uuid.UUID
}

func (e ErrSupervisorInUse) Error() string {
	return "supervisor is still referenced: " + e.ID.String()
}

func (e ErrSupervisorInUse) Kind() shared.ErrorKind { return shared.KindConflict }

func (e ErrSupervisorInUse) Is(target error) bool {
	t, ok := target.(ErrSupervisorInUse)
	if !ok {
		return false
	}
	return t.ID == uuid.Nil || e.ID == t.ID
}
