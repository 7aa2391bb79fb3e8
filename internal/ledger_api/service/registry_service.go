package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sitebooks-ledger/internal/domain/notification"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/platform/notify"
)

// RegistryServiceImpl implements the RegistryService interface
type RegistryServiceImpl struct {
	locations   registry.LocationRepository
	supervisors registry.SupervisorRepository
	sink        notify.Sink
	logger      *slog.Logger
}

// NewRegistryService creates a new registry service
func NewRegistryService(logger *slog.Logger, locations registry.LocationRepository, supervisors registry.SupervisorRepository, sink notify.Sink) RegistryService {
	return &RegistryServiceImpl{
		locations:   locations,
		supervisors: supervisors,
		sink:        sink,
		logger:      logger,
	}
}

func (s *RegistryServiceImpl) CreateLocation(ctx context.Context, in CreateLocationInput) (*registry.Location, error) {
	loc, err := registry.NewLocation(in.Name, in.Address, in.Latitude, in.Longitude)
	if err != nil {
		return nil, err
	}

	if err := s.locations.Create(ctx, loc); err != nil {
		return nil, err
	}

	s.logger.Info("Location created", "location_id", loc.ID.String(), "name", loc.Name)
	s.sink.Emit(ctx, "Location Created", "New location "+loc.Name+" added", notification.CategoryLocation)

	return loc, nil
}

func (s *RegistryServiceImpl) GetLocation(ctx context.Context, id uuid.UUID) (*registry.Location, error) {
	return s.locations.GetByID(ctx, id)
}

func (s *RegistryServiceImpl) ListLocations(ctx context.Context) ([]*registry.Location, error) {
	return s.locations.List(ctx)
}

func (s *RegistryServiceImpl) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	loc, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.locations.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Location deleted", "location_id", id.String())
	s.sink.Emit(ctx, "Location Deleted", "Location "+loc.Name+" removed", notification.CategoryLocation)

	return nil
}

func (s *RegistryServiceImpl) CreateSupervisor(ctx context.Context, in CreateSupervisorInput) (*registry.Supervisor, error) {
	sup, err := registry.NewSupervisor(in.Code, in.Name, in.Mobile, in.Email)
	if err != nil {
		return nil, err
	}

	if err := s.supervisors.Create(ctx, sup); err != nil {
		return nil, err
	}

	s.logger.Info("Supervisor created", "supervisor_id", sup.ID.String(), "code", sup.Code)
	s.sink.Emit(ctx, "Supervisor Added", "Supervisor "+sup.Name+" ("+sup.Code+") added", notification.CategorySupervisor)

	return sup, nil
}

func (s *RegistryServiceImpl) GetSupervisor(ctx context.Context, id uuid.UUID) (*registry.Supervisor, error) {
	return s.supervisors.GetByID(ctx, id)
}

func (s *RegistryServiceImpl) ListSupervisors(ctx context.Context) ([]*registry.Supervisor, error) {
	return s.supervisors.List(ctx)
}

// UpdateSupervisor applies the patch to the stored supervisor. Code is immutable.
func (s *RegistryServiceImpl) UpdateSupervisor(ctx context.Context, id uuid.UUID, patch registry.SupervisorPatch) (*registry.Supervisor, error) {
	sup, err := s.supervisors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sup.Apply(patch); err != nil {
		return nil, err
	}

	if err := s.supervisors.Update(ctx, sup); err != nil {
		return nil, err
	}

	s.sink.Emit(ctx, "Supervisor Updated", "Supervisor "+sup.Name+" ("+sup.Code+") updated", notification.CategorySupervisor)

	return sup, nil
}

func (s *RegistryServiceImpl) DeleteSupervisor(ctx context.Context, id uuid.UUID) error {
	sup, err := s.supervisors.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.supervisors.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Supervisor deleted", "supervisor_id", id.String())
	s.sink.Emit(ctx, "Supervisor Removed", "Supervisor "+sup.Name+" ("+sup.Code+") removed", notification.CategorySupervisor)

	return nil
}
