package service

import (
	"context"
	"log/slog"

	"github.com/sitebooks-ledger/internal/domain/invoice"
	"github.com/sitebooks-ledger/internal/domain/ledger"
	"github.com/sitebooks-ledger/internal/domain/registry"
	"github.com/sitebooks-ledger/internal/domain/shared"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRecentEntries  = 10
	DefaultRecentInvoices = 5
)

// DashboardServiceImpl implements the DashboardService interface
type DashboardServiceImpl struct {
	summaries ledger.SummaryRepository
	entries   ledger.EntryRepository
	invoices  invoice.Repository
	locations registry.LocationRepository
	logger    *slog.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	logger *slog.Logger,
	summaries ledger.SummaryRepository,
	entries ledger.EntryRepository,
	invoices invoice.Repository,
	locations registry.LocationRepository,
) DashboardService {
	return &DashboardServiceImpl{
		summaries: summaries,
		entries:   entries,
		invoices:  invoices,
		locations: locations,
		logger:    logger,
	}
}

func (s *DashboardServiceImpl) GlobalSummary(ctx context.Context, dr ledger.DateRange) (ledger.Summary, error) {
	return s.summaries.Totals(ctx, dr)
}

func (s *DashboardServiceImpl) SupervisorBalances(ctx context.Context, dr ledger.DateRange) ([]ledger.SupervisorBalance, error) {
	return s.summaries.SupervisorBalances(ctx, dr)
}

func (s *DashboardServiceImpl) RecentEntries(ctx context.Context, dr ledger.DateRange, limit shared.Optional[int]) ([]*ledger.Entry, error) {
	n, err := resolveLimit(limit, DefaultRecentEntries)
	if err != nil {
		return nil, err
	}
	return s.entries.ListRecent(ctx, dr, n)
}

func (s *DashboardServiceImpl) RecentInvoices(ctx context.Context, limit shared.Optional[int]) ([]*invoice.Invoice, error) {
	n, err := resolveLimit(limit, DefaultRecentInvoices)
	if err != nil {
		return nil, err
	}
	return s.invoices.ListRecent(ctx, n)
}

func (s *DashboardServiceImpl) Locations(ctx context.Context) ([]*registry.Location, error) {
	return s.locations.List(ctx)
}

// Home composes the landing page from the individual dashboard reads
func (s *DashboardServiceImpl) Home(ctx context.Context, dr ledger.DateRange) (*HomeDashboard, error) {
	var home HomeDashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		home.Summary, err = s.GlobalSummary(gctx, dr)
		return err
	})
	g.Go(func() (err error) {
		home.SupervisorBalances, err = s.SupervisorBalances(gctx, dr)
		return err
	})
	g.Go(func() (err error) {
		home.RecentEntries, err = s.RecentEntries(gctx, dr, shared.Optional[int]{})
		return err
	})
	g.Go(func() (err error) {
		home.RecentInvoices, err = s.RecentInvoices(gctx, shared.Optional[int]{})
		return err
	})
	g.Go(func() (err error) {
		home.Locations, err = s.Locations(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to compose home dashboard", "error", err)
		return nil, err
	}
	return &home, nil
}

func resolveLimit(limit shared.Optional[int], fallback int) (int, error) {
	if !limit.Set {
		return fallback, nil
	}
	if limit.Value <= 0 {
		return 0, shared.InvalidArgument("limit", "must be greater than 0")
	}
	return limit.Value, nil
}
