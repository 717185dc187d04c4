package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/livescores-dashboard/models"
	"github.com/Dosada05/livescores-dashboard/repositories"
	"github.com/Dosada05/livescores-dashboard/storage"
)

// Render outcomes reported to the RenderObserver.
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomeLoadFailed   = "load_failed"
	OutcomeRenderFailed = "render_failed"
	OutcomeCanceled     = "canceled"
)

// RenderObserver receives one observation per dashboard run.
type RenderObserver interface {
	ObserveRender(outcome string, duration time.Duration, loaded, displayed int)
}

type DashboardService interface {
	// Render runs load → filter → render from scratch. Nothing is kept
	// between calls.
	Render(ctx context.Context, params FilterParams) (*models.Dashboard, error)
	Sports(ctx context.Context) ([]string, error)
}

type dashboardService struct {
	scoreRepo repositories.ScoreRepository
	badges    storage.BadgeResolver
	observer  RenderObserver
	logger    *slog.Logger
	now       func() time.Time
}

func NewDashboardService(
	scoreRepo repositories.ScoreRepository,
	badges storage.BadgeResolver,
	observer RenderObserver,
	logger *slog.Logger,
) DashboardService {
	if badges == nil {
		badges = storage.NewPassthroughBadgeResolver()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &dashboardService{
		scoreRepo: scoreRepo,
		badges:    badges,
		observer:  observer,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *dashboardService) Render(ctx context.Context, params FilterParams) (dash *models.Dashboard, err error) {
	started := s.now()
	loaded := 0
	outcome := OutcomeOK
	defer func() {
		if s.observer != nil {
			displayed := 0
			if dash != nil {
				displayed = len(dash.Rows)
			}
			s.observer.ObserveRender(outcome, s.now().Sub(started), loaded, displayed)
		}
	}()

	if err := params.Validate(); err != nil {
		outcome = OutcomeInvalid
		return nil, err
	}

	records, err := s.scoreRepo.LoadAll(ctx)
	if err != nil {
		outcome = OutcomeLoadFailed
		if ctx.Err() != nil {
			outcome = OutcomeCanceled
		}
		s.logger.ErrorContext(ctx, "failed to load live scores", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	loaded = len(records)

	sports := DistinctSports(records)
	params.Sport = selectSport(sports, params.Sport)

	filtered, err := ApplyFilters(records, params)
	if err != nil {
		outcome = OutcomeInvalid
		return nil, err
	}

	cards, err := BuildCards(ctx, filtered, s.badges)
	if err != nil {
		outcome = OutcomeRenderFailed
		if ctx.Err() != nil {
			outcome = OutcomeCanceled
		}
		s.logger.ErrorContext(ctx, "failed to build match cards", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	dash = &models.Dashboard{
		Sports:         sports,
		Filters:        filterState(params),
		DateRangeLabel: dateRangeLabel(params.Dates),
		TimeRangeLabel: fmt.Sprintf("Current Time Range: %d:00 to %d:59", params.HourFrom, params.HourTo),
		Columns:        models.DisplayColumns,
		Rows:           filtered,
		Chart:          BuildChart(filtered),
		Cards:          cards,
		LoadedRows:     loaded,
		RenderedAt:     s.now().UTC(),
	}

	s.logger.DebugContext(ctx, "dashboard rendered",
		slog.String("sport", params.Sport),
		slog.Int("loaded_rows", loaded),
		slog.Int("displayed_rows", len(filtered)),
		slog.Duration("elapsed", s.now().Sub(started)),
	)
	return dash, nil
}

func (s *dashboardService) Sports(ctx context.Context) ([]string, error) {
	records, err := s.scoreRepo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return DistinctSports(records), nil
}

// selectSport returns the option matching requested regardless of case, so
// the sidebar keeps it selected. Empty picks the first option.
func selectSport(sports []string, requested string) string {
	if requested == "" {
		if len(sports) > 0 {
			return sports[0]
		}
		return ""
	}
	for _, sport := range sports {
		if strings.EqualFold(sport, requested) {
			return sport
		}
	}
	return requested
}

func filterState(p FilterParams) models.FilterState {
	state := models.FilterState{
		Sport:    p.Sport,
		HourFrom: p.HourFrom,
		HourTo:   p.HourTo,
		Search:   p.Search,
	}
	if len(p.Dates) == 2 {
		start, end := p.Dates[0], p.Dates[1]
		state.StartDate = &start
		state.EndDate = &end
	}
	return state
}

func dateRangeLabel(dates []time.Time) string {
	if len(dates) != 2 {
		return "Current Date Range: all dates"
	}
	return fmt.Sprintf("Current Date Range: %s to %s",
		dates[0].Format(models.DateLayout), dates[1].Format(models.DateLayout))
}
