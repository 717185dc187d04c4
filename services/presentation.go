package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/livescores-dashboard/models"
	"github.com/Dosada05/livescores-dashboard/storage"
	"golang.org/x/sync/errgroup"
)

const (
	homeSeriesColor = "#ff7f0e"
	awaySeriesColor = "#1f77b4"

	badgeResolveConcurrency = 8
)

// BuildChart derives the home/away score comparison, one bar group per row
// labelled with the home team. Returns nil for an empty table.
func BuildChart(records []models.ScoreRecord) *models.ScoreChart {
	if len(records) == 0 {
		return nil
	}

	chart := &models.ScoreChart{
		Series: []string{models.ColHomeScore, models.ColAwayScore},
		Colors: []string{homeSeriesColor, awaySeriesColor},
		Bars:   make([]models.ChartBar, 0, len(records)),
		Max:    1,
	}
	for _, r := range records {
		bar := models.ChartBar{Label: r.HomeTeam}
		if r.HomeScore != nil {
			bar.HomeScore = *r.HomeScore
		} else {
			bar.Missing = true
		}
		if r.AwayScore != nil {
			bar.AwayScore = *r.AwayScore
		} else {
			bar.Missing = true
		}
		chart.Max = max(chart.Max, bar.HomeScore, bar.AwayScore)
		chart.Bars = append(chart.Bars, bar)
	}
	return chart
}

// BuildCards renders one match-up card per row. Badge references are
// resolved concurrently; the first resolver error fails the whole set.
func BuildCards(ctx context.Context, records []models.ScoreRecord, resolver storage.BadgeResolver) ([]models.MatchCard, error) {
	cards := make([]models.MatchCard, len(records))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(badgeResolveConcurrency)

	for i := range records {
		r := &records[i]
		cards[i] = models.MatchCard{
			HomeTeam: r.HomeTeam,
			AwayTeam: r.AwayTeam,
			Date:     r.EventDate.Format(models.DateLayout),
			Time:     models.UnknownTime,
		}
		if r.EventTime != nil {
			cards[i].Time = r.EventTime.String()
		}

		g.Go(func() error {
			home, err := resolver.Resolve(gCtx, r.HomeTeamBadge)
			if err != nil {
				return fmt.Errorf("failed to resolve badge for %s: %w", r.HomeTeam, err)
			}
			away, err := resolver.Resolve(gCtx, r.AwayTeamBadge)
			if err != nil {
				return fmt.Errorf("failed to resolve badge for %s: %w", r.AwayTeam, err)
			}
			cards[i].HomeBadgeURL = home
			cards[i].AwayBadgeURL = away
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cards, nil
}
