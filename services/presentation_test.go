package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Dosada05/livescores-dashboard/models"
)

type fakeBadgeResolver struct {
	prefix string
	fail   string
}

func (f fakeBadgeResolver) Resolve(_ context.Context, ref string) (string, error) {
	if f.fail != "" && ref == f.fail {
		return "", errors.New("badge bucket unavailable")
	}
	if ref == "" {
		return "", nil
	}
	return f.prefix + ref, nil
}

func score(n int) *int { return &n }

func TestBuildChart_EmptyTableHasNoChart(t *testing.T) {
	if chart := BuildChart(nil); chart != nil {
		t.Errorf("expected nil chart, got %+v", chart)
	}
}

func TestBuildChart_IndexedByHomeTeam(t *testing.T) {
	records := []models.ScoreRecord{
		{HomeTeam: "Arsenal", HomeScore: score(3), AwayScore: score(1)},
		{HomeTeam: "Lakers", HomeScore: score(101), AwayScore: score(99)},
		{HomeTeam: "Arsenal", HomeScore: nil, AwayScore: score(0)},
	}

	chart := BuildChart(records)
	if chart == nil {
		t.Fatal("expected chart for non-empty table")
	}
	if len(chart.Series) != 2 || chart.Series[0] != models.ColHomeScore || chart.Series[1] != models.ColAwayScore {
		t.Errorf("unexpected series %v", chart.Series)
	}
	if len(chart.Bars) != 3 {
		t.Fatalf("expected one bar group per row, got %d", len(chart.Bars))
	}
	if chart.Bars[1].Label != "Lakers" || chart.Bars[1].HomeScore != 101 || chart.Bars[1].AwayScore != 99 {
		t.Errorf("unexpected bar %+v", chart.Bars[1])
	}
	if !chart.Bars[2].Missing || chart.Bars[2].HomeScore != 0 {
		t.Errorf("expected NULL score plotted as 0 and flagged, got %+v", chart.Bars[2])
	}
	if chart.Max != 101 {
		t.Errorf("expected max 101, got %d", chart.Max)
	}
}

func TestBuildCards(t *testing.T) {
	records := []models.ScoreRecord{
		{
			HomeTeam: "Arsenal", AwayTeam: "Chelsea",
			HomeTeamBadge: "ars.png", AwayTeamBadge: "che.png",
			EventDate: day("2024-03-01"), EventTime: &models.TimeOfDay{Hour: 14, Minute: 5, Second: 9},
		},
		{
			HomeTeam: "Sinner", AwayTeam: "Alcaraz",
			EventDate: day("2024-03-02"),
		},
	}

	cards, err := BuildCards(context.Background(), records, fakeBadgeResolver{prefix: "https://cdn/"})
	if err != nil {
		t.Fatalf("BuildCards returned error: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}

	first := cards[0]
	if first.HomeBadgeURL != "https://cdn/ars.png" || first.AwayBadgeURL != "https://cdn/che.png" {
		t.Errorf("unexpected badges %q %q", first.HomeBadgeURL, first.AwayBadgeURL)
	}
	if first.Date != "2024-03-01" || first.Time != "14:05:09" {
		t.Errorf("unexpected date/time %q %q", first.Date, first.Time)
	}
	if cards[1].Time != models.UnknownTime {
		t.Errorf("expected %q for missing time, got %q", models.UnknownTime, cards[1].Time)
	}
	if cards[1].HomeTeam != "Sinner" || cards[1].AwayTeam != "Alcaraz" {
		t.Errorf("cards out of row order: %+v", cards[1])
	}
}

func TestBuildCards_ManyRowsKeepOrder(t *testing.T) {
	records := make([]models.ScoreRecord, 50)
	for i := range records {
		name := strings.Repeat("x", i+1)
		records[i] = models.ScoreRecord{HomeTeam: name, HomeTeamBadge: name, EventDate: day("2024-03-01")}
	}

	cards, err := BuildCards(context.Background(), records, fakeBadgeResolver{prefix: "/b/"})
	if err != nil {
		t.Fatalf("BuildCards returned error: %v", err)
	}
	for i, c := range cards {
		if c.HomeBadgeURL != "/b/"+records[i].HomeTeam {
			t.Fatalf("card %d has badge %q", i, c.HomeBadgeURL)
		}
	}
}

func TestBuildCards_ResolverErrorFailsRender(t *testing.T) {
	records := []models.ScoreRecord{
		{HomeTeam: "Arsenal", HomeTeamBadge: "ars.png", EventDate: day("2024-03-01")},
		{HomeTeam: "Chelsea", HomeTeamBadge: "broken.png", EventDate: day("2024-03-01")},
	}

	cards, err := BuildCards(context.Background(), records, fakeBadgeResolver{fail: "broken.png"})
	if err == nil {
		t.Fatal("expected resolver error")
	}
	if cards != nil {
		t.Errorf("expected no cards on error, got %v", cards)
	}
}

// The home series is orange and the away series blue, as the dashboard
// legend "(Blue: Away Team, Orange: Home Team)" states. The streamlit
// dashboard this replaces passed ['#1f77b4', '#ff7f0e'] for
// [inthomescore, intawayscore], which paints home blue and contradicts its
// own legend; the legend wins here.
func TestBuildChart_SeriesColorsMatchLegend(t *testing.T) {
	chart := BuildChart([]models.ScoreRecord{{HomeTeam: "Arsenal", HomeScore: score(1), AwayScore: score(0)}})

	if len(chart.Colors) != 2 {
		t.Fatalf("expected one color per series, got %v", chart.Colors)
	}
	if chart.Colors[0] != "#ff7f0e" {
		t.Errorf("expected orange home series, got %s", chart.Colors[0])
	}
	if chart.Colors[1] != "#1f77b4" {
		t.Errorf("expected blue away series, got %s", chart.Colors[1])
	}
}
