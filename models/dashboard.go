package models

import "time"

// FilterState - значения виджетов боковой панели, как их увидел последний прогон.
type FilterState struct {
	Sport     string     `json:"sport"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	HourFrom  int        `json:"hour_from"`
	HourTo    int        `json:"hour_to"`
	Search    string     `json:"search"`
}

type ChartBar struct {
	Label     string `json:"label"`
	HomeScore int    `json:"inthomescore"`
	AwayScore int    `json:"intawayscore"`
	// Missing is set when either score was NULL and is plotted as zero.
	Missing bool `json:"missing,omitempty"`
}

// ScoreChart is the home/away score comparison indexed by home team.
type ScoreChart struct {
	Series []string   `json:"series"`
	Colors []string   `json:"colors"`
	Bars   []ChartBar `json:"bars"`
	Max    int        `json:"max"`
}

type MatchCard struct {
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
	HomeBadgeURL string `json:"home_badge_url"`
	AwayBadgeURL string `json:"away_badge_url"`
	Date         string `json:"date"`
	Time         string `json:"time"`
}

// Dashboard is the outcome of a single load → filter → render run.
type Dashboard struct {
	Sports         []string      `json:"sports"`
	Filters        FilterState   `json:"filters"`
	DateRangeLabel string        `json:"date_range_label"`
	TimeRangeLabel string        `json:"time_range_label"`
	Columns        []string      `json:"columns"`
	Rows           []ScoreRecord `json:"rows"`
	Chart          *ScoreChart   `json:"chart,omitempty"`
	Cards          []MatchCard   `json:"cards"`
	LoadedRows     int           `json:"loaded_rows"`
	RenderedAt     time.Time     `json:"rendered_at"`
}
