package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"

	// UnknownTime выводится в карточке матча, когда время события отсутствует.
	UnknownTime = "Unknown"
)

// Имена колонок исходной таблицы.
const (
	ColSport         = "strsport"
	ColLeague        = "strleague"
	ColHomeTeam      = "strhometeam"
	ColAwayTeam      = "strawayteam"
	ColHomeTeamBadge = "strhometeambadge"
	ColAwayTeamBadge = "strawayteambadge"
	ColHomeScore     = "inthomescore"
	ColAwayScore     = "intawayscore"
	ColStatus        = "strstatus"
	ColProgress      = "strprogress"
	ColEventDate     = "dateevent"
	ColEventTime     = "streventtime"
	ColUpdated       = "updated"
)

// AllColumns is the full column set of a ScoreRecord in source order.
var AllColumns = []string{
	ColSport, ColLeague, ColHomeTeam, ColAwayTeam, ColHomeTeamBadge, ColAwayTeamBadge,
	ColHomeScore, ColAwayScore, ColStatus, ColProgress, ColEventDate, ColEventTime, ColUpdated,
}

// DisplayColumns is the projection shown in the scores table.
var DisplayColumns = []string{
	ColSport, ColLeague, ColHomeTeam, ColAwayTeam, ColHomeScore, ColAwayScore,
	ColStatus, ColProgress, ColEventTime, ColEventDate, ColUpdated,
}

// TimeOfDay - время начала события без даты.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := time.Parse(TimeLayout, s)
	if err != nil {
		return fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	*t = TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute(), Second: parsed.Second()}
	return nil
}

// ScoreRecord представляет одну строку таблицы live-результатов (одно событие).
type ScoreRecord struct {
	Sport         string     `json:"strsport"`
	League        string     `json:"strleague"`
	HomeTeam      string     `json:"strhometeam"`
	AwayTeam      string     `json:"strawayteam"`
	HomeTeamBadge string     `json:"strhometeambadge"`
	AwayTeamBadge string     `json:"strawayteambadge"`
	HomeScore     *int       `json:"inthomescore"`
	AwayScore     *int       `json:"intawayscore"`
	Status        string     `json:"strstatus"`
	Progress      string     `json:"strprogress"`
	EventDate     time.Time  `json:"dateevent"`
	EventTime     *TimeOfDay `json:"streventtime"`
	Updated       *time.Time `json:"updated"`
}

// Field returns the display value of a column. Missing values render as
// the empty string; unknown columns too.
func (r *ScoreRecord) Field(column string) string {
	switch column {
	case ColSport:
		return r.Sport
	case ColLeague:
		return r.League
	case ColHomeTeam:
		return r.HomeTeam
	case ColAwayTeam:
		return r.AwayTeam
	case ColHomeTeamBadge:
		return r.HomeTeamBadge
	case ColAwayTeamBadge:
		return r.AwayTeamBadge
	case ColHomeScore:
		return formatScore(r.HomeScore, "")
	case ColAwayScore:
		return formatScore(r.AwayScore, "")
	case ColStatus:
		return r.Status
	case ColProgress:
		return r.Progress
	case ColEventDate:
		return r.EventDate.Format(DateLayout)
	case ColEventTime:
		if r.EventTime == nil {
			return ""
		}
		return r.EventTime.String()
	case ColUpdated:
		if r.Updated == nil {
			return ""
		}
		return r.Updated.Format(time.DateTime)
	default:
		return ""
	}
}

// SearchText renders the whole row, one "column value" line per column,
// with NaN/NaT/None standing in for missing values. Free-text search scans
// this string.
func (r *ScoreRecord) SearchText() string {
	var b strings.Builder
	for _, col := range AllColumns {
		b.WriteString(col)
		b.WriteByte(' ')
		b.WriteString(r.searchValue(col))
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *ScoreRecord) searchValue(column string) string {
	switch column {
	case ColHomeScore:
		return formatScore(r.HomeScore, "NaN")
	case ColAwayScore:
		return formatScore(r.AwayScore, "NaN")
	case ColEventTime:
		if r.EventTime == nil {
			return "NaT"
		}
	case ColUpdated:
		if r.Updated == nil {
			return "NaT"
		}
	}
	return r.Field(column)
}

func formatScore(score *int, missing string) string {
	if score == nil {
		return missing
	}
	return strconv.Itoa(*score)
}
