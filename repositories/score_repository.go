package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/livescores-dashboard/models"
	"github.com/lib/pq"
)

var (
	ErrDateColumnUnparseable = errors.New("event date column could not be parsed")
	ErrMissingColumn         = errors.New("required column missing from scores table")
	ErrInvalidTableName      = errors.New("invalid scores table name")
)

type ScoreRepository interface {
	// LoadAll читает всю таблицу результатов заново при каждом вызове.
	LoadAll(ctx context.Context) ([]models.ScoreRecord, error)
}

type postgresScoreRepository struct {
	db    *sql.DB
	query string
}

func NewPostgresScoreRepository(db *sql.DB, table string) (ScoreRepository, error) {
	ident, err := quoteTableName(table)
	if err != nil {
		return nil, err
	}
	return &postgresScoreRepository{
		db:    db,
		query: "SELECT * FROM " + ident,
	}, nil
}

// quoteTableName quotes every part of an optionally schema-qualified name.
func quoteTableName(table string) (string, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return "", ErrInvalidTableName
	}
	parts := strings.Split(table, ".")
	if len(parts) > 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTableName, table)
	}
	for i, part := range parts {
		if part == "" {
			return "", fmt.Errorf("%w: %q", ErrInvalidTableName, table)
		}
		parts[i] = pq.QuoteIdentifier(part)
	}
	return strings.Join(parts, "."), nil
}

func (r *postgresScoreRepository) LoadAll(ctx context.Context) ([]models.ScoreRecord, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire database connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, r.query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read scores columns: %w", err)
	}

	index := make(map[string]int, len(columns))
	for i, name := range columns {
		index[strings.ToLower(name)] = i
	}
	for _, required := range []string{models.ColSport, models.ColEventDate} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	get := func(column string) any {
		if i, ok := index[column]; ok {
			return values[i]
		}
		return nil
	}

	records := make([]models.ScoreRecord, 0)
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan score row %d: %w", len(records), err)
		}

		eventDate, err := coerceDate(get(models.ColEventDate))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrDateColumnUnparseable, len(records), err)
		}

		records = append(records, models.ScoreRecord{
			Sport:         coerceString(get(models.ColSport)),
			League:        coerceString(get(models.ColLeague)),
			HomeTeam:      coerceString(get(models.ColHomeTeam)),
			AwayTeam:      coerceString(get(models.ColAwayTeam)),
			HomeTeamBadge: coerceString(get(models.ColHomeTeamBadge)),
			AwayTeamBadge: coerceString(get(models.ColAwayTeamBadge)),
			HomeScore:     coerceInt(get(models.ColHomeScore)),
			AwayScore:     coerceInt(get(models.ColAwayScore)),
			Status:        coerceString(get(models.ColStatus)),
			Progress:      coerceString(get(models.ColProgress)),
			EventDate:     eventDate,
			EventTime:     coerceTimeOfDay(get(models.ColEventTime)),
			Updated:       coerceTimestamp(get(models.ColUpdated)),
		})
	}

	// Критически важная проверка ошибки после цикла
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scores: %w", err)
	}

	return records, nil
}
