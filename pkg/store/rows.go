package store

import (
	"fmt"
	"time"

	"github.com/praetorian-inc/almanac/pkg/int128"
	"github.com/praetorian-inc/almanac/pkg/types"
)

// timeLayout is fixed-width so TEXT timestamps sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const runColumns = `id, input_id, source, part, answer, stages, intervals, measure, duration_ns, created_at`

// rowScanner is satisfied by *sql.Row, *sql.Rows, pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// runArgs returns the column values for runColumns, in order.
func runArgs(r *types.Run) []any {
	return []any{
		r.ID,
		r.InputID.Hex(),
		r.Source,
		int(r.Part),
		r.Answer.String(),
		r.Stages,
		r.Intervals,
		r.Measure.String(),
		int64(r.Duration),
		r.CreatedAt.UTC().Format(timeLayout),
	}
}

func scanRun(row rowScanner) (*types.Run, error) {
	var (
		r         types.Run
		inputID   string
		part      int
		answer    string
		measure   string
		duration  int64
		createdAt any
	)
	if err := row.Scan(&r.ID, &inputID, &r.Source, &part, &answer, &r.Stages, &r.Intervals, &measure, &duration, &createdAt); err != nil {
		return nil, err
	}

	id, err := types.ParseInputID(inputID)
	if err != nil {
		return nil, fmt.Errorf("parsing input ID: %w", err)
	}
	r.InputID = id
	r.Part = types.Part(part)

	if r.Answer, err = int128.Parse(answer); err != nil {
		return nil, fmt.Errorf("parsing answer: %w", err)
	}
	if r.Measure, err = int128.Parse(measure); err != nil {
		return nil, fmt.Errorf("parsing measure: %w", err)
	}
	r.Duration = time.Duration(duration)

	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &r, nil
}

func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return time.Parse(timeLayout, t)
	case []byte:
		return time.Parse(timeLayout, string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected type %T", v)
	}
}
