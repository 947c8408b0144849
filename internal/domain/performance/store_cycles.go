package performance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

const cycleColumns = `
    id, name, type, start_date, end_date, template_ids, status,
    objection_window_days, closed_at, archived_at, created_at, updated_at`

func (s *Store) CreateCycle(ctx context.Context, cycle Cycle) (Cycle, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO appraisal_cycles
      (name, type, start_date, end_date, template_ids, status, objection_window_days)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING`+cycleColumns,
		cycle.Name, cycle.Type, cycle.StartDate, cycle.EndDate,
		mustJSON(cycle.TemplateIDs), cycle.Status, cycle.ObjectionWindowDays)

	created, err := scanCycle(row)
	if isUniqueViolation(err) {
		return Cycle{}, Conflictf("Cycle with name %q already exists", cycle.Name)
	}
	if err != nil {
		return Cycle{}, err
	}
	return created, nil
}

func (s *Store) UpdateCycle(ctx context.Context, cycleID string, patch CyclePatch) (Cycle, error) {
	assignments := []string{"updated_at = now()"}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Type != nil {
		add("type", *patch.Type)
	}
	if patch.StartDate != nil {
		add("start_date", *patch.StartDate)
	}
	if patch.EndDate != nil {
		add("end_date", *patch.EndDate)
	}
	if patch.TemplateIDs != nil {
		add("template_ids", mustJSON(*patch.TemplateIDs))
	}
	if patch.ObjectionWindowDays != nil {
		add("objection_window_days", *patch.ObjectionWindowDays)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}

	args = append(args, cycleID)
	query := fmt.Sprintf(
		"UPDATE appraisal_cycles SET %s WHERE id = $%d RETURNING %s",
		strings.Join(assignments, ", "), len(args), cycleColumns)

	updated, err := scanCycle(s.DB.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Cycle{}, NotFoundf("Cycle with ID %s not found", cycleID)
	}
	if isUniqueViolation(err) {
		return Cycle{}, Conflictf("Cycle with name %q already exists", stringOrEmpty(patch.Name))
	}
	if err != nil {
		return Cycle{}, err
	}
	return updated, nil
}

func (s *Store) GetCycle(ctx context.Context, cycleID string) (Cycle, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+cycleColumns+" FROM appraisal_cycles WHERE id = $1", cycleID)
	cycle, err := scanCycle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Cycle{}, NotFoundf("Cycle with ID %s not found", cycleID)
	}
	if err != nil {
		return Cycle{}, err
	}
	return cycle, nil
}

func (s *Store) ListCycles(ctx context.Context, filter CycleFilter) ([]Cycle, error) {
	query := "SELECT" + cycleColumns + " FROM appraisal_cycles WHERE 1=1"
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	query += " ORDER BY start_date DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []Cycle
	for rows.Next() {
		cycle, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, cycle)
	}
	return cycles, rows.Err()
}

// TransitionCycle advances status only when the cycle is still in the
// expected state, stamping closed_at/archived_at as a side effect of the
// target state. The claimed flag is false when the conditional update
// matched nothing.
func (s *Store) TransitionCycle(ctx context.Context, cycleID, from, to string, now time.Time) (Cycle, bool, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE appraisal_cycles
    SET status = $1,
        closed_at = CASE WHEN $1 = 'Closed' THEN $2 ELSE closed_at END,
        archived_at = CASE WHEN $1 = 'Archived' THEN $2 ELSE archived_at END,
        updated_at = now()
    WHERE id = $3 AND status = $4
    RETURNING`+cycleColumns, to, now, cycleID, from)

	updated, err := scanCycle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		current, getErr := s.GetCycle(ctx, cycleID)
		if getErr != nil {
			return Cycle{}, false, getErr
		}
		return current, false, nil
	}
	if err != nil {
		return Cycle{}, false, err
	}
	return updated, true, nil
}

func (s *Store) ListArchivableCycles(ctx context.Context, closedBefore time.Time) ([]Cycle, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+cycleColumns+`
    FROM appraisal_cycles
    WHERE status = 'Closed' AND archived_at IS NULL AND closed_at <= $1
    ORDER BY closed_at ASC
  `, closedBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []Cycle
	for rows.Next() {
		cycle, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, cycle)
	}
	return cycles, rows.Err()
}

func (s *Store) ArchiveCycleRecords(ctx context.Context, cycleID string, now time.Time) (int, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE appraisal_records
    SET archived_at = $1
    WHERE cycle_id = $2 AND archived_at IS NULL
  `, now, cycleID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func scanCycle(row pgx.Row) (Cycle, error) {
	var cycle Cycle
	var templates []byte
	if err := row.Scan(&cycle.ID, &cycle.Name, &cycle.Type, &cycle.StartDate, &cycle.EndDate, &templates, &cycle.Status, &cycle.ObjectionWindowDays, &cycle.ClosedAt, &cycle.ArchivedAt, &cycle.CreatedAt, &cycle.UpdatedAt); err != nil {
		return Cycle{}, err
	}
	cycle.TemplateIDs = jsonStrings(templates)
	return cycle, nil
}
