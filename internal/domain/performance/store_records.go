package performance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

const recordColumns = `
    id, assignment_id, cycle_id, template_id, employee_id, manager_id,
    ratings, total_score, overall_rating_label, manager_summary, strengths,
    improvement_areas, status, manager_submitted_at, hr_published_at,
    COALESCE(published_by_employee_id::text, ''), employee_viewed_at,
    employee_acknowledged_at, employee_acknowledgement_comment, archived_at`

func (s *Store) GetRecord(ctx context.Context, recordID string) (Record, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+recordColumns+" FROM appraisal_records WHERE id = $1", recordID)
	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, NotFoundf("Appraisal record with ID %s not found", recordID)
	}
	if err != nil {
		return Record{}, err
	}
	return record, nil
}

func (s *Store) RecordByAssignment(ctx context.Context, assignmentID string) (Record, bool, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+recordColumns+" FROM appraisal_records WHERE assignment_id = $1", assignmentID)
	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return record, true, nil
}

func (s *Store) ListRecordsByCycle(ctx context.Context, cycleID string) ([]Record, error) {
	return s.listRecords(ctx, "SELECT"+recordColumns+" FROM appraisal_records WHERE cycle_id = $1 ORDER BY manager_submitted_at DESC", cycleID)
}

func (s *Store) ListEmployeeHistory(ctx context.Context, employeeID string) ([]Record, error) {
	return s.listRecords(ctx, `
    SELECT`+recordColumns+`
    FROM appraisal_records
    WHERE employee_id = $1 AND status IN ('HRPublished', 'Archived')
    ORDER BY hr_published_at DESC NULLS LAST
  `, employeeID)
}

func (s *Store) listRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// SubmitRecord upserts the evaluation content and marks the assignment
// submitted in the same transaction. The assignment_id unique constraint
// makes the upsert race-safe.
func (s *Store) SubmitRecord(ctx context.Context, assignment Assignment, content RecordContent, now time.Time) (Record, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Record{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
    INSERT INTO appraisal_records
      (assignment_id, cycle_id, template_id, employee_id, manager_id,
       ratings, total_score, overall_rating_label, manager_summary,
       strengths, improvement_areas, status, manager_submitted_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    ON CONFLICT (assignment_id) DO UPDATE SET
      ratings = EXCLUDED.ratings,
      total_score = EXCLUDED.total_score,
      overall_rating_label = EXCLUDED.overall_rating_label,
      manager_summary = EXCLUDED.manager_summary,
      strengths = EXCLUDED.strengths,
      improvement_areas = EXCLUDED.improvement_areas,
      status = EXCLUDED.status,
      manager_submitted_at = EXCLUDED.manager_submitted_at
    WHERE appraisal_records.status <> 'HRPublished' AND appraisal_records.status <> 'Archived'
    RETURNING`+recordColumns,
		assignment.ID, assignment.CycleID, assignment.TemplateID, assignment.EmployeeID, assignment.ManagerID,
		mustJSON(content.Ratings), content.TotalScore, content.OverallRatingLabel, content.ManagerSummary,
		content.Strengths, content.ImprovementAreas, RecordStatusManagerSubmitted, now)

	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// The conditional upsert matched a record published meanwhile.
		return Record{}, Invalidf("Cannot modify a published appraisal record")
	}
	if err != nil {
		return Record{}, err
	}

	if _, err := tx.Exec(ctx, `
    UPDATE appraisal_assignments
    SET status = $1, submitted_at = $2
    WHERE id = $3
  `, AssignmentStatusSubmitted, now, assignment.ID); err != nil {
		return Record{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Record{}, err
	}
	return record, nil
}

func (s *Store) PublishRecord(ctx context.Context, recordID, publishedByEmployeeID string, now time.Time) (Record, bool, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Record{}, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
    UPDATE appraisal_records
    SET status = $1, hr_published_at = $2, published_by_employee_id = $3
    WHERE id = $4 AND status = $5
    RETURNING`+recordColumns,
		RecordStatusHRPublished, now, nullIfEmpty(publishedByEmployeeID), recordID, RecordStatusManagerSubmitted)

	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		current, getErr := s.GetRecord(ctx, recordID)
		if getErr != nil {
			return Record{}, false, getErr
		}
		return current, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}

	if _, err := tx.Exec(ctx, `
    UPDATE appraisal_assignments
    SET status = $1, published_at = $2
    WHERE id = $3
  `, AssignmentStatusPublished, now, record.AssignmentID); err != nil {
		return Record{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Record{}, false, err
	}
	return record, true, nil
}

func (s *Store) AcknowledgeRecord(ctx context.Context, recordID, comment string, now time.Time) (Record, bool, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Record{}, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
    UPDATE appraisal_records
    SET status = $1, employee_viewed_at = $2, employee_acknowledged_at = $2,
        employee_acknowledgement_comment = $3
    WHERE id = $4 AND status = $5
    RETURNING`+recordColumns,
		RecordStatusArchived, now, comment, recordID, RecordStatusHRPublished)

	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		current, getErr := s.GetRecord(ctx, recordID)
		if getErr != nil {
			return Record{}, false, getErr
		}
		return current, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}

	if _, err := tx.Exec(ctx, `
    UPDATE appraisal_assignments
    SET status = $1
    WHERE id = $2
  `, AssignmentStatusAcknowledged, record.AssignmentID); err != nil {
		return Record{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Record{}, false, err
	}
	return record, true, nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	var ratings []byte
	if err := row.Scan(&r.ID, &r.AssignmentID, &r.CycleID, &r.TemplateID, &r.EmployeeID, &r.ManagerID,
		&ratings, &r.TotalScore, &r.OverallRatingLabel, &r.ManagerSummary, &r.Strengths,
		&r.ImprovementAreas, &r.Status, &r.ManagerSubmittedAt, &r.HRPublishedAt,
		&r.PublishedByEmployeeID, &r.EmployeeViewedAt, &r.EmployeeAcknowledgedAt,
		&r.EmployeeAcknowledgementComment, &r.ArchivedAt); err != nil {
		return Record{}, err
	}
	r.Ratings = jsonRatings(ratings)
	return r, nil
}
