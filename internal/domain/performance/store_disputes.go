package performance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

const disputeColumns = `
    id, appraisal_id, assignment_id, cycle_id, raised_by_employee_id,
    reason, details, status, submitted_at, resolution_summary,
    COALESCE(resolved_by_employee_id::text, ''), resolved_at`

func (s *Store) CreateDispute(ctx context.Context, dispute Dispute) (Dispute, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO appraisal_disputes
      (appraisal_id, assignment_id, cycle_id, raised_by_employee_id, reason, details, status, submitted_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING`+disputeColumns,
		dispute.AppraisalID, dispute.AssignmentID, dispute.CycleID, dispute.RaisedByEmployeeID,
		dispute.Reason, dispute.Details, dispute.Status, dispute.SubmittedAt)

	created, err := scanDispute(row)
	if isUniqueViolation(err) {
		return Dispute{}, Conflictf("A dispute is already open for this appraisal")
	}
	if err != nil {
		return Dispute{}, err
	}
	return created, nil
}

func (s *Store) HasOpenDispute(ctx context.Context, appraisalID, raisedByEmployeeID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM appraisal_disputes
    WHERE appraisal_id = $1 AND raised_by_employee_id = $2 AND status IN ('Open', 'UnderReview')
  `, appraisalID, raisedByEmployeeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) GetDispute(ctx context.Context, disputeID string) (Dispute, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+disputeColumns+" FROM appraisal_disputes WHERE id = $1", disputeID)
	dispute, err := scanDispute(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Dispute{}, NotFoundf("Dispute with ID %s not found", disputeID)
	}
	if err != nil {
		return Dispute{}, err
	}
	return dispute, nil
}

func (s *Store) ListDisputesByCycle(ctx context.Context, cycleID string) ([]Dispute, error) {
	rows, err := s.DB.Query(ctx, "SELECT"+disputeColumns+" FROM appraisal_disputes WHERE cycle_id = $1 ORDER BY submitted_at DESC", cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var disputes []Dispute
	for rows.Next() {
		dispute, err := scanDispute(rows)
		if err != nil {
			return nil, err
		}
		disputes = append(disputes, dispute)
	}
	return disputes, rows.Err()
}

func (s *Store) ResolveDispute(ctx context.Context, disputeID, status, resolutionSummary, resolvedByEmployeeID string, resolvedAt *time.Time) (Dispute, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE appraisal_disputes
    SET status = $1, resolution_summary = $2, resolved_by_employee_id = $3, resolved_at = $4
    WHERE id = $5
    RETURNING`+disputeColumns,
		status, resolutionSummary, nullIfEmpty(resolvedByEmployeeID), resolvedAt, disputeID)

	updated, err := scanDispute(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Dispute{}, NotFoundf("Dispute with ID %s not found", disputeID)
	}
	if err != nil {
		return Dispute{}, err
	}
	return updated, nil
}

func scanDispute(row pgx.Row) (Dispute, error) {
	var d Dispute
	if err := row.Scan(&d.ID, &d.AppraisalID, &d.AssignmentID, &d.CycleID, &d.RaisedByEmployeeID,
		&d.Reason, &d.Details, &d.Status, &d.SubmittedAt, &d.ResolutionSummary,
		&d.ResolvedByEmployeeID, &d.ResolvedAt); err != nil {
		return Dispute{}, err
	}
	return d, nil
}
