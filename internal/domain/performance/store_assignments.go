package performance

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const assignmentColumns = `
    id, cycle_id, template_id, employee_id, manager_id,
    COALESCE(department_id::text, ''), COALESCE(position_id::text, ''),
    status, assigned_at, due_date, submitted_at, published_at`

func (s *Store) CreateAssignment(ctx context.Context, assignment Assignment) (Assignment, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO appraisal_assignments
      (cycle_id, template_id, employee_id, manager_id, department_id, position_id, status, assigned_at, due_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING`+assignmentColumns,
		assignment.CycleID, assignment.TemplateID, assignment.EmployeeID, assignment.ManagerID,
		nullIfEmpty(assignment.DepartmentID), nullIfEmpty(assignment.PositionID),
		assignment.Status, assignment.AssignedAt, assignment.DueDate)

	created, err := scanAssignment(row)
	if isUniqueViolation(err) {
		return Assignment{}, Conflictf("An assignment already exists for this employee in this cycle")
	}
	if err != nil {
		return Assignment{}, err
	}
	return created, nil
}

// InsertAssignments writes the batch inside one transaction, skipping
// triples that already exist.
func (s *Store) InsertAssignments(ctx context.Context, assignments []Assignment) ([]Assignment, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var created []Assignment
	for _, assignment := range assignments {
		row := tx.QueryRow(ctx, `
      INSERT INTO appraisal_assignments
        (cycle_id, template_id, employee_id, manager_id, department_id, position_id, status, assigned_at, due_date)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
      ON CONFLICT (cycle_id, employee_id, template_id) DO NOTHING
      RETURNING`+assignmentColumns,
			assignment.CycleID, assignment.TemplateID, assignment.EmployeeID, assignment.ManagerID,
			nullIfEmpty(assignment.DepartmentID), nullIfEmpty(assignment.PositionID),
			assignment.Status, assignment.AssignedAt, assignment.DueDate)

		inserted, err := scanAssignment(row)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		created = append(created, inserted)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Store) GetAssignment(ctx context.Context, assignmentID string) (Assignment, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+assignmentColumns+" FROM appraisal_assignments WHERE id = $1", assignmentID)
	assignment, err := scanAssignment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Assignment{}, NotFoundf("Assignment with ID %s not found", assignmentID)
	}
	if err != nil {
		return Assignment{}, err
	}
	return assignment, nil
}

func (s *Store) ListAssignments(ctx context.Context, filter AssignmentFilter) ([]Assignment, error) {
	query := "SELECT" + assignmentColumns + " FROM appraisal_assignments WHERE 1=1"
	args := []any{}
	if filter.CycleID != "" {
		args = append(args, filter.CycleID)
		query += fmt.Sprintf(" AND cycle_id = $%d", len(args))
	}
	if filter.TemplateID != "" {
		args = append(args, filter.TemplateID)
		query += fmt.Sprintf(" AND template_id = $%d", len(args))
	}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.ManagerID != "" {
		args = append(args, filter.ManagerID)
		query += fmt.Sprintf(" AND manager_id = $%d", len(args))
	}
	if len(filter.Statuses) > 0 {
		args = append(args, filter.Statuses)
		query += fmt.Sprintf(" AND status = ANY($%d)", len(args))
	}
	if len(filter.ExcludeStatuses) > 0 {
		args = append(args, filter.ExcludeStatuses)
		query += fmt.Sprintf(" AND status <> ALL($%d)", len(args))
	}
	query += " ORDER BY assigned_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []Assignment
	for rows.Next() {
		assignment, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	return assignments, rows.Err()
}

// DepartmentProgress aggregates assignment statuses per department for one
// cycle. The department name rides along from the directory tables.
func (s *Store) DepartmentProgress(ctx context.Context, cycleID string) ([]DepartmentProgress, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT COALESCE(a.department_id::text, ''),
           COALESCE(d.name, ''),
           COUNT(1),
           COUNT(1) FILTER (WHERE a.status = 'NotStarted'),
           COUNT(1) FILTER (WHERE a.status = 'InProgress'),
           COUNT(1) FILTER (WHERE a.status = 'Submitted'),
           COUNT(1) FILTER (WHERE a.status = 'Published')
    FROM appraisal_assignments a
    LEFT JOIN departments d ON d.id = a.department_id
    WHERE a.cycle_id = $1
    GROUP BY a.department_id, d.name
    ORDER BY d.name
  `, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []DepartmentProgress
	for rows.Next() {
		var m DepartmentProgress
		if err := rows.Scan(&m.DepartmentID, &m.DepartmentName, &m.Total, &m.NotStarted, &m.InProgress, &m.Submitted, &m.Published); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

func scanAssignment(row pgx.Row) (Assignment, error) {
	var a Assignment
	if err := row.Scan(&a.ID, &a.CycleID, &a.TemplateID, &a.EmployeeID, &a.ManagerID, &a.DepartmentID, &a.PositionID, &a.Status, &a.AssignedAt, &a.DueDate, &a.SubmittedAt, &a.PublishedAt); err != nil {
		return Assignment{}, err
	}
	return a, nil
}
