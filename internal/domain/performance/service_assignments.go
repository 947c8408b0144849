package performance

import (
	"context"
	"errors"
	"time"

	"talentops/internal/domain/directory"
)

type CreateAssignmentInput struct {
	CycleID      string     `json:"cycleId"`
	TemplateID   string     `json:"templateId"`
	EmployeeID   string     `json:"employeeId"`
	ManagerID    string     `json:"managerId"`
	DepartmentID string     `json:"departmentId"`
	PositionID   string     `json:"positionId"`
	DueDate      *time.Time `json:"dueDate"`
}

type BulkCreateAssignmentsInput struct {
	CycleID      string     `json:"cycleId"`
	TemplateID   string     `json:"templateId"`
	EmployeeIDs  []string   `json:"employeeIds"`
	DepartmentID string     `json:"departmentId"`
	DueDate      *time.Time `json:"dueDate"`
}

func (s *Service) CreateAssignment(ctx context.Context, input CreateAssignmentInput) (Assignment, error) {
	if err := s.checkAssignmentTargets(ctx, input.CycleID, input.TemplateID); err != nil {
		return Assignment{}, err
	}
	if input.EmployeeID == "" || input.ManagerID == "" {
		return Assignment{}, Invalidf("employee id and manager id are required")
	}

	existing, err := s.store.ListAssignments(ctx, AssignmentFilter{
		CycleID:    input.CycleID,
		TemplateID: input.TemplateID,
		EmployeeID: input.EmployeeID,
	})
	if err != nil {
		return Assignment{}, err
	}
	if len(existing) > 0 {
		return Assignment{}, Conflictf("An assignment already exists for this employee in this cycle")
	}

	// The unique constraint on (cycle, employee, template) still backs this
	// up; the store maps the violation to the same Conflict.
	return s.store.CreateAssignment(ctx, Assignment{
		CycleID:      input.CycleID,
		TemplateID:   input.TemplateID,
		EmployeeID:   input.EmployeeID,
		ManagerID:    input.ManagerID,
		DepartmentID: input.DepartmentID,
		PositionID:   input.PositionID,
		Status:       AssignmentStatusNotStarted,
		AssignedAt:   s.now(),
		DueDate:      input.DueDate,
	})
}

// BulkCreateAssignments fans one template out to many employees. Managers
// come from each employee's reporting line in the directory, never from a
// default; an employee missing from the directory fails the whole batch
// before anything is inserted.
func (s *Service) BulkCreateAssignments(ctx context.Context, input BulkCreateAssignmentsInput) (BulkAssignmentResult, error) {
	if len(input.EmployeeIDs) == 0 {
		return BulkAssignmentResult{}, Invalidf("at least one employee id is required")
	}
	if err := s.checkAssignmentTargets(ctx, input.CycleID, input.TemplateID); err != nil {
		return BulkAssignmentResult{}, err
	}

	now := s.now()
	assignments := make([]Assignment, 0, len(input.EmployeeIDs))
	for _, employeeID := range input.EmployeeIDs {
		profile, err := s.directory.Profile(ctx, employeeID)
		if errors.Is(err, directory.ErrEmployeeNotFound) {
			return BulkAssignmentResult{}, NotFoundf("Employee with ID %s not found", employeeID)
		}
		if err != nil {
			return BulkAssignmentResult{}, err
		}
		if profile.ManagerID == "" {
			return BulkAssignmentResult{}, Invalidf("employee %s has no manager in the reporting line", employeeID)
		}

		departmentID := input.DepartmentID
		if departmentID == "" {
			departmentID = profile.DepartmentID
		}

		assignments = append(assignments, Assignment{
			CycleID:      input.CycleID,
			TemplateID:   input.TemplateID,
			EmployeeID:   employeeID,
			ManagerID:    profile.ManagerID,
			DepartmentID: departmentID,
			PositionID:   profile.PositionID,
			Status:       AssignmentStatusNotStarted,
			AssignedAt:   now,
			DueDate:      input.DueDate,
		})
	}

	created, err := s.store.InsertAssignments(ctx, assignments)
	if err != nil {
		return BulkAssignmentResult{}, err
	}

	return BulkAssignmentResult{
		Requested: len(assignments),
		Created:   len(created),
		Skipped:   len(assignments) - len(created),
		CycleID:   input.CycleID,
		Items:     created,
	}, nil
}

func (s *Service) checkAssignmentTargets(ctx context.Context, cycleID, templateID string) error {
	cycle, err := s.store.GetCycle(ctx, cycleID)
	if err != nil {
		return err
	}
	if cycle.Status != CycleStatusActive {
		return Invalidf("Assignments can only be created for ACTIVE cycles")
	}
	if _, err := s.store.GetTemplate(ctx, templateID); err != nil {
		return err
	}
	return nil
}

func (s *Service) GetAssignment(ctx context.Context, assignmentID string) (Assignment, error) {
	return s.store.GetAssignment(ctx, assignmentID)
}

func (s *Service) ListAssignments(ctx context.Context, filter AssignmentFilter) ([]Assignment, error) {
	return s.store.ListAssignments(ctx, filter)
}

// ListAssignmentsForManager returns a manager's workload minus anything
// already published to the employee.
func (s *Service) ListAssignmentsForManager(ctx context.Context, managerID string) ([]Assignment, error) {
	return s.store.ListAssignments(ctx, AssignmentFilter{
		ManagerID:       managerID,
		ExcludeStatuses: []string{AssignmentStatusPublished},
	})
}

func (s *Service) ListPendingForManager(ctx context.Context, managerID string) ([]Assignment, error) {
	return s.store.ListAssignments(ctx, AssignmentFilter{
		ManagerID: managerID,
		Statuses:  []string{AssignmentStatusNotStarted, AssignmentStatusInProgress},
	})
}
