package performance

import (
	"context"
	"time"
)

// TemplatePatch carries partial template updates; nil fields are untouched.
type TemplatePatch struct {
	Name                    *string
	Type                    *string
	RatingScales            *[]string
	EvaluationCriteria      *[]string
	ApplicableDepartmentIDs *[]string
	ApplicablePositionIDs   *[]string
	Active                  *bool
}

// CyclePatch carries partial cycle updates; nil fields are untouched.
type CyclePatch struct {
	Name                *string
	Type                *string
	StartDate           *time.Time
	EndDate             *time.Time
	TemplateIDs         *[]string
	ObjectionWindowDays *int
	Status              *string
}

type TemplateFilter struct {
	Active *bool
	Type   string
}

type CycleFilter struct {
	Status string
	Type   string
}

type AssignmentFilter struct {
	CycleID         string
	TemplateID      string
	EmployeeID      string
	ManagerID       string
	Statuses        []string
	ExcludeStatuses []string
}

type StoreAPI interface {
	CreateTemplate(ctx context.Context, tmpl Template) (Template, error)
	UpdateTemplate(ctx context.Context, templateID string, patch TemplatePatch) (Template, error)
	GetTemplate(ctx context.Context, templateID string) (Template, error)
	ListTemplates(ctx context.Context, filter TemplateFilter) ([]Template, error)

	CreateCycle(ctx context.Context, cycle Cycle) (Cycle, error)
	UpdateCycle(ctx context.Context, cycleID string, patch CyclePatch) (Cycle, error)
	GetCycle(ctx context.Context, cycleID string) (Cycle, error)
	ListCycles(ctx context.Context, filter CycleFilter) ([]Cycle, error)
	// TransitionCycle applies from→to conditionally; the claimed flag is
	// false when another caller moved the cycle first.
	TransitionCycle(ctx context.Context, cycleID, from, to string, now time.Time) (Cycle, bool, error)
	ListArchivableCycles(ctx context.Context, closedBefore time.Time) ([]Cycle, error)
	ArchiveCycleRecords(ctx context.Context, cycleID string, now time.Time) (int, error)

	CreateAssignment(ctx context.Context, assignment Assignment) (Assignment, error)
	// InsertAssignments skips triples that already exist and returns the
	// rows actually created.
	InsertAssignments(ctx context.Context, assignments []Assignment) ([]Assignment, error)
	GetAssignment(ctx context.Context, assignmentID string) (Assignment, error)
	ListAssignments(ctx context.Context, filter AssignmentFilter) ([]Assignment, error)
	DepartmentProgress(ctx context.Context, cycleID string) ([]DepartmentProgress, error)

	GetRecord(ctx context.Context, recordID string) (Record, error)
	RecordByAssignment(ctx context.Context, assignmentID string) (Record, bool, error)
	ListRecordsByCycle(ctx context.Context, cycleID string) ([]Record, error)
	ListEmployeeHistory(ctx context.Context, employeeID string) ([]Record, error)
	// SubmitRecord upserts the record content and marks the assignment
	// submitted inside one transaction.
	SubmitRecord(ctx context.Context, assignment Assignment, content RecordContent, now time.Time) (Record, error)
	PublishRecord(ctx context.Context, recordID, publishedByEmployeeID string, now time.Time) (Record, bool, error)
	AcknowledgeRecord(ctx context.Context, recordID, comment string, now time.Time) (Record, bool, error)

	CreateDispute(ctx context.Context, dispute Dispute) (Dispute, error)
	HasOpenDispute(ctx context.Context, appraisalID, raisedByEmployeeID string) (bool, error)
	GetDispute(ctx context.Context, disputeID string) (Dispute, error)
	ListDisputesByCycle(ctx context.Context, cycleID string) ([]Dispute, error)
	ResolveDispute(ctx context.Context, disputeID, status, resolutionSummary, resolvedByEmployeeID string, resolvedAt *time.Time) (Dispute, error)
}
