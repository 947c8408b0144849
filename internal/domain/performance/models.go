package performance

import "time"

type Template struct {
	ID                      string    `json:"id"`
	Name                    string    `json:"name"`
	Type                    string    `json:"type"`
	RatingScales            []string  `json:"ratingScales"`
	EvaluationCriteria      []string  `json:"evaluationCriteria"`
	ApplicableDepartmentIDs []string  `json:"applicableDepartmentIds"`
	ApplicablePositionIDs   []string  `json:"applicablePositionIds"`
	Active                  bool      `json:"active"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

type Cycle struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Type                string     `json:"type"`
	StartDate           time.Time  `json:"startDate"`
	EndDate             time.Time  `json:"endDate"`
	TemplateIDs         []string   `json:"templateIds"`
	Status              string     `json:"status"`
	ObjectionWindowDays int        `json:"objectionWindowDays"`
	ClosedAt            *time.Time `json:"closedAt,omitempty"`
	ArchivedAt          *time.Time `json:"archivedAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

type Assignment struct {
	ID           string     `json:"id"`
	CycleID      string     `json:"cycleId"`
	TemplateID   string     `json:"templateId"`
	EmployeeID   string     `json:"employeeId"`
	ManagerID    string     `json:"managerId"`
	DepartmentID string     `json:"departmentId"`
	PositionID   string     `json:"positionId,omitempty"`
	Status       string     `json:"status"`
	AssignedAt   time.Time  `json:"assignedAt"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	SubmittedAt  *time.Time `json:"submittedAt,omitempty"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
}

type Record struct {
	ID                             string             `json:"id"`
	AssignmentID                   string             `json:"assignmentId"`
	CycleID                        string             `json:"cycleId"`
	TemplateID                     string             `json:"templateId"`
	EmployeeID                     string             `json:"employeeId"`
	ManagerID                      string             `json:"managerId"`
	Ratings                        map[string]float64 `json:"ratings"`
	TotalScore                     float64            `json:"totalScore"`
	OverallRatingLabel             string             `json:"overallRatingLabel"`
	ManagerSummary                 string             `json:"managerSummary"`
	Strengths                      string             `json:"strengths"`
	ImprovementAreas               string             `json:"improvementAreas"`
	Status                         string             `json:"status"`
	ManagerSubmittedAt             *time.Time         `json:"managerSubmittedAt,omitempty"`
	HRPublishedAt                  *time.Time         `json:"hrPublishedAt,omitempty"`
	PublishedByEmployeeID          string             `json:"publishedByEmployeeId,omitempty"`
	EmployeeViewedAt               *time.Time         `json:"employeeViewedAt,omitempty"`
	EmployeeAcknowledgedAt         *time.Time         `json:"employeeAcknowledgedAt,omitempty"`
	EmployeeAcknowledgementComment string             `json:"employeeAcknowledgementComment,omitempty"`
	ArchivedAt                     *time.Time         `json:"archivedAt,omitempty"`
}

// RecordContent is the manager-authored portion of a Record, mutable until
// publication.
type RecordContent struct {
	Ratings            map[string]float64 `json:"ratings"`
	TotalScore         float64            `json:"totalScore"`
	OverallRatingLabel string             `json:"overallRatingLabel"`
	ManagerSummary     string             `json:"managerSummary"`
	Strengths          string             `json:"strengths"`
	ImprovementAreas   string             `json:"improvementAreas"`
}

type Dispute struct {
	ID                   string     `json:"id"`
	AppraisalID          string     `json:"appraisalId"`
	AssignmentID         string     `json:"assignmentId"`
	CycleID              string     `json:"cycleId"`
	RaisedByEmployeeID   string     `json:"raisedByEmployeeId"`
	Reason               string     `json:"reason"`
	Details              string     `json:"details"`
	Status               string     `json:"status"`
	SubmittedAt          time.Time  `json:"submittedAt"`
	ResolutionSummary    string     `json:"resolutionSummary,omitempty"`
	ResolvedByEmployeeID string     `json:"resolvedByEmployeeId,omitempty"`
	ResolvedAt           *time.Time `json:"resolvedAt,omitempty"`
}

type DepartmentProgress struct {
	DepartmentID         string  `json:"departmentId"`
	DepartmentName       string  `json:"departmentName,omitempty"`
	Total                int     `json:"total"`
	NotStarted           int     `json:"notStarted"`
	InProgress           int     `json:"inProgress"`
	Submitted            int     `json:"submitted"`
	Published            int     `json:"published"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

type CompletionDashboard struct {
	Cycle             Cycle                `json:"cycle"`
	DepartmentMetrics []DepartmentProgress `json:"departmentMetrics"`
}

type BulkAssignmentResult struct {
	Requested int          `json:"requested"`
	Created   int          `json:"created"`
	Skipped   int          `json:"skipped"`
	CycleID   string       `json:"cycleId"`
	Items     []Assignment `json:"items"`
}
