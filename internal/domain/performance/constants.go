package performance

const (
	CycleStatusPlanned  = "Planned"
	CycleStatusActive   = "Active"
	CycleStatusClosed   = "Closed"
	CycleStatusArchived = "Archived"

	AssignmentStatusNotStarted   = "NotStarted"
	AssignmentStatusInProgress   = "InProgress"
	AssignmentStatusSubmitted    = "Submitted"
	AssignmentStatusPublished    = "Published"
	AssignmentStatusAcknowledged = "Acknowledged"

	RecordStatusManagerSubmitted = "ManagerSubmitted"
	RecordStatusHRPublished      = "HRPublished"
	RecordStatusArchived         = "Archived"

	DisputeStatusOpen        = "Open"
	DisputeStatusUnderReview = "UnderReview"
	DisputeStatusRejected    = "Rejected"
	DisputeStatusAdjusted    = "Adjusted"

	TemplateTypeAnnual       = "Annual"
	TemplateTypeSemiAnnual   = "SemiAnnual"
	TemplateTypeProbationary = "Probationary"
)

// DefaultObjectionWindowDays is the objection window applied when a cycle
// does not set its own.
const DefaultObjectionWindowDays = 7

func ValidTemplateType(t string) bool {
	switch t {
	case TemplateTypeAnnual, TemplateTypeSemiAnnual, TemplateTypeProbationary:
		return true
	}
	return false
}

func ValidDisputeResolution(status string) bool {
	switch status {
	case DisputeStatusUnderReview, DisputeStatusRejected, DisputeStatusAdjusted:
		return true
	}
	return false
}
