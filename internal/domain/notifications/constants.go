package notifications

const (
	TypeAssignmentCreated  = "assignment_created"
	TypeRecordSubmitted    = "record_submitted"
	TypeRecordPublished    = "record_published"
	TypeRecordAcknowledged = "record_acknowledged"
	TypeDisputeFiled       = "dispute_filed"
	TypeDisputeResolved    = "dispute_resolved"
	TypeCycleActivated     = "cycle_activated"
	TypeCycleClosed        = "cycle_closed"
)
