package performance

// Lifecycle events. Each entity advances through a declared transition
// table instead of ad-hoc status checks scattered through the operations.
const (
	CycleEventActivate = "activate"
	CycleEventClose    = "close"
	CycleEventArchive  = "archive"

	RecordEventSubmit      = "submit"
	RecordEventPublish     = "publish"
	RecordEventAcknowledge = "acknowledge"

	DisputeEventResolve = "resolve"
)

// RecordStatusNone marks the absence of a Record for an assignment; submit
// is the only event legal from it.
const RecordStatusNone = ""

type transition struct {
	from []string
	to   string
	deny string
}

func (t transition) allows(current string) bool {
	for _, s := range t.from {
		if s == current {
			return true
		}
	}
	return false
}

var cycleTransitions = map[string]transition{
	CycleEventActivate: {
		from: []string{CycleStatusPlanned},
		to:   CycleStatusActive,
		deny: "Only PLANNED cycles can be activated",
	},
	CycleEventClose: {
		from: []string{CycleStatusActive},
		to:   CycleStatusClosed,
		deny: "Only ACTIVE cycles can be closed",
	},
	CycleEventArchive: {
		from: []string{CycleStatusClosed},
		to:   CycleStatusArchived,
		deny: "Only CLOSED cycles can be archived",
	},
}

var recordTransitions = map[string]transition{
	RecordEventSubmit: {
		from: []string{RecordStatusNone, RecordStatusManagerSubmitted},
		to:   RecordStatusManagerSubmitted,
		deny: "Cannot modify a published appraisal record",
	},
	RecordEventPublish: {
		from: []string{RecordStatusManagerSubmitted},
		to:   RecordStatusHRPublished,
		deny: "Only MANAGER_SUBMITTED records can be published",
	},
	RecordEventAcknowledge: {
		from: []string{RecordStatusHRPublished},
		to:   RecordStatusArchived,
		deny: "Only HR_PUBLISHED records can be acknowledged",
	},
}

var disputeTransitions = map[string]transition{
	DisputeEventResolve: {
		from: []string{DisputeStatusOpen, DisputeStatusUnderReview},
		to:   "", // target supplied by the resolution itself
		deny: "Dispute has already been resolved",
	},
}

// recordCascade mirrors a record transition onto the owning assignment. The
// assignment status is a write-time projection of the record lifecycle.
var recordCascade = map[string]string{
	RecordEventSubmit:      AssignmentStatusSubmitted,
	RecordEventPublish:     AssignmentStatusPublished,
	RecordEventAcknowledge: AssignmentStatusAcknowledged,
}

func nextStatus(table map[string]transition, current, event string) (string, error) {
	t, ok := table[event]
	if !ok {
		return "", Invalidf("unknown lifecycle event %q", event)
	}
	if !t.allows(current) {
		return "", Invalidf("%s", t.deny)
	}
	return t.to, nil
}

// NextCycleStatus resolves a cycle lifecycle event against the transition
// table, returning the new status or the caller-facing denial.
func NextCycleStatus(current, event string) (string, error) {
	return nextStatus(cycleTransitions, current, event)
}

func NextRecordStatus(current, event string) (string, error) {
	return nextStatus(recordTransitions, current, event)
}

// CheckDisputeResolvable rejects resolution of a dispute already in a
// terminal state.
func CheckDisputeResolvable(current string) error {
	_, err := nextStatus(disputeTransitions, current, DisputeEventResolve)
	return err
}

// AssignmentStatusAfter returns the assignment status implied by a record
// lifecycle event.
func AssignmentStatusAfter(recordEvent string) (string, bool) {
	status, ok := recordCascade[recordEvent]
	return status, ok
}
