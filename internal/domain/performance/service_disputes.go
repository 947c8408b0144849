package performance

import (
	"context"
	"strings"
	"time"
)

type FileDisputeInput struct {
	AppraisalID        string `json:"appraisalId"`
	AssignmentID       string `json:"assignmentId"`
	CycleID            string `json:"cycleId"`
	RaisedByEmployeeID string `json:"raisedByEmployeeId"`
	Reason             string `json:"reason"`
	Details            string `json:"details"`
}

type ResolveDisputeInput struct {
	Status               string `json:"status"`
	ResolutionSummary    string `json:"resolutionSummary"`
	ResolvedByEmployeeID string `json:"resolvedByEmployeeId"`
}

func (s *Service) FileDispute(ctx context.Context, input FileDisputeInput) (Dispute, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return Dispute{}, Invalidf("dispute reason is required")
	}
	if input.RaisedByEmployeeID == "" {
		return Dispute{}, Invalidf("raisedByEmployeeId is required")
	}

	record, err := s.store.GetRecord(ctx, input.AppraisalID)
	if err != nil {
		return Dispute{}, err
	}
	if record.Status != RecordStatusHRPublished {
		return Dispute{}, Invalidf("Disputes can only be filed for published appraisals")
	}

	windowDays := DefaultObjectionWindowDays
	if cycle, err := s.store.GetCycle(ctx, record.CycleID); err == nil && cycle.ObjectionWindowDays > 0 {
		windowDays = cycle.ObjectionWindowDays
	}

	publishedAt := s.now()
	if record.HRPublishedAt != nil {
		publishedAt = *record.HRPublishedAt
	}
	windowClosesAt := publishedAt.Add(time.Duration(windowDays) * 24 * time.Hour)
	if s.now().After(windowClosesAt) {
		return Dispute{}, Invalidf("Dispute window has closed (%d days after publication)", windowDays)
	}

	open, err := s.store.HasOpenDispute(ctx, input.AppraisalID, input.RaisedByEmployeeID)
	if err != nil {
		return Dispute{}, err
	}
	if open {
		return Dispute{}, Conflictf("A dispute is already open for this appraisal")
	}

	// The partial unique index on live disputes backs up this check; the
	// store maps a violation to the same Conflict.
	return s.store.CreateDispute(ctx, Dispute{
		AppraisalID:        input.AppraisalID,
		AssignmentID:       coalesce(input.AssignmentID, record.AssignmentID),
		CycleID:            coalesce(input.CycleID, record.CycleID),
		RaisedByEmployeeID: input.RaisedByEmployeeID,
		Reason:             input.Reason,
		Details:            input.Details,
		Status:             DisputeStatusOpen,
		SubmittedAt:        s.now(),
	})
}

func (s *Service) ResolveDispute(ctx context.Context, disputeID string, input ResolveDisputeInput) (Dispute, error) {
	if !ValidDisputeResolution(input.Status) {
		return Dispute{}, Invalidf("resolution status must be UnderReview, Rejected or Adjusted")
	}

	dispute, err := s.store.GetDispute(ctx, disputeID)
	if err != nil {
		return Dispute{}, err
	}
	if err := CheckDisputeResolvable(dispute.Status); err != nil {
		return Dispute{}, err
	}

	// resolvedAt and the resolver are stamped on terminal outcomes only;
	// UnderReview is an intermediate state.
	var resolvedAt *time.Time
	resolvedBy := ""
	if input.Status != DisputeStatusUnderReview {
		now := s.now()
		resolvedAt = &now
		resolvedBy = input.ResolvedByEmployeeID
	}
	return s.store.ResolveDispute(ctx, disputeID, input.Status, input.ResolutionSummary, resolvedBy, resolvedAt)
}

func (s *Service) GetDispute(ctx context.Context, disputeID string) (Dispute, error) {
	return s.store.GetDispute(ctx, disputeID)
}

func (s *Service) ListDisputesByCycle(ctx context.Context, cycleID string) ([]Dispute, error) {
	return s.store.ListDisputesByCycle(ctx, cycleID)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
