package performance

import "context"

type SubmitRecordInput struct {
	AssignmentID string        `json:"assignmentId"`
	Content      RecordContent `json:"content"`
}

// SubmitRecord creates or rewrites the evaluation for an assignment. Content
// stays editable until HR publishes; the record and assignment writes share
// one storage transaction so a crash cannot leave the pair split.
func (s *Service) SubmitRecord(ctx context.Context, input SubmitRecordInput) (Record, error) {
	assignment, err := s.store.GetAssignment(ctx, input.AssignmentID)
	if err != nil {
		return Record{}, err
	}

	current := RecordStatusNone
	if existing, found, err := s.store.RecordByAssignment(ctx, input.AssignmentID); err != nil {
		return Record{}, err
	} else if found {
		current = existing.Status
	}

	if _, err := NextRecordStatus(current, RecordEventSubmit); err != nil {
		return Record{}, err
	}

	return s.store.SubmitRecord(ctx, assignment, input.Content, s.now())
}

func (s *Service) PublishRecord(ctx context.Context, recordID, publishedByEmployeeID string) (Record, error) {
	record, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		return Record{}, err
	}
	if _, err := NextRecordStatus(record.Status, RecordEventPublish); err != nil {
		return Record{}, err
	}

	updated, applied, err := s.store.PublishRecord(ctx, recordID, publishedByEmployeeID, s.now())
	if err != nil {
		return Record{}, err
	}
	if !applied {
		// Another publisher got there first; re-read for the right denial.
		_, err := NextRecordStatus(updated.Status, RecordEventPublish)
		if err != nil {
			return Record{}, err
		}
		return Record{}, Invalidf("record status changed concurrently, retry")
	}
	return updated, nil
}

func (s *Service) AcknowledgeRecord(ctx context.Context, recordID, comment string) (Record, error) {
	record, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		return Record{}, err
	}
	if _, err := NextRecordStatus(record.Status, RecordEventAcknowledge); err != nil {
		return Record{}, err
	}

	updated, applied, err := s.store.AcknowledgeRecord(ctx, recordID, comment, s.now())
	if err != nil {
		return Record{}, err
	}
	if !applied {
		_, err := NextRecordStatus(updated.Status, RecordEventAcknowledge)
		if err != nil {
			return Record{}, err
		}
		return Record{}, Invalidf("record status changed concurrently, retry")
	}
	return updated, nil
}

func (s *Service) GetRecord(ctx context.Context, recordID string) (Record, error) {
	return s.store.GetRecord(ctx, recordID)
}

func (s *Service) ListRecordsByCycle(ctx context.Context, cycleID string) ([]Record, error) {
	return s.store.ListRecordsByCycle(ctx, cycleID)
}

// EmployeeHistory lists an employee's published and archived evaluations,
// newest publication first.
func (s *Service) EmployeeHistory(ctx context.Context, employeeID string) ([]Record, error) {
	return s.store.ListEmployeeHistory(ctx, employeeID)
}
