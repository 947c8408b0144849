package performance

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"talentops/internal/domain/directory"
)

// fakeStore is an in-memory StoreAPI with the same guard semantics as the
// SQL store: conditional transitions, unique checks and conflict skipping.
type fakeStore struct {
	seq         int
	templates   map[string]Template
	cycles      map[string]Cycle
	assignments map[string]Assignment
	records     map[string]Record
	disputes    map[string]Dispute
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		templates:   map[string]Template{},
		cycles:      map[string]Cycle{},
		assignments: map[string]Assignment{},
		records:     map[string]Record{},
		disputes:    map[string]Dispute{},
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeStore) CreateTemplate(_ context.Context, tmpl Template) (Template, error) {
	for _, existing := range f.templates {
		if existing.Name == tmpl.Name {
			return Template{}, Conflictf("Template with name %q already exists", tmpl.Name)
		}
	}
	tmpl.ID = f.nextID("tmpl")
	f.templates[tmpl.ID] = tmpl
	return tmpl, nil
}

func (f *fakeStore) UpdateTemplate(_ context.Context, templateID string, patch TemplatePatch) (Template, error) {
	tmpl, ok := f.templates[templateID]
	if !ok {
		return Template{}, NotFoundf("Template with ID %s not found", templateID)
	}
	if patch.Name != nil {
		tmpl.Name = *patch.Name
	}
	if patch.Type != nil {
		tmpl.Type = *patch.Type
	}
	if patch.RatingScales != nil {
		tmpl.RatingScales = *patch.RatingScales
	}
	if patch.EvaluationCriteria != nil {
		tmpl.EvaluationCriteria = *patch.EvaluationCriteria
	}
	if patch.Active != nil {
		tmpl.Active = *patch.Active
	}
	f.templates[templateID] = tmpl
	return tmpl, nil
}

func (f *fakeStore) GetTemplate(_ context.Context, templateID string) (Template, error) {
	tmpl, ok := f.templates[templateID]
	if !ok {
		return Template{}, NotFoundf("Template with ID %s not found", templateID)
	}
	return tmpl, nil
}

func (f *fakeStore) ListTemplates(_ context.Context, filter TemplateFilter) ([]Template, error) {
	var out []Template
	for _, tmpl := range f.templates {
		if filter.Active != nil && tmpl.Active != *filter.Active {
			continue
		}
		if filter.Type != "" && tmpl.Type != filter.Type {
			continue
		}
		out = append(out, tmpl)
	}
	return out, nil
}

func (f *fakeStore) CreateCycle(_ context.Context, cycle Cycle) (Cycle, error) {
	for _, existing := range f.cycles {
		if existing.Name == cycle.Name {
			return Cycle{}, Conflictf("Cycle with name %q already exists", cycle.Name)
		}
	}
	cycle.ID = f.nextID("cycle")
	f.cycles[cycle.ID] = cycle
	return cycle, nil
}

func (f *fakeStore) UpdateCycle(_ context.Context, cycleID string, patch CyclePatch) (Cycle, error) {
	cycle, ok := f.cycles[cycleID]
	if !ok {
		return Cycle{}, NotFoundf("Appraisal cycle with ID %s not found", cycleID)
	}
	if patch.Name != nil {
		cycle.Name = *patch.Name
	}
	if patch.StartDate != nil {
		cycle.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		cycle.EndDate = *patch.EndDate
	}
	if patch.TemplateIDs != nil {
		cycle.TemplateIDs = *patch.TemplateIDs
	}
	if patch.ObjectionWindowDays != nil {
		cycle.ObjectionWindowDays = *patch.ObjectionWindowDays
	}
	f.cycles[cycleID] = cycle
	return cycle, nil
}

func (f *fakeStore) GetCycle(_ context.Context, cycleID string) (Cycle, error) {
	cycle, ok := f.cycles[cycleID]
	if !ok {
		return Cycle{}, NotFoundf("Appraisal cycle with ID %s not found", cycleID)
	}
	return cycle, nil
}

func (f *fakeStore) ListCycles(_ context.Context, filter CycleFilter) ([]Cycle, error) {
	var out []Cycle
	for _, cycle := range f.cycles {
		if filter.Status != "" && cycle.Status != filter.Status {
			continue
		}
		if filter.Type != "" && cycle.Type != filter.Type {
			continue
		}
		out = append(out, cycle)
	}
	return out, nil
}

func (f *fakeStore) TransitionCycle(_ context.Context, cycleID, from, to string, now time.Time) (Cycle, bool, error) {
	cycle, ok := f.cycles[cycleID]
	if !ok {
		return Cycle{}, false, NotFoundf("Appraisal cycle with ID %s not found", cycleID)
	}
	if cycle.Status != from {
		return cycle, false, nil
	}
	cycle.Status = to
	switch to {
	case CycleStatusClosed:
		cycle.ClosedAt = &now
	case CycleStatusArchived:
		cycle.ArchivedAt = &now
	}
	f.cycles[cycleID] = cycle
	return cycle, true, nil
}

func (f *fakeStore) ListArchivableCycles(_ context.Context, closedBefore time.Time) ([]Cycle, error) {
	var out []Cycle
	for _, cycle := range f.cycles {
		if cycle.Status != CycleStatusClosed || cycle.ClosedAt == nil {
			continue
		}
		if cycle.ClosedAt.After(closedBefore) {
			continue
		}
		out = append(out, cycle)
	}
	return out, nil
}

func (f *fakeStore) ArchiveCycleRecords(_ context.Context, cycleID string, now time.Time) (int, error) {
	stamped := 0
	for id, record := range f.records {
		if record.CycleID != cycleID || record.ArchivedAt != nil {
			continue
		}
		record.ArchivedAt = &now
		record.Status = RecordStatusArchived
		f.records[id] = record
		stamped++
	}
	return stamped, nil
}

func (f *fakeStore) CreateAssignment(_ context.Context, assignment Assignment) (Assignment, error) {
	for _, existing := range f.assignments {
		if existing.CycleID == assignment.CycleID && existing.EmployeeID == assignment.EmployeeID && existing.TemplateID == assignment.TemplateID {
			return Assignment{}, Conflictf("An assignment already exists for this employee in this cycle")
		}
	}
	assignment.ID = f.nextID("asg")
	f.assignments[assignment.ID] = assignment
	return assignment, nil
}

func (f *fakeStore) InsertAssignments(ctx context.Context, assignments []Assignment) ([]Assignment, error) {
	var created []Assignment
	for _, assignment := range assignments {
		inserted, err := f.CreateAssignment(ctx, assignment)
		if CodeOf(err) == CodeConflict {
			continue
		}
		if err != nil {
			return nil, err
		}
		created = append(created, inserted)
	}
	return created, nil
}

func (f *fakeStore) GetAssignment(_ context.Context, assignmentID string) (Assignment, error) {
	assignment, ok := f.assignments[assignmentID]
	if !ok {
		return Assignment{}, NotFoundf("Assignment with ID %s not found", assignmentID)
	}
	return assignment, nil
}

func (f *fakeStore) ListAssignments(_ context.Context, filter AssignmentFilter) ([]Assignment, error) {
	var out []Assignment
	for _, assignment := range f.assignments {
		if filter.CycleID != "" && assignment.CycleID != filter.CycleID {
			continue
		}
		if filter.TemplateID != "" && assignment.TemplateID != filter.TemplateID {
			continue
		}
		if filter.EmployeeID != "" && assignment.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.ManagerID != "" && assignment.ManagerID != filter.ManagerID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, assignment.Status) {
			continue
		}
		if len(filter.ExcludeStatuses) > 0 && containsStatus(filter.ExcludeStatuses, assignment.Status) {
			continue
		}
		out = append(out, assignment)
	}
	return out, nil
}

func containsStatus(statuses []string, status string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (f *fakeStore) DepartmentProgress(_ context.Context, cycleID string) ([]DepartmentProgress, error) {
	byDept := map[string]*DepartmentProgress{}
	for _, assignment := range f.assignments {
		if assignment.CycleID != cycleID {
			continue
		}
		progress, ok := byDept[assignment.DepartmentID]
		if !ok {
			progress = &DepartmentProgress{DepartmentID: assignment.DepartmentID}
			byDept[assignment.DepartmentID] = progress
		}
		progress.Total++
		switch assignment.Status {
		case AssignmentStatusNotStarted:
			progress.NotStarted++
		case AssignmentStatusInProgress:
			progress.InProgress++
		case AssignmentStatusSubmitted:
			progress.Submitted++
		case AssignmentStatusPublished, AssignmentStatusAcknowledged:
			progress.Published++
		}
	}
	var out []DepartmentProgress
	for _, progress := range byDept {
		out = append(out, *progress)
	}
	return out, nil
}

func (f *fakeStore) GetRecord(_ context.Context, recordID string) (Record, error) {
	record, ok := f.records[recordID]
	if !ok {
		return Record{}, NotFoundf("Appraisal record with ID %s not found", recordID)
	}
	return record, nil
}

func (f *fakeStore) RecordByAssignment(_ context.Context, assignmentID string) (Record, bool, error) {
	for _, record := range f.records {
		if record.AssignmentID == assignmentID {
			return record, true, nil
		}
	}
	return Record{}, false, nil
}

func (f *fakeStore) ListRecordsByCycle(_ context.Context, cycleID string) ([]Record, error) {
	var out []Record
	for _, record := range f.records {
		if record.CycleID == cycleID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeStore) ListEmployeeHistory(_ context.Context, employeeID string) ([]Record, error) {
	var out []Record
	for _, record := range f.records {
		if record.EmployeeID != employeeID {
			continue
		}
		if record.Status != RecordStatusHRPublished && record.Status != RecordStatusArchived {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (f *fakeStore) SubmitRecord(ctx context.Context, assignment Assignment, content RecordContent, now time.Time) (Record, error) {
	existing, found, _ := f.RecordByAssignment(ctx, assignment.ID)
	if found && existing.Status != RecordStatusManagerSubmitted {
		return Record{}, Invalidf("Cannot modify a published appraisal record")
	}

	record := existing
	if !found {
		record = Record{ID: f.nextID("rec"), AssignmentID: assignment.ID}
	}
	record.CycleID = assignment.CycleID
	record.TemplateID = assignment.TemplateID
	record.EmployeeID = assignment.EmployeeID
	record.ManagerID = assignment.ManagerID
	record.Ratings = content.Ratings
	record.TotalScore = content.TotalScore
	record.OverallRatingLabel = content.OverallRatingLabel
	record.ManagerSummary = content.ManagerSummary
	record.Strengths = content.Strengths
	record.ImprovementAreas = content.ImprovementAreas
	record.Status = RecordStatusManagerSubmitted
	record.ManagerSubmittedAt = &now
	f.records[record.ID] = record

	assignment.Status = AssignmentStatusSubmitted
	assignment.SubmittedAt = &now
	f.assignments[assignment.ID] = assignment
	return record, nil
}

func (f *fakeStore) PublishRecord(_ context.Context, recordID, publishedByEmployeeID string, now time.Time) (Record, bool, error) {
	record, ok := f.records[recordID]
	if !ok {
		return Record{}, false, NotFoundf("Appraisal record with ID %s not found", recordID)
	}
	if record.Status != RecordStatusManagerSubmitted {
		return record, false, nil
	}
	record.Status = RecordStatusHRPublished
	record.HRPublishedAt = &now
	record.PublishedByEmployeeID = publishedByEmployeeID
	f.records[recordID] = record

	if assignment, ok := f.assignments[record.AssignmentID]; ok {
		assignment.Status = AssignmentStatusPublished
		assignment.PublishedAt = &now
		f.assignments[assignment.ID] = assignment
	}
	return record, true, nil
}

func (f *fakeStore) AcknowledgeRecord(_ context.Context, recordID, comment string, now time.Time) (Record, bool, error) {
	record, ok := f.records[recordID]
	if !ok {
		return Record{}, false, NotFoundf("Appraisal record with ID %s not found", recordID)
	}
	if record.Status != RecordStatusHRPublished {
		return record, false, nil
	}
	record.Status = RecordStatusArchived
	record.EmployeeViewedAt = &now
	record.EmployeeAcknowledgedAt = &now
	record.EmployeeAcknowledgementComment = comment
	f.records[recordID] = record

	if assignment, ok := f.assignments[record.AssignmentID]; ok {
		assignment.Status = AssignmentStatusAcknowledged
		f.assignments[assignment.ID] = assignment
	}
	return record, true, nil
}

func (f *fakeStore) CreateDispute(_ context.Context, dispute Dispute) (Dispute, error) {
	for _, existing := range f.disputes {
		if existing.AppraisalID == dispute.AppraisalID && existing.RaisedByEmployeeID == dispute.RaisedByEmployeeID &&
			(existing.Status == DisputeStatusOpen || existing.Status == DisputeStatusUnderReview) {
			return Dispute{}, Conflictf("A dispute is already open for this appraisal")
		}
	}
	dispute.ID = f.nextID("dsp")
	f.disputes[dispute.ID] = dispute
	return dispute, nil
}

func (f *fakeStore) HasOpenDispute(_ context.Context, appraisalID, raisedByEmployeeID string) (bool, error) {
	for _, dispute := range f.disputes {
		if dispute.AppraisalID == appraisalID && dispute.RaisedByEmployeeID == raisedByEmployeeID &&
			(dispute.Status == DisputeStatusOpen || dispute.Status == DisputeStatusUnderReview) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) GetDispute(_ context.Context, disputeID string) (Dispute, error) {
	dispute, ok := f.disputes[disputeID]
	if !ok {
		return Dispute{}, NotFoundf("Dispute with ID %s not found", disputeID)
	}
	return dispute, nil
}

func (f *fakeStore) ListDisputesByCycle(_ context.Context, cycleID string) ([]Dispute, error) {
	var out []Dispute
	for _, dispute := range f.disputes {
		if dispute.CycleID == cycleID {
			out = append(out, dispute)
		}
	}
	return out, nil
}

func (f *fakeStore) ResolveDispute(_ context.Context, disputeID, status, resolutionSummary, resolvedByEmployeeID string, resolvedAt *time.Time) (Dispute, error) {
	dispute, ok := f.disputes[disputeID]
	if !ok {
		return Dispute{}, NotFoundf("Dispute with ID %s not found", disputeID)
	}
	dispute.Status = status
	dispute.ResolutionSummary = resolutionSummary
	dispute.ResolvedByEmployeeID = resolvedByEmployeeID
	dispute.ResolvedAt = resolvedAt
	f.disputes[disputeID] = dispute
	return dispute, nil
}

var _ StoreAPI = (*fakeStore)(nil)

type fakeDirectory struct {
	profiles map[string]directory.Profile
}

func (f *fakeDirectory) Profile(_ context.Context, employeeID string) (directory.Profile, error) {
	profile, ok := f.profiles[employeeID]
	if !ok {
		return directory.Profile{}, directory.ErrEmployeeNotFound
	}
	return profile, nil
}

func (f *fakeDirectory) DepartmentName(_ context.Context, departmentID string) (string, error) {
	return "Dept " + departmentID, nil
}

var _ directory.API = (*fakeDirectory)(nil)

type fixture struct {
	store   *fakeStore
	dir     *fakeDirectory
	service *Service
	clock   time.Time
}

func newFixture() *fixture {
	f := &fixture{
		store: newFakeStore(),
		dir: &fakeDirectory{profiles: map[string]directory.Profile{
			"emp-1":     {EmployeeID: "emp-1", ManagerID: "mgr-1", DepartmentID: "dept-1"},
			"emp-2":     {EmployeeID: "emp-2", ManagerID: "mgr-1", DepartmentID: "dept-1"},
			"emp-3":     {EmployeeID: "emp-3", ManagerID: "mgr-2", DepartmentID: "dept-2"},
			"emp-nomgr": {EmployeeID: "emp-nomgr", DepartmentID: "dept-2"},
		}},
		clock: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	f.service = NewService(f.store, f.dir)
	f.service.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func (f *fixture) activeCycle(t *testing.T) Cycle {
	t.Helper()
	cycle, err := f.service.CreateCycle(context.Background(), CreateCycleInput{
		Name:      "FY25 Annual " + f.store.nextID("n"),
		Type:      TemplateTypeAnnual,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create cycle: %v", err)
	}
	cycle, err = f.service.ActivateCycle(context.Background(), cycle.ID)
	if err != nil {
		t.Fatalf("activate cycle: %v", err)
	}
	return cycle
}

func (f *fixture) template(t *testing.T) Template {
	t.Helper()
	tmpl, err := f.service.CreateTemplate(context.Background(), CreateTemplateInput{
		Name:               "Annual Review " + f.store.nextID("n"),
		Type:               TemplateTypeAnnual,
		RatingScales:       []string{"Outstanding", "Meets", "Below"},
		EvaluationCriteria: []string{"Delivery", "Collaboration"},
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	return tmpl
}

func (f *fixture) submittedRecord(t *testing.T) (Cycle, Record) {
	t.Helper()
	cycle := f.activeCycle(t)
	tmpl := f.template(t)
	result, err := f.service.BulkCreateAssignments(context.Background(), BulkCreateAssignmentsInput{
		CycleID:     cycle.ID,
		TemplateID:  tmpl.ID,
		EmployeeIDs: []string{"emp-1"},
	})
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	record, err := f.service.SubmitRecord(context.Background(), SubmitRecordInput{
		AssignmentID: result.Items[0].ID,
		Content: RecordContent{
			Ratings:        map[string]float64{"Delivery": 4, "Collaboration": 5},
			TotalScore:     4.5,
			ManagerSummary: "Strong year.",
		},
	})
	if err != nil {
		t.Fatalf("submit record: %v", err)
	}
	return cycle, record
}

func TestCreateCycleValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.CreateCycle(ctx, CreateCycleInput{
		Name:      "Backwards",
		StartDate: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err == nil || err.Error() != "Start date must be before end date" {
		t.Fatalf("expected date-order rejection, got %v", err)
	}
	if CodeOf(err) != CodeInvalid {
		t.Fatalf("expected invalid code, got %s", CodeOf(err))
	}

	cycle, err := f.service.CreateCycle(ctx, CreateCycleInput{
		Name:      "FY25",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create cycle: %v", err)
	}
	if cycle.Status != CycleStatusPlanned {
		t.Fatalf("new cycle should be Planned, got %s", cycle.Status)
	}
	if cycle.ObjectionWindowDays != DefaultObjectionWindowDays {
		t.Fatalf("expected default objection window, got %d", cycle.ObjectionWindowDays)
	}

	_, err = f.service.CreateCycle(ctx, CreateCycleInput{
		Name:      "FY25",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	if CodeOf(err) != CodeConflict {
		t.Fatalf("duplicate cycle name should conflict, got %v", err)
	}
}

func TestCycleLifecycleGuards(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cycle := f.activeCycle(t)

	if _, err := f.service.ActivateCycle(ctx, cycle.ID); err == nil {
		t.Fatal("re-activating an active cycle should fail")
	}

	if _, err := f.service.ArchiveCycle(ctx, cycle.ID); err == nil {
		t.Fatal("archiving an active cycle should fail")
	}

	closed, err := f.service.CloseCycle(ctx, cycle.ID)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Status != CycleStatusClosed || closed.ClosedAt == nil {
		t.Fatalf("close should stamp closedAt, got %+v", closed)
	}

	archived, err := f.service.ArchiveCycle(ctx, cycle.ID)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if archived.Status != CycleStatusArchived {
		t.Fatalf("expected Archived, got %s", archived.Status)
	}
}

func TestUpdateCycleOnlyWhilePlanned(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cycle, err := f.service.CreateCycle(ctx, CreateCycleInput{
		Name:      "H2 Review",
		StartDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "H2 Review (revised)"
	if _, err := f.service.UpdateCycle(ctx, cycle.ID, CyclePatch{Name: &name}); err != nil {
		t.Fatalf("update while Planned: %v", err)
	}

	if _, err := f.service.ActivateCycle(ctx, cycle.ID); err != nil {
		t.Fatalf("activate: %v", err)
	}
	_, err = f.service.UpdateCycle(ctx, cycle.ID, CyclePatch{Name: &name})
	if err == nil || err.Error() != "Can only update cycles in PLANNED status" {
		t.Fatalf("expected planned-only guard, got %v", err)
	}
}

func TestBulkCreateAssignments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cycle := f.activeCycle(t)
	tmpl := f.template(t)

	result, err := f.service.BulkCreateAssignments(ctx, BulkCreateAssignmentsInput{
		CycleID:     cycle.ID,
		TemplateID:  tmpl.ID,
		EmployeeIDs: []string{"emp-1", "emp-2", "emp-3"},
	})
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	if result.Created != 3 || result.Skipped != 0 {
		t.Fatalf("expected 3 created, got %+v", result)
	}
	for _, assignment := range result.Items {
		if assignment.ManagerID == "" {
			t.Fatalf("assignment %s missing manager", assignment.ID)
		}
		if assignment.Status != AssignmentStatusNotStarted {
			t.Fatalf("new assignment should be NotStarted, got %s", assignment.Status)
		}
	}

	// Repeating the batch skips existing triples instead of failing.
	result, err = f.service.BulkCreateAssignments(ctx, BulkCreateAssignmentsInput{
		CycleID:     cycle.ID,
		TemplateID:  tmpl.ID,
		EmployeeIDs: []string{"emp-1", "emp-2", "emp-3"},
	})
	if err != nil {
		t.Fatalf("repeat bulk create: %v", err)
	}
	if result.Created != 0 || result.Skipped != 3 {
		t.Fatalf("expected all skipped on repeat, got %+v", result)
	}

	_, err = f.service.BulkCreateAssignments(ctx, BulkCreateAssignmentsInput{
		CycleID:     cycle.ID,
		TemplateID:  tmpl.ID,
		EmployeeIDs: []string{"emp-ghost"},
	})
	if CodeOf(err) != CodeNotFound {
		t.Fatalf("unknown employee should be not_found, got %v", err)
	}
	if err == nil || err.Error() != "Employee with ID emp-ghost not found" {
		t.Fatalf("unexpected message: %v", err)
	}

	_, err = f.service.BulkCreateAssignments(ctx, BulkCreateAssignmentsInput{
		CycleID:     cycle.ID,
		TemplateID:  tmpl.ID,
		EmployeeIDs: []string{"emp-nomgr"},
	})
	if CodeOf(err) != CodeInvalid {
		t.Fatalf("employee without manager should be invalid, got %v", err)
	}
}

func TestAssignmentsRequireActiveCycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tmpl := f.template(t)

	cycle, err := f.service.CreateCycle(ctx, CreateCycleInput{
		Name:      "Planned Only",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create cycle: %v", err)
	}

	_, err = f.service.CreateAssignment(ctx, CreateAssignmentInput{
		CycleID:    cycle.ID,
		TemplateID: tmpl.ID,
		EmployeeID: "emp-1",
		ManagerID:  "mgr-1",
	})
	if err == nil || err.Error() != "Assignments can only be created for ACTIVE cycles" {
		t.Fatalf("expected active-cycle guard, got %v", err)
	}
}

func TestDuplicateAssignmentConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cycle := f.activeCycle(t)
	tmpl := f.template(t)

	input := CreateAssignmentInput{
		CycleID:    cycle.ID,
		TemplateID: tmpl.ID,
		EmployeeID: "emp-1",
		ManagerID:  "mgr-1",
	}
	if _, err := f.service.CreateAssignment(ctx, input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := f.service.CreateAssignment(ctx, input)
	if CodeOf(err) != CodeConflict {
		t.Fatalf("duplicate triple should conflict, got %v", err)
	}
}

func TestSubmitResubmitAndPublishGuards(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, record := f.submittedRecord(t)

	if record.Status != RecordStatusManagerSubmitted {
		t.Fatalf("expected ManagerSubmitted, got %s", record.Status)
	}

	// Resubmission rewrites content while still unpublished.
	updated, err := f.service.SubmitRecord(ctx, SubmitRecordInput{
		AssignmentID: record.AssignmentID,
		Content:      RecordContent{TotalScore: 3.0, ManagerSummary: "Revised."},
	})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if updated.ID != record.ID || updated.TotalScore != 3.0 {
		t.Fatalf("resubmit should rewrite the same record, got %+v", updated)
	}

	published, err := f.service.PublishRecord(ctx, record.ID, "hr-1")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.Status != RecordStatusHRPublished || published.HRPublishedAt == nil {
		t.Fatalf("publish should stamp hrPublishedAt, got %+v", published)
	}
	if published.PublishedByEmployeeID != "hr-1" {
		t.Fatalf("publish should record the publisher, got %q", published.PublishedByEmployeeID)
	}

	// Published content is frozen.
	_, err = f.service.SubmitRecord(ctx, SubmitRecordInput{
		AssignmentID: record.AssignmentID,
		Content:      RecordContent{TotalScore: 1.0},
	})
	if err == nil || err.Error() != "Cannot modify a published appraisal record" {
		t.Fatalf("expected frozen-record guard, got %v", err)
	}

	// Publishing twice is denied.
	_, err = f.service.PublishRecord(ctx, record.ID, "hr-1")
	if err == nil || err.Error() != "Only MANAGER_SUBMITTED records can be published" {
		t.Fatalf("expected double-publish guard, got %v", err)
	}
}

func TestAcknowledgeRecord(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, record := f.submittedRecord(t)

	if _, err := f.service.AcknowledgeRecord(ctx, record.ID, "ok"); err == nil {
		t.Fatal("acknowledging an unpublished record should fail")
	}

	if _, err := f.service.PublishRecord(ctx, record.ID, "hr-1"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	acked, err := f.service.AcknowledgeRecord(ctx, record.ID, "Thanks for the feedback")
	if err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if acked.EmployeeAcknowledgedAt == nil || acked.EmployeeAcknowledgementComment != "Thanks for the feedback" {
		t.Fatalf("acknowledge should stamp the comment, got %+v", acked)
	}
	if acked.Status != RecordStatusArchived {
		t.Fatalf("acknowledged record should be Archived, got %s", acked.Status)
	}

	assignment, err := f.service.GetAssignment(ctx, record.AssignmentID)
	if err != nil {
		t.Fatalf("get assignment: %v", err)
	}
	if assignment.Status != AssignmentStatusAcknowledged {
		t.Fatalf("assignment should cascade to Acknowledged, got %s", assignment.Status)
	}
}

func TestDisputeWindow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, record := f.submittedRecord(t)

	if _, err := f.service.PublishRecord(ctx, record.ID, "hr-1"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	// Just inside the 7-day window.
	f.advance(7*24*time.Hour - time.Minute)
	dispute, err := f.service.FileDispute(ctx, FileDisputeInput{
		AppraisalID:        record.ID,
		RaisedByEmployeeID: "emp-1",
		Reason:             "Score does not reflect the delivered projects",
	})
	if err != nil {
		t.Fatalf("file dispute inside window: %v", err)
	}
	if dispute.Status != DisputeStatusOpen {
		t.Fatalf("new dispute should be Open, got %s", dispute.Status)
	}
	if dispute.CycleID != record.CycleID || dispute.AssignmentID != record.AssignmentID {
		t.Fatalf("dispute should inherit record linkage, got %+v", dispute)
	}

	// A second open dispute by the same employee is rejected.
	_, err = f.service.FileDispute(ctx, FileDisputeInput{
		AppraisalID:        record.ID,
		RaisedByEmployeeID: "emp-1",
		Reason:             "Again",
	})
	if CodeOf(err) != CodeConflict {
		t.Fatalf("duplicate open dispute should conflict, got %v", err)
	}

	// Once resolved, a new dispute may be opened (still inside the window).
	if _, err := f.service.ResolveDispute(ctx, dispute.ID, ResolveDisputeInput{
		Status:               DisputeStatusRejected,
		ResolutionSummary:    "Reviewed with the manager; scores stand.",
		ResolvedByEmployeeID: "hr-1",
	}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := f.service.FileDispute(ctx, FileDisputeInput{
		AppraisalID:        record.ID,
		RaisedByEmployeeID: "emp-1",
		Reason:             "New evidence",
	}); err != nil {
		t.Fatalf("dispute after resolution should be allowed: %v", err)
	}
}

func TestDisputeWindowClosed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, record := f.submittedRecord(t)

	if _, err := f.service.PublishRecord(ctx, record.ID, "hr-1"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	f.advance(7*24*time.Hour + time.Minute)
	_, err := f.service.FileDispute(ctx, FileDisputeInput{
		AppraisalID:        record.ID,
		RaisedByEmployeeID: "emp-1",
		Reason:             "Too late",
	})
	if err == nil || !strings.Contains(err.Error(), "Dispute window has closed") {
		t.Fatalf("expected closed-window rejection, got %v", err)
	}
	if CodeOf(err) != CodeInvalid {
		t.Fatalf("expected invalid code, got %s", CodeOf(err))
	}
}

func TestResolveDisputeStampsResolution(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, record := f.submittedRecord(t)
	if _, err := f.service.PublishRecord(ctx, record.ID, "hr-1"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	dispute, err := f.service.FileDispute(ctx, FileDisputeInput{
		AppraisalID:        record.ID,
		RaisedByEmployeeID: "emp-1",
		Reason:             "Disagree with the rating",
	})
	if err != nil {
		t.Fatalf("file: %v", err)
	}

	_, err = f.service.ResolveDispute(ctx, dispute.ID, ResolveDisputeInput{Status: "Bogus"})
	if CodeOf(err) != CodeInvalid {
		t.Fatalf("invalid resolution status should be rejected, got %v", err)
	}

	underReview, err := f.service.ResolveDispute(ctx, dispute.ID, ResolveDisputeInput{
		Status:               DisputeStatusUnderReview,
		ResolvedByEmployeeID: "hr-1",
	})
	if err != nil {
		t.Fatalf("move to under review: %v", err)
	}
	if underReview.ResolvedAt != nil {
		t.Fatal("UnderReview is not a terminal outcome and must not stamp resolvedAt")
	}

	adjusted, err := f.service.ResolveDispute(ctx, dispute.ID, ResolveDisputeInput{
		Status:               DisputeStatusAdjusted,
		ResolutionSummary:    "Score corrected after calibration.",
		ResolvedByEmployeeID: "hr-1",
	})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if adjusted.Status != DisputeStatusAdjusted {
		t.Fatalf("expected Adjusted, got %s", adjusted.Status)
	}
	if adjusted.ResolvedAt == nil || adjusted.ResolvedByEmployeeID != "hr-1" {
		t.Fatalf("terminal resolution should stamp resolvedAt and resolver, got %+v", adjusted)
	}

	_, err = f.service.ResolveDispute(ctx, dispute.ID, ResolveDisputeInput{
		Status:               DisputeStatusRejected,
		ResolvedByEmployeeID: "hr-1",
	})
	if err == nil || err.Error() != "Dispute has already been resolved" {
		t.Fatalf("terminal dispute should stay resolved, got %v", err)
	}
}

func TestArchivalSweep(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cycle, record := f.submittedRecord(t)

	if _, err := f.service.PublishRecord(ctx, record.ID, "hr-1"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if _, err := f.service.CloseCycle(ctx, cycle.ID); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Too fresh: closed less than the minimum age ago.
	f.advance(12 * time.Hour)
	result, err := f.service.ArchiveDueCycles(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.Archived != 0 {
		t.Fatalf("cycle closed 12h ago must not archive, got %+v", result)
	}

	f.advance(13 * time.Hour)
	result, err = f.service.ArchiveDueCycles(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if result.Archived != 1 || result.Records != 1 {
		t.Fatalf("expected one cycle and one record archived, got %+v", result)
	}

	archived, err := f.service.GetCycle(ctx, cycle.ID)
	if err != nil {
		t.Fatalf("get cycle: %v", err)
	}
	if archived.Status != CycleStatusArchived || archived.ArchivedAt == nil {
		t.Fatalf("cycle should be Archived with timestamp, got %+v", archived)
	}

	stamped, err := f.service.GetRecord(ctx, record.ID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if stamped.ArchivedAt == nil {
		t.Fatal("record should carry archivedAt after the sweep")
	}

	// Idempotent: a second sweep finds nothing.
	result, err = f.service.ArchiveDueCycles(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if result.Examined != 0 || result.Archived != 0 {
		t.Fatalf("second sweep should be a no-op, got %+v", result)
	}
}

func TestCompletionDashboard(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cycle := f.activeCycle(t)
	tmpl := f.template(t)

	result, err := f.service.BulkCreateAssignments(ctx, BulkCreateAssignmentsInput{
		CycleID:     cycle.ID,
		TemplateID:  tmpl.ID,
		EmployeeIDs: []string{"emp-1", "emp-2", "emp-3"},
	})
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}

	var emp1Assignment Assignment
	for _, assignment := range result.Items {
		if assignment.EmployeeID == "emp-1" {
			emp1Assignment = assignment
		}
	}
	record, err := f.service.SubmitRecord(ctx, SubmitRecordInput{
		AssignmentID: emp1Assignment.ID,
		Content:      RecordContent{TotalScore: 4},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.service.PublishRecord(ctx, record.ID, "hr-1"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	dashboard, err := f.service.GetCompletionDashboard(ctx, cycle.ID)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dashboard.Cycle.ID != cycle.ID {
		t.Fatalf("dashboard should carry the cycle, got %+v", dashboard.Cycle)
	}

	byDept := map[string]DepartmentProgress{}
	for _, metric := range dashboard.DepartmentMetrics {
		byDept[metric.DepartmentID] = metric
	}
	dept1 := byDept["dept-1"]
	if dept1.Total != 2 || dept1.Published != 1 || dept1.NotStarted != 1 {
		t.Fatalf("unexpected dept-1 progress: %+v", dept1)
	}
	if dept1.CompletionPercentage != 50 {
		t.Fatalf("dept-1 completion should be 50%%, got %v", dept1.CompletionPercentage)
	}
	dept2 := byDept["dept-2"]
	if dept2.Total != 1 || dept2.CompletionPercentage != 0 {
		t.Fatalf("unexpected dept-2 progress: %+v", dept2)
	}
	if dept1.DepartmentName == "" {
		t.Fatal("department name should be filled from the directory")
	}
}

func TestEmployeeHistoryOnlyPublished(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, record := f.submittedRecord(t)

	history, err := f.service.EmployeeHistory(ctx, "emp-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("submitted-but-unpublished records must stay hidden, got %d", len(history))
	}

	if _, err := f.service.PublishRecord(ctx, record.ID, "hr-1"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	history, err = f.service.EmployeeHistory(ctx, "emp-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected one published record, got %d", len(history))
	}
}

func TestTemplateValidationAndDefaults(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.CreateTemplate(ctx, CreateTemplateInput{Name: " ", Type: TemplateTypeAnnual, RatingScales: []string{"A"}, EvaluationCriteria: []string{"B"}})
	if CodeOf(err) != CodeInvalid {
		t.Fatalf("blank name should be invalid, got %v", err)
	}

	_, err = f.service.CreateTemplate(ctx, CreateTemplateInput{Name: "T", Type: "Quarterly", RatingScales: []string{"A"}, EvaluationCriteria: []string{"B"}})
	if CodeOf(err) != CodeInvalid {
		t.Fatalf("unknown type should be invalid, got %v", err)
	}

	tmpl := f.template(t)
	if !tmpl.Active {
		t.Fatal("templates default to active")
	}

	if _, err := f.service.CreateTemplate(ctx, CreateTemplateInput{
		Name:               tmpl.Name,
		Type:               TemplateTypeAnnual,
		RatingScales:       []string{"A"},
		EvaluationCriteria: []string{"B"},
	}); CodeOf(err) != CodeConflict {
		t.Fatalf("duplicate template name should conflict, got %v", err)
	}

	active := boolPtr(false)
	if _, err := f.service.UpdateTemplate(ctx, tmpl.ID, TemplatePatch{Active: active}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	templates, err := f.service.ListTemplates(ctx, TemplateFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, listed := range templates {
		if listed.ID == tmpl.ID {
			t.Fatal("default listing should hide inactive templates")
		}
	}
}

func boolPtr(v bool) *bool { return &v }
