package performance

import (
	"context"
	"strings"
	"time"
)

type CreateCycleInput struct {
	Name                string    `json:"name"`
	Type                string    `json:"type"`
	StartDate           time.Time `json:"startDate"`
	EndDate             time.Time `json:"endDate"`
	TemplateIDs         []string  `json:"templateIds"`
	ObjectionWindowDays *int      `json:"objectionWindowDays"`
}

func (s *Service) CreateCycle(ctx context.Context, input CreateCycleInput) (Cycle, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Cycle{}, Invalidf("cycle name is required")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return Cycle{}, Invalidf("start date and end date are required")
	}
	if !input.StartDate.Before(input.EndDate) {
		return Cycle{}, Invalidf("Start date must be before end date")
	}

	windowDays := DefaultObjectionWindowDays
	if input.ObjectionWindowDays != nil {
		if *input.ObjectionWindowDays <= 0 {
			return Cycle{}, Invalidf("objection window must be a positive number of days")
		}
		windowDays = *input.ObjectionWindowDays
	}

	return s.store.CreateCycle(ctx, Cycle{
		Name:                name,
		Type:                input.Type,
		StartDate:           input.StartDate,
		EndDate:             input.EndDate,
		TemplateIDs:         input.TemplateIDs,
		Status:              CycleStatusPlanned,
		ObjectionWindowDays: windowDays,
	})
}

// UpdateCycle edits a cycle only while it is still Planned, or when the
// patch itself moves it back to Planned.
func (s *Service) UpdateCycle(ctx context.Context, cycleID string, patch CyclePatch) (Cycle, error) {
	cycle, err := s.store.GetCycle(ctx, cycleID)
	if err != nil {
		return Cycle{}, err
	}

	patchToPlanned := patch.Status != nil && *patch.Status == CycleStatusPlanned
	if cycle.Status != CycleStatusPlanned && !patchToPlanned {
		return Cycle{}, Invalidf("Can only update cycles in PLANNED status")
	}
	if patch.Status != nil && *patch.Status != CycleStatusPlanned {
		return Cycle{}, Invalidf("cycle status is driven by activate/close/archive, not by update")
	}

	start := cycle.StartDate
	end := cycle.EndDate
	if patch.StartDate != nil {
		start = *patch.StartDate
	}
	if patch.EndDate != nil {
		end = *patch.EndDate
	}
	if !start.Before(end) {
		return Cycle{}, Invalidf("Start date must be before end date")
	}
	if patch.ObjectionWindowDays != nil && *patch.ObjectionWindowDays <= 0 {
		return Cycle{}, Invalidf("objection window must be a positive number of days")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return Cycle{}, Invalidf("cycle name must not be empty")
	}

	return s.store.UpdateCycle(ctx, cycleID, patch)
}

func (s *Service) GetCycle(ctx context.Context, cycleID string) (Cycle, error) {
	return s.store.GetCycle(ctx, cycleID)
}

func (s *Service) ListCycles(ctx context.Context, filter CycleFilter) ([]Cycle, error) {
	return s.store.ListCycles(ctx, filter)
}

func (s *Service) ListArchivedCycles(ctx context.Context) ([]Cycle, error) {
	return s.store.ListCycles(ctx, CycleFilter{Status: CycleStatusArchived})
}

func (s *Service) ActivateCycle(ctx context.Context, cycleID string) (Cycle, error) {
	return s.applyCycleEvent(ctx, cycleID, CycleEventActivate)
}

func (s *Service) CloseCycle(ctx context.Context, cycleID string) (Cycle, error) {
	return s.applyCycleEvent(ctx, cycleID, CycleEventClose)
}

// ArchiveCycle is the operator-initiated variant of the archival sweep: it
// archives a Closed cycle immediately and stamps all of its records.
func (s *Service) ArchiveCycle(ctx context.Context, cycleID string) (Cycle, error) {
	cycle, err := s.applyCycleEvent(ctx, cycleID, CycleEventArchive)
	if err != nil {
		return Cycle{}, err
	}
	if _, err := s.store.ArchiveCycleRecords(ctx, cycleID, s.now()); err != nil {
		return Cycle{}, err
	}
	return cycle, nil
}

func (s *Service) applyCycleEvent(ctx context.Context, cycleID, event string) (Cycle, error) {
	cycle, err := s.store.GetCycle(ctx, cycleID)
	if err != nil {
		return Cycle{}, err
	}

	next, err := NextCycleStatus(cycle.Status, event)
	if err != nil {
		return Cycle{}, err
	}

	updated, claimed, err := s.store.TransitionCycle(ctx, cycleID, cycle.Status, next, s.now())
	if err != nil {
		return Cycle{}, err
	}
	if !claimed {
		// Lost the race to a concurrent transition; report it the same
		// way as a stale status read.
		_, err := NextCycleStatus(updated.Status, event)
		if err != nil {
			return Cycle{}, err
		}
		return Cycle{}, Invalidf("cycle status changed concurrently, retry")
	}
	return updated, nil
}
