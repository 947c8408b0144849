package performance

import (
	"context"
	"log/slog"
	"time"
)

type SweepResult struct {
	Examined int      `json:"examined"`
	Archived int      `json:"archived"`
	Records  int      `json:"records"`
	Failed   []string `json:"failed,omitempty"`
}

// ArchiveDueCycles retires Closed cycles whose closedAt is at least minAge
// in the past. Each cycle is claimed with a conditional status update, so
// overlapping sweeps from redundant instances cannot double-process one.
// A failing cycle is recorded and skipped; the sweep keeps going.
func (s *Service) ArchiveDueCycles(ctx context.Context, minAge time.Duration) (SweepResult, error) {
	cutoff := s.now().Add(-minAge)
	due, err := s.store.ListArchivableCycles(ctx, cutoff)
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Examined: len(due)}
	for _, cycle := range due {
		_, claimed, err := s.store.TransitionCycle(ctx, cycle.ID, CycleStatusClosed, CycleStatusArchived, s.now())
		if err != nil {
			slog.Warn("archival sweep cycle transition failed", "cycleId", cycle.ID, "err", err)
			result.Failed = append(result.Failed, cycle.ID)
			continue
		}
		if !claimed {
			// Someone else archived it between the scan and the claim.
			continue
		}

		stamped, err := s.store.ArchiveCycleRecords(ctx, cycle.ID, s.now())
		if err != nil {
			slog.Warn("archival sweep record stamping failed", "cycleId", cycle.ID, "err", err)
			result.Failed = append(result.Failed, cycle.ID)
			continue
		}
		result.Archived++
		result.Records += stamped
	}
	return result, nil
}
