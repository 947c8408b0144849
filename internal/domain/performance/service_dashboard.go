package performance

import "context"

// GetCompletionDashboard reports per-department appraisal progress for a
// cycle alongside the cycle itself.
func (s *Service) GetCompletionDashboard(ctx context.Context, cycleID string) (CompletionDashboard, error) {
	cycle, err := s.store.GetCycle(ctx, cycleID)
	if err != nil {
		return CompletionDashboard{}, err
	}

	metrics, err := s.store.DepartmentProgress(ctx, cycleID)
	if err != nil {
		return CompletionDashboard{}, err
	}

	for i := range metrics {
		if metrics[i].Total > 0 {
			metrics[i].CompletionPercentage = float64(metrics[i].Published) / float64(metrics[i].Total) * 100
		}
		if metrics[i].DepartmentName == "" && metrics[i].DepartmentID != "" && s.directory != nil {
			if name, err := s.directory.DepartmentName(ctx, metrics[i].DepartmentID); err == nil {
				metrics[i].DepartmentName = name
			}
		}
	}

	return CompletionDashboard{Cycle: cycle, DepartmentMetrics: metrics}, nil
}
