package service

import (
	"context"

	"store-nav/internal/planner"
	"store-nav/internal/ports"
)

// PlanPath computes a route between two coordinates without creating a
// session or touching any robot. An infeasible route is a normal outcome:
// the result comes back with Success=false and no error, so callers check
// the flag rather than unwrap a sentinel.
func (service *navigationService) PlanPath(ctx context.Context, in ports.PlanPathInput) (planner.PathResult, error) {
	speed := in.SpeedMS
	if speed <= 0 {
		speed = service.speedMS
	}

	path := service.planner.Plan(in.Start, in.End, service.plan, speed)
	if !path.Success {
		service.logger.Info(ctx, "path_not_found", "No feasible route between coordinates", map[string]any{
			"start": in.Start.String(),
			"end":   in.End.String(),
		})
	}

	return path, nil
}
