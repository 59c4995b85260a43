package workers

import (
	"context"
	"log/slog"
	"time"

	application "nominator/contexts/beatmap-moderation/ranking-lifecycle/application"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/application/commands"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/domain/entities"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/ports"
)

// PromotionSweeper promotes sets that stayed qualified past the stability
// window. Each tick is one RunOnce call: failures are logged per set and
// left for the next tick, since the precondition still holds there.
type PromotionSweeper struct {
	Repo            ports.BeatmapRepository
	Transitions     commands.TransitionUseCase
	Clock           ports.Clock
	StabilityWindow time.Duration
	Logger          *slog.Logger
}

func (j PromotionSweeper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	window := j.StabilityWindow
	if window <= 0 {
		window = 24 * time.Hour
	}
	cutoff := j.Clock.Now().UTC().Add(-window)

	setIDs, err := j.Repo.ListQualifiedBefore(ctx, cutoff)
	if err != nil {
		logger.Error("promotion sweep query failed",
			"event", "ranking_promotion_sweep_failed",
			"module", "beatmap-moderation/ranking-lifecycle",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	promoted := 0
	seen := make(map[int64]struct{}, len(setIDs))
	for _, setID := range setIDs {
		// The query can surface one id per row of a set.
		if _, dup := seen[setID]; dup {
			continue
		}
		seen[setID] = struct{}{}

		_, err := j.Transitions.Execute(ctx, commands.TransitionCommand{
			SetID:   setID,
			Target:  entities.StatusRanked,
			Actor:   entities.SchedulerActor(),
			Trigger: commands.TriggerScheduler,
		})
		if err != nil {
			logger.Error("scheduled promotion failed",
				"event", "ranking_promotion_failed",
				"module", "beatmap-moderation/ranking-lifecycle",
				"layer", "worker",
				"set_id", setID,
				"error", err.Error(),
			)
			continue
		}
		promoted++
	}

	if promoted > 0 {
		logger.Info("promotion sweep completed",
			"event", "ranking_promotion_sweep_completed",
			"module", "beatmap-moderation/ranking-lifecycle",
			"layer", "worker",
			"candidates", len(setIDs),
			"promoted", promoted,
		)
	}
	return nil
}
