package queries

import (
	"context"
	"log/slog"

	application "nominator/contexts/beatmap-moderation/ranking-lifecycle/application"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/domain/entities"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/ports"
)

// StatusUseCase serves hot-path status lookups by content fingerprint from
// the write-through cache, falling back to the repository on a miss and
// priming the cache for every fingerprint of the resolved set.
type StatusUseCase struct {
	Repo   ports.BeatmapRepository
	Cache  ports.StatusCache
	Logger *slog.Logger
}

func (uc StatusUseCase) Lookup(ctx context.Context, md5 string) (entities.StatusSnapshot, error) {
	if snapshot, ok := uc.Cache.Get(md5); ok {
		return snapshot, nil
	}

	set, err := uc.Repo.GetSetByMD5(ctx, md5)
	if err != nil {
		return entities.StatusSnapshot{}, err
	}

	snapshot := set.Snapshot()
	for _, beatmap := range set.Maps {
		uc.Cache.Invalidate(beatmap.MD5, snapshot)
	}

	application.ResolveLogger(uc.Logger).Debug("status cache primed",
		"event", "ranking_status_cache_primed",
		"module", "beatmap-moderation/ranking-lifecycle",
		"layer", "application",
		"set_id", set.SetID,
		"maps", len(set.Maps),
	)
	return snapshot, nil
}
