package commands

import (
	"context"
	"fmt"
	"log/slog"

	application "nominator/contexts/beatmap-moderation/ranking-lifecycle/application"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/domain/entities"
	domainerrors "nominator/contexts/beatmap-moderation/ranking-lifecycle/domain/errors"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/ports"
)

// Trigger identifies which path requested a transition. The precondition
// table keys on it: quorum-driven qualification, moderator actions and the
// scheduled promotion are each legal from different source states.
type Trigger string

const (
	TriggerQuorum    Trigger = "quorum"
	TriggerModerator Trigger = "moderator"
	TriggerScheduler Trigger = "scheduler"
)

// TransitionCommand requests one status change for a whole set.
type TransitionCommand struct {
	SetID   int64
	Target  entities.Status
	Actor   entities.Actor
	Trigger Trigger
}

// TransitionResult reports the applied change. Applied is false when the
// set already carried the target status and the call was a no-op replay.
type TransitionResult struct {
	Set     entities.BeatmapSet
	From    entities.Status
	Applied bool
}

// TransitionUseCase is the lifecycle state machine. It validates the
// transition against the precondition table, commits the status write as a
// single transaction over all rows of the set, then runs the post-commit
// side effects in a fixed order: cache overwrite, vote clearing, cascade
// cleanup, announcement. Only the status write can fail the call; side
// effect failures are logged and swallowed because the transition is
// already durable.
type TransitionUseCase struct {
	Repo     ports.BeatmapRepository
	Ledger   ports.VoteLedger
	Cache    ports.StatusCache
	Notifier ports.Notifier
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (uc TransitionUseCase) Execute(ctx context.Context, cmd TransitionCommand) (TransitionResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	set, err := uc.Repo.GetSet(ctx, cmd.SetID)
	if err != nil {
		return TransitionResult{}, err
	}

	// Authority is checked before the replay branch so an unauthorized
	// caller is never acknowledged, not even with a no-op.
	if cmd.Trigger == TriggerModerator {
		if authority := requiredAuthority(cmd.Target); authority != 0 && !cmd.Actor.Can(authority) {
			return TransitionResult{}, domainerrors.ErrUnauthorized
		}
	}

	if set.Status == cmd.Target {
		logger.Info("status transition replayed",
			"event", "ranking_transition_replayed",
			"module", "beatmap-moderation/ranking-lifecycle",
			"layer", "application",
			"set_id", cmd.SetID,
			"status", set.Status.String(),
		)
		return TransitionResult{Set: set, From: set.Status, Applied: false}, nil
	}

	if !transitionAllowed(set.Status, cmd.Target, cmd.Trigger) {
		return TransitionResult{}, domainerrors.ErrInvalidTransition
	}

	now := uc.Clock.Now().UTC()
	frozen := cmd.Target.FrozenAt()
	if err := uc.Repo.UpdateSetStatus(ctx, cmd.SetID, cmd.Target, frozen, now); err != nil {
		logger.Error("status write failed",
			"event", "ranking_transition_write_failed",
			"module", "beatmap-moderation/ranking-lifecycle",
			"layer", "application",
			"set_id", cmd.SetID,
			"target_status", cmd.Target.String(),
			"error", err.Error(),
		)
		return TransitionResult{}, err
	}

	from := set.Status
	set.Status = cmd.Target
	set.Frozen = frozen
	set.LastStatusChange = now

	snapshot := set.Snapshot()
	for _, beatmap := range set.Maps {
		uc.Cache.Invalidate(beatmap.MD5, snapshot)
	}

	// Every legal transition either leaves the voting cycle or restarts
	// it, so stale vote records are never carried across.
	if err := uc.Ledger.ClearVotes(ctx, cmd.SetID); err != nil {
		logger.Error("vote clearing failed after commit",
			"event", "ranking_transition_vote_clear_failed",
			"module", "beatmap-moderation/ranking-lifecycle",
			"layer", "application",
			"set_id", cmd.SetID,
			"error", err.Error(),
		)
	}

	uc.runCascade(ctx, logger, set)
	uc.announce(ctx, logger, set, cmd)

	logger.Info("set status changed",
		"event", "ranking_status_changed",
		"module", "beatmap-moderation/ranking-lifecycle",
		"layer", "application",
		"set_id", cmd.SetID,
		"from_status", from.String(),
		"to_status", set.Status.String(),
		"trigger", string(cmd.Trigger),
		"actor_id", cmd.Actor.UserID,
	)
	return TransitionResult{Set: set, From: from, Applied: true}, nil
}

// runCascade performs the dependent cleanup for sets entering the
// qualified or ranked pools: outstanding map requests are cancelled for
// both, and ranking additionally resets the leaderboard of every beatmap.
func (uc TransitionUseCase) runCascade(ctx context.Context, logger *slog.Logger, set entities.BeatmapSet) {
	if set.Status != entities.StatusQualified && set.Status != entities.StatusRanked {
		return
	}
	for _, beatmap := range set.Maps {
		if err := uc.Repo.CancelMapRequests(ctx, beatmap.MapID); err != nil {
			logger.Error("map request cancellation failed",
				"event", "ranking_request_cancel_failed",
				"module", "beatmap-moderation/ranking-lifecycle",
				"layer", "application",
				"set_id", set.SetID,
				"map_id", beatmap.MapID,
				"error", err.Error(),
			)
		}
		if set.Status != entities.StatusRanked {
			continue
		}
		if err := uc.Repo.PurgeScores(ctx, beatmap.MD5); err != nil {
			logger.Error("score purge failed",
				"event", "ranking_score_purge_failed",
				"module", "beatmap-moderation/ranking-lifecycle",
				"layer", "application",
				"set_id", set.SetID,
				"map_md5", beatmap.MD5,
				"error", err.Error(),
			)
		}
	}
}

func (uc TransitionUseCase) announce(ctx context.Context, logger *slog.Logger, set entities.BeatmapSet, cmd TransitionCommand) {
	kind, summary := transitionAnnouncement(set, cmd)
	if kind == "" {
		return
	}
	if err := uc.Notifier.Send(ctx, ports.Notification{Kind: kind, SetID: set.SetID, Summary: summary}); err != nil {
		logger.Warn("transition announcement failed",
			"event", "ranking_announcement_failed",
			"module", "beatmap-moderation/ranking-lifecycle",
			"layer", "application",
			"set_id", set.SetID,
			"kind", string(kind),
			"error", err.Error(),
		)
	}
}

func transitionAnnouncement(set entities.BeatmapSet, cmd TransitionCommand) (ports.NotificationKind, string) {
	label := fmt.Sprintf("%s - %s (%s)", set.Artist, set.Title, set.Creator)
	switch set.Status {
	case entities.StatusQualified:
		if cmd.Trigger == TriggerQuorum && cmd.Actor.Name != "" {
			return ports.NotificationQualified, fmt.Sprintf("%s is now qualified! (Latest vote by %s)", label, cmd.Actor.Name)
		}
		return ports.NotificationQualified, fmt.Sprintf("%s is now qualified!", label)
	case entities.StatusRanked:
		return ports.NotificationRanked, fmt.Sprintf("%s is now ranked!", label)
	case entities.StatusLoved:
		return ports.NotificationLoved, fmt.Sprintf("%s is now loved!", label)
	case entities.StatusCancelled:
		return ports.NotificationCancelled, fmt.Sprintf("%s has been returned to the pending pool.", label)
	default:
		return "", ""
	}
}

func requiredAuthority(target entities.Status) entities.Authority {
	switch target {
	case entities.StatusLoved:
		return entities.AuthorityLove
	case entities.StatusRanked:
		return entities.AuthorityRank
	case entities.StatusCancelled:
		return entities.AuthorityCancel
	default:
		return 0
	}
}

// transitionAllowed is the precondition table. Anything not listed here is
// rejected before any write happens.
func transitionAllowed(from, to entities.Status, trigger Trigger) bool {
	switch {
	case from.Votable() && to == entities.StatusQualified:
		return trigger == TriggerQuorum
	case from.Votable() && to == entities.StatusLoved:
		return trigger == TriggerModerator
	case from.Votable() && to == entities.StatusRanked:
		return trigger == TriggerModerator
	case from == entities.StatusQualified && to == entities.StatusCancelled:
		return trigger == TriggerModerator
	case from == entities.StatusQualified && to == entities.StatusRanked:
		return trigger == TriggerScheduler
	default:
		return false
	}
}
