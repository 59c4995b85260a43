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

// VoteCommand registers one nomination vote for a set.
type VoteCommand struct {
	SetID int64
	Actor entities.Actor
}

// VoteResult is the caller-facing outcome. Accepted is false when the actor
// had already voted for the set; that is a normal result, not an error.
type VoteResult struct {
	Accepted  bool
	Votes     int
	Needed    int
	Qualified bool
	Status    entities.Status
}

// VoteUseCase handles nomination votes. The ledger's create-if-absent is
// the only synchronization point: the use case never reads the ledger
// before writing, so concurrent identical votes resolve to exactly one
// accepted registration.
type VoteUseCase struct {
	Repo        ports.VoteLedger
	Transitions TransitionUseCase
	Sets        ports.BeatmapRepository
	Notifier    ports.Notifier
	Logger      *slog.Logger
}

func (uc VoteUseCase) Execute(ctx context.Context, cmd VoteCommand) (VoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if cmd.SetID <= 0 || cmd.Actor.UserID <= 0 {
		return VoteResult{}, domainerrors.ErrInvalidInput
	}
	if !cmd.Actor.Can(entities.AuthorityNominate) {
		return VoteResult{}, domainerrors.ErrUnauthorized
	}

	set, err := uc.Sets.GetSet(ctx, cmd.SetID)
	if err != nil {
		return VoteResult{}, err
	}
	if !set.Status.Votable() {
		return VoteResult{}, domainerrors.ErrInvalidTransition
	}

	accepted, err := uc.Repo.CastVote(ctx, cmd.Actor.UserID, cmd.SetID)
	if err != nil {
		return VoteResult{}, err
	}
	votes, err := uc.Repo.CountVoters(ctx, cmd.SetID)
	if err != nil {
		return VoteResult{}, err
	}
	needed := entities.NominationQuorum - votes
	if needed < 0 {
		needed = 0
	}

	if !accepted {
		logger.Info("duplicate nomination vote rejected",
			"event", "ranking_vote_duplicate",
			"module", "beatmap-moderation/ranking-lifecycle",
			"layer", "application",
			"set_id", cmd.SetID,
			"voter_id", cmd.Actor.UserID,
			"votes", votes,
		)
		return VoteResult{Accepted: false, Votes: votes, Needed: needed, Status: set.Status}, nil
	}

	logger.Info("nomination vote accepted",
		"event", "ranking_vote_accepted",
		"module", "beatmap-moderation/ranking-lifecycle",
		"layer", "application",
		"set_id", cmd.SetID,
		"voter_id", cmd.Actor.UserID,
		"votes", votes,
		"needed", needed,
	)

	if votes < entities.NominationQuorum {
		uc.announceProgress(ctx, logger, set, cmd.Actor, votes, needed)
		return VoteResult{Accepted: true, Votes: votes, Needed: needed, Status: set.Status}, nil
	}

	result, err := uc.Transitions.Execute(ctx, TransitionCommand{
		SetID:   cmd.SetID,
		Target:  entities.StatusQualified,
		Actor:   cmd.Actor,
		Trigger: TriggerQuorum,
	})
	if err != nil {
		return VoteResult{}, err
	}
	return VoteResult{Accepted: true, Votes: votes, Needed: 0, Qualified: true, Status: result.Set.Status}, nil
}

// announceProgress mirrors the nomination progress announcement: one vote
// in, one to go. Best-effort like every other dispatch.
func (uc VoteUseCase) announceProgress(ctx context.Context, logger *slog.Logger, set entities.BeatmapSet, actor entities.Actor, votes, needed int) {
	summary := fmt.Sprintf(
		"%s - %s (%s) has %d/%d votes for qualification. (Vote by %s) %d more vote(s) needed!",
		set.Artist, set.Title, set.Creator, votes, entities.NominationQuorum, actor.Name, needed,
	)
	notification := ports.Notification{
		Kind:    ports.NotificationNominationProgress,
		SetID:   set.SetID,
		Summary: summary,
	}
	if err := uc.Notifier.Send(ctx, notification); err != nil {
		logger.Warn("nomination progress announcement failed",
			"event", "ranking_vote_announcement_failed",
			"module", "beatmap-moderation/ranking-lifecycle",
			"layer", "application",
			"set_id", set.SetID,
			"error", err.Error(),
		)
	}
}
