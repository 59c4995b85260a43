package httpadapter

import (
	"context"
	"log/slog"

	"nominator/contexts/beatmap-moderation/ranking-lifecycle/application/commands"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/application/queries"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/domain/entities"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/ports"
	httptransport "nominator/contexts/beatmap-moderation/ranking-lifecycle/transport/http"
)

type Handler struct {
	Votes       commands.VoteUseCase
	Transitions commands.TransitionUseCase
	Status      queries.StatusUseCase
	Actors      ports.ActorResolver
	Logger      *slog.Logger
}

func (h Handler) VoteHandler(ctx context.Context, userID int64, setID int64) (httptransport.VoteResponse, error) {
	actor, err := h.Actors.ResolveActor(ctx, userID)
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	result, err := h.Votes.Execute(ctx, commands.VoteCommand{SetID: setID, Actor: actor})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		SetID:     setID,
		Accepted:  result.Accepted,
		Votes:     result.Votes,
		Needed:    result.Needed,
		Qualified: result.Qualified,
		Status:    result.Status.String(),
	}, nil
}

func (h Handler) LoveHandler(ctx context.Context, userID int64, setID int64) (httptransport.TransitionResponse, error) {
	return h.moderate(ctx, userID, setID, entities.StatusLoved)
}

func (h Handler) RankHandler(ctx context.Context, userID int64, setID int64) (httptransport.TransitionResponse, error) {
	return h.moderate(ctx, userID, setID, entities.StatusRanked)
}

func (h Handler) CancelHandler(ctx context.Context, userID int64, setID int64) (httptransport.TransitionResponse, error) {
	return h.moderate(ctx, userID, setID, entities.StatusCancelled)
}

func (h Handler) BeatmapStatusHandler(ctx context.Context, md5 string) (httptransport.BeatmapStatusResponse, error) {
	snapshot, err := h.Status.Lookup(ctx, md5)
	if err != nil {
		return httptransport.BeatmapStatusResponse{}, err
	}
	return httptransport.BeatmapStatusResponse{
		MD5:        md5,
		Status:     snapshot.Status.String(),
		StatusCode: int(snapshot.Status),
		Frozen:     snapshot.Frozen,
	}, nil
}

func (h Handler) moderate(ctx context.Context, userID int64, setID int64, target entities.Status) (httptransport.TransitionResponse, error) {
	actor, err := h.Actors.ResolveActor(ctx, userID)
	if err != nil {
		return httptransport.TransitionResponse{}, err
	}
	result, err := h.Transitions.Execute(ctx, commands.TransitionCommand{
		SetID:   setID,
		Target:  target,
		Actor:   actor,
		Trigger: commands.TriggerModerator,
	})
	if err != nil {
		return httptransport.TransitionResponse{}, err
	}
	return httptransport.TransitionResponse{
		SetID:   setID,
		From:    result.From.String(),
		Status:  result.Set.Status.String(),
		Applied: result.Applied,
	}, nil
}
