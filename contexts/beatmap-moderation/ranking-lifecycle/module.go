package rankinglifecycle

import (
	"log/slog"

	httpadapter "nominator/contexts/beatmap-moderation/ranking-lifecycle/adapters/http"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/adapters/memory"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/application/commands"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/application/queries"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/ports"
)

type Module struct {
	Handler     httpadapter.Handler
	Transitions commands.TransitionUseCase
	Votes       commands.VoteUseCase
	Status      queries.StatusUseCase

	// Populated by NewInMemoryModule only.
	Store         *memory.Store
	Cache         *memory.Cache
	Notifications *memory.Recorder
}

type Dependencies struct {
	Repo     ports.BeatmapRepository
	Ledger   ports.VoteLedger
	Cache    ports.StatusCache
	Notifier ports.Notifier
	Actors   ports.ActorResolver
	Clock    ports.Clock
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	transitions := commands.TransitionUseCase{
		Repo:     deps.Repo,
		Ledger:   deps.Ledger,
		Cache:    deps.Cache,
		Notifier: deps.Notifier,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	votes := commands.VoteUseCase{
		Repo:        deps.Ledger,
		Transitions: transitions,
		Sets:        deps.Repo,
		Notifier:    deps.Notifier,
		Logger:      deps.Logger,
	}
	status := queries.StatusUseCase{
		Repo:   deps.Repo,
		Cache:  deps.Cache,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Votes:       votes,
			Transitions: transitions,
			Status:      status,
			Actors:      deps.Actors,
			Logger:      deps.Logger,
		},
		Transitions: transitions,
		Votes:       votes,
		Status:      status,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	cache := memory.NewCache()
	recorder := memory.NewRecorder()
	module := NewModule(Dependencies{
		Repo:     store,
		Ledger:   store,
		Cache:    cache,
		Notifier: recorder,
		Actors:   store,
		Clock:    store,
		Logger:   logger,
	})
	module.Store = store
	module.Cache = cache
	module.Notifications = recorder
	return module
}
