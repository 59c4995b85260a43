package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"nominator/contexts/beatmap-moderation/ranking-lifecycle/adapters/memory"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/application/commands"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/domain/entities"
	"nominator/contexts/beatmap-moderation/ranking-lifecycle/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// flakyRepo fails the status write for one set so per-set error isolation
// can be observed.
type flakyRepo struct {
	ports.BeatmapRepository
	failSetID int64
}

func (r flakyRepo) UpdateSetStatus(ctx context.Context, setID int64, status entities.Status, frozen bool, changedAt time.Time) error {
	if setID == r.failSetID {
		return errors.New("write rejected")
	}
	return r.BeatmapRepository.UpdateSetStatus(ctx, setID, status, frozen, changedAt)
}

func qualifiedSet(setID int64, changedAt time.Time, mapCount int) entities.BeatmapSet {
	set := entities.BeatmapSet{
		SetID:            setID,
		Artist:           "t+pazolite",
		Title:            "Oshama Scramble!",
		Creator:          "Ayyri",
		Status:           entities.StatusQualified,
		Frozen:           true,
		LastStatusChange: changedAt,
	}
	for i := 0; i < mapCount; i++ {
		set.Maps = append(set.Maps, entities.Beatmap{
			MapID:   setID*10 + int64(i),
			SetID:   setID,
			MD5:     set.Title + string(rune('a'+i)),
			Version: "diff",
		})
	}
	return set
}

func newSweeper(store *memory.Store, repo ports.BeatmapRepository, clock fixedClock) PromotionSweeper {
	return PromotionSweeper{
		Repo: repo,
		Transitions: commands.TransitionUseCase{
			Repo:     repo,
			Ledger:   store,
			Cache:    memory.NewCache(),
			Notifier: memory.NewRecorder(),
			Clock:    clock,
		},
		Clock:           clock,
		StabilityWindow: 24 * time.Hour,
	}
}

func TestSweepRespectsStabilityWindow(t *testing.T) {
	qualifiedAt := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	store.SetBeatmapSet(qualifiedSet(1, qualifiedAt, 1))

	// 23 hours in: nothing moves.
	early := newSweeper(store, store, fixedClock{now: qualifiedAt.Add(23 * time.Hour)})
	if err := early.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	set, err := store.GetSet(context.Background(), 1)
	if err != nil {
		t.Fatalf("get set failed: %v", err)
	}
	if set.Status != entities.StatusQualified {
		t.Fatalf("set promoted before the window elapsed: %s", set.Status)
	}

	// 25 hours in: promoted with the ranked cascade.
	late := newSweeper(store, store, fixedClock{now: qualifiedAt.Add(25 * time.Hour)})
	if err := late.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	set, err = store.GetSet(context.Background(), 1)
	if err != nil {
		t.Fatalf("get set failed: %v", err)
	}
	if set.Status != entities.StatusRanked || !set.Frozen {
		t.Fatalf("expected ranked+frozen, got %s frozen=%v", set.Status, set.Frozen)
	}
	if store.ScorePurges(set.Maps[0].MD5) != 1 {
		t.Fatalf("scores not purged on promotion")
	}
}

func TestSweepDeduplicatesCandidateRows(t *testing.T) {
	qualifiedAt := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	// Three difficulties means the candidate query yields the set id three
	// times.
	store.SetBeatmapSet(qualifiedSet(2, qualifiedAt, 3))

	sweeper := newSweeper(store, store, fixedClock{now: qualifiedAt.Add(48 * time.Hour)})
	if err := sweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if writes := store.StatusWrites(); writes != 1 {
		t.Fatalf("expected exactly one promotion write, got %d", writes)
	}
}

func TestSweepIsolatesPerSetFailures(t *testing.T) {
	qualifiedAt := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	store.SetBeatmapSet(qualifiedSet(3, qualifiedAt, 1))
	store.SetBeatmapSet(qualifiedSet(4, qualifiedAt, 1))

	repo := flakyRepo{BeatmapRepository: store, failSetID: 3}
	sweeper := newSweeper(store, repo, fixedClock{now: qualifiedAt.Add(48 * time.Hour)})
	if err := sweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep must not fail the pass: %v", err)
	}

	broken, err := store.GetSet(context.Background(), 3)
	if err != nil {
		t.Fatalf("get set failed: %v", err)
	}
	healthy, err := store.GetSet(context.Background(), 4)
	if err != nil {
		t.Fatalf("get set failed: %v", err)
	}
	if broken.Status != entities.StatusQualified {
		t.Fatalf("failed set must stay qualified, got %s", broken.Status)
	}
	if healthy.Status != entities.StatusRanked {
		t.Fatalf("healthy set must still be promoted, got %s", healthy.Status)
	}
}

func TestSweepEmptyCandidatePool(t *testing.T) {
	store := memory.NewStore()
	sweeper := newSweeper(store, store, fixedClock{now: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)})
	if err := sweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("empty sweep must succeed: %v", err)
	}
	if store.StatusWrites() != 0 {
		t.Fatalf("empty sweep must not write")
	}
}
