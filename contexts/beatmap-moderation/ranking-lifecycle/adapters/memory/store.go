package memory

import (
	"context"
	"sync"
	"time"

	"nominator/contexts/beatmap-moderation/ranking-lifecycle/domain/entities"
	domainerrors "nominator/contexts/beatmap-moderation/ranking-lifecycle/domain/errors"
)

// Store is the in-memory repository, vote ledger and actor resolver used
// by tests and local wiring. One mutex covers repository writes so the
// per-set invariant holds exactly like the transactional adapter.
type Store struct {
	mu sync.Mutex

	sets   map[int64]entities.BeatmapSet
	votes  map[int64]map[int64]struct{}
	actors map[int64]entities.Actor

	now time.Time

	statusWrites      int
	scorePurges       map[string]int
	requestCancels    map[int64]int
	listQualifiedHits int
}

func NewStore() *Store {
	return &Store{
		sets:           make(map[int64]entities.BeatmapSet),
		votes:          make(map[int64]map[int64]struct{}),
		actors:         make(map[int64]entities.Actor),
		scorePurges:    make(map[string]int),
		requestCancels: make(map[int64]int),
	}
}

func (s *Store) SetBeatmapSet(set entities.BeatmapSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[set.SetID] = cloneSet(set)
}

func (s *Store) SetActor(actor entities.Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actors[actor.UserID] = actor
}

// SetNow pins the clock for deterministic sweeps. Zero means wall time.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

func (s *Store) GetSet(_ context.Context, setID int64) (entities.BeatmapSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[setID]
	if !ok {
		return entities.BeatmapSet{}, domainerrors.ErrSetNotFound
	}
	return cloneSet(set), nil
}

func (s *Store) GetSetByMD5(_ context.Context, md5 string) (entities.BeatmapSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, set := range s.sets {
		for _, beatmap := range set.Maps {
			if beatmap.MD5 == md5 {
				return cloneSet(set), nil
			}
		}
	}
	return entities.BeatmapSet{}, domainerrors.ErrBeatmapNotFound
}

func (s *Store) UpdateSetStatus(_ context.Context, setID int64, status entities.Status, frozen bool, changedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[setID]
	if !ok {
		return domainerrors.ErrSetNotFound
	}
	set.Status = status
	set.Frozen = frozen
	set.LastStatusChange = changedAt
	s.sets[setID] = set
	s.statusWrites++
	return nil
}

// ListQualifiedBefore returns one id per beatmap row, like the SQL query
// it mirrors, so callers must deduplicate within a pass.
func (s *Store) ListQualifiedBefore(_ context.Context, cutoff time.Time) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listQualifiedHits++
	var setIDs []int64
	for _, set := range s.sets {
		if set.Status != entities.StatusQualified || !set.LastStatusChange.Before(cutoff) {
			continue
		}
		for range set.Maps {
			setIDs = append(setIDs, set.SetID)
		}
	}
	return setIDs, nil
}

func (s *Store) PurgeScores(_ context.Context, mapMD5 string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scorePurges[mapMD5]++
	return nil
}

func (s *Store) CancelMapRequests(_ context.Context, mapID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestCancels[mapID]++
	return nil
}

func (s *Store) CastVote(_ context.Context, voterID int64, setID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	voters, ok := s.votes[setID]
	if !ok {
		voters = make(map[int64]struct{})
		s.votes[setID] = voters
	}
	if _, voted := voters[voterID]; voted {
		return false, nil
	}
	voters[voterID] = struct{}{}
	return true, nil
}

func (s *Store) CountVoters(_ context.Context, setID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.votes[setID]), nil
}

func (s *Store) ClearVotes(_ context.Context, setID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.votes, setID)
	return nil
}

func (s *Store) ResolveActor(_ context.Context, userID int64) (entities.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	actor, ok := s.actors[userID]
	if !ok {
		return entities.Actor{}, domainerrors.ErrUnauthorized
	}
	return actor, nil
}

// Inspection helpers for tests.

func (s *Store) StatusWrites() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusWrites
}

func (s *Store) ScorePurges(mapMD5 string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scorePurges[mapMD5]
}

func (s *Store) RequestCancellations(mapID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestCancels[mapID]
}

func cloneSet(set entities.BeatmapSet) entities.BeatmapSet {
	cloned := set
	cloned.Maps = append([]entities.Beatmap(nil), set.Maps...)
	return cloned
}
