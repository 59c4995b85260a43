package ports

import (
	"context"
	"time"

	"nominator/contexts/beatmap-moderation/ranking-lifecycle/domain/entities"
)

// BeatmapRepository is the persistent source of truth for set status.
type BeatmapRepository interface {
	GetSet(ctx context.Context, setID int64) (entities.BeatmapSet, error)
	GetSetByMD5(ctx context.Context, md5 string) (entities.BeatmapSet, error)
	// UpdateSetStatus writes status, frozen and change timestamp across
	// every row of the set in a single transaction.
	UpdateSetStatus(ctx context.Context, setID int64, status entities.Status, frozen bool, changedAt time.Time) error
	ListQualifiedBefore(ctx context.Context, cutoff time.Time) ([]int64, error)
	PurgeScores(ctx context.Context, mapMD5 string) error
	CancelMapRequests(ctx context.Context, mapID int64) error
}

// VoteLedger is the ephemeral nomination vote store. CastVote must be an
// atomic create-if-absent: it is the only synchronization point that keeps
// concurrent identical votes race-free.
type VoteLedger interface {
	CastVote(ctx context.Context, voterID int64, setID int64) (bool, error)
	CountVoters(ctx context.Context, setID int64) (int, error)
	ClearVotes(ctx context.Context, setID int64) error
}

// StatusCache mirrors committed {status, frozen} per content fingerprint.
// Invalidate overwrites synchronously after every transition commit and
// must order entries by snapshot ChangedAt: a write carrying an older
// commit timestamp than the stored entry is dropped, so a read-miss fill
// that raced a transition cannot resurrect the pre-transition snapshot.
// Get never returns a value older than the last transition commit for
// that key.
type StatusCache interface {
	Get(md5 string) (entities.StatusSnapshot, bool)
	Invalidate(md5 string, snapshot entities.StatusSnapshot)
}

// NotificationKind labels a transition announcement.
type NotificationKind string

const (
	NotificationNominationProgress NotificationKind = "nomination_progress"
	NotificationQualified          NotificationKind = "qualified"
	NotificationRanked             NotificationKind = "ranked"
	NotificationLoved              NotificationKind = "loved"
	NotificationCancelled          NotificationKind = "cancelled"
)

// Notification is a human-readable transition announcement.
type Notification struct {
	Kind    NotificationKind
	SetID   int64
	Summary string
}

// Notifier delivers announcements best-effort. Callers swallow the error;
// a failed dispatch never affects a committed transition.
type Notifier interface {
	Send(ctx context.Context, notification Notification) error
}

// ActorResolver maps an authenticated user id to its lifecycle authorities.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID int64) (entities.Actor, error)
}

type Clock interface {
	Now() time.Time
}
