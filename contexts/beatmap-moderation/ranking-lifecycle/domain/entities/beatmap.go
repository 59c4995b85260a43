package entities

import "time"

// Status is the persisted ranking status code of a beatmap set. The numeric
// values match the maps.status column of the existing schema.
type Status int

const (
	StatusPending   Status = 0
	StatusCancelled Status = 1
	StatusRanked    Status = 2
	StatusLoved     Status = 3
	StatusQualified Status = 4
)

// NominationQuorum is the number of distinct nominator votes that advance a
// pending set to qualified.
const NominationQuorum = 2

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCancelled:
		return "cancelled"
	case StatusRanked:
		return "ranked"
	case StatusLoved:
		return "loved"
	case StatusQualified:
		return "qualified"
	default:
		return "unknown"
	}
}

// Votable reports whether the status accepts nomination votes. Cancelled is
// a re-entrant alias of pending: a cancelled set goes through the same
// voting cycle again.
func (s Status) Votable() bool {
	return s == StatusPending || s == StatusCancelled
}

// FrozenAt reports the frozen flag a set must carry while in this status.
func (s Status) FrozenAt() bool {
	return !s.Votable()
}

// Beatmap is a single difficulty inside a set. MD5 is the content
// fingerprint clients use for lookups.
type Beatmap struct {
	MapID   int64
	SetID   int64
	MD5     string
	Version string
}

// BeatmapSet groups the beatmaps that share one ranking lifecycle. All rows
// of a set carry the same Status and Frozen value at all times.
type BeatmapSet struct {
	SetID            int64
	Artist           string
	Title            string
	Creator          string
	Status           Status
	Frozen           bool
	LastStatusChange time.Time
	Maps             []Beatmap
}

// Snapshot is the cached read-model of one transition commit. ChangedAt
// carries the commit timestamp so cache writers can order concurrent
// snapshots of the same fingerprint.
func (s BeatmapSet) Snapshot() StatusSnapshot {
	return StatusSnapshot{Status: s.Status, Frozen: s.Frozen, ChangedAt: s.LastStatusChange}
}

// StatusSnapshot is the per-fingerprint cache entry.
type StatusSnapshot struct {
	Status    Status
	Frozen    bool
	ChangedAt time.Time
}
