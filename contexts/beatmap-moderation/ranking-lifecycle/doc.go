// Package rankinglifecycle implements the beatmap ranking lifecycle inside
// the beatmap-moderation context.
//
// The module owns set status orchestration (nomination votes, moderator
// love/rank/cancel actions, scheduled qualified-to-ranked promotion), the
// write-through status cache, and best-effort transition announcements. It
// keeps business rules in application/domain layers and isolates
// infrastructure concerns behind ports and adapters.
package rankinglifecycle
