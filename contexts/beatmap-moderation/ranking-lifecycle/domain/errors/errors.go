package errors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid lifecycle input")
	ErrSetNotFound       = errors.New("beatmap set not found")
	ErrBeatmapNotFound   = errors.New("beatmap not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("actor lacks required authority")
	ErrStoreUnavailable  = errors.New("backing store unavailable")
)
