package calibration

import "errors"

var (
	ErrSessionNotFound = errors.New("no calibration session for drawing")
	ErrSessionCorrupt  = errors.New("stored calibration session is corrupt")
)
