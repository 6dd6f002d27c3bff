package analysis

import "errors"

var (
	ErrRunNotFound       = errors.New("analysis run not found")
	ErrDetectionNotFound = errors.New("detection not found")
	ErrRunSuperseded     = errors.New("analysis run superseded by a newer run")
	ErrAllDetectorsDown  = errors.New("no detector produced a result")
	ErrInvalidVertices   = errors.New("detection needs at least three vertices")
	ErrImageUnavailable  = errors.New("drawing image could not be fetched")
)
