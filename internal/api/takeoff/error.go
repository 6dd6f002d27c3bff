package takeoff

import "errors"

var (
	ErrTakeoffNotFound = errors.New("takeoff not found")
	ErrNoAnalysisRun   = errors.New("drawing has no analysis run to take off from")
	ErrCreateTakeoff   = errors.New("failed to create takeoff")
)
