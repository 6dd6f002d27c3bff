package calibration

import (
	"errors"

	"EstimAgent/pkg/geometry"
)

// State is the calibration state machine position.
type State string

const (
	StateEmpty     State = "EMPTY"
	StateOnePoint  State = "ONE_POINT"
	StateTwoPoints State = "TWO_POINTS"
	StateApplied   State = "APPLIED"
)

// Unit is the unit of the user-entered reference distance.
type Unit string

const (
	UnitFeet   Unit = "ft"
	UnitInches Unit = "in"
)

var (
	ErrTooManyPoints       = errors.New("calibration already has two points, reset first")
	ErrNotEnoughPoints     = errors.New("calibration needs two reference points before a distance can be applied")
	ErrNonPositiveDistance = errors.New("calibration distance must be greater than zero")
	ErrDegenerateReference = errors.New("calibration reference points are coincident")
	ErrInvalidUnit         = errors.New("calibration unit must be ft or in")
)

// Session is a single interactive calibration flow for one drawing. A
// drawing owns at most one session at a time; beginning a new calibration
// discards any incomplete prior one. The struct serializes to JSON so a
// session can be parked in a cache between HTTP calls.
type Session struct {
	State  State            `json:"state"`
	Points []geometry.Point `json:"points"`
	Scale  float64          `json:"scale"`
}

// NewSession starts an empty calibration.
func NewSession() *Session {
	return &Session{State: StateEmpty}
}

// AddPoint records a reference point. Valid only while the session holds
// fewer than two points; a third point is rejected and the caller must Reset
// before retrying.
func (s *Session) AddPoint(p geometry.Point) error {
	switch s.State {
	case StateEmpty:
		s.Points = []geometry.Point{p}
		s.State = StateOnePoint
		return nil
	case StateOnePoint:
		s.Points = append(s.Points, p)
		s.State = StateTwoPoints
		return nil
	default:
		return ErrTooManyPoints
	}
}

// ApplyDistance parses the user-entered distance string, derives the scale
// factor (pixels per foot) from the two reference points, and moves the
// session to Applied. On any failure the session stays at TwoPoints so the
// user can re-enter the distance.
func (s *Session) ApplyDistance(text string, unit Unit) (float64, error) {
	if s.State != StateTwoPoints {
		return 0, ErrNotEnoughPoints
	}

	value, err := ParseDistance(text)
	if err != nil {
		return 0, err
	}

	feet, err := toFeet(value, unit)
	if err != nil {
		return 0, err
	}
	if feet <= 0 {
		return 0, ErrNonPositiveDistance
	}

	pixels := geometry.Distance(s.Points[0], s.Points[1])
	if pixels <= 0 {
		return 0, ErrDegenerateReference
	}

	s.Scale = pixels / feet
	s.State = StateApplied

	return s.Scale, nil
}

// Reset returns the session to Empty from any state, discarding unapplied
// points and any derived scale.
func (s *Session) Reset() {
	s.State = StateEmpty
	s.Points = nil
	s.Scale = 0
}

func toFeet(value float64, unit Unit) (float64, error) {
	switch unit {
	case UnitFeet, "":
		return value, nil
	case UnitInches:
		return value / 12, nil
	default:
		return 0, ErrInvalidUnit
	}
}
