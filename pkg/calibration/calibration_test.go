package calibration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EstimAgent/pkg/geometry"
)

func TestParseDistance_PlainDecimal(t *testing.T) {
	v, err := ParseDistance("11.33")
	require.NoError(t, err)
	assert.InDelta(t, 11.33, v, 1e-9)

	v, err = ParseDistance("10")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, v, 1e-9)
}

func TestParseDistance_FeetAndInches(t *testing.T) {
	cases := map[string]float64{
		`11'4"`:  11 + 4.0/12,
		`11' 4"`: 11 + 4.0/12,
		`11'4`:   11 + 4.0/12,
		`11'`:    11,
		"11-4":   11 + 4.0/12,
		"11 4":   11 + 4.0/12,
		"0-6":    0.5,
	}

	for input, want := range cases {
		v, err := ParseDistance(input)
		require.NoError(t, err, "input %q", input)
		assert.InDelta(t, want, v, 1e-9, "input %q", input)
	}
}

func TestParseDistance_Unrecognized(t *testing.T) {
	for _, input := range []string{"", "  ", "abc", "11ft4", `4"11'`, "1-2-3", "--"} {
		_, err := ParseDistance(input)

		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr, "input %q", input)
	}
}

func TestParseDistance_NonFiniteRejected(t *testing.T) {
	// strconv.ParseFloat accepts these spellings but they are not distances.
	for _, input := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "Infinity"} {
		_, err := ParseDistance(input)

		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr, "input %q", input)
	}
}

func TestSession_HappyPath(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StateEmpty, s.State)

	require.NoError(t, s.AddPoint(geometry.Point{X: 0, Y: 0}))
	assert.Equal(t, StateOnePoint, s.State)

	require.NoError(t, s.AddPoint(geometry.Point{X: 100, Y: 0}))
	assert.Equal(t, StateTwoPoints, s.State)

	scale, err := s.ApplyDistance("10", UnitFeet)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, scale, 1e-9)
	assert.Equal(t, StateApplied, s.State)
}

func TestSession_FeetInchesReference(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.AddPoint(geometry.Point{X: 0, Y: 0}))
	require.NoError(t, s.AddPoint(geometry.Point{X: 136, Y: 0}))

	// 136px over 11ft 4in (11.333ft) is 12 px/ft.
	scale, err := s.ApplyDistance("11-4", UnitFeet)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, scale, 0.01)
}

func TestSession_InchesUnit(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.AddPoint(geometry.Point{X: 0, Y: 0}))
	require.NoError(t, s.AddPoint(geometry.Point{X: 24, Y: 0}))

	// 24px over 24in = 2ft -> 12 px/ft.
	scale, err := s.ApplyDistance("24", UnitInches)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, scale, 1e-9)
}

func TestSession_ThirdPointRejected(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.AddPoint(geometry.Point{X: 0, Y: 0}))
	require.NoError(t, s.AddPoint(geometry.Point{X: 1, Y: 1}))

	err := s.AddPoint(geometry.Point{X: 2, Y: 2})
	assert.ErrorIs(t, err, ErrTooManyPoints)
	assert.Len(t, s.Points, 2)
}

func TestSession_ApplyBeforeTwoPoints(t *testing.T) {
	s := NewSession()
	_, err := s.ApplyDistance("10", UnitFeet)
	assert.ErrorIs(t, err, ErrNotEnoughPoints)

	require.NoError(t, s.AddPoint(geometry.Point{X: 0, Y: 0}))
	_, err = s.ApplyDistance("10", UnitFeet)
	assert.ErrorIs(t, err, ErrNotEnoughPoints)
}

func TestSession_InvalidDistanceKeepsState(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.AddPoint(geometry.Point{X: 0, Y: 0}))
	require.NoError(t, s.AddPoint(geometry.Point{X: 100, Y: 0}))

	_, err := s.ApplyDistance("not a number", UnitFeet)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, StateTwoPoints, s.State)

	_, err = s.ApplyDistance("0", UnitFeet)
	assert.ErrorIs(t, err, ErrNonPositiveDistance)
	assert.Equal(t, StateTwoPoints, s.State)

	// A valid retry still succeeds.
	scale, err := s.ApplyDistance("10", UnitFeet)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, scale, 1e-9)
}

func TestSession_NonFiniteDistanceKeepsState(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.AddPoint(geometry.Point{X: 0, Y: 0}))
	require.NoError(t, s.AddPoint(geometry.Point{X: 100, Y: 0}))

	for _, input := range []string{"NaN", "Inf", "-Inf"} {
		_, err := s.ApplyDistance(input, UnitFeet)

		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr, "input %q", input)
		assert.Equal(t, StateTwoPoints, s.State, "input %q", input)
		assert.Zero(t, s.Scale, "input %q", input)
	}

	// A finite retry still succeeds.
	scale, err := s.ApplyDistance("10", UnitFeet)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, scale, 1e-9)
}

func TestSession_CoincidentPointsRejected(t *testing.T) {
	s := NewSession()
	p := geometry.Point{X: 42, Y: 42}
	require.NoError(t, s.AddPoint(p))
	require.NoError(t, s.AddPoint(p))

	_, err := s.ApplyDistance("10", UnitFeet)
	assert.ErrorIs(t, err, ErrDegenerateReference)
	assert.Equal(t, StateTwoPoints, s.State)
}

func TestSession_InvalidUnit(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.AddPoint(geometry.Point{X: 0, Y: 0}))
	require.NoError(t, s.AddPoint(geometry.Point{X: 100, Y: 0}))

	_, err := s.ApplyDistance("10", Unit("m"))
	assert.ErrorIs(t, err, ErrInvalidUnit)
	assert.Equal(t, StateTwoPoints, s.State)
}

func TestSession_ResetFromAnyState(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.AddPoint(geometry.Point{X: 0, Y: 0}))
	require.NoError(t, s.AddPoint(geometry.Point{X: 100, Y: 0}))
	_, err := s.ApplyDistance("10", UnitFeet)
	require.NoError(t, err)

	s.Reset()
	assert.Equal(t, StateEmpty, s.State)
	assert.Empty(t, s.Points)
	assert.Zero(t, s.Scale)

	// Usable again after reset.
	require.NoError(t, s.AddPoint(geometry.Point{X: 0, Y: 0}))
	assert.Equal(t, StateOnePoint, s.State)
}

func TestSession_JSONRoundTrip(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.AddPoint(geometry.Point{X: 1, Y: 2}))
	require.NoError(t, s.AddPoint(geometry.Point{X: 3, Y: 4}))

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var restored Session
	require.NoError(t, json.Unmarshal(raw, &restored))
	assert.Equal(t, *s, restored)

	// The restored session continues where it left off.
	_, err = restored.ApplyDistance("10", UnitFeet)
	require.NoError(t, err)
	assert.Equal(t, StateApplied, restored.State)
}
