package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"EstimAgent/internal/entity"
	"EstimAgent/pkg/geometry"
)

// 120x120px square; at 12 px/ft that is a 10ft x 10ft room.
func roomSquare() []geometry.Point {
	return []geometry.Point{{X: 0, Y: 0}, {X: 120, Y: 0}, {X: 120, Y: 120}, {X: 0, Y: 120}}
}

func TestRecalc_Room(t *testing.T) {
	m := Recalc(roomSquare(), 12.0, entity.CategoryRoom, entity.DisplayMetrics{})

	assert.InDelta(t, 100.0, m.AreaSqft, 1e-9)
	assert.InDelta(t, 40.0, m.PerimeterFt, 1e-9)
}

func TestRecalc_WallIsOpenRun(t *testing.T) {
	// L-shaped wall run: 120px + 60px = 180px = 15ft at 12 px/ft.
	run := []geometry.Point{{X: 0, Y: 0}, {X: 120, Y: 0}, {X: 120, Y: 60}}

	m := Recalc(run, 12.0, entity.CategoryWall, entity.DisplayMetrics{})

	assert.InDelta(t, 15.0, m.PerimeterFt, 1e-9)
	assert.Zero(t, m.AreaSqft, "wall area needs a height input and is not derived here")
}

func TestRecalc_OpeningSizeFromBounds(t *testing.T) {
	// 36x84px door box at 12 px/ft is a 3ft x 7ft opening.
	door := []geometry.Point{{X: 10, Y: 20}, {X: 46, Y: 20}, {X: 46, Y: 104}, {X: 10, Y: 104}}

	m := Recalc(door, 12.0, entity.CategoryOpening, entity.DisplayMetrics{})

	assert.InDelta(t, 3.0, m.WidthFt, 1e-9)
	assert.InDelta(t, 7.0, m.HeightFt, 1e-9)
	assert.Zero(t, m.AreaSqft, "openings are counted, not measured by area")
}

func TestRecalc_UnknownCategoryPassesThrough(t *testing.T) {
	existing := entity.DisplayMetrics{WidthFt: 3, HeightFt: 7}

	m := Recalc(roomSquare(), 12.0, entity.CategoryUnknown, existing)

	assert.Equal(t, existing, m)
}

func TestRecalc_UnsetScaleKeepsPixelUnits(t *testing.T) {
	m := Recalc(roomSquare(), 0, entity.CategoryRoom, entity.DisplayMetrics{})

	assert.InDelta(t, 14400.0, m.AreaSqft, 1e-9)
	assert.InDelta(t, 480.0, m.PerimeterFt, 1e-9)
}

func TestRecalc_DegenerateVerticesYieldZero(t *testing.T) {
	m := Recalc([]geometry.Point{{X: 1, Y: 1}}, 12.0, entity.CategoryRoom, entity.DisplayMetrics{})

	assert.Zero(t, m.AreaSqft)
	assert.Zero(t, m.PerimeterFt)
}

func TestRecalc_Idempotent(t *testing.T) {
	first := Recalc(roomSquare(), 12.0, entity.CategoryRoom, entity.DisplayMetrics{})
	second := Recalc(roomSquare(), 12.0, entity.CategoryRoom, entity.DisplayMetrics{})

	assert.Equal(t, first, second)
}
