package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EstimAgent/internal/entity"
	"EstimAgent/pkg/geometry"
)

func TestNormalize_PolygonPrediction(t *testing.T) {
	preds := []rawPrediction{
		{
			Class:      "room",
			Confidence: 0.92,
			Points:     []geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 80}, {X: 0, Y: 80}},
		},
	}

	out := normalize(preds, entity.SourcePrimary, nil)
	require.Len(t, out, 1)

	d := out[0]
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "room", d.Class)
	assert.Equal(t, entity.CategoryRoom, d.Category)
	assert.Equal(t, entity.SourcePrimary, d.Source)
	assert.Len(t, d.Mask, 4)
	assert.Nil(t, d.BBox)
}

func TestNormalize_BBoxPrediction(t *testing.T) {
	preds := []rawPrediction{
		{Class: "door", Confidence: 0.8, X: 50, Y: 60, Width: 30, Height: 80},
	}

	out := normalize(preds, entity.SourceSecondary, nil)
	require.Len(t, out, 1)

	d := out[0]
	assert.Equal(t, entity.CategoryOpening, d.Category)
	require.NotNil(t, d.BBox)
	assert.Equal(t, entity.BBox{X: 50, Y: 60, W: 30, H: 80}, *d.BBox)

	// BBox regions participate in polygon code paths.
	region := d.Region()
	require.Len(t, region, 4)
	assert.InDelta(t, 30*80, geometry.PolygonArea(region), 1e-9)
}

func TestNormalize_LabelFallbackAndMissingClass(t *testing.T) {
	preds := []rawPrediction{
		{Label: "window", Confidence: 0.7, X: 10, Y: 10, Width: 5, Height: 5},
		{Confidence: 0.9, X: 10, Y: 10, Width: 5, Height: 5},
	}

	out := normalize(preds, entity.SourcePrimary, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "window", out[0].Class)
}

func TestNormalize_ClassFilter(t *testing.T) {
	preds := []rawPrediction{
		{Class: "door", Confidence: 0.8, X: 1, Y: 1, Width: 2, Height: 2},
		{Class: "room", Confidence: 0.9, X: 5, Y: 5, Width: 9, Height: 9},
		{Class: "Window", Confidence: 0.7, X: 3, Y: 3, Width: 2, Height: 2},
	}

	out := normalize(preds, entity.SourcePrimary, openingClasses)
	require.Len(t, out, 2)
	assert.Equal(t, "door", out[0].Class)
	assert.Equal(t, "Window", out[1].Class)
}

func TestNormalize_UniqueIDs(t *testing.T) {
	preds := []rawPrediction{
		{Class: "door", Confidence: 0.8, X: 1, Y: 1, Width: 2, Height: 2},
		{Class: "door", Confidence: 0.8, X: 1, Y: 1, Width: 2, Height: 2},
	}

	out := normalize(preds, entity.SourcePrimary, nil)
	require.Len(t, out, 2)
	assert.NotEqual(t, out[0].ID, out[1].ID)
}
