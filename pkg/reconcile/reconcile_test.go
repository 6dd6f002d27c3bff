package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EstimAgent/internal/entity"
	"EstimAgent/pkg/geometry"
)

func square(x, y, size float64) []geometry.Point {
	return []geometry.Point{
		{X: x, Y: y},
		{X: x + size, Y: y},
		{X: x + size, Y: y + size},
		{X: x, Y: y + size},
	}
}

func det(id, class string, conf float64, source entity.Source, mask []geometry.Point) entity.Detection {
	return entity.Detection{
		ID:         id,
		Class:      class,
		Category:   entity.CategoryFromClass(class),
		Confidence: conf,
		Source:     source,
		Mask:       mask,
	}
}

func TestMerge_PassthroughLaws(t *testing.T) {
	primary := []entity.Detection{
		det("p1", "room", 0.9, entity.SourcePrimary, square(0, 0, 100)),
		det("p2", "wall", 0.8, entity.SourcePrimary, square(200, 0, 50)),
	}

	out, stats := Merge(primary, nil, DefaultIoUThreshold)
	require.Len(t, out, 2)
	assert.Zero(t, stats.MergedPairs)
	for i, r := range out {
		assert.Equal(t, primary[i].ID, r.ID)
		assert.Equal(t, entity.ProvenancePrimary, r.Provenance)
		assert.Equal(t, []entity.Source{entity.SourcePrimary}, r.Sources)
	}

	secondary := []entity.Detection{
		det("s1", "door", 0.7, entity.SourceSecondary, square(10, 10, 20)),
	}
	out, _ = Merge(nil, secondary, DefaultIoUThreshold)
	require.Len(t, out, 1)
	assert.Equal(t, "s1", out[0].ID)
	assert.Equal(t, entity.ProvenanceSecondary, out[0].Provenance)
}

func TestMerge_DuplicateKeepsHigherConfidence(t *testing.T) {
	// Near-identical windows: IoU well above the 0.4 default.
	primary := []entity.Detection{
		det("p1", "window", 0.9, entity.SourcePrimary, square(0, 0, 100)),
	}
	secondary := []entity.Detection{
		det("s1", "window", 0.7, entity.SourceSecondary, square(10, 0, 100)),
	}

	out, stats := Merge(primary, secondary, DefaultIoUThreshold)
	require.Len(t, out, 1)
	assert.Equal(t, "p1", out[0].ID)
	assert.InDelta(t, 0.9, out[0].Confidence, 1e-9)
	assert.Equal(t, entity.ProvenanceMerged, out[0].Provenance)
	assert.Equal(t, []entity.Source{entity.SourcePrimary, entity.SourceSecondary}, out[0].Sources)
	assert.Equal(t, 1, stats.MergedPairs)
}

func TestMerge_SecondaryWinsWhenMoreConfident(t *testing.T) {
	primary := []entity.Detection{
		det("p1", "window", 0.6, entity.SourcePrimary, square(0, 0, 100)),
	}
	secondary := []entity.Detection{
		det("s1", "window", 0.95, entity.SourceSecondary, square(5, 0, 100)),
	}

	out, _ := Merge(primary, secondary, DefaultIoUThreshold)
	require.Len(t, out, 1)
	assert.Equal(t, "s1", out[0].ID)
	assert.InDelta(t, 0.95, out[0].Confidence, 1e-9)
	assert.Equal(t, entity.ProvenanceMerged, out[0].Provenance)
}

func TestMerge_TieFavorsPrimary(t *testing.T) {
	primary := []entity.Detection{
		det("p1", "door", 0.8, entity.SourcePrimary, square(0, 0, 100)),
	}
	secondary := []entity.Detection{
		det("s1", "door", 0.8, entity.SourceSecondary, square(0, 0, 100)),
	}

	out, _ := Merge(primary, secondary, DefaultIoUThreshold)
	require.Len(t, out, 1)
	assert.Equal(t, "p1", out[0].ID)
}

func TestMerge_LowOverlapKeepsBoth(t *testing.T) {
	// Slight corner overlap, IoU well below 0.4.
	primary := []entity.Detection{
		det("p1", "window", 0.9, entity.SourcePrimary, square(0, 0, 100)),
	}
	secondary := []entity.Detection{
		det("s1", "window", 0.7, entity.SourceSecondary, square(90, 90, 100)),
	}

	out, stats := Merge(primary, secondary, DefaultIoUThreshold)
	require.Len(t, out, 2)
	assert.Zero(t, stats.MergedPairs)
}

func TestMerge_CrossClassNeverMerges(t *testing.T) {
	// Identical regions but different classes: both survive.
	primary := []entity.Detection{
		det("p1", "door", 0.9, entity.SourcePrimary, square(0, 0, 100)),
	}
	secondary := []entity.Detection{
		det("s1", "window", 0.8, entity.SourceSecondary, square(0, 0, 100)),
	}

	out, _ := Merge(primary, secondary, DefaultIoUThreshold)
	assert.Len(t, out, 2)
}

func TestMerge_PrimaryClaimedOnlyOnce(t *testing.T) {
	// Two secondary windows overlap the same primary one; only the first
	// claims it, the second survives as its own detection.
	primary := []entity.Detection{
		det("p1", "window", 0.9, entity.SourcePrimary, square(0, 0, 100)),
	}
	secondary := []entity.Detection{
		det("s1", "window", 0.5, entity.SourceSecondary, square(5, 0, 100)),
		det("s2", "window", 0.5, entity.SourceSecondary, square(0, 5, 100)),
	}

	out, stats := Merge(primary, secondary, DefaultIoUThreshold)
	require.Len(t, out, 2)
	assert.Equal(t, 1, stats.MergedPairs)

	var merged, secondaryOnly int
	for _, r := range out {
		switch r.Provenance {
		case entity.ProvenanceMerged:
			merged++
		case entity.ProvenanceSecondary:
			secondaryOnly++
		}
	}
	assert.Equal(t, 1, merged)
	assert.Equal(t, 1, secondaryOnly)
}

func TestMerge_BestMatchWins(t *testing.T) {
	// Secondary overlaps two primaries of the same class; the higher-IoU one
	// is claimed.
	primary := []entity.Detection{
		det("far", "room", 0.9, entity.SourcePrimary, square(60, 0, 100)),
		det("near", "room", 0.9, entity.SourcePrimary, square(10, 0, 100)),
	}
	secondary := []entity.Detection{
		det("s1", "room", 0.95, entity.SourceSecondary, square(0, 0, 100)),
	}

	out, _ := Merge(primary, secondary, DefaultIoUThreshold)
	require.Len(t, out, 2)

	assert.Equal(t, entity.ProvenanceMerged, out[0].Provenance)
	assert.Equal(t, "s1", out[0].ID)
	assert.Equal(t, "far", out[1].ID)
	assert.Equal(t, entity.ProvenancePrimary, out[1].Provenance)
}

func TestMerge_MalformedDetectionsSkippedAndCounted(t *testing.T) {
	primary := []entity.Detection{
		det("p1", "room", 0.9, entity.SourcePrimary, square(0, 0, 100)),
		det("p2", "", 0.9, entity.SourcePrimary, square(200, 200, 100)),
		det("p3", "wall", 0.9, entity.SourcePrimary, nil),
	}
	secondary := []entity.Detection{
		// Zero-area mask: collinear points.
		det("s1", "room", 0.8, entity.SourceSecondary, []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}),
	}

	out, stats := Merge(primary, secondary, DefaultIoUThreshold)
	require.Len(t, out, 1)
	assert.Equal(t, "p1", out[0].ID)
	assert.Equal(t, 2, stats.SkippedPrimary)
	assert.Equal(t, 1, stats.SkippedSecondary)
}

func TestMerge_BBoxOnlyDetectionsParticipate(t *testing.T) {
	primary := []entity.Detection{
		{
			ID: "p1", Class: "door", Category: entity.CategoryOpening,
			Confidence: 0.9, Source: entity.SourcePrimary,
			BBox: &entity.BBox{X: 50, Y: 50, W: 100, H: 100},
		},
	}
	secondary := []entity.Detection{
		{
			ID: "s1", Class: "door", Category: entity.CategoryOpening,
			Confidence: 0.7, Source: entity.SourceSecondary,
			BBox: &entity.BBox{X: 55, Y: 50, W: 100, H: 100},
		},
	}

	out, stats := Merge(primary, secondary, DefaultIoUThreshold)
	require.Len(t, out, 1)
	assert.Equal(t, "p1", out[0].ID)
	assert.Equal(t, 1, stats.MergedPairs)
}

func TestMerge_Deterministic(t *testing.T) {
	primary := []entity.Detection{
		det("p1", "room", 0.9, entity.SourcePrimary, square(0, 0, 100)),
		det("p2", "window", 0.6, entity.SourcePrimary, square(300, 0, 40)),
		det("p3", "wall", 0.8, entity.SourcePrimary, square(0, 300, 200)),
	}
	secondary := []entity.Detection{
		det("s1", "window", 0.7, entity.SourceSecondary, square(305, 0, 40)),
		det("s2", "room", 0.4, entity.SourceSecondary, square(500, 500, 80)),
	}

	first, firstStats := Merge(primary, secondary, DefaultIoUThreshold)
	second, secondStats := Merge(primary, secondary, DefaultIoUThreshold)

	assert.Empty(t, cmp.Diff(first, second))
	assert.Equal(t, firstStats, secondStats)

	// Byte-identical when serialized, order included.
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestMerge_ZeroThresholdFallsBackToDefault(t *testing.T) {
	primary := []entity.Detection{
		det("p1", "window", 0.9, entity.SourcePrimary, square(0, 0, 100)),
	}
	secondary := []entity.Detection{
		det("s1", "window", 0.7, entity.SourceSecondary, square(90, 90, 100)),
	}

	// Tiny corner overlap must not merge under the 0.4 default.
	out, _ := Merge(primary, secondary, 0)
	assert.Len(t, out, 2)
}
