package analysisRepository

import (
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EstimAgent/internal/entity"
	"EstimAgent/pkg/geometry"
)

// storedRow flattens a detection the way CreateDetections does and rebuilds
// the row a SELECT would scan, so decode behavior can be tested without a
// database.
func storedRow(t *testing.T, d entity.ReconciledDetection, ordinal int) DetectionDB {
	t.Helper()

	args, err := makeDetectionArgs(d, "run-1", "drawing-1", ordinal, time.Unix(0, 0))
	require.NoError(t, err)

	return DetectionDB{
		ID:          sql.NullString{String: args["id"].(string), Valid: true},
		RunID:       sql.NullString{String: args["run_id"].(string), Valid: true},
		DrawingID:   sql.NullString{String: args["drawing_id"].(string), Valid: true},
		Ordinal:     sql.NullInt64{Int64: int64(args["ordinal"].(int)), Valid: true},
		Class:       sql.NullString{String: args["class"].(string), Valid: true},
		Category:    sql.NullString{String: args["category"].(string), Valid: true},
		Confidence:  sql.NullFloat64{Float64: args["confidence"].(float64), Valid: true},
		Provenance:  sql.NullString{String: args["provenance"].(string), Valid: true},
		Sources:     sql.NullString{String: args["sources"].(string), Valid: true},
		Mask:        sql.NullString{String: args["mask"].(string), Valid: true},
		BBox:        sql.NullString{String: args["bbox"].(string), Valid: true},
		AreaSqft:    sql.NullFloat64{Float64: args["area_sqft"].(float64), Valid: true},
		PerimeterFt: sql.NullFloat64{Float64: args["perimeter_ft"].(float64), Valid: true},
		WidthFt:     sql.NullFloat64{Float64: args["width_ft"].(float64), Valid: true},
		HeightFt:    sql.NullFloat64{Float64: args["height_ft"].(float64), Valid: true},
	}
}

func TestStoredDetectionRoundTrip(t *testing.T) {
	original := entity.ReconciledDetection{
		Detection: entity.Detection{
			ID:         "det-1",
			Class:      "room",
			Category:   entity.CategoryRoom,
			Confidence: 0.92,
			Mask:       []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
			BBox:       &entity.BBox{X: 5, Y: 5, W: 10, H: 10},
			Display:    entity.DisplayMetrics{AreaSqft: 100, PerimeterFt: 40},
		},
		Provenance: entity.ProvenanceMerged,
		Sources:    []entity.Source{entity.SourcePrimary, entity.SourceSecondary},
	}

	got, err := makeDetection(storedRow(t, original, 0))
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(original, got))
}

func TestReadBackPreservesEmissionOrder(t *testing.T) {
	detections := []entity.ReconciledDetection{
		{Detection: entity.Detection{ID: "det-a", Class: "room", Category: entity.CategoryRoom,
			Mask: []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}}, Provenance: entity.ProvenancePrimary},
		{Detection: entity.Detection{ID: "det-b", Class: "wall", Category: entity.CategoryWall,
			Mask: []geometry.Point{{X: 0, Y: 0}, {X: 5, Y: 0}}}, Provenance: entity.ProvenanceSecondary},
		{Detection: entity.Detection{ID: "det-c", Class: "door", Category: entity.CategoryOpening,
			BBox: &entity.BBox{X: 2, Y: 2, W: 1, H: 2}}, Provenance: entity.ProvenanceMerged},
	}

	// Physical storage order is not the emission order.
	rows := []DetectionDB{
		storedRow(t, detections[2], 2),
		storedRow(t, detections[0], 0),
		storedRow(t, detections[1], 1),
	}

	// Read-back orders by ordinal.
	sort.Slice(rows, func(i, j int) bool { return rows[i].Ordinal.Int64 < rows[j].Ordinal.Int64 })

	for i, row := range rows {
		got, err := makeDetection(row)
		require.NoError(t, err)
		assert.Equal(t, detections[i].ID, got.ID, "position %d", i)
	}
}
