package takeoffService

import (
	"testing"

	"EstimAgent/internal/entity"
	"EstimAgent/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x, y, size float64) []geometry.Point {
	return []geometry.Point{
		{X: x, Y: y},
		{X: x + size, Y: y},
		{X: x + size, Y: y + size},
		{X: x, Y: y + size},
	}
}

func roomDetection(id string, mask []geometry.Point, area float64) entity.ReconciledDetection {
	return entity.ReconciledDetection{
		Detection: entity.Detection{
			ID:       id,
			Class:    "room",
			Category: entity.CategoryRoom,
			Mask:     mask,
			Display:  entity.DisplayMetrics{AreaSqft: area},
		},
		Provenance: entity.ProvenancePrimary,
	}
}

func openingDetection(id, class string, cx, cy float64) entity.ReconciledDetection {
	return entity.ReconciledDetection{
		Detection: entity.Detection{
			ID:       id,
			Class:    class,
			Category: entity.CategoryOpening,
			BBox:     &entity.BBox{X: cx, Y: cy, W: 10, H: 4},
		},
		Provenance: entity.ProvenancePrimary,
	}
}

func TestBuildItemsRoomLines(t *testing.T) {
	detections := []entity.ReconciledDetection{
		roomDetection("room-a", square(0, 0, 100), 150),
		roomDetection("room-b", square(200, 0, 100), 90),
	}

	items := buildItems(detections)

	require.Len(t, items, 2)
	assert.Equal(t, "room-a", items[0].DetectionID)
	assert.Equal(t, "room-a", items[0].RoomID)
	assert.Equal(t, entity.CategoryRoom, items[0].Category)
	assert.Equal(t, 150.0, items[0].AreaSqft)
	assert.Equal(t, "room-b", items[1].DetectionID)
}

func TestBuildItemsOpeningInsideRoom(t *testing.T) {
	detections := []entity.ReconciledDetection{
		roomDetection("room-a", square(0, 0, 100), 150),
		roomDetection("room-b", square(200, 0, 100), 90),
		openingDetection("door-1", "door", 50, 50),
		openingDetection("door-2", "door", 250, 50),
		openingDetection("window-1", "window", 60, 20),
	}

	items := buildItems(detections)

	var openings []entity.TakeoffItem
	for _, item := range items {
		if item.Category == entity.CategoryOpening {
			openings = append(openings, item)
		}
	}

	require.Len(t, openings, 3)

	counts := make(map[string]int)
	for _, o := range openings {
		counts[o.RoomID+"/"+o.Class] = o.Count
	}
	assert.Equal(t, 1, counts["room-a/door"])
	assert.Equal(t, 1, counts["room-b/door"])
	assert.Equal(t, 1, counts["room-a/window"])
}

func TestBuildItemsOpeningCountsCollapse(t *testing.T) {
	detections := []entity.ReconciledDetection{
		roomDetection("room-a", square(0, 0, 100), 150),
		openingDetection("door-1", "door", 20, 50),
		openingDetection("door-2", "door", 50, 50),
		openingDetection("door-3", "door", 80, 50),
	}

	items := buildItems(detections)

	require.Len(t, items, 2)
	assert.Equal(t, entity.CategoryOpening, items[1].Category)
	assert.Equal(t, 3, items[1].Count)
	assert.Equal(t, "room-a", items[1].RoomID)
	assert.Equal(t, "door-1", items[1].DetectionID)
}

func TestBuildItemsOpeningOutsideFallsBackToNearestRoom(t *testing.T) {
	// A door sitting in the wall gap between two rooms lands in neither
	// polygon; it should attach to the room with the nearest centroid.
	detections := []entity.ReconciledDetection{
		roomDetection("room-a", square(0, 0, 100), 150),
		roomDetection("room-b", square(200, 0, 100), 90),
		openingDetection("door-1", "door", 120, 50),
	}

	items := buildItems(detections)

	require.Len(t, items, 3)
	assert.Equal(t, "room-a", items[2].RoomID)
}

func TestBuildItemsWallLines(t *testing.T) {
	detections := []entity.ReconciledDetection{
		{
			Detection: entity.Detection{
				ID:       "wall-1",
				Class:    "wall",
				Category: entity.CategoryWall,
				Mask:     square(0, 0, 100),
				Display:  entity.DisplayMetrics{PerimeterFt: 33.3},
			},
			Provenance: entity.ProvenanceMerged,
		},
	}

	items := buildItems(detections)

	require.Len(t, items, 1)
	assert.Equal(t, entity.CategoryWall, items[0].Category)
	assert.Equal(t, 33.3, items[0].PerimeterFt)
	assert.Empty(t, items[0].RoomID)
}

func TestBuildItemsNoRooms(t *testing.T) {
	detections := []entity.ReconciledDetection{
		openingDetection("door-1", "door", 50, 50),
	}

	items := buildItems(detections)

	require.Len(t, items, 1)
	assert.Empty(t, items[0].RoomID)
	assert.Equal(t, 1, items[0].Count)
}

func TestBuildItemsDeterministicOrder(t *testing.T) {
	detections := []entity.ReconciledDetection{
		roomDetection("room-a", square(0, 0, 100), 150),
		openingDetection("window-1", "window", 30, 30),
		openingDetection("door-1", "door", 50, 50),
	}

	first := buildItems(detections)
	for i := 0; i < 10; i++ {
		again := buildItems(detections)
		require.Equal(t, first, again)
	}

	// Opening lines sort by room then class.
	require.Len(t, first, 3)
	assert.Equal(t, "door", first[1].Class)
	assert.Equal(t, "window", first[2].Class)
}
