package entity

import "time"

// Takeoff is a quantified list of building elements extracted from one
// drawing's analysis, consumed by downstream cost estimation.
type Takeoff struct {
	ID        string        `json:"id"`
	DrawingID string        `json:"drawing_id"`
	RunID     string        `json:"run_id"`
	Items     []TakeoffItem `json:"items"`
	CreatedAt time.Time     `json:"created_at"`
}

// TakeoffItem is one aggregated line: a room with its area, a wall run with
// its linear feet, or a count of openings grouped under the room that
// contains them. RoomID is empty for items not attached to a room.
type TakeoffItem struct {
	ID          string   `json:"id"`
	TakeoffID   string   `json:"takeoff_id"`
	DetectionID string   `json:"detection_id"`
	RoomID      string   `json:"room_id,omitempty"`
	Class       string   `json:"class"`
	Category    Category `json:"category"`
	AreaSqft    float64  `json:"area_sqft,omitempty"`
	PerimeterFt float64  `json:"perimeter_ft,omitempty"`
	Count       int      `json:"count,omitempty"`
}
