package takeoff

import (
	"EstimAgent/internal/entity"
	"time"
)

type TakeoffResponse struct {
	ID        string               `json:"id"`
	DrawingID string               `json:"drawing_id"`
	RunID     string               `json:"run_id"`
	Items     []entity.TakeoffItem `json:"items"`
	CreatedAt time.Time            `json:"created_at"`
}
