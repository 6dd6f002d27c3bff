package calibration

import "EstimAgent/pkg/geometry"

type AddPointRequest struct {
	X float64 `json:"x" validate:"gte=0"`
	Y float64 `json:"y" validate:"gte=0"`
}

type ApplyDistanceRequest struct {
	Distance string `json:"distance" validate:"required"`
	Unit     string `json:"unit" validate:"omitempty,oneof=ft in"`
}

type SessionResponse struct {
	DrawingID string           `json:"drawing_id"`
	State     string           `json:"state"`
	Points    []geometry.Point `json:"points"`
	Scale     float64          `json:"scale,omitempty"`
}
