package entity

import "time"

// Project groups the blueprint drawings of one estimation job.
type Project struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Drawing is one uploaded blueprint image. ScaleFactor is pixels per foot,
// derived via calibration; zero means the drawing has not been calibrated
// yet and metrics stay in pixel units.
type Drawing struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"image_url"`
	ImageWidth  int       `json:"image_width"`
	ImageHeight int       `json:"image_height"`
	ScaleFactor float64   `json:"scale_factor"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AnalysisRun is one detector invocation over a drawing. Runs are ordered by
// Sequence per drawing; only the highest applied sequence is current, so a
// slow earlier run can never overwrite a later one.
type AnalysisRun struct {
	ID         string                `json:"id"`
	DrawingID  string                `json:"drawing_id"`
	Sequence   int64                 `json:"sequence"`
	Detections []ReconciledDetection `json:"detections"`
	Skipped    int                   `json:"skipped"`
	CreatedAt  time.Time             `json:"created_at"`
}
