package project

import "time"

type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=256"`
	Description string `json:"description" validate:"omitempty,max=2048"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name" validate:"omitempty,min=3,max=256"`
	Description string `json:"description" validate:"omitempty,max=2048"`
}

type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int               `json:"total"`
}

type DrawingResponse struct {
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

type DrawingListResponse struct {
	Drawings []DrawingResponse `json:"drawings"`
	Total    int               `json:"total"`
}
