package project

import "errors"

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrProjectNotOwned    = errors.New("project does not belong to user")
	ErrDrawingNotFound    = errors.New("drawing not found")
	ErrInvalidFileType    = errors.New("invalid file type")
	ErrFailedToUploadFile = errors.New("failed to upload file")
	ErrCreateProject      = errors.New("failed to create project")
	ErrCreateDrawing      = errors.New("failed to create drawing")
)
