package projectService

import (
	"EstimAgent/internal/api/project"
	"EstimAgent/internal/entity"
	contextPkg "EstimAgent/pkg/context"
	"io"
	"mime/multipart"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *projectService) UploadDrawing(ctx context.Context, projectID string, owner string, name string, imageFile *multipart.FileHeader) (entity.Drawing, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.projectRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.Drawing{}, err
	}

	p, err := repo.Projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return entity.Drawing{}, err
	}
	if p.Owner != owner {
		return entity.Drawing{}, project.ErrProjectNotOwned
	}

	if err := s.utils.ValidateImageFile(imageFile); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid drawing file")
		return entity.Drawing{}, project.ErrInvalidFileType
	}

	width, height, err := s.drawingDimensions(imageFile)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to decode drawing dimensions")
		return entity.Drawing{}, project.ErrInvalidFileType
	}

	imageURL, err := s.s3Client.UploadFile(imageFile)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to upload drawing")
		return entity.Drawing{}, project.ErrFailedToUploadFile
	}

	drawingID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return entity.Drawing{}, err
	}

	if name == "" {
		name = imageFile.Filename
	}

	now := time.Now()
	d := entity.Drawing{
		ID:          drawingID,
		ProjectID:   projectID,
		Name:        name,
		ImageURL:    imageURL,
		ImageWidth:  width,
		ImageHeight: height,
		ScaleFactor: 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := repo.Drawings.CreateDrawing(ctx, d); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create drawing")
		return entity.Drawing{}, project.ErrCreateDrawing
	}

	return d, nil
}

func (s *projectService) GetDrawingByID(ctx context.Context, id string) (entity.Drawing, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.projectRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.Drawing{}, err
	}

	return repo.Drawings.GetDrawingByID(ctx, id)
}

func (s *projectService) GetDrawingsByProject(ctx context.Context, projectID string, owner string) (*project.DrawingListResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.projectRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	p, err := repo.Projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.Owner != owner {
		return nil, project.ErrProjectNotOwned
	}

	drawingsList, err := repo.Drawings.GetDrawingsByProject(ctx, projectID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get drawings")
		return nil, err
	}

	resp := &project.DrawingListResponse{
		Drawings: make([]project.DrawingResponse, 0, len(drawingsList)),
		Total:    len(drawingsList),
	}
	for _, d := range drawingsList {
		resp.Drawings = append(resp.Drawings, project.DrawingResponse{
			ID:          d.ID,
			ProjectID:   d.ProjectID,
			Name:        d.Name,
			ImageURL:    d.ImageURL,
			ImageWidth:  d.ImageWidth,
			ImageHeight: d.ImageHeight,
			ScaleFactor: d.ScaleFactor,
			CreatedAt:   d.CreatedAt,
			UpdatedAt:   d.UpdatedAt,
		})
	}

	return resp, nil
}

func (s *projectService) DeleteDrawing(ctx context.Context, id string, owner string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.projectRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}
	defer repo.Rollback()

	d, err := repo.Drawings.GetDrawingByID(ctx, id)
	if err != nil {
		return err
	}

	p, err := repo.Projects.GetProjectByID(ctx, d.ProjectID)
	if err != nil {
		return err
	}
	if p.Owner != owner {
		return project.ErrProjectNotOwned
	}

	if err := repo.Drawings.DeleteDrawing(ctx, id); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to delete drawing")
		return err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return err
	}

	if err := s.s3Client.DeleteFile(d.ImageURL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to delete drawing file from storage")
	}

	return nil
}

func (s *projectService) drawingDimensions(imageFile *multipart.FileHeader) (int, int, error) {
	f, err := imageFile.Open()
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return 0, 0, err
	}

	return s.utils.ImageSize(data)
}
