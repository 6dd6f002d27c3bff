package projectService

import (
	"EstimAgent/internal/api/project"
	"EstimAgent/internal/entity"
	contextPkg "EstimAgent/pkg/context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *projectService) CreateProject(ctx context.Context, req project.CreateProjectRequest, owner string) (entity.Project, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.projectRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.Project{}, err
	}

	projectID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return entity.Project{}, err
	}

	now := time.Now()
	p := entity.Project{
		ID:          projectID,
		Owner:       owner,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := repo.Projects.CreateProject(ctx, p); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create project")
		return entity.Project{}, project.ErrCreateProject
	}

	return p, nil
}

func (s *projectService) GetProjectByID(ctx context.Context, id string, owner string) (entity.Project, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.projectRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return entity.Project{}, err
	}

	p, err := repo.Projects.GetProjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"project_id": id,
			}).Warn("Project not found")
		}
		return entity.Project{}, err
	}

	if p.Owner != owner {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"project_id": id,
		}).Warn("Project owned by another user")
		return entity.Project{}, project.ErrProjectNotOwned
	}

	return p, nil
}

func (s *projectService) GetProjects(ctx context.Context, owner string, page, limit int) (*project.ProjectListResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	repo, err := s.projectRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	projectsList, total, err := repo.Projects.GetProjectsByOwner(ctx, owner, limit, offset)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to get projects")
		return nil, err
	}

	resp := &project.ProjectListResponse{
		Projects: make([]project.ProjectResponse, 0, len(projectsList)),
		Total:    total,
	}
	for _, p := range projectsList {
		resp.Projects = append(resp.Projects, project.ProjectResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}

	return resp, nil
}

func (s *projectService) UpdateProject(ctx context.Context, id string, req project.UpdateProjectRequest, owner string) error {
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

	p, err := repo.Projects.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}
	if p.Owner != owner {
		return project.ErrProjectNotOwned
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	p.UpdatedAt = time.Now()

	if err := repo.Projects.UpdateProject(ctx, p); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to update project")
		return err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return err
	}

	return nil
}

func (s *projectService) DeleteProject(ctx context.Context, id string, owner string) error {
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

	p, err := repo.Projects.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}
	if p.Owner != owner {
		return project.ErrProjectNotOwned
	}

	if err := repo.Projects.DeleteProject(ctx, id); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to delete project")
		return err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return err
	}

	return nil
}
