package projectService

import (
	"EstimAgent/internal/api/project"
	projectRepository "EstimAgent/internal/api/project/repository"
	"EstimAgent/internal/entity"
	"EstimAgent/pkg/s3"
	"EstimAgent/pkg/utils"
	"context"
	"mime/multipart"

	"github.com/sirupsen/logrus"
)

type IProjectService interface {
	CreateProject(ctx context.Context, req project.CreateProjectRequest, owner string) (entity.Project, error)
	GetProjectByID(ctx context.Context, id string, owner string) (entity.Project, error)
	GetProjects(ctx context.Context, owner string, page, limit int) (*project.ProjectListResponse, error)
	UpdateProject(ctx context.Context, id string, req project.UpdateProjectRequest, owner string) error
	DeleteProject(ctx context.Context, id string, owner string) error

	UploadDrawing(ctx context.Context, projectID string, owner string, name string, imageFile *multipart.FileHeader) (entity.Drawing, error)
	GetDrawingByID(ctx context.Context, id string) (entity.Drawing, error)
	GetDrawingsByProject(ctx context.Context, projectID string, owner string) (*project.DrawingListResponse, error)
	DeleteDrawing(ctx context.Context, id string, owner string) error
}

type projectService struct {
	log         *logrus.Logger
	projectRepo projectRepository.Repository
	s3Client    s3.ItfS3
	utils       utils.IUtils
}

func NewProjectService(
	log *logrus.Logger,
	projectRepo projectRepository.Repository,
	s3Client s3.ItfS3,
	utils utils.IUtils,
) IProjectService {
	return &projectService{
		log:         log,
		projectRepo: projectRepo,
		s3Client:    s3Client,
		utils:       utils,
	}
}
