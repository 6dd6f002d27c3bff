package projectHandler

import (
	projectService "EstimAgent/internal/api/project/service"
	"EstimAgent/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ProjectHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	projectService projectService.IProjectService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ps projectService.IProjectService,
) *ProjectHandler {
	return &ProjectHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		projectService: ps,
	}
}

func (h *ProjectHandler) Start(srv fiber.Router) {
	projects := srv.Group("/projects")

	projects.Post("/", h.middleware.NewTokenMiddleware, h.CreateProject)
	projects.Get("", h.middleware.NewTokenMiddleware, h.GetProjects)
	projects.Get("/:id", h.middleware.NewTokenMiddleware, h.GetProjectByID)
	projects.Put("/:id", h.middleware.NewTokenMiddleware, h.UpdateProject)
	projects.Delete("/:id", h.middleware.NewTokenMiddleware, h.DeleteProject)

	projects.Post("/:id/drawings", h.middleware.NewTokenMiddleware, h.UploadDrawing)
	projects.Get("/:id/drawings", h.middleware.NewTokenMiddleware, h.GetDrawingsByProject)

	drawings := srv.Group("/drawings")
	drawings.Delete("/:id", h.middleware.NewTokenMiddleware, h.DeleteDrawing)
}
