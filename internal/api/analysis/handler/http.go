package analysisHandler

import (
	analysisService "EstimAgent/internal/api/analysis/service"
	"EstimAgent/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type AnalysisHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	analysisService analysisService.IAnalysisService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as analysisService.IAnalysisService,
) *AnalysisHandler {
	return &AnalysisHandler{
		log:             log,
		validator:       validate,
		middleware:      middleware,
		analysisService: as,
	}
}

func (h *AnalysisHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	drawings := srv.Group("/drawings")
	drawings.Post("/:id/analyze", h.middleware.NewTokenMiddleware, h.Analyze)
	drawings.Get("/:id/analysis/latest", h.middleware.NewTokenMiddleware, h.GetLatestRun)

	analysis := srv.Group("/analysis")
	analysis.Get("/runs/:id", h.middleware.NewTokenMiddleware, h.GetRun)
	analysis.Use("/ws", wsMiddleware)
	analysis.Get("/ws", websocket.New(h.handlePreviewWebSocket))

	detections := srv.Group("/detections")
	detections.Patch("/:id/vertices", h.middleware.NewTokenMiddleware, h.UpdateVertices)
}
