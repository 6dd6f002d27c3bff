package calibrationHandler

import (
	calibrationService "EstimAgent/internal/api/calibration/service"
	"EstimAgent/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CalibrationHandler struct {
	log                *logrus.Logger
	validator          *validator.Validate
	middleware         middleware.Middleware
	calibrationService calibrationService.ICalibrationService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs calibrationService.ICalibrationService,
) *CalibrationHandler {
	return &CalibrationHandler{
		log:                log,
		validator:          validate,
		middleware:         middleware,
		calibrationService: cs,
	}
}

func (h *CalibrationHandler) Start(srv fiber.Router) {
	calibration := srv.Group("/drawings/:id/calibration")

	calibration.Post("/", h.middleware.NewTokenMiddleware, h.BeginSession)
	calibration.Get("/", h.middleware.NewTokenMiddleware, h.GetSession)
	calibration.Post("/points", h.middleware.NewTokenMiddleware, h.AddPoint)
	calibration.Post("/distance", h.middleware.NewTokenMiddleware, h.ApplyDistance)
	calibration.Delete("/", h.middleware.NewTokenMiddleware, h.ResetSession)
}
