package takeoffHandler

import (
	takeoffService "EstimAgent/internal/api/takeoff/service"
	"EstimAgent/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type TakeoffHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	takeoffService takeoffService.ITakeoffService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ts takeoffService.ITakeoffService,
) *TakeoffHandler {
	return &TakeoffHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		takeoffService: ts,
	}
}

func (h *TakeoffHandler) Start(srv fiber.Router) {
	drawings := srv.Group("/drawings")
	drawings.Post("/:id/takeoff", h.middleware.NewTokenMiddleware, h.GenerateTakeoff)
	drawings.Get("/:id/takeoff/latest", h.middleware.NewTokenMiddleware, h.GetLatestTakeoff)

	takeoffs := srv.Group("/takeoffs")
	takeoffs.Get("/:id", h.middleware.NewTokenMiddleware, h.GetTakeoffByID)
}
