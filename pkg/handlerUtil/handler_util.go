package handlerUtil

import (
	"EstimAgent/internal/api/analysis"
	"EstimAgent/internal/api/calibration"
	"EstimAgent/internal/api/project"
	"EstimAgent/internal/api/takeoff"
	calibrationPkg "EstimAgent/pkg/calibration"
	"EstimAgent/pkg/log"
	"EstimAgent/pkg/response"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"code":       respErr.Code,
			"path":       path,
			"operation":  operation,
		}).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(fiber.Map{"error": err.Error()})
	}

	// Project domain errors
	if errors.Is(err, project.ErrProjectNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Project not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Project not found",
			"code":    "PROJECT_NOT_FOUND",
		})
	}

	if errors.Is(err, project.ErrDrawingNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Drawing not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Drawing not found",
			"code":    "DRAWING_NOT_FOUND",
		})
	}

	if errors.Is(err, project.ErrProjectNotOwned) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Project owned by another user")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You do not have access to this project",
			"code":    "PROJECT_FORBIDDEN",
		})
	}

	if errors.Is(err, project.ErrInvalidFileType) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Invalid file type")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid file type. Only images are allowed.",
		})
	}

	if errors.Is(err, project.ErrFailedToUploadFile) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Failed to upload file")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload file",
		})
	}

	if errors.Is(err, project.ErrCreateProject) || errors.Is(err, project.ErrCreateDrawing) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Failed to persist record")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save data",
		})
	}

	// Calibration domain errors
	if errors.Is(err, calibration.ErrSessionNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Calibration session not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "No calibration in progress for this drawing",
			"code":    "CALIBRATION_NOT_FOUND",
		})
	}

	if errors.Is(err, calibration.ErrSessionCorrupt) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Calibration session corrupt")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Calibration session is corrupt, start a new one",
			"code":    "CALIBRATION_CORRUPT",
		})
	}

	if errors.Is(err, calibrationPkg.ErrTooManyPoints) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Too many calibration points")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Calibration already has two points, reset to start over",
			"code":    "CALIBRATION_POINTS_FULL",
		})
	}

	if errors.Is(err, calibrationPkg.ErrNotEnoughPoints) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Not enough calibration points")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Two reference points are required before applying a distance",
			"code":    "CALIBRATION_POINTS_MISSING",
		})
	}

	var parseErr *calibrationPkg.ParseError
	if errors.As(err, &parseErr) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Unparseable calibration distance")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not parse the reference distance",
			"code":    "CALIBRATION_BAD_DISTANCE",
		})
	}

	if errors.Is(err, calibrationPkg.ErrNonPositiveDistance) ||
		errors.Is(err, calibrationPkg.ErrDegenerateReference) ||
		errors.Is(err, calibrationPkg.ErrInvalidUnit) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Invalid calibration input")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
			"code":    "CALIBRATION_INVALID",
		})
	}

	// Analysis domain errors
	if errors.Is(err, analysis.ErrRunNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Analysis run not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Analysis run not found",
			"code":    "RUN_NOT_FOUND",
		})
	}

	if errors.Is(err, analysis.ErrDetectionNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Detection not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Detection not found",
			"code":    "DETECTION_NOT_FOUND",
		})
	}

	if errors.Is(err, analysis.ErrRunSuperseded) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Analysis run superseded")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "A newer analysis finished first; this run was discarded",
			"code":    "RUN_SUPERSEDED",
		})
	}

	if errors.Is(err, analysis.ErrAllDetectorsDown) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("No detector available")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "No detector service is currently available",
			"code":    "DETECTORS_UNAVAILABLE",
		})
	}

	if errors.Is(err, analysis.ErrInvalidVertices) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Invalid vertices")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A detection polygon needs at least three vertices",
			"code":    "INVALID_VERTICES",
		})
	}

	if errors.Is(err, analysis.ErrImageUnavailable) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Drawing image unavailable")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "The drawing image could not be fetched",
			"code":    "IMAGE_UNAVAILABLE",
		})
	}

	// Takeoff domain errors
	if errors.Is(err, takeoff.ErrTakeoffNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Takeoff not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Takeoff not found",
			"code":    "TAKEOFF_NOT_FOUND",
		})
	}

	if errors.Is(err, takeoff.ErrNoAnalysisRun) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("No analysis run for takeoff")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Run an analysis before generating a takeoff",
			"code":    "TAKEOFF_NO_RUN",
		})
	}

	if errors.Is(err, takeoff.ErrCreateTakeoff) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Failed to create takeoff")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create takeoff",
		})
	}

	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}).Error("Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "An unexpected error occurred",
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
