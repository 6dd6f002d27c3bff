package projectHandler

import (
	"EstimAgent/internal/api/project"
	contextPkg "EstimAgent/pkg/context"
	"EstimAgent/pkg/handlerUtil"
	jwtPkg "EstimAgent/pkg/jwt"
	"EstimAgent/pkg/log"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *ProjectHandler) UploadDrawing(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing upload drawing request")

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	projectID := ctx.Params("id")
	if projectID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("project ID is required"), ctx.Path())
	}

	imageFile, err := ctx.FormFile("image")
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("drawing image is required"), ctx.Path())
	}

	name := ctx.FormValue("name")

	d, err := h.projectService.UploadDrawing(c, projectID, userData.ID, name, imageFile)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "upload_drawing")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, project.DrawingResponse{
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
}

func (h *ProjectHandler) GetDrawingsByProject(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	projectID := ctx.Params("id")
	if projectID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("project ID is required"), ctx.Path())
	}

	resp, err := h.projectService.GetDrawingsByProject(c, projectID, userData.ID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_drawings")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}

func (h *ProjectHandler) DeleteDrawing(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("drawing ID is required"), ctx.Path())
	}

	if err := h.projectService.DeleteDrawing(c, id, userData.ID); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_drawing")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Drawing deleted successfully",
		})
	}
}
