package controllers

import (
	"budget-portal-backend/fiberlog"
	supersetclient "budget-portal-backend/lib/superset/client"
	apimodels "budget-portal-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("failed to parse request body")
		return errors.New("failed to read request data")
	}
	return nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	logger := log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
	if requestID, ok := ctx.Locals(fiberlog.RequestID).(string); ok {
		logger = logger.WithField("request_id", requestID)
	}
	return logger
}

// SendError maps the broker error taxonomy to HTTP statuses. hMsg is the
// fallback human-readable message for untyped errors.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, hMsg string) error {
	var notEmbeddableErr *supersetclient.NotEmbeddableError
	if errors.As(err, &notEmbeddableErr) {
		logger.WithField("reason", notEmbeddableErr.Reason).Info("dashboard is not embeddable")
		return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError(notEmbeddableErr.Reason))
	}
	var authErr *supersetclient.AuthError
	if errors.As(err, &authErr) {
		logger.WithError(err).Error("superset authentication failed")
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(hMsg))
	}
	var protocolErr *supersetclient.ProtocolError
	if errors.As(err, &protocolErr) {
		// shape mismatch points at a superset version skew, keep it loud
		logger.WithError(err).Error("unexpected superset response, check server version compatibility")
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(hMsg))
	}
	var remoteErr *supersetclient.RemoteError
	if errors.As(err, &remoteErr) {
		logger.WithError(err).Error("superset request failed")
		return ctx.Status(fiber.StatusBadGateway).JSON(apimodels.NewError(hMsg))
	}
	logger.WithError(err).Error(hMsg)
	return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
}
