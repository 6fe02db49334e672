package workflow

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"linklet/entity"
	"linklet/internal/lib/api/response"
	"linklet/internal/lib/sl"
	"linklet/internal/lib/validate"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type ActivateRequest struct {
	TelegramId int64 `json:"telegram_id" validate:"required"`
}

func Activate(log *slog.Logger, handler Core) http.HandlerFunc {
	return setActive(log, "activate workflow", func(ctx context.Context, handler Core, uuid string, telegramId int64) (*entity.Workflow, error) {
		return handler.ActivateWorkflow(ctx, uuid, telegramId)
	}, handler)
}

func Deactivate(log *slog.Logger, handler Core) http.HandlerFunc {
	return setActive(log, "deactivate workflow", func(ctx context.Context, handler Core, uuid string, telegramId int64) (*entity.Workflow, error) {
		return handler.DeactivateWorkflow(ctx, uuid, telegramId)
	}, handler)
}

func setActive(log *slog.Logger, op string, call func(ctx context.Context, handler Core, uuid string, telegramId int64) (*entity.Workflow, error), handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.workflow")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req ActivateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request"))
			return
		}

		workflowUUID := chi.URLParam(r, "uuid")

		workflow, err := call(r.Context(), handler, workflowUUID, req.TelegramId)
		if err != nil {
			logger.Error(op, slog.String("uuid", workflowUUID), sl.Err(err))
			status, msg := errStatus(err)
			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}

		render.JSON(w, r, workflow)
	}
}
