package workflow

import (
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

type TriggerRequest struct {
	TelegramId int64  `json:"telegram_id" validate:"required"`
	Type       string `json:"type" validate:"required,oneof=manual schedule webhook"`
	// Schedule holds the plain text schedule, only used for type "schedule"
	Schedule string `json:"schedule"`
}

func ConfigureTrigger(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.workflow")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req TriggerRequest
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
		logger = logger.With(
			slog.String("uuid", workflowUUID),
			slog.String("type", req.Type),
		)

		var (
			workflow *entity.Workflow
			err      error
		)
		switch req.Type {
		case entity.TriggerManual:
			workflow, err = handler.ConfigureManual(r.Context(), workflowUUID, req.TelegramId)
		case entity.TriggerSchedule:
			workflow, err = handler.ConfigureSchedule(r.Context(), workflowUUID, req.TelegramId, req.Schedule)
		case entity.TriggerWebhook:
			workflow, err = handler.ConfigureWebhook(r.Context(), workflowUUID, req.TelegramId)
		}

		if err != nil {
			logger.Error("configure trigger", sl.Err(err))
			status, msg := errStatus(err)
			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}
		logger.Debug("trigger configured")

		render.JSON(w, r, workflow)
	}
}
