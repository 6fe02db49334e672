package workflow

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"linklet/internal/lib/api/response"
	"linklet/internal/lib/sl"
	"linklet/internal/lib/validate"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type CreateRequest struct {
	TelegramId  int64  `json:"telegram_id" validate:"required"`
	Name        string `json:"name" validate:"required,min=3"`
	Description string `json:"description"`
}

func Create(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.workflow")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("workflow service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("workflow service not available"))
			return
		}

		var req CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid create request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request"))
			return
		}

		logger = logger.With(
			slog.Int64("telegram_id", req.TelegramId),
			slog.String("name", req.Name),
		)

		workflow, err := handler.CreateWorkflow(r.Context(), req.TelegramId, req.Name, req.Description)
		if err != nil {
			logger.Error("create workflow", sl.Err(err))
			status, msg := errStatus(err)
			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}
		logger.Debug("workflow created", slog.String("uuid", workflow.UUID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, workflow)
	}
}
