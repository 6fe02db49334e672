package workflow

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"linklet/internal/lib/api/response"
	"linklet/internal/lib/sl"
	"linklet/internal/lib/validate"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type DeleteRequest struct {
	TelegramId int64 `json:"telegram_id" validate:"required"`
}

func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.workflow")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req DeleteRequest
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

		if err := handler.DeleteWorkflow(r.Context(), workflowUUID, req.TelegramId); err != nil {
			logger.Error("delete workflow", slog.String("uuid", workflowUUID), sl.Err(err))
			status, msg := errStatus(err)
			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}

		render.JSON(w, r, response.Ok("Workflow deleted"))
	}
}
