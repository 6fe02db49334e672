package workflow

import (
	"log/slog"
	"net/http"
	"strconv"

	"linklet/internal/lib/api/response"
	"linklet/internal/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.workflow")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		telegramId, err := strconv.ParseInt(r.URL.Query().Get("telegram_id"), 10, 64)
		if err != nil || telegramId == 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("telegram_id query parameter required"))
			return
		}

		workflowUUID := chi.URLParam(r, "uuid")

		workflow, err := handler.GetWorkflow(r.Context(), workflowUUID, telegramId)
		if err != nil {
			logger.Error("get workflow", slog.String("uuid", workflowUUID), sl.Err(err))
			status, msg := errStatus(err)
			render.Status(r, status)
			render.JSON(w, r, response.Error(msg))
			return
		}

		render.JSON(w, r, workflow)
	}
}
