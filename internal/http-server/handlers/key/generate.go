package key

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

type GenerateRequest struct {
	Username string `json:"username" validate:"required"`
}

type GenerateResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

func Generate(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mod := sl.Module("http.handlers.key")

		logger := log.With(
			mod,
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if handler == nil {
			logger.Error("key service not available")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("key service not available"))
			return
		}

		var req GenerateRequest
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

		token, err := handler.GenerateApiKey(req.Username)
		if err != nil {
			logger.Error("generate api key", slog.String("username", req.Username), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to generate key"))
			return
		}
		logger.Info("api key generated", slog.String("username", req.Username))

		render.JSON(w, r, GenerateResponse{Username: req.Username, Token: token})
	}
}
