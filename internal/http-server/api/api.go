package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"linklet/internal/config"
	"linklet/internal/http-server/handlers/errors"
	"linklet/internal/http-server/handlers/key"
	"linklet/internal/http-server/handlers/workflow"
	"linklet/internal/http-server/middleware/authenticate"
	"linklet/internal/http-server/middleware/timeout"
	"linklet/internal/lib/sl"
	"linklet/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	workflow.Core
	key.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	// The execution feed authenticates through a query token, the Bearer
	// middleware only guards the JSON API below.
	if hub != nil {
		router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWs(hub, handler, log, w, r)
		})
	}

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(timeout.Timeout(30))
		v1.Use(render.SetContentType(render.ContentTypeJSON))
		v1.Use(authenticate.New(log, handler))

		v1.Route("/workflows", func(r chi.Router) {
			r.Get("/", workflow.List(log, handler))
			r.Post("/", workflow.Create(log, handler))
			r.Get("/{uuid}", workflow.Get(log, handler))
			r.Put("/{uuid}/trigger", workflow.ConfigureTrigger(log, handler))
			r.Post("/{uuid}/activate", workflow.Activate(log, handler))
			r.Post("/{uuid}/deactivate", workflow.Deactivate(log, handler))
			r.Post("/{uuid}/execute", workflow.Execute(log, handler))
			r.Delete("/{uuid}", workflow.Delete(log, handler))
		})
		v1.Route("/key", func(r chi.Router) {
			r.Post("/new", key.Generate(log, handler))
		})
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
