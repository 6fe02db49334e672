package main

import (
	"flag"
	"log/slog"
	"time"

	"linklet/ai"
	"linklet/bot"
	"linklet/bot/workflow"
	"linklet/bot/workflows/assistant"
	"linklet/impl/core"
	"linklet/internal/config"
	repository "linklet/internal/database"
	"linklet/internal/http-server/api"
	"linklet/internal/lib/logger"
	"linklet/internal/lib/sl"
	"linklet/internal/service/auth"
	"linklet/internal/service/automation"
	"linklet/internal/service/n8n"
	"linklet/internal/service/ratelimit"
	"linklet/internal/ws"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	// Initialize Telegram bot if enabled
	var userBot *bot.UserBot
	if conf.Telegram.Enabled {
		var err error
		userBot, err = bot.NewUserBot(conf, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			// Errors also reach the admin chat from here on
			lg = logger.SetupTelegramHandler(lg, userBot, slog.LevelError)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")
		}
	}

	lg.Info("starting linklet", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	handler := core.New(lg)
	handler.SetAuthKey(conf.Listen.ApiKey)

	authService := auth.NewAuthService(lg)

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil {
		authService.SetRepository(db)
		handler.SetRepository(db)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	}

	engine := n8n.NewService(conf, lg)
	lg.With(
		slog.String("url", conf.N8N.BaseURL),
		sl.Secret("api_key", conf.N8N.ApiKey),
	).Info("n8n client initialized")

	hub := ws.NewHub(lg)
	go hub.Run()

	automationService := automation.NewService(conf, engine, lg)
	automationService.SetEventSink(hub)
	if db != nil {
		automationService.SetRepository(db)
	}
	handler.SetWorkflowService(automationService)

	provider, err := ai.NewProvider(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("ai provider")
	} else {
		lg.With(
			slog.String("provider", provider.Name()),
			sl.Secret("api_key", conf.AI.ApiKey),
		).Info("ai provider initialized")
	}

	if userBot != nil {
		if db == nil {
			lg.Error("telegram bot requires mongo, conversations disabled")
		} else {
			flowEngine := workflow.NewFlowEngine(workflow.NewMongoStateStorage(db), lg)
			flowEngine.RegisterFlow(assistant.NewAssistantWorkflow(automationService, provider, lg))

			limiter := ratelimit.NewLimiter(conf.RateLimit.Requests, time.Duration(conf.RateLimit.WindowSeconds)*time.Second)

			userBot.SetEngine(flowEngine)
			userBot.SetAuthService(authService)
			userBot.SetRateLimiter(limiter)

			// Start the bot in a goroutine
			go func() {
				if err := userBot.Start(); err != nil {
					lg.Error("telegram bot error", sl.Err(err))
				}
			}()
		}
	}

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler, hub)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
