package bot

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"linklet/bot/workflow"
	"linklet/bot/workflows/assistant"
	"linklet/entity"
	"linklet/internal/config"
	"linklet/internal/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"
)

// AuthService defines the interface for user registration.
type AuthService interface {
	EnsureUser(telegramId int64, username, firstName string) (*entity.User, error)
}

// RateLimiter decides whether a user's request may be handled.
type RateLimiter interface {
	Allow(userID int64) bool
}

// UserBot is the Telegram bot serving workflow conversations.
type UserBot struct {
	log         *slog.Logger
	api         *tgbotapi.Bot
	botUsername string
	adminChatID int64
	engine      workflow.Engine
	authService AuthService
	limiter     RateLimiter
}

// NewUserBot creates a new user bot instance.
func NewUserBot(conf *config.Config, log *slog.Logger) (*UserBot, error) {
	bot := &UserBot{
		log:         log.With(sl.Module("userbot")),
		botUsername: conf.Telegram.BotName,
		adminChatID: conf.Telegram.AdminId,
	}

	api, err := tgbotapi.NewBot(conf.Telegram.ApiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	bot.api = api

	return bot, nil
}

// SetEngine sets the conversation flow engine for the bot.
func (b *UserBot) SetEngine(engine workflow.Engine) {
	b.engine = engine
}

// SetAuthService sets the auth service for the bot.
func (b *UserBot) SetAuthService(authService AuthService) {
	b.authService = authService
}

// SetRateLimiter sets the per-user rate limiter for the bot.
func (b *UserBot) SetRateLimiter(limiter RateLimiter) {
	b.limiter = limiter
}

// SendMessage sends a plain text message to the admin chat. It satisfies
// the logger's AdminNotifier interface.
func (b *UserBot) SendMessage(msg string) {
	if b.adminChatID == 0 {
		return
	}
	if _, err := b.api.SendMessage(b.adminChatID, msg, nil); err != nil {
		b.log.Warn("failed to notify admin", sl.Err(err))
	}
}

// Start begins polling for updates and handling them.
func (b *UserBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(bot *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			log.Println("an error occurred while handling update:", err.Error())
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)

	dispatcher.AddHandler(handlers.NewCommand("start", b.handleStart))
	dispatcher.AddHandler(handlers.NewCommand("menu", b.handleStart))
	dispatcher.AddHandler(handlers.NewCallback(b.workflowCallbackFilter, b.handleCallback))
	dispatcher.AddHandler(handlers.NewMessage(message.Text, b.handleMessage))

	// Start receiving updates
	err := updater.StartPolling(b.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	b.log.Info("user bot started", slog.String("username", b.botUsername))

	// Idle, to keep updates coming in
	updater.Idle()

	return nil
}

// workflowCallbackFilter filters callbacks that belong to flows.
func (b *UserBot) workflowCallbackFilter(cq *tgbotapi.CallbackQuery) bool {
	return workflow.IsWorkflowCallback(cq.Data)
}

// allow registers the user and applies the rate limit. A false return
// means the update must be dropped.
func (b *UserBot) allow(bot *tgbotapi.Bot, ctx *ext.Context) bool {
	userID := ctx.EffectiveUser.Id

	if b.limiter != nil && !b.limiter.Allow(userID) {
		bot.SendMessage(ctx.EffectiveChat.Id, "⏳ Doucement ! Réessayez dans quelques instants.", nil)
		return false
	}

	if b.authService != nil {
		_, err := b.authService.EnsureUser(userID, ctx.EffectiveUser.Username, ctx.EffectiveUser.FirstName)
		if err != nil {
			b.log.Error("failed to register user",
				slog.Int64("user_id", userID),
				sl.Err(err),
			)
		}
	}

	return true
}

// handleStart handles the /start and /menu commands.
func (b *UserBot) handleStart(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if b.engine == nil {
		b.log.Warn("flow engine not initialized")
		return nil
	}

	if !b.allow(bot, ctx) {
		return nil
	}

	err := b.engine.StartFlow(context.Background(), bot, ctx.EffectiveUser.Id, ctx.EffectiveChat.Id, assistant.FlowID)
	if err != nil {
		b.log.Error("failed to start flow",
			slog.Int64("user_id", ctx.EffectiveUser.Id),
			sl.Err(err),
		)
		return err
	}

	return nil
}

// handleCallback handles inline keyboard callbacks for flows.
func (b *UserBot) handleCallback(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if b.engine == nil {
		return nil
	}

	userID := ctx.EffectiveUser.Id

	if b.limiter != nil && !b.limiter.Allow(userID) {
		ctx.CallbackQuery.Answer(bot, &tgbotapi.AnswerCallbackQueryOpts{
			Text: "⏳ Doucement !",
		})
		return nil
	}

	data := ctx.CallbackQuery.Data
	err := b.engine.HandleCallback(context.Background(), bot, ctx, data)
	if err != nil {
		b.log.Error("flow callback error",
			slog.Int64("user_id", userID),
			slog.String("data", data),
			sl.Err(err),
		)
	}
	return err
}

// handleMessage handles text messages for flows.
func (b *UserBot) handleMessage(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if b.engine == nil {
		return nil
	}

	if !b.allow(bot, ctx) {
		return nil
	}

	userID := ctx.EffectiveUser.Id
	chatID := ctx.EffectiveChat.Id

	hasFlow, err := b.engine.HasActiveFlow(context.Background(), userID)
	if err != nil {
		b.log.Error("check active flow error", sl.Err(err))
		return err
	}

	if !hasFlow {
		// No active conversation, drop the user into the main menu
		return b.engine.StartFlow(context.Background(), bot, userID, chatID, assistant.FlowID)
	}

	err = b.engine.HandleMessage(context.Background(), bot, ctx)
	if err != nil {
		b.log.Error("flow message error",
			slog.Int64("user_id", userID),
			sl.Err(err),
		)
	}
	return err
}
