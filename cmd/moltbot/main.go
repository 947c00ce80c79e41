package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	_ "github.com/joho/godotenv/autoload"

	"moltbot/internal/agent"
	"moltbot/internal/brain"
	"moltbot/internal/config"
	"moltbot/internal/core/ports"
	"moltbot/internal/netutil"
	"moltbot/internal/notify/telegram"
	"moltbot/internal/sites/moltbook"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "moltbot:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:    "moltbot",
		Usage:   "autonomous Moltbook agent",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "moltbook-api-key",
			Usage:   "API key for the Moltbook platform",
			EnvVars: []string{"MOLTBOOK_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "moltbook-base-url",
			Value:   moltbook.DefaultBaseURL,
			EnvVars: []string{"MOLTBOOK_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "telegram-bot-token",
			Usage:   "bot token for report delivery",
			EnvVars: []string{"TELEGRAM_BOT_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "telegram-chat-id",
			Usage:   "destination chat for reports",
			EnvVars: []string{"TELEGRAM_CHAT_ID"},
		},
		&cli.StringFlag{
			Name:    "brain-provider",
			Usage:   "decision backend: groq or gemini",
			Value:   config.ProviderGroq,
			EnvVars: []string{"BRAIN_PROVIDER"},
		},
		&cli.StringFlag{
			Name:    "groq-api-key",
			EnvVars: []string{"GROQ_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "groq-api-url",
			Value:   brain.DefaultGroqURL,
			EnvVars: []string{"GROQ_API_URL"},
		},
		&cli.StringFlag{
			Name:    "groq-model",
			Value:   "llama-3.3-70b-versatile",
			EnvVars: []string{"GROQ_MODEL"},
		},
		&cli.StringFlag{
			Name:    "gemini-api-key",
			EnvVars: []string{"GEMINI_API_KEY"},
		},
		&cli.IntFlag{
			Name:    "check-interval",
			Usage:   "seconds to sleep between cycles",
			Value:   3600,
			EnvVars: []string{"CHECK_INTERVAL_SECONDS"},
		},
		&cli.IntFlag{
			Name:    "fetch-limit",
			Usage:   "posts to fetch per cycle",
			Value:   50,
			EnvVars: []string{"MOLTBOT_FETCH_LIMIT"},
		},
		&cli.IntFlag{
			Name:    "thread-limit",
			Usage:   "active discussions to expand per cycle",
			Value:   3,
			EnvVars: []string{"MOLTBOT_THREAD_LIMIT"},
		},
		&cli.IntFlag{
			Name:    "request-timeout",
			Usage:   "per-request timeout in seconds",
			Value:   30,
			EnvVars: []string{"MOLTBOT_REQUEST_TIMEOUT"},
		},
		&cli.IntFlag{
			Name:    "max-retries",
			Usage:   "retries after the initial attempt for rate-limited or transient failures",
			Value:   3,
			EnvVars: []string{"MOLTBOT_MAX_RETRIES"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Value:   ":8765",
			EnvVars: []string{"MOLTBOT_METRICS_LISTEN"},
		},
	}

	app.Action = runAgent
	return app.Run(args)
}

func runAgent(cctx *cli.Context) error {
	rawLog, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer rawLog.Sync()
	zap.ReplaceGlobals(rawLog)
	log := rawLog.Sugar()

	cfg := config.Config{
		MoltbookAPIKey:  cctx.String("moltbook-api-key"),
		MoltbookBaseURL: cctx.String("moltbook-base-url"),
		TelegramToken:   cctx.String("telegram-bot-token"),
		TelegramChatID:  cctx.String("telegram-chat-id"),
		Provider:        cctx.String("brain-provider"),
		GroqAPIKey:      cctx.String("groq-api-key"),
		GroqAPIURL:      cctx.String("groq-api-url"),
		GroqModel:       cctx.String("groq-model"),
		GeminiAPIKey:    cctx.String("gemini-api-key"),
		Interval:        time.Duration(cctx.Int("check-interval")) * time.Second,
		FetchLimit:      cctx.Int("fetch-limit"),
		ThreadLimit:     cctx.Int("thread-limit"),
		RequestTimeout:  time.Duration(cctx.Int("request-timeout")) * time.Second,
		MaxRetries:      cctx.Int("max-retries"),
		MetricsListen:   cctx.String("metrics-listen"),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	httpClient := netutil.NewClient(
		netutil.WithMaxRetries(cfg.MaxRetries),
		netutil.WithTimeout(cfg.RequestTimeout),
		netutil.WithLogger(log),
	)

	platform := moltbook.NewClient(cfg.MoltbookBaseURL, cfg.MoltbookAPIKey, httpClient)

	var decider ports.Brain
	switch cfg.Provider {
	case config.ProviderGemini:
		decider, err = brain.NewGeminiBrain(ctx, cfg.GeminiAPIKey, log)
		if err != nil {
			return err
		}
	default:
		decider = brain.NewGroqBrain(cfg.GroqAPIURL, cfg.GroqAPIKey, cfg.GroqModel, httpClient, log)
	}

	notifier, err := telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		return fmt.Errorf("telegram setup: %w", err)
	}

	// metrics endpoint
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(cfg.MetricsListen, mux); err != nil {
			log.Errorw("metrics listener failed", "error", err)
		}
	}()

	bot := agent.New(platform, decider, notifier, agent.Config{
		Interval:    cfg.Interval,
		FetchLimit:  cfg.FetchLimit,
		ThreadLimit: cfg.ThreadLimit,
	}, log)

	log.Infow("moltbot starting",
		"version", versioninfo.Short(),
		"provider", cfg.Provider,
		"interval", cfg.Interval,
		"metrics", cfg.MetricsListen,
	)

	return bot.Run(ctx)
}
