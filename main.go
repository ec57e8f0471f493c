package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"answergen/internal/config"
	"answergen/internal/controller"
	"answergen/internal/db"
	"answergen/internal/gateway"
	"answergen/internal/logging"
	"answergen/internal/styles"
	"answergen/internal/ui"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

type App struct {
	Out        io.Writer
	Err        io.Writer
	GetEnv     func(string) string
	NewBackend func(ctx context.Context, cfg *config.Config) (gateway.Backend, error)
	RunUI      func(deps ui.Deps) error
}

func DefaultApp() *App {
	return &App{
		Out:        os.Stdout,
		Err:        os.Stderr,
		GetEnv:     os.Getenv,
		NewBackend: newBackend,
		RunUI:      runProgram,
	}
}

type rootOptions struct {
	envFile   string
	noJournal bool
	logLevel  string
}

func main() {
	app := DefaultApp()
	if err := run(app); err != nil {
		fmt.Fprintf(app.Err, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(app *App) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	return newRootCmd(app).ExecuteContext(ctx)
}

func newRootCmd(app *App) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "answergen",
		Short: "Ask Gemini a question, optionally about an image",
		Long: `answergen is a terminal app that sends a question and an optional image
to Google Gemini (gemini-2.5-flash) and shows the answer.

Configuration is read from the environment and from an optional .env file:
  API_KEY          Gemini API key (required)
  GENAI_TRANSPORT  genai (default) or openai
  GENAI_BASE_URL   override the service endpoint
  LOG_LEVEL, LOG_FORMAT, LOG_FILE
  JOURNAL_ENABLED, JOURNAL_PATH`,
		Args:          cobra.NoArgs,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd.Context(), app, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to an optional .env file")
	cmd.Flags().BoolVar(&opts.noJournal, "no-journal", false, "do not record submissions")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	cmd.AddCommand(newJournalCmd(app, opts))
	return cmd
}

func runApp(ctx context.Context, app *App, opts *rootOptions) error {
	cfg, err := config.Load(opts.envFile, app.GetEnv)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	log, closer, err := logging.New(logging.Options{
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		FilePath: cfg.LogFile,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	log.WithFields(logrus.Fields{
		"version":   version,
		"transport": cfg.Transport,
		"api_key":   config.MaskAPIKey(cfg.APIKey),
	}).Info("Starting answergen")

	backend, err := app.NewBackend(ctx, cfg)
	if err != nil {
		return err
	}

	cwd, _ := os.Getwd()
	deps := ui.Deps{
		Ctx:          ctx,
		Log:          log,
		GlamourStyle: styles.InitTheme(),
		StartDir:     cwd,
	}

	var ctrlOpts []controller.Option
	if cfg.JournalEnabled && !opts.noJournal {
		conn, err := db.OpenJournal(cfg.JournalPath)
		if err != nil {
			log.WithError(err).Warn("Journal unavailable, submissions will not be recorded")
			deps.JournalErr = err
		} else {
			defer conn.Close()
			deps.Journal = conn
			ctrlOpts = append(ctrlOpts, controller.WithJournal(&db.Journal{DB: conn}))
		}
	}

	deps.Controller = controller.New(gateway.New(backend, log), log, ctrlOpts...)

	err = app.RunUI(deps)
	log.Info("Exiting answergen")
	return err
}

func newBackend(ctx context.Context, cfg *config.Config) (gateway.Backend, error) {
	switch cfg.Transport {
	case config.TransportOpenAI:
		return gateway.NewOpenAIBackend(cfg.APIKey, cfg.OpenAIBaseURL())
	default:
		return gateway.NewGenAIBackend(ctx, cfg.APIKey, cfg.BaseURL)
	}
}

func runProgram(deps ui.Deps) error {
	_, err := ui.NewProgram(deps).Run()
	return err
}

func newJournalCmd(app *App, opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List recent submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJournal(cmd.Context(), app, opts.envFile, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of submissions to show")
	return cmd
}

func runJournal(ctx context.Context, app *App, envFile string, limit int) error {
	if limit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}

	cfg, err := config.Read(envFile, app.GetEnv)
	if err != nil {
		return err
	}

	conn, err := db.OpenJournal(cfg.JournalPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	count, items, err := db.GetRecentSubmissions(ctx, conn, limit, 0)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	if count == 0 {
		fmt.Fprintln(app.Out, "No submissions yet.")
		return nil
	}

	rows := make([][]string, 0, len(items))
	for _, rec := range items {
		image := "-"
		if rec.ImageMimeType != "" {
			image = fmt.Sprintf("%s %s", rec.ImageMimeType, humanize.IBytes(uint64(rec.ImageSizeBytes)))
		}
		rows = append(rows, []string{
			humanize.Time(time.Unix(rec.CreatedAtUnix, 0)),
			rec.Outcome,
			fmt.Sprintf("%s ms", humanize.Comma(rec.DurationMillis)),
			image,
			ui.TruncateRunes(rec.PromptPreview, 48),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("WHEN", "OUTCOME", "DURATION", "IMAGE", "PROMPT").
		Rows(rows...)

	fmt.Fprintln(app.Out, t.String())
	fmt.Fprintf(app.Out, "Showing %d of %s submissions\n", len(items), humanize.Comma(int64(count)))
	return nil
}
