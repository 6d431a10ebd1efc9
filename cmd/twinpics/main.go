package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"twinpics/internal/cmdlog"
	"twinpics/internal/config"
	"twinpics/internal/export"
	"twinpics/internal/ingest"
	"twinpics/internal/jobs"
	"twinpics/internal/logging"
	"twinpics/internal/metrics"
	"twinpics/internal/model"
	"twinpics/internal/store/featuredb"
	"twinpics/internal/theme"
	"twinpics/internal/translate"
	"twinpics/internal/xclient"
)

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "init":
		cmdInit()
	case "twitter":
		cmdTwitter()
	case "telegram":
		cmdTelegram()
	default:
		printHelp()
	}
}

func printHelp() {
	theme.PrintBanner()
	fmt.Println("Usage: twinpics <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  init        Create a config file at ./twinpics.yaml")
	fmt.Println("  twitter     Analyze a Twitter dump: graph, communities, audit, duplicates, context")
	fmt.Println("  telegram    Analyze a Telegram dump: reply graph, communities, context")
}

func cmdInit() {
	out := flag.NewFlagSet("init", flag.ExitOnError)
	path := out.String("path", "./twinpics.yaml", "path to write config")
	_ = out.Parse(os.Args[2:])
	if err := config.Save(*path, config.Default()); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	abs, _ := filepath.Abs(*path)
	theme.PrintBanner()
	fmt.Println("Config written to:", abs)
}

// setup parses the shared flags and builds the config, logger and run
// dependencies of an analysis command.
func setup(name string) (config.Config, *logging.Logger, jobs.Deps) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cfgPath := fs.String("config", "./twinpics.yaml", "config path")
	outPath := fs.String("out", "", "export path (overrides output.exportPath)")
	dbPath := fs.String("db", "", "SQLite dump path (overrides output.dbPath)")
	_ = fs.Parse(os.Args[2:])

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fail(err)
		}
		cfg = config.Default()
		cfg.ResolveEnv()
	}
	if *outPath != "" {
		cfg.Output.ExportPath = *outPath
	}
	if *dbPath != "" {
		cfg.Output.DBPath = *dbPath
	}

	log, err := logging.New(cfg.Logging.Mode)
	if err != nil {
		fail(err)
	}
	metrics.StartServer(cfg.Metrics.Addr)

	d, err := jobs.DepsFromConfig(cfg, log)
	if err != nil {
		fail(err)
	}
	if d.Translator, err = translate.New(cfg.Translation); err != nil {
		fail(err)
	}
	if cfg.Backfill.Enabled {
		creds := make([]xclient.Credential, 0, len(cfg.Backfill.Credentials))
		for _, c := range cfg.Backfill.Credentials {
			creds = append(creds, xclient.Credential{
				ConsumerKey:    c.ConsumerKey,
				ConsumerSecret: c.ConsumerSecret,
				AccessToken:    c.AccessToken,
				AccessSecret:   c.AccessSecret,
			})
		}
		if len(creds) == 0 {
			log.Warn("backfill_no_credentials", "effect", "More Data accounts are dropped")
		}
		d.Ring = xclient.NewRing(creds...)
		d.Fetcher = xclient.NewV1Client(cfg.Backfill.RPS, cfg.Backfill.Burst)
	}
	return cfg, log, d
}

func cmdTwitter() {
	cfg, log, d := setup("twitter")
	defer log.Sync()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var res jobs.Result
	err := cmdlog.Run(log, "twitter", func() error {
		batch, err := ingest.DecodeTweetsFile(cfg.Input.TweetsPath)
		if err != nil {
			return err
		}
		if d.Corpus, err = ingest.LoadCorpora(ctx, cfg.Input.KeywordsPath, cfg.Input.HashtagsPath); err != nil {
			return err
		}
		started := time.Now()
		if res, err = jobs.RunTwitter(ctx, d, batch); err != nil {
			return err
		}
		return persist(ctx, cfg, model.Twitter, started, res)
	})
	finish(res, err)
}

func cmdTelegram() {
	cfg, log, d := setup("telegram")
	defer log.Sync()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var res jobs.Result
	err := cmdlog.Run(log, "telegram", func() error {
		batch, err := decodeTelegram(cfg.Input)
		if err != nil {
			return err
		}
		if d.Corpus, err = ingest.LoadCorpora(ctx, cfg.Input.KeywordsPath, cfg.Input.HashtagsPath); err != nil {
			return err
		}
		started := time.Now()
		if res, err = jobs.RunTelegram(ctx, d, batch); err != nil {
			return err
		}
		return persist(ctx, cfg, model.Telegram, started, res)
	})
	finish(res, err)
}

func decodeTelegram(in config.InputConfig) (ingest.Batch, error) {
	msgs, err := os.Open(in.TelegramMessagesPath)
	if err != nil {
		return ingest.Batch{}, err
	}
	defer msgs.Close()
	parts, err := os.Open(in.TelegramParticipantsPath)
	if err != nil {
		return ingest.Batch{}, err
	}
	defer parts.Close()
	return ingest.DecodeTelegram(msgs, in.TelegramMessagesPath, parts, in.TelegramParticipantsPath)
}

// persist writes the graph export and, when configured, the SQLite dump.
func persist(ctx context.Context, cfg config.Config, platform model.Platform, started time.Time, res jobs.Result) error {
	if err := export.WriteFile(cfg.Output.ExportPath, res.Document); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if cfg.Output.DBPath == "" {
		return nil
	}
	db, err := featuredb.Open(cfg.Output.DBPath)
	if err != nil {
		return fmt.Errorf("featuredb: %w", err)
	}
	defer db.Close()
	runID, err := db.NewRun(ctx, platform, started)
	if err != nil {
		return err
	}
	if err := db.PutAccounts(ctx, runID, res.Rows()); err != nil {
		return err
	}
	for _, g := range res.Duplicates.Groups {
		if err := db.PutGroup(ctx, runID, g); err != nil {
			return err
		}
	}
	return db.FinishRun(ctx, runID, time.Now())
}

func finish(res jobs.Result, err error) {
	if err != nil {
		var se *ingest.SchemaError
		if errors.As(err, &se) {
			fmt.Println("schema error:", se)
		} else {
			fmt.Println("error:", err)
		}
		os.Exit(1)
	}
	_ = jobs.WriteFailureSummary(os.Stdout, res.Failures)
}

func fail(err error) {
	fmt.Println("error:", err)
	os.Exit(1)
}
