package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"videoDubber/client/api"
	"videoDubber/client/config"
	"videoDubber/client/middleware"
	"videoDubber/client/render"
	"videoDubber/client/session"
	"videoDubber/client/validation"
	"videoDubber/language"
)

func main() {
	cfg := config.Load()

	target := flag.String("lang", cfg.TargetLanguage, "target language code")
	listLanguages := flag.Bool("languages", false, "list supported target languages and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-lang code] <video>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *listLanguages {
		for _, code := range language.Codes() {
			fmt.Printf("%-6s %s\n", code, language.Name(code))
		}
		return
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	var logger *zap.Logger
	if cfg.Debug {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, logger, flag.Arg(0), *target)
	stop()
	logger.Sync()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, path, target string) int {
	traceID := uuid.New().String()
	logger = logger.With(zap.String("trace_id", traceID))

	httpClient := &http.Client{
		Transport: middleware.NewTransport(http.DefaultTransport, traceID, logger),
		Timeout:   cfg.RequestTimeout,
	}

	client, err := api.NewClient(cfg.ServiceURL, httpClient, logger)
	if err != nil {
		logger.Error("Invalid service url", zap.String("url", cfg.ServiceURL), zap.Error(err))
		return 1
	}

	view := render.NewConsole(os.Stdout, client.ResolveURL)
	sess := session.New(client, view, logger)
	if err := sess.Start(ctx); err != nil {
		logger.Error("Failed to start session", zap.Error(err))
		return 1
	}
	defer sess.Dispose()

	file, err := validation.OpenFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := sess.SelectFile(file); err != nil {
		return 1
	}

	if err := sess.Submit(ctx, target); err != nil {
		return 1
	}

	phase, err := sess.Wait(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Stopped tracking job %s\n", sess.JobID())
			return 130
		}
		logger.Error("Waiting for job failed", zap.Error(err))
		return 1
	}
	if phase != session.PhaseCompleted {
		return 1
	}
	return 0
}
