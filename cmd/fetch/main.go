package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"quoteservice/internal/app"
	"quoteservice/internal/config"
	"quoteservice/internal/logging"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		logrus.Fatal(err)
	}
}

// run quotes one symbol and writes it to stdout as indented JSON. Logs go
// to stderr.
func run(args []string, stdout, stderr io.Writer) error {
	var symbol string
	var configPath string
	var timeout int
	var logLevel string

	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&symbol, "symbol", getenv("SYMBOL", "^NSEI"), "symbol to quote, e.g. RELIANCE.NS")
	fs.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json or config.yaml (optional)")
	fs.IntVar(&timeout, "timeout", 0, "per-endpoint timeout seconds (0 keeps config)")
	fs.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (empty keeps config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if timeout > 0 {
		cfg.Upstream.TimeoutSec = timeout
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	log := logging.NewWithOutput(stderr, "quote-fetch", cfg.Log.Level, cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	svc := app.NewService(cfg, log)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Upstream.TimeoutSec*len(cfg.Upstream.Endpoints)+5)*time.Second)
	defer cancel()

	q, err := svc.GetQuote(ctx, symbol)
	if err != nil {
		return fmt.Errorf("quote %q: %w", symbol, err)
	}
	if q.IsDemo {
		log.WithField("symbol", symbol).Warn("upstream unavailable, printed quote is synthetic")
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(q); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
