// Package main is the WikiSmart terminal client: an interactive shell over
// the article-processing API.
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/atinyakov/WikiSmart/internal/client/api"
	"github.com/atinyakov/WikiSmart/internal/client/prompt"
	"github.com/atinyakov/WikiSmart/internal/client/session"
	"github.com/atinyakov/WikiSmart/internal/config"
	"github.com/atinyakov/WikiSmart/internal/logger"
)

var (
	version   string
	buildDate string
)

func main() {
	_ = godotenv.Load()

	options, err := config.ParseClient(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if options.ShowVersion {
		fmt.Printf("WikiSmart Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	log := logger.New()
	if err := log.InitCLI(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = log.Log.Sync() }()

	hc, err := api.NewHTTPClient(options.CAFile)
	if err != nil {
		log.Log.Fatal("cannot build http client", zap.Error(err))
	}

	creds := &api.Credentials{}
	client := api.New(options.BaseURL, creds, api.WithHTTPClient(hc), api.WithLogger(log.Log))

	store, err := session.Open(session.NewFileBackend(options.SessionFile), creds, log.Log)
	if err != nil {
		log.Log.Fatal("cannot open session", zap.Error(err))
	}

	sh := newShell(client, store, prompt.New(os.Stdin, os.Stdout), os.Stdout, log.Log)

	ctx := context.Background()
	if options.Cmd != "" {
		if !sh.exec(ctx, options.Cmd) {
			os.Exit(1)
		}
		return
	}
	sh.repl(ctx)
}
