package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"stridebeat/internal/actions"
	"stridebeat/internal/config"
	"stridebeat/internal/logging"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.ContextWithSessionID(ctx, logging.NewSessionID())

	var a *actions.Actions
	// Actions are bound lazily because the config is only loaded in Before.
	run := func(pick func(*actions.Actions) cli.ActionFunc) cli.ActionFunc {
		return func(c *cli.Context) error {
			return pick(a)(c)
		}
	}

	matchFlags := slices.Concat(actions.InputFlags, actions.MatchFlags)

	app := &cli.App{
		Name:  "stridebeat",
		Usage: "Stridebeat finds songs in your Spotify library whose tempo matches your running cadence.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to a YAML config file"},
			&cli.StringFlag{Name: "log-level", Usage: "override the configured log level"},
			&cli.StringFlag{Name: "log-format", Usage: "log format: console or json"},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			if c.IsSet("log-level") {
				cfg.Log.Level = c.String("log-level")
			}
			if c.IsSet("log-format") {
				cfg.Log.Format = c.String("log-format")
			}
			logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})
			a = actions.New(cfg)
			return nil
		},
		Action: run(func(a *actions.Actions) cli.ActionFunc { return a.Run }),
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Log in and match songs to your cadence interactively",
				Flags:  actions.MatchFlags,
				Action: run(func(a *actions.Actions) cli.ActionFunc { return a.Run }),
			},
			{
				Name:   "cadence",
				Usage:  "Estimate your running cadence from height and pace",
				Flags:  actions.InputFlags,
				Action: run(func(a *actions.Actions) cli.ActionFunc { return a.Cadence }),
			},
			{
				Name:  "match",
				Usage: "List songs from your library that match your cadence",
				Flags: append(matchFlags,
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "also save the matches to a CSV file"},
				),
				Action: run(func(a *actions.Actions) cli.ActionFunc { return a.Match }),
			},
			{
				Name:   "recommend",
				Usage:  "Get recommendations based on a song or an artist",
				Flags:  actions.RecommendFlags,
				Action: run(func(a *actions.Actions) cli.ActionFunc { return a.Recommend }),
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
