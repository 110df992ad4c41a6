// Command utilify converts conventional CSS in a workspace into
// utility-class markup, cascade rules intact.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"utilify.dev/utilify/internal/config"
	"utilify.dev/utilify/internal/log"
	"utilify.dev/utilify/internal/version"
	"utilify.dev/utilify/internal/workspace"
)

func loadConfig(cmd *cli.Command, root string) (config.Config, error) {
	if path := cmd.String("config"); path != "" {
		return config.Load(path)
	}
	if path, ok := config.Discover(root); ok {
		log.Debug("using configuration %s", path)
		return config.Load(path)
	}
	return config.Default(), nil
}

func newRunner(cmd *cli.Command, preview bool) (*workspace.Runner, error) {
	root := cmd.Args().Get(0)
	if root == "" {
		root = "."
	}
	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return nil, err
	}
	if cmd.Bool("no-backup") {
		cfg.Backup = false
	}
	runner := workspace.New(root, cfg)
	runner.Preview = preview
	return runner, nil
}

func run(cmd *cli.Command, preview bool) error {
	runner, err := newRunner(cmd, preview)
	if err != nil {
		return err
	}
	summary, err := runner.Run()
	if err != nil {
		return err
	}
	runner.Report(summary)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:            "utilify",
		Usage:           "convert conventional CSS to utility classes",
		Version:         version.GetVersion() + " (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (JSON, JSONC or YAML)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				log.SetLevel(log.LevelDebug)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Rewrite workspace files in place",
				ArgsUsage: "[ROOT]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "no-backup", Usage: "do not write .bak copies before rewriting"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return run(cmd, false)
				},
			},
			{
				Name:      "preview",
				Usage:     "Show the changes a convert run would make, as unified diffs",
				ArgsUsage: "[ROOT]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return run(cmd, true)
				},
			},
			{
				Name:  "version",
				Usage: "Print detailed version information",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Println(version.GetFullVersion())
					info := version.GetBuildInfo()
					for _, key := range []string{"gitTag", "gitCommit", "buildTime", "gitDirty"} {
						if v := info[key]; v != "" && v != "unknown" {
							fmt.Printf("  %s: %s\n", key, v)
						}
					}
					fmt.Printf("  go: %s\n", runtime.Version())
					return nil
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "utilify: %v\n", err)
		os.Exit(1)
	}
}
