package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/packindex/internal"
	pkgconfig "github.com/starford/packindex/pkg/config"
)

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if v := cmd.String("root"); v != "" {
		cfg.Content.Root = v
	}
	if v := cmd.String("out"); v != "" {
		cfg.Content.Output = v
	}
	if v := cmd.String("pack"); v != "" {
		cfg.Content.DefaultPack = v
	}
	if v := cmd.String("sqlite"); v != "" {
		cfg.Export.SQLitePath = v
	}
	return cfg, nil
}

func runMode(mode internal.Mode) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithMode(mode),
		}
		if mode == internal.ModeList {
			opts = append(opts, internal.WithListQuery(internal.ListQuery{
				Pack: cmd.String("pack"),
				Kind: cmd.String("kind"),
				Sort: cmd.String("sort"),
			}))
		}

		if err := internal.Run(ctx, opts...); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}
		return nil
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "packindex",
		Usage:  "Build the content index of learning packs: skills, units, prerequisites and their order",
		Action: runMode(internal.ModeBuild),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:  "root",
				Usage: "Content root holding one directory per pack",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Path of the generated content index JSON",
			},
			&cli.StringFlag{
				Name:    "pack",
				Usage:   "Default pack id",
				Sources: cli.EnvVars("RAFT_PACK"),
			},
			&cli.StringFlag{
				Name:  "sqlite",
				Usage: "Also export the index to this SQLite database",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Build and write the content index (default)",
				Action: runMode(internal.ModeBuild),
			},
			{
				Name:   "check",
				Usage:  "Validate content without writing anything",
				Action: runMode(internal.ModeCheck),
			},
			{
				Name:   "watch",
				Usage:  "Rebuild the content index whenever content changes",
				Action: runMode(internal.ModeWatch),
			},
			{
				Name:   "list",
				Usage:  "Print skills or lessons of a pack from the written index",
				Action: runMode(internal.ModeList),
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "kind",
						Usage: "What to list: skills or lessons",
						Value: "skills",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Skill order: category, level or number",
						Value: "category",
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
