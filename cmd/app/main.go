package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/zettel/internal"
	"github.com/starford/zettel/internal/apperr"
	pkgconfig "github.com/starford/zettel/pkg/config"
)

const defaultConfigPath = "config/config.yaml"

func sharedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file",
			DefaultText: defaultConfigPath,
			Value:       defaultConfigPath,
			Sources:     cli.EnvVars("APP_CONFIG_FILE"),
		},
		&cli.StringFlag{Name: "notes", Aliases: []string{"n"}, Usage: "Notes directory"},
		&cli.StringFlag{Name: "template", Aliases: []string{"t"}, Usage: "Report template file"},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Report output file"},
		&cli.BoolFlag{Name: "wiki", Usage: "Honor [[wiki]] links"},
		&cli.StringFlag{Name: "tasks", Usage: "Task display mode: none, by-file or by-priority"},
		&cli.StringSliceFlag{Name: "property", Usage: "Regex restricting merged inline property keys (repeatable)"},
		&cli.StringSliceFlag{Name: "ignore", Usage: "Glob of paths to skip (repeatable)"},
	}
}

// loadConfig reads the optional config file and applies flag overrides.
// Validation is left to internal.Run.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	path := cmd.String("config")
	found, err := pkgconfig.LoadOptional(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrInvalidConfig, err)
	}
	if !found && path != defaultConfigPath {
		return nil, fmt.Errorf("%w: config file not found: %s", apperr.ErrInvalidConfig, path)
	}

	if cmd.IsSet("notes") {
		cfg.Notes.Path = cmd.String("notes")
	}
	if cmd.IsSet("template") {
		cfg.Report.Template = cmd.String("template")
	}
	if cmd.IsSet("output") {
		cfg.Report.Output = cmd.String("output")
	}
	if cmd.IsSet("wiki") {
		cfg.Extract.Wiki = cmd.Bool("wiki")
	}
	if cmd.IsSet("tasks") {
		cfg.Extract.Tasks = cmd.String("tasks")
	}
	if cmd.IsSet("property") {
		cfg.Extract.Properties = cmd.StringSlice("property")
	}
	if cmd.IsSet("ignore") {
		cfg.Notes.Ignore = append(cfg.Notes.Ignore, cmd.StringSlice("ignore")...)
	}
	return cfg, nil
}

func action(command string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.IsSet("move") && cmd.Bool("move") {
			cfg.Normalize.Mode = internal.NormalizeMove
		}
		if cmd.IsSet("port") {
			cfg.App.HTTP.Port = int(cmd.Int("port"))
		}

		opts := []internal.Option{
			internal.WithConfig(cfg),
			internal.WithCommand(command),
		}
		if err := internal.Run(ctx, opts...); err != nil {
			return fmt.Errorf("%s: %w", command, err)
		}
		return nil
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "zettel",
		Usage: "Index a Zettelkasten of markdown notes into a cross-referenced report",
		Commands: []*cli.Command{
			{
				Name:   internal.CommandIndex,
				Usage:  "Scan the notes and write the rendered report",
				Flags:  sharedFlags(),
				Action: action(internal.CommandIndex),
			},
			{
				Name:  internal.CommandNormalize,
				Usage: "Merge inline [key:: value] properties into each note's frontmatter",
				Flags: append(sharedFlags(),
					&cli.BoolFlag{Name: "move", Usage: "Delete merged annotations from the body"},
				),
				Action: action(internal.CommandNormalize),
			},
			{
				Name:  internal.CommandServe,
				Usage: "Serve the rendered report and note graph over HTTP",
				Flags: append(sharedFlags(),
					&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "HTTP port"},
				),
				Action: action(internal.CommandServe),
			},
			{
				Name:   internal.CommandMCP,
				Usage:  "Expose the note graph as MCP tools on stdio",
				Flags:  sharedFlags(),
				Action: action(internal.CommandMCP),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		if errors.Is(err, apperr.ErrInvalidConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
