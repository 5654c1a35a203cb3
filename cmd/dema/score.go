package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dema/internal/aggregate"
	"dema/internal/configuration"
	"dema/internal/elicit"
	"dema/internal/evaluation"
	"dema/internal/journal"
	"dema/internal/metrics"
	"dema/internal/score"
	"dema/internal/score/rule"
	"dema/internal/score/scorer"
	"dema/internal/tree"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func scoreCmd() *cli.Command {
	return &cli.Command{
		Name:  "score",
		Usage: "Score alternatives against a decision tree and print the ranking",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				EnvVars: []string{"DEMA_CONFIG"},
			},
			&cli.StringFlag{
				Name:     "tree",
				Aliases:  []string{"t"},
				Usage:    "Path to the decision tree (YAML or JSON)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "alternatives",
				Aliases:  []string{"a"},
				Usage:    "Path to the alternatives list (YAML or JSON)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "project",
				Value: "default",
				Usage: "Project the evaluations are recorded under",
			},
			&cli.StringFlag{
				Name:  "connector",
				Usage: "Score every internal node with this connector (A, SC+, HC, ...)",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write Prometheus metrics to this file",
			},
		},
		Action: runScoreCmd,
	}
}

func runScoreCmd(c *cli.Context) error {
	config, err := configuration.Default()
	if err != nil {
		return err
	}
	if path := c.String("config"); path != "" {
		if config, err = configuration.LoadConfig(path); err != nil {
			return err
		}
	}
	prepareLogger(config.Logger.Level)

	template, err := tree.Load(c.String("tree"))
	if err != nil {
		return err
	}
	alts, err := loadAlternatives(c.String("alternatives"))
	if err != nil {
		return err
	}

	override := config.Scoring.Connector
	if flag := c.String("connector"); flag != "" {
		conn, ok := aggregate.ParseConnector(flag)
		if !ok {
			return fmt.Errorf("unknown connector %q", flag)
		}
		override = string(conn)
	}

	collector := metrics.NewCollector()
	opts := []score.Option{
		score.WithPrecision(config.Scoring.Precision),
		score.WithDomain(elicit.Domain{Min: config.Scoring.DomainMin, Max: config.Scoring.DomainMax}),
		score.WithConnectorOverride(aggregate.Connector(override)),
		score.WithRecorder(collector),
		score.WithLogger(slog.Default()),
	}
	if config.Scoring.Rules != "" {
		rules, err := rule.LoadFromFile(config.Scoring.Rules, slog.Default())
		if err != nil {
			return fmt.Errorf("unable to load rules: %w", err)
		}
		opts = append(opts, score.WithDeriver(rules))
	}

	ctx, cancel := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	history := evaluation.NewRepository(config.History.Length, config.History.TTL)
	go history.Serve(ctx)

	var sink journal.Journal = journal.Nop{}
	if config.Journal.File != "" {
		sink = journal.NewFileJournal(config.Journal.File, config.Journal.Size, config.Journal.Amount)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			slog.Error("journal close", "error", err)
		}
	}()

	project := c.String("project")
	if err := scoreProject(ctx, project, template, alts, score.NewScorer(opts...), config.Scoring.Workers, history, sink); err != nil {
		return err
	}

	ranking, err := history.Ranking(project)
	if err != nil {
		return err
	}
	renderRanking(c.App.Writer, ranking, config.Scoring.Precision)

	if path := c.String("metrics-file"); path != "" {
		if err := collector.WriteTextfile(path); err != nil {
			return fmt.Errorf("unable to write metrics: %w", err)
		}
	}
	return nil
}

// scoreProject scores alts in parallel and records each result in history and sink.
func scoreProject(ctx context.Context, project string, template tree.Node, alts []score.Alternative,
	s *score.Scorer, workers int, history *evaluation.Repository, sink journal.Journal) error {
	results, err := scorer.NewBatchScorer(s, workers).ScoreAll(ctx, template, alts)
	if err != nil {
		return err
	}
	for _, res := range results {
		rec := evaluation.NewRecord(project, res)
		history.Append(rec)
		sink.Append(rec)
	}
	slog.Info("project scored", "project", project, "alternatives", len(results))
	return nil
}

// loadAlternatives reads a YAML or JSON list of alternatives.
func loadAlternatives(path string) ([]score.Alternative, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var alts []score.Alternative
	if err := yaml.Unmarshal(content, &alts); err != nil {
		return nil, fmt.Errorf("alternatives %s: %w", path, err)
	}
	if len(alts) == 0 {
		return nil, fmt.Errorf("alternatives %s: no alternatives", path)
	}
	seen := make(map[string]int, len(alts))
	for i, alt := range alts {
		if alt.Name == "" {
			return nil, fmt.Errorf("alternatives %s: entry %d has no name", path, i)
		}
		if first, ok := seen[alt.Name]; ok {
			return nil, fmt.Errorf("alternatives %s: entries %d and %d share the name %q", path, first, i, alt.Name)
		}
		seen[alt.Name] = i
	}
	return alts, nil
}

func renderRanking(w io.Writer, ranking []evaluation.Record, precision int) {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)

	table.Header([]string{"Rank", "Alternative", "Cost", "Score", "Label"})
	for i, r := range ranking {
		table.Append([]string{
			fmt.Sprintf("%d", i+1),
			r.Alternative,
			fmt.Sprintf("%.2f", r.Cost),
			fmt.Sprintf("%.*f", precision, r.Score),
			labelColor(r.Score).Sprint(r.Label),
		})
	}
	table.Render()
}

func labelColor(s float64) *color.Color {
	switch {
	case s >= 0.75:
		return color.New(color.FgGreen)
	case s >= 0.45:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}
