package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ecoroute/internal/ai"
	"ecoroute/internal/config"
	"ecoroute/internal/modules/analysis"
	"ecoroute/internal/render"
	"ecoroute/internal/trip"
)

const (
	formatTerminal = "terminal"
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatPDF      = "pdf"
)

var errAnalysisFailed = errors.New(analysis.FailureMessage)

type analyzeOptions struct {
	from, to    string
	model, year string
	fuel        string
	format      string
	out         string
}

// analyzerFactory lets tests swap the provider.
type analyzerFactory func(ctx context.Context, cfg config.Config) (ai.Analyzer, error)

func newAnalyzeCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var opts analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a road trip and print the report",
		Example: `  ecoroute analyze --from "São Paulo, SP" --to "Rio de Janeiro, RJ" \
    --model "Honda Civic" --year 2022 --fuel Gasolina`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runAnalyze(cmd.Context(), cfg, opts, defaultAnalyzer, cmd.OutOrStdout(), logger)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.from, "from", "", "origin city (required)")
	f.StringVar(&opts.to, "to", "", "destination city (required)")
	f.StringVar(&opts.model, "model", "", "vehicle model (required)")
	f.StringVar(&opts.year, "year", "", "vehicle year (required)")
	f.StringVar(&opts.fuel, "fuel", string(trip.FuelGasolina), "fuel type: Gasolina, Etanol, Diesel or Flex")
	f.StringVar(&opts.format, "format", formatTerminal, "output format: terminal, markdown, json or pdf")
	f.StringVarP(&opts.out, "out", "o", "", "write the report to this file instead of stdout")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func defaultAnalyzer(ctx context.Context, cfg config.Config) (ai.Analyzer, error) {
	return ai.NewAnalyzer(ctx, ai.Options{
		Provider:    cfg.AI.Provider,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
	})
}

func runAnalyze(ctx context.Context, cfg config.Config, opts analyzeOptions, newAnalyzer analyzerFactory, stdout io.Writer, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	switch opts.format {
	case formatTerminal, formatMarkdown, formatJSON, formatPDF:
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	fuel, err := trip.ParseFuelType(strings.TrimSpace(opts.fuel))
	if err != nil {
		return err
	}
	req := trip.Request{
		StartCity: opts.from,
		EndCity:   opts.to,
		Vehicle:   trip.VehicleInfo{Model: opts.model, Year: opts.year, FuelType: fuel},
	}.Normalized()
	if err := req.Validate(); err != nil {
		return err
	}

	analyzer, err := newAnalyzer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = analyzer.Close() }()

	svc := analysis.NewService(analysis.Deps{Analyzer: analyzer, Logger: log})
	rec, err := svc.Analyze(ctx, analysis.AnonymousClient, req)
	if err != nil {
		log.Error("analyze route", zap.Error(err))
		return errAnalysisFailed
	}

	body, err := renderReport(opts.format, rec.Request, rec.Analysis)
	if err != nil {
		return err
	}
	if opts.format == formatPDF && opts.out == "" {
		opts.out = render.ReportFilename(req, "pdf")
	}
	if opts.out == "" {
		_, err = stdout.Write(body)
		return err
	}
	if err := os.WriteFile(opts.out, body, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(stdout, "report written to %s\n", opts.out)
	return nil
}

func renderReport(format string, req trip.Request, a trip.RouteAnalysis) ([]byte, error) {
	switch format {
	case formatJSON:
		out, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case formatPDF:
		out, _, err := render.PDF(req, a)
		return out, err
	case formatMarkdown:
		return []byte(render.Markdown(req, a)), nil
	default:
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return nil, fmt.Errorf("terminal renderer: %w", err)
		}
		out, err := r.Render(render.Markdown(req, a))
		if err != nil {
			return nil, fmt.Errorf("render report: %w", err)
		}
		return []byte(out), nil
	}
}
