// Command dashgen generates the reddit-top Grafana dashboard and Prometheus
// rule files from Go definitions.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/reddit-top/tools/dashgen/dashboards"
	"github.com/donaldgifford/reddit-top/tools/dashgen/rules"
	"github.com/donaldgifford/reddit-top/tools/dashgen/validate"
)

const generatedHeader = "# Code generated by tools/dashgen. DO NOT EDIT.\n"

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated artifacts without writing files")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type artifact struct {
	path string
	data []byte
}

func run(cfg Config, validateOnly bool) error {
	var (
		artifacts []artifact
		results   []validate.Result
	)

	if cfg.DashboardEnabled {
		dash, err := dashboards.BuildOverview().Build()
		if err != nil {
			return fmt.Errorf("building overview dashboard: %w", err)
		}
		results = append(results, validate.Dashboard(dash, KnownMetrics))

		data, err := json.MarshalIndent(dash, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling dashboard: %w", err)
		}
		artifacts = append(artifacts, artifact{
			path: filepath.Join(cfg.OutputDir, "grafana", "data", "reddit-top-overview.json"),
			data: append(data, '\n'),
		})
	}

	if cfg.RulesEnabled {
		for name, cr := range map[string]rules.PrometheusRule{
			"reddit-top-recording-rules.yaml": rules.RecordingRules(),
			"reddit-top-alerts.yaml":          rules.AlertRules(),
		} {
			results = append(results, validate.Rules(cr, KnownMetrics))

			data, err := yaml.Marshal(cr)
			if err != nil {
				return fmt.Errorf("marshaling %s: %w", name, err)
			}
			artifacts = append(artifacts, artifact{
				path: filepath.Join(cfg.OutputDir, "prometheus", name),
				data: append([]byte(generatedHeader), data...),
			})
		}
	}

	if err := report(results); err != nil {
		return err
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	for _, a := range artifacts {
		if err := os.MkdirAll(filepath.Dir(a.path), 0o750); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(a.path), err)
		}
		if err := os.WriteFile(a.path, a.data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", a.path, err)
		}
		fmt.Printf("dashgen: wrote %s\n", a.path)
	}
	return nil
}

func report(results []validate.Result) error {
	var errs []string
	for _, r := range results {
		for _, w := range r.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		errs = append(errs, r.Errors...)
	}
	if len(errs) > 0 {
		return errors.New("validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
