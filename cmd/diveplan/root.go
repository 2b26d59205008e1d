package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/reefline/dive-planner/core"
	"github.com/reefline/dive-planner/internal/logging"
	"github.com/reefline/dive-planner/internal/observability"
	"github.com/reefline/dive-planner/model"
	"github.com/reefline/dive-planner/store"
)

var (
	flagConfigDir     string
	flagLogLevel      string
	flagLogFormat     string
	flagMetricsListen string

	log       logging.Logger
	cfgStore  *store.Store
	collector *observability.PlannerCollector
	tracer    trace.Tracer

	shutdownTracing func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "diveplan",
	Short: "Technical dive planner with a Buhlmann ZH-L16C decompression engine",
	Long: "diveplan computes technical dive profiles: descent, bottom time, pinned\n" +
		"stop steps, and an ascent with generated decompression stops, annotated\n" +
		"with partial pressures, gradient factors, narcotic depths, oxygen\n" +
		"toxicity, and gas consumption. The gas list and setpoint schedule are\n" +
		"persisted per user.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Optional .env next to the working directory; absence is fine.
		_ = godotenv.Load()

		log = logging.New(logging.Config{Level: flagLogLevel, Format: flagLogFormat})

		ctx := cmd.Context()
		shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
		if err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
		shutdownTracing = shutdown
		tracer = otel.Tracer("github.com/reefline/dive-planner/cmd/diveplan")

		collector, err = observability.NewPlannerCollector(nil)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		if flagMetricsListen != "" {
			go func() {
				mux := http.NewServeMux()
				mux.Handle("/metrics", collector.Handler())
				if serr := http.ListenAndServe(flagMetricsListen, mux); serr != nil {
					log.Warn(ctx, "metrics listener stopped", logging.String("error", serr.Error()))
				}
			}()
		}

		dir := flagConfigDir
		if dir == "" {
			dir, err = store.DefaultDir()
			if err != nil {
				return err
			}
		}
		cfgStore, err = store.Open(dir, log)
		if err != nil {
			// Persistence trouble never blocks planning; the store is
			// already seeded with defaults.
			log.Warn(ctx, "configuration load incomplete, planning on defaults",
				logging.String("error", err.Error()))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if shutdownTracing != nil {
			observability.ShutdownWithTimeout(cmd.Context(), shutdownTracing, log)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: per-user config dir)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().StringVar(&flagMetricsListen, "metrics-listen", "", "serve Prometheus metrics on this address (e.g. :9090)")
}

// parseDiveMode maps the CLI mode flag to the dive-level mode and the
// bailout flag.
func parseDiveMode(s string) (model.StepMode, bool, error) {
	switch strings.ToLower(s) {
	case "oc":
		return model.StepModeOC, false, nil
	case "cc":
		return model.StepModeCC, false, nil
	case "bailout":
		return model.StepModeCC, true, nil
	default:
		return 0, false, fmt.Errorf("unknown mode %q (want oc, cc, or bailout)", s)
	}
}

// newPlanFromFlags assembles a DivePlan from the persisted
// configuration snapshot and the command flags.
func newPlanFromFlags(depth, bottomTime float64, modeFlag string, gfBoost bool, stopSteps []string) (*core.DivePlan, error) {
	mode, bailout, err := parseDiveMode(modeFlag)
	if err != nil {
		return nil, err
	}

	params, gases, setpoints := cfgStore.Snapshot()
	plan := core.NewDivePlan(depth, bottomTime, mode, gfBoost,
		core.SurfaceSaturation(&params), params, gases, setpoints)
	plan.Bailout = bailout

	for _, raw := range stopSteps {
		var d, t float64
		if _, err := fmt.Sscanf(raw, "%g@%g", &t, &d); err != nil {
			return nil, fmt.Errorf("bad stop step %q (want MINUTES@DEPTH, e.g. 5@30): %w", raw, err)
		}
		plan.StopSteps.Add(d, t)
	}
	return plan, nil
}
