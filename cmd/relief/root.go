package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/katalvlaran/relief/config"
	"github.com/katalvlaran/relief/coordinator"
	"github.com/katalvlaran/relief/metrics"
	"github.com/katalvlaran/relief/observability"
	"github.com/katalvlaran/relief/scenario"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// app is the state shared by every subcommand once the root has run.
type app struct {
	cfgFile      string
	scenarioFile string
	logLevel     string

	v        *viper.Viper
	cfg      *config.Config
	log      *zap.Logger
	registry *prometheus.Registry
	coord    *coordinator.Coordinator
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "relief",
		Short:         "Routing and resource coordination for emergency relief.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./relief.yaml)")
	flags.StringVarP(&a.scenarioFile, "scenario", "s", "", "scenario YAML with zones, routes, resources and teams")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newServeCmd(a),
		newRouteCmd(a),
		newEvacuateCmd(a),
		newDistributeCmd(a),
		newResourcesCmd(a),
	)

	return root
}

// init loads configuration, builds the logger and the coordinator, and
// loads the scenario if one was given.
func (a *app) init(cmd *cobra.Command) error {
	if a.logLevel != "" {
		a.v.Set("logger.level", a.logLevel)
	}
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = observability.NewLogger(cfg.Logger, cmd.ErrOrStderr())

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.coord = coordinator.New(cfg,
		coordinator.WithLogger(a.log),
		coordinator.WithMetrics(metrics.New(a.registry)),
	)

	if a.scenarioFile == "" {
		return nil
	}
	s, err := scenario.Load(a.scenarioFile)
	if err != nil {
		a.log.Error("failed to load scenario", zap.String("file", a.scenarioFile), zap.Error(err))
		return err
	}
	if err := a.coord.Load(s); err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}
	a.log.Debug("scenario loaded",
		zap.String("file", a.scenarioFile),
		zap.Int("zones", len(s.Zones)),
		zap.Int("routes", len(s.Routes)),
	)

	return nil
}
