package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/qroute/qroute/route"
)

var (
	logLevel   string // Log verbosity level
	configPath string // Optional router config file (yaml)
	strategy   string // Scoring strategy name
	backend    string // Forced backend name (route command only)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "qroute",
	Short: "Deterministic backend router for quantum circuits",
}

// newRouter sets up logging and builds a router from flags.
func newRouter() *route.Router {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)

	if configPath == "" {
		return route.NewDefaultRouter()
	}
	cfg, err := route.LoadConfig(configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	hw := route.Probe()
	r, err := route.NewRouter(route.NewRegistry(route.DefaultBackends(hw)...), hw, cfg)
	if err != nil {
		logrus.Fatalf("Failed to build router: %v", err)
	}
	return r
}

// routeCmd routes a circuit file and prints the decision
var routeCmd = &cobra.Command{
	Use:   "route <circuit.yaml>",
	Short: "Select the best backend for a circuit",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		r := newRouter()
		circuit := loadCircuit(args[0])

		var decision route.Decision
		var err error
		if backend != "" {
			decision, err = r.RouteTo(circuit, backend)
		} else {
			decision, err = r.RouteWith(circuit, strategy)
		}
		if err != nil {
			logrus.Fatalf("Routing failed: %v", err)
		}
		printDecision(decision)
	},
}

// analyzeCmd prints the structural analysis of a circuit file
var analyzeCmd = &cobra.Command{
	Use:   "analyze <circuit.yaml>",
	Short: "Print structural circuit metrics",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		r := newRouter()
		analysis, err := r.Analyze(loadCircuit(args[0]))
		if err != nil {
			logrus.Fatalf("Analysis failed: %v", err)
		}
		printAnalysis(analysis)
	},
}

// explainCmd renders the full reasoning trace for a routing decision
var explainCmd = &cobra.Command{
	Use:   "explain <circuit.yaml>",
	Short: "Explain why a backend would be chosen",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		r := newRouter()
		text, err := r.Explain(loadCircuit(args[0]), strategy)
		if err != nil {
			logrus.Fatalf("Routing failed: %v", err)
		}
		fmt.Print(text)
	},
}

// backendsCmd lists the registered backends
var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List registered backends",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		r := newRouter()
		for _, b := range r.Registry().Candidates() {
			status := color.GreenString("available")
			if !b.Available {
				status = color.RedString("unavailable")
			}
			fmt.Printf("%-18s rank=%-5.1f priority=%d memory=%-17s %s\n",
				b.Name, b.SpeedRank, b.Priority, b.Memory, status)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Router config file (yaml)")
	rootCmd.PersistentFlags().StringVar(&strategy, "strategy", "", "Scoring strategy (default, speed-first, memory-efficient, accuracy-first, hardware-aware)")

	routeCmd.Flags().StringVar(&backend, "backend", "", "Force a specific backend instead of selecting one")

	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(backendsCmd)
}
