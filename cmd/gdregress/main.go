package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/gdregression/config"
	"github.com/YuminosukeSato/gdregression/experiment"
	"github.com/YuminosukeSato/gdregression/pkg/log"
)

const (
	appName = "gdregress"
	version = "v0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.GetLogger().Error("Command failed", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "Batch gradient-descent linear regression",
		Version: version,
		Long: `gdregress fits a linear model to a numeric CSV file with batch gradient descent.

The "run" command trains on the raw features and then on mean-normalized
features, predicts a configured example with both models and writes the
fitted-line and cost-per-epoch plots.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (console|json)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the raw and normalized experiments",
		RunE:  runAll,
	}

	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "Run a single experiment",
		RunE:  runFit,
	}
	fitCmd.Flags().Bool("normalize", false, "Mean-normalize features and target before training")

	for _, cmd := range []*cobra.Command{runCmd, fitCmd} {
		cmd.Flags().String("dataset", "", "CSV dataset path")
		cmd.Flags().Int("target", -1, "Target column (negative counts from the end)")
		cmd.Flags().Float64("alpha", config.DefaultAlpha, "Learning rate")
		cmd.Flags().Int("epochs", config.DefaultEpochs, "Number of epochs")
		cmd.Flags().Uint64("seed", config.DefaultSeed, "Seed for the initial theta")
		cmd.Flags().String("spread", "", "Normalization spread (range|std)")
		cmd.Flags().Float64Slice("example", nil, "Feature values to predict")
		cmd.Flags().String("out", "", "Plot output directory")
		cmd.Flags().String("format", "", "Plot format (png|svg|pdf)")
		cmd.Flags().Bool("no-plots", false, "Skip writing plots")
	}

	rootCmd.AddCommand(runCmd, fitCmd)
	return rootCmd
}

func runAll(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	reports, err := experiment.NewRunner(cfg, log.GetLogger()).Run(cmd.Context())
	if err != nil {
		return err
	}
	for _, rep := range reports {
		printReport(cmd.OutOrStdout(), rep)
	}
	return nil
}

func runFit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	normalize, _ := cmd.Flags().GetBool("normalize")

	rep, err := experiment.NewRunner(cfg, log.GetLogger()).RunOne(cmd.Context(), normalize)
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), *rep)
	return nil
}

// loadConfig reads the config file and environment, then applies the flags
// that were set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Log.Format, _ = flags.GetString("log-format")
	}
	if flags.Changed("dataset") {
		cfg.Dataset.Path, _ = flags.GetString("dataset")
	}
	if flags.Changed("target") {
		cfg.Dataset.TargetColumn, _ = flags.GetInt("target")
	}
	if flags.Changed("alpha") {
		cfg.Training.Alpha, _ = flags.GetFloat64("alpha")
	}
	if flags.Changed("epochs") {
		cfg.Training.Epochs, _ = flags.GetInt("epochs")
	}
	if flags.Changed("seed") {
		cfg.Training.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("spread") {
		cfg.Normalize.Spread, _ = flags.GetString("spread")
	}
	if flags.Changed("example") {
		cfg.Example, _ = flags.GetFloat64Slice("example")
	}
	if flags.Changed("out") {
		cfg.Output.Dir, _ = flags.GetString("out")
	}
	if flags.Changed("format") {
		cfg.Output.Format, _ = flags.GetString("format")
	}
	if noPlots, _ := flags.GetBool("no-plots"); noPlots {
		cfg.Output.Plots = false
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if err := log.SetupLogger(cfg.Log.Level, cfg.Log.Format); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func printReport(w io.Writer, rep experiment.Report) {
	fmt.Fprintf(w, "== %s (run %s) ==\n", rep.Name, rep.RunID)
	fmt.Fprintf(w, "theta:       %v\n", rep.Theta)
	fmt.Fprintf(w, "final cost:  %.6g (%d epochs)\n", rep.FinalCost, rep.Epochs)
	fmt.Fprintf(w, "example:     %v\n", rep.Example)
	fmt.Fprintf(w, "predictions: %v\n", rep.Predictions)
	fmt.Fprintf(w, "rmse:        %.6g\n", rep.RMSE)
	fmt.Fprintf(w, "r2:          %.6g\n", rep.R2)
	if rep.ResultPlot != "" {
		fmt.Fprintf(w, "plots:       %s, %s\n", rep.ResultPlot, rep.CostPlot)
	}
	fmt.Fprintf(w, "duration:    %s\n", rep.Duration)
}
