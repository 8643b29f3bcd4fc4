package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eschneider1992/sim-control-projects/internal/config"
	"github.com/eschneider1992/sim-control-projects/internal/plant"
	"github.com/eschneider1992/sim-control-projects/internal/report"
	"github.com/eschneider1992/sim-control-projects/internal/sim"
)

var (
	plantName       string
	pidGains        []float64
	setpoint        float64
	suppressOutput  bool
	interval        float64
	delay           float64
	sampleTime      float64
	outMin          float64
	outMax          float64
	noiseStdDev     float64
	outputRateLimit float64
	seed            int64
	initialPairs    []string
	constantPairs   []string
	configFile      string
	preset          string
	csvPath         string
	animate         bool
	runs            int
	verbose         bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "simctl",
		Short: "closed-loop PID control simulator",
		Long: "simctl tunes PID controller gains against numerical plant models:\n" +
			"a delayed, optionally noisy sensor feeds a rate-limited PID controller\n" +
			"driving the plant over a fixed simulated horizon.",
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run one closed-loop simulation",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVarP(&plantName, "plant", "P", "Kettle", "plant model to simulate")
	runCmd.Flags().Float64SliceVarP(&pidGains, "pid", "p", []float64{104, 0.8, 205}, "kp,ki,kd gains")
	runCmd.Flags().Float64VarP(&setpoint, "setpoint", "s", 45.0, "target sensor value")
	runCmd.Flags().BoolVarP(&suppressOutput, "suppress-output", "S", false, "force output to 0 to observe open-loop behavior")
	runCmd.Flags().Float64VarP(&interval, "interval", "i", 20.0, "simulated interval in minutes")
	runCmd.Flags().Float64VarP(&delay, "delay", "d", 15.0, "sensor delay in seconds")
	runCmd.Flags().Float64Var(&sampleTime, "sampletime", 5.0, "sensor sample time in seconds")
	runCmd.Flags().Float64Var(&outMin, "out-min", 0.0, "minimum controller output")
	runCmd.Flags().Float64Var(&outMax, "out-max", 100.0, "maximum controller output")
	runCmd.Flags().Float64Var(&noiseStdDev, "sensor-noise-std-dev", 0.0, "std dev of gaussian sensor noise")
	runCmd.Flags().Float64Var(&outputRateLimit, "output-rate-limit", sim.Unlimited, "max output change per second")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "noise random seed")
	runCmd.Flags().StringArrayVar(&initialPairs, "initial", nil, "initial value as key=value (repeatable)")
	runCmd.Flags().StringArrayVar(&constantPairs, "constant", nil, "physical constant as key=value (repeatable)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use a named preset configuration")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "write the time series as CSV (- for stdout)")
	runCmd.Flags().BoolVar(&animate, "animate", false, "replay the run in the terminal (plants that support it)")
	runCmd.Flags().IntVar(&runs, "runs", 1, "repeat the run with consecutive seeds and summarize the spread")

	plantsCmd := &cobra.Command{
		Use:   "plants",
		Short: "list available plant models",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range plant.NewRegistry().Names() {
				fmt.Println(name)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			names := config.ListPresets()
			for _, name := range names {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, plantsCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// CLI flags override preset and config file.
	f := cmd.Flags()
	if f.Changed("plant") {
		cfg.Plant = plantName
	}
	if f.Changed("pid") {
		if len(pidGains) != 3 {
			return fmt.Errorf("--pid wants exactly 3 gains (kp,ki,kd), got %d", len(pidGains))
		}
		cfg.PID = config.PIDConfig{Kp: pidGains[0], Ki: pidGains[1], Kd: pidGains[2]}
	}
	if f.Changed("setpoint") {
		cfg.Setpoint = setpoint
	}
	if f.Changed("suppress-output") {
		cfg.SuppressOutput = suppressOutput
	}
	if f.Changed("interval") {
		cfg.Interval = interval
	}
	if f.Changed("delay") {
		cfg.Delay = delay
	}
	if f.Changed("sampletime") {
		cfg.SampleTime = sampleTime
	}
	if f.Changed("out-min") {
		cfg.OutMin = outMin
	}
	if f.Changed("out-max") {
		cfg.OutMax = outMax
	}
	if f.Changed("sensor-noise-std-dev") {
		cfg.SensorNoiseStdDev = noiseStdDev
	}
	if f.Changed("output-rate-limit") {
		cfg.OutputRateLimit = outputRateLimit
	}
	if f.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if f.Changed("initial") {
		values, err := parseValues(initialPairs)
		if err != nil {
			return fmt.Errorf("--initial: %w", err)
		}
		cfg.InitialValues = values
	}
	if f.Changed("constant") {
		values, err := parseValues(constantPairs)
		if err != nil {
			return fmt.Errorf("--constant: %w", err)
		}
		cfg.ConstantValues = values
	}

	logger.Debug("configuration resolved",
		"plant", cfg.Plant,
		"kp", cfg.PID.Kp, "ki", cfg.PID.Ki, "kd", cfg.PID.Kd,
		"setpoint", cfg.Setpoint,
		"sampletime", cfg.SampleTime,
		"delay", cfg.Delay,
		"interval_min", cfg.Interval,
		"seed", cfg.Seed,
	)

	registry := plant.NewRegistry()

	if runs > 1 {
		newPlant := func() (plant.Plant, error) {
			return registry.Create(cfg.Plant, cfg.InitialValues, cfg.ConstantValues)
		}
		fmt.Printf("running %d seeded %s simulations...\n", runs, cfg.Plant)
		start := time.Now()
		results, err := sim.RunEnsemble(cfg.SimConfig(), newPlant, runs, cfg.Seed)
		if err != nil {
			return err
		}
		logger.Debug("ensemble complete", "runs", len(results), "elapsed", time.Since(start))
		fmt.Printf("completed in %v\n\n", time.Since(start))
		report.RenderEnsemble(os.Stdout, results)
		return nil
	}

	p, err := registry.Create(cfg.Plant, cfg.InitialValues, cfg.ConstantValues)
	if err != nil {
		return err
	}

	loop, err := sim.New(cfg.SimConfig(), p)
	if err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", cfg.Plant)
	start := time.Now()
	result, err := loop.Run()
	if err != nil {
		return err
	}
	logger.Debug("run complete", "samples", len(result.Timestamps), "elapsed", time.Since(start))
	fmt.Printf("completed in %v\n\n", time.Since(start))

	report.Render(os.Stdout, result)
	report.RenderPlantHooks(os.Stdout, p)

	if csvPath != "" {
		if err := writeCSV(csvPath, result); err != nil {
			return err
		}
	}

	if animate {
		return report.Animate(p, result.Title, cfg.SampleTime)
	}
	return nil
}

// parseValues converts repeated key=value flags into a value mapping.
func parseValues(pairs []string) (map[string]float64, error) {
	values := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("malformed pair %q, want key=value", pair)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("value for %q: %w", key, err)
		}
		values[key] = v
	}
	return values, nil
}

func writeCSV(path string, result *sim.Result) error {
	if path == "-" {
		return report.WriteCSV(os.Stdout, result)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := report.WriteCSV(file, result); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
