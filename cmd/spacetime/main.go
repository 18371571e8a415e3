package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/CodeByRiley/SpaceTime/internal/analysis"
	"github.com/CodeByRiley/SpaceTime/internal/config"
	"github.com/CodeByRiley/SpaceTime/internal/nbody"
	"github.com/CodeByRiley/SpaceTime/internal/sim"
	"github.com/CodeByRiley/SpaceTime/internal/space"
	"github.com/CodeByRiley/SpaceTime/internal/telemetry"
	"github.com/CodeByRiley/SpaceTime/internal/viz"
	"github.com/CodeByRiley/SpaceTime/internal/vmath"
)

var (
	configFile string
	workers    int
	timeScale  float64
	stepSize   float64
	maxSteps   int
	softening  float64
	days       float64
	format     string
	addr       string
	fps        int
	benchSteps int
	seed       int64
)

// main registers the spacetime commands; with no subcommand it launches the
// live terminal view of the default scenario. The process exits with status 1
// if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "spacetime",
		Short: "floating-origin n-body gravity lab",
		RunE:  runLive,
	}

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a headless simulation and report diagnostics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().Float64Var(&days, "days", 365, "simulated days to advance")
	runCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all cpus)")
	runCmd.Flags().Float64Var(&timeScale, "scale", config.DefaultTimeScale, "simulation seconds per wall second")
	runCmd.Flags().Float64Var(&stepSize, "step", config.DefaultStepSize, "integrator step (simulation seconds)")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", config.DefaultMaxSteps, "step cap per frame")
	runCmd.Flags().Float64Var(&softening, "softening", config.DefaultSoftening, "plummer softening length (meters)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&format, "format", "table", "output format: table, json or csv")

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all cpus)")
	liveCmd.Flags().Float64Var(&timeScale, "scale", config.DefaultTimeScale, "simulation seconds per wall second")
	liveCmd.Flags().Float64Var(&stepSize, "step", config.DefaultStepSize, "integrator step (simulation seconds)")
	liveCmd.Flags().Float64Var(&softening, "softening", config.DefaultSoftening, "plummer softening length (meters)")
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve [scenario]",
		Short: "stream simulation frames over websocket",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&fps, "fps", 30, "broadcast frames per second")
	serveCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all cpus)")
	serveCmd.Flags().Float64Var(&timeScale, "scale", config.DefaultTimeScale, "simulation seconds per wall second")
	serveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure step throughput across worker counts",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 100, "integrator steps per measurement")
	benchCmd.Flags().Int64Var(&seed, "seed", 42, "cluster seed")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE:  listScenarios,
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration: defaults, then the config
// file, then the scenario argument, then any flags set on the command line.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}
	if len(args) > 0 {
		cfg.Scenario = args[0]
		cfg.Bodies = nil
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("scale") {
		cfg.TimeScale = timeScale
	}
	if cmd.Flags().Changed("step") {
		cfg.StepSize = stepSize
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if cmd.Flags().Changed("softening") {
		cfg.Softening = softening
	}
	return cfg, nil
}

func scenarioName(cfg *config.Config) string {
	if cfg.Scenario == "" {
		return "custom"
	}
	return cfg.Scenario
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	s, err := sim.New(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	target := days * 86400.0
	if target <= 0 {
		return fmt.Errorf("nothing to simulate: %.2f days", days)
	}

	// One frame drains at most MaxSteps whole steps; keep frames at or under
	// that so no simulated time is discarded on the way to the target.
	frame := cfg.StepSize * float64(cfg.MaxSteps) / cfg.TimeScale
	if frame > cfg.MaxRealDt {
		frame = cfg.MaxRealDt
	}

	if format == "table" {
		fmt.Printf("running %s scenario (%d bodies, %d workers)...\n",
			scenarioName(cfg), len(s.Bodies()), s.Workers())
	}

	bodies := s.Bodies()
	child := len(bodies) - 1
	parent := nbody.GravitationalParent(bodies, child)

	e0 := s.Energy()
	totalFrames := int(target/(frame*cfg.TimeScale)) + 1
	sampleEvery := totalFrames/512 + 1
	sampleDt := float64(sampleEvery) * frame * cfg.TimeScale
	drift := make([]float64, 0, 512)
	orbit := make([]float64, 0, 512)

	start := time.Now()
	for i := 0; s.SimTime() < target; i++ {
		s.Advance(frame)
		if i%sampleEvery != 0 {
			continue
		}
		if e0 != 0 {
			drift = append(drift, (s.Energy()-e0)/math.Abs(e0))
		}
		if parent >= 0 {
			orbit = append(orbit, space.Delta(bodies[parent].World, bodies[child].World).Y)
		}
	}
	elapsed := time.Since(start)

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(telemetry.FrameFrom(s.Snapshot()))
	case "csv":
		return writeBodiesCSV(s.Bodies())
	case "table":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	fmt.Printf("completed in %v\n\n", elapsed.Round(time.Millisecond))

	bc := nbody.Barycenter(bodies)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMASS\tRADIUS\tSPEED\tBARYCENTER DIST")
	for i := range bodies {
		b := &bodies[i]
		fmt.Fprintf(w, "%s\t%.4e kg\t%.3e m\t%.1f m/s\t%.4e m\n",
			b.Def.Name, b.Def.Mass, b.Def.Radius, b.Speed(),
			space.Delta(bc, b.World).Norm())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\ndiagnostics:")
	fmt.Printf("  sim time: %s\n", fmtDays(s.SimTime()))
	fmt.Printf("  steps: %d\n", s.Steps())
	if e0 != 0 {
		fmt.Printf("  energy drift: %.3e (relative)\n", (s.Energy()-e0)/math.Abs(e0))
	}
	fmt.Printf("  momentum: %.3e kg·m/s\n", s.Momentum().Norm())
	if parent >= 0 {
		if period := analysis.DominantPeriod(orbit, sampleDt); period > 0 {
			fmt.Printf("  detected orbit: %s around %s, period ~%s\n",
				bodies[child].Def.Name, bodies[parent].Def.Name, fmtDays(period))
		}
	}

	if len(drift) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(drift,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("relative energy drift"),
		))
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	s, err := sim.New(cfg)
	if err != nil {
		return err
	}

	if fps <= 0 {
		fps = 30
	}
	sv := telemetry.NewServer(s, time.Second/time.Duration(fps))

	mux := http.NewServeMux()
	mux.Handle("/ws", sv.Handler())
	mux.Handle("/state.json", sv.StateHandler())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := sv.Run(ctx); err != nil {
			log.Printf("telemetry loop: %v", err)
		}
	}()

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("serving %s scenario on %s (frames at /ws, snapshot at /state.json)",
		scenarioName(cfg), addr)
	err = srv.ListenAndServe()
	stop()
	<-done
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func runBench(cmd *cobra.Command, args []string) error {
	sizes := []int{64, 256, 1024}
	workerCounts := []int{1, 2, 4, 8}
	eps2 := config.DefaultSoftening * config.DefaultSoftening

	fmt.Printf("benchmarking verlet steps (seed %d)\n\n", seed)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tWORKERS\tSTEPS\tTIME\tSTEPS/SEC")

	speedup := make([]float64, 0, len(workerCounts))
	for _, n := range sizes {
		var base float64
		for _, wc := range workerCounts {
			bodies := makeCluster(n, seed)
			acc := make([]vmath.Vector3D, n)
			pool := nbody.NewPool(wc)
			pool.AccelInto(bodies, acc, eps2)

			start := time.Now()
			for i := 0; i < benchSteps; i++ {
				pool.StepVerlet(bodies, acc, 1.0, eps2)
			}
			elapsed := time.Since(start)
			pool.Shutdown()

			rate := float64(benchSteps) / elapsed.Seconds()
			if wc == workerCounts[0] {
				base = rate
			}
			if n == sizes[len(sizes)-1] && base > 0 {
				speedup = append(speedup, rate/base)
			}
			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.1f\n",
				n, wc, benchSteps, elapsed.Round(time.Microsecond), rate)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(speedup) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(speedup,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("speedup vs workers (%d bodies)", sizes[len(sizes)-1])),
		))
	}

	return nil
}

func listScenarios(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	if len(names) == 0 {
		fmt.Println("no presets")
		return nil
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tSTEP\tTIME SCALE")
	for _, name := range names {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%.0fs\t%.0fx\n",
			name, len(cfg.Bodies), cfg.StepSize, cfg.TimeScale)
	}
	return w.Flush()
}

func writeBodiesCSV(bodies []nbody.Body) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{
		"name", "mass",
		"sector_x", "sector_y", "sector_z",
		"local_x", "local_y", "local_z",
		"vel_x", "vel_y", "vel_z",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for i := range bodies {
		b := &bodies[i]
		row := []string{
			b.Def.Name,
			f(b.Def.Mass),
			strconv.FormatInt(b.World.Sector.X, 10),
			strconv.FormatInt(b.World.Sector.Y, 10),
			strconv.FormatInt(b.World.Sector.Z, 10),
			f(b.World.Local.X), f(b.World.Local.Y), f(b.World.Local.Z),
			f(b.Velocity.X), f(b.Velocity.Y), f(b.Velocity.Z),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// makeCluster builds a reproducible random cluster for throughput runs:
// planetary-range masses in a 2e10 m cube with modest random velocities.
func makeCluster(n int, seed int64) []nbody.Body {
	rng := rand.New(rand.NewSource(seed))
	bodies := make([]nbody.Body, n)
	for i := range bodies {
		bodies[i] = nbody.Body{
			Def: nbody.Definition{
				Name: fmt.Sprintf("b%d", i),
				Mass: 1e22 + rng.Float64()*1e24,
			},
			World: space.FromMeters(vmath.Vector3D{
				X: (rng.Float64() - 0.5) * 2e10,
				Y: (rng.Float64() - 0.5) * 2e10,
				Z: (rng.Float64() - 0.5) * 2e10,
			}),
			Velocity: vmath.Vector3D{
				X: (rng.Float64() - 0.5) * 2e3,
				Y: (rng.Float64() - 0.5) * 2e3,
				Z: (rng.Float64() - 0.5) * 2e3,
			},
		}
	}
	return bodies
}

func fmtDays(seconds float64) string {
	const day = 86400.0
	switch {
	case seconds >= 2*365*day:
		return fmt.Sprintf("%.2f years", seconds/(365*day))
	case seconds >= day:
		return fmt.Sprintf("%.1f days", seconds/day)
	default:
		return fmt.Sprintf("%.0f s", seconds)
	}
}
