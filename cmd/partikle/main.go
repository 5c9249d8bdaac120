package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/partikle/internal/compute"
	"github.com/san-kum/partikle/internal/config"
	"github.com/san-kum/partikle/internal/metrics"
	"github.com/san-kum/partikle/internal/sim"
	"github.com/san-kum/partikle/internal/storage"
	"github.com/san-kum/partikle/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	gravity    float64
	coulomb    float64
	softening  float64
	collisions bool
	seed       int64
	backend    string
	configFile string
	preset     string
	sessionID  string
	// Animation parameters
	frameRate int
	filmPath  string
	dbPath    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "partikle",
		Short: "charged particle dynamics simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".partikle", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and save the session",
		RunE:  runSimulation,
	}
	defaults := config.DefaultConfig()
	runCmd.Flags().Float64Var(&dt, "dt", defaults.Dt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", defaults.Duration, "duration")
	runCmd.Flags().Float64Var(&gravity, "G", defaults.Gravity, "gravitational constant")
	runCmd.Flags().Float64Var(&coulomb, "ke", defaults.Coulomb, "Coulomb constant")
	runCmd.Flags().Float64Var(&softening, "softening", defaults.Softening, "minimum pair separation")
	runCmd.Flags().BoolVar(&collisions, "collisions", defaults.Collisions, "resolve elastic collisions")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().StringVar(&backend, "backend", "auto", "compute backend (auto, cpu, cuda)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&sessionID, "id", "session_", "session id (trailing _ auto-numbers)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved sessions",
		RunE:  listSessions,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [session_id]",
		Short: "plot per-particle coordinate traces",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSession,
	}

	animateCmd := &cobra.Command{
		Use:   "animate [session_id]",
		Short: "replay a session in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  animateSession,
	}
	animateCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	animateCmd.Flags().StringVar(&filmPath, "film", "", "write frames to a film file instead of playing")

	exportCmd := &cobra.Command{
		Use:   "export [session_id]",
		Short: "export a session to a sqlite database",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSession,
	}
	exportCmd.Flags().StringVar(&dbPath, "out", "runs.db", "sqlite database path")

	infoCmd := &cobra.Command{
		Use:   "info [session_id]",
		Short: "show session metadata and metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  showInfo,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, animateCmd, exportCmd, infoCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig merges preset, config file and explicit flags, in that order of
// increasing precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("G") {
		cfg.Gravity = gravity
	}
	if cmd.Flags().Changed("ke") {
		cfg.Coulomb = coulomb
	}
	if cmd.Flags().Changed("softening") {
		cfg.Softening = softening
	}
	if cmd.Flags().Changed("collisions") {
		cfg.Collisions = collisions
	}
	if cmd.Flags().Changed("backend") {
		cfg.Backend = backend
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}

	return cfg, nil
}

func selectBackend(name string) error {
	switch name {
	case "auto", "":
		compute.SetBackend(compute.AutoSelectBackend())
	case "cpu":
		compute.SetBackend(compute.NewCPUBackend())
	case "cuda":
		b := compute.NewCUDABackend()
		if !b.Available() {
			return fmt.Errorf("cuda backend not available in this build")
		}
		compute.SetBackend(b)
	default:
		return fmt.Errorf("unknown backend: %s", name)
	}
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := selectBackend(cfg.Backend); err != nil {
		return err
	}

	ens, err := cfg.BuildEnsemble()
	if err != nil {
		return err
	}
	field := cfg.BuildField()

	driver := sim.New(ens, field,
		sim.WithCollisions(cfg.Collisions),
		sim.WithMetric(metrics.NewEnergyDrift(field)),
		sim.WithMetric(metrics.NewMomentumDrift()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %d particles (%d-d) on %s backend...\n",
		ens.N, ens.Dim, field.Backend().Name())
	start := time.Now()

	if err := driver.Solve(ctx, cfg.Duration, cfg.Dt); err != nil {
		return err
	}

	elapsed := time.Since(start)

	st := storage.New(dataDir)
	id, err := st.Save(sessionID, cfg.Dt, cfg.Duration, driver)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("session id: %s\n", id)
	fmt.Printf("snapshots: %d\n", len(driver.Trajectory()))
	fmt.Println("\nmetrics:")
	vals := driver.Metrics()
	names := make([]string, 0, len(vals))
	for name := range vals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, vals[name])
	}

	return nil
}

func listSessions(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	sessions, err := st.List()
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("no sessions found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tN\tDIM\tDURATION\tDT\tSTEPS\tCOLL")

	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2fs\t%.4fs\t%d\t%v\n",
			s.ID,
			s.CreatedAt.Format("2006-01-02 15:04:05"),
			s.N,
			s.Dim,
			s.Duration,
			s.Dt,
			s.Steps,
			s.Collisions,
		)
	}

	return w.Flush()
}

func plotSession(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	driver, meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	tr := driver.Trajectory()
	if len(tr) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("session: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(tr))

	// One trace per coordinate of the first few particles.
	maxParticles := meta.N
	if maxParticles > 3 {
		maxParticles = 3
	}

	for i := 0; i < maxParticles; i++ {
		for d := 0; d < meta.Dim; d++ {
			data := make([]float64, len(tr))
			for k, snap := range tr {
				data[k] = snap.Ensemble.Positions[i*meta.Dim+d]
			}

			axis := "xyz"[d : d+1]
			graph := asciigraph.Plot(data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("particle %d: %s vs time", i, axis)),
			)
			fmt.Println(graph)
			fmt.Println()
		}
	}

	return nil
}

func animateSession(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	driver, meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	tr := driver.Trajectory()
	if len(tr) == 0 {
		return fmt.Errorf("no frames to play")
	}

	if filmPath != "" {
		var frames []string
		if meta.Dim == 3 {
			frames, err = viz.RenderTrajectory3D(tr, 80, 24)
		} else {
			frames, err = viz.RenderTrajectory(tr, 80, 24)
		}
		if err != nil {
			return err
		}
		if err := viz.WriteFilm(filmPath, frames); err != nil {
			return err
		}
		fmt.Printf("wrote %d frames to %s\n", len(frames), filmPath)
		return nil
	}

	player := viz.NewPlayer(tr, driver.Field(), frameRate)
	return player.Run()
}

func exportSession(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	driver, meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	db, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SaveRun(*meta, driver.Trajectory()); err != nil {
		return err
	}

	fmt.Printf("exported %s to %s\n", meta.ID, dbPath)
	return nil
}

func showInfo(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.LoadMeta(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "id\t%s\n", meta.ID)
	fmt.Fprintf(w, "created\t%s\n", meta.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "particles\t%d\n", meta.N)
	fmt.Fprintf(w, "dimensions\t%d\n", meta.Dim)
	fmt.Fprintf(w, "dt\t%g\n", meta.Dt)
	fmt.Fprintf(w, "duration\t%g\n", meta.Duration)
	fmt.Fprintf(w, "steps\t%d\n", meta.Steps)
	fmt.Fprintf(w, "gravity\t%g\n", meta.Gravity)
	fmt.Fprintf(w, "coulomb\t%g\n", meta.Coulomb)
	fmt.Fprintf(w, "softening\t%g\n", meta.Softening)
	fmt.Fprintf(w, "collisions\t%v\n", meta.Collisions)
	for name, val := range meta.Metrics {
		fmt.Fprintf(w, "metric %s\t%.6g\n", name, val)
	}
	return w.Flush()
}
