package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeffersonlab/gradramp/frame"
	"github.com/jeffersonlab/gradramp/hal/simhal"
	"github.com/jeffersonlab/gradramp/monitoring"
	"github.com/jeffersonlab/gradramp/ramp"
	"github.com/jeffersonlab/gradramp/recording"
	"github.com/jeffersonlab/gradramp/zone"
)

var runFlags struct {
	configPath  string
	monitorPort int
	output      string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one gradient Apply episode against simulated hardware.",
	RunE:  runEpisode,
}

func init() {
	runCmd.Flags().StringVarP(&runFlags.configPath, "config", "c", "",
		"path to the zone YAML description (required)")
	runCmd.Flags().IntVar(&runFlags.monitorPort, "monitor-port", 0,
		"port for the monitoring server; 0 disables it")
	runCmd.Flags().StringVarP(&runFlags.output, "output", "o", "",
		"recorder database name; empty picks a unique name")
	_ = runCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(runCmd)
}

func runEpisode(_ *cobra.Command, _ []string) error {
	cfg, err := LoadConfig(runFlags.configPath)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	rampCfg := cfg.RampConfig()

	recorder := recording.New(runFlags.output)
	defer recorder.Close()

	bank := recording.NewBank(recorder)
	transitions := recording.NewTransitionLog(recorder)
	cryo := newCryoSim(cfg)

	z := zone.MakeBuilder().
		WithName(cfg.Zone).
		WithSubFrames(rampCfg.SubFrames).
		WithCryoPoints(zone.CryoPoints{
			Target: cryo.target,
			Ramp:   cryo.ramp,
			Load:   cryo.load,
		}).
		WithDataRecorder(recorder).
		Build()

	minorPeriod := rampCfg.FramePeriod / time.Duration(rampCfg.SubFrames)
	sched := frame.NewScheduler(minorPeriod)

	targets := make([]zone.Target, 0, len(cfg.Cavities))
	for _, cav := range cfg.Cavities {
		kind, err := cavityKind(cav.Kind)
		if err != nil {
			return err
		}

		sim := simhal.NewSimCavity(cav.Name+":", cav.InitialGradient)

		controller := ramp.MakeBuilder().
			WithCavity(ramp.Cavity{
				Name:          cav.Name,
				Kind:          kind,
				Bypassed:      cav.Bypassed,
				TunerBad:      cav.TunerBad,
				FixedGradient: cav.FixedGradient,
				LossFactor:    cav.LossFactor,
			}).
			WithPoints(sim.Points()).
			WithCoordinator(z).
			WithConfig(rampCfg).
			WithDiagnosticSink(bank).
			Build()

		controller.AcceptHook(transitions)
		z.AddController(controller)
		cryo.addSource(sim, cav.LossFactor)
		sched.Register(sim)

		targets = append(targets, zone.Target{
			Cavity:    cav.Name,
			Gradient:  cav.Target,
			DropFirst: cav.DropFirst,
		})
	}

	sched.Register(cryo)

	if port := monitorPort(); port > 0 {
		monitoring.NewMonitor(z).WithPortNumber(port).StartServer()
	}

	if err := z.Apply(sched, targets); err != nil {
		return err
	}

	// SIGINT halts the controllers without a zone abort; that is the
	// process-shutdown path.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupts
		z.Halt()
		sched.Stop()
	}()

	go func() {
		z.Wait()
		sched.Stop()
	}()

	sched.Run()

	reportOutcomes(z)

	return nil
}

func monitorPort() int {
	if runFlags.monitorPort != 0 {
		return runFlags.monitorPort
	}

	if env := os.Getenv("GRADRAMP_MONITOR_PORT"); env != "" {
		if port, err := strconv.Atoi(env); err == nil {
			return port
		}
	}

	return 0
}

func reportOutcomes(z *zone.Zone) {
	select {
	case <-z.Done():
	default:
		fmt.Printf("zone %s: episode %s halted before completion\n",
			z.Name(), z.Episode())
		return
	}

	outcomes := z.Wait()

	names := make([]string, 0, len(outcomes))
	for name := range outcomes {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("zone %s: episode %s\n", z.Name(), z.Episode())
	for _, name := range names {
		gradient := 0.0
		if c, ok := z.Controller(name); ok {
			gradient = c.Gradient()
		}

		fmt.Printf("  %-12s %-8s %6.2f MV/m\n",
			name, outcomes[name], gradient)
	}
}
