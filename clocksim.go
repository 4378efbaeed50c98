package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/mainstime/clocksim/lib/units"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "clocksim",
		Short: "mains-tick digital clock simulator",
		Long: `clocksim simulates a mains-synchronized digital clock: a tick divider
disciplined by an optional PPS reference, a cascading BCD counter triple with
a manual set mode, a 12/24-hour display converter, and a six-digit
seven-segment sweep.

The clock advances one step per mains tick (50 or 60 per nominal second) and
every step commits atomically, so runs are deterministic and replayable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "path to a config file")
	pf.Int("freq", 60, "mains frequency in ticks per second (50 or 60)")
	pf.Int("debounce", 3, "debounce depth in ticks for the control lines")
	pf.String("format", "24h", "hour display format (24h or 12h)")
	pf.Bool("seg-active-low", false, "drive the segment bus active low")
	pf.Bool("latch-active-low", false, "drive the latch enables active low")
	pf.String("addr", ":8000", "listen address for the web GUI and metrics")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text or json)")
	pf.Bool("cpuprofile", false, "write a CPU profile to the working directory")

	root.AddCommand(newRunCommand())
	root.AddCommand(newServeCommand())
	root.AddCommand(newTraceCommand())
	return root
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run [script...]",
		Short: "run the interactive simulator",
		Long: `run starts the clock and reads commands from stdin.  Any script
files given as arguments are executed first, one command per line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			if cfg.CPUProfile {
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
			}

			cycle = units.NewCycle(cfg.cycleConfig())
			panel = cfg.initialInputs()
			debounceDepth = cfg.DebounceDepth

			for _, script := range args {
				if err := loadScript(cmd.OutOrStdout(), script); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			sc := bufio.NewScanner(cmd.InOrStdin())
			prompt := func() {
				fmt.Fprintf(out, "%06d> ", cycle.Ticks())
			}
			prompt()
			for sc.Scan() {
				if doCommand(out, sc.Text()) < 0 {
					break
				}
				prompt()
			}
			if vcd != nil {
				vcd.Close()
			}
			return sc.Err()
		},
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the clock in real time with the web GUI",
		Long: `serve drives the clock from a wall-clock ticker at the configured
mains rate and exposes the face, the panel controls, and Prometheus metrics
over HTTP.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func newTraceCommand() *cobra.Command {
	var (
		ticks   int
		outFile string
		ppsAt   int
	)
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "run for a fixed number of ticks and write a VCD trace",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			f, err := os.Create(outFile)
			if err != nil {
				return err
			}
			tracer := newVCDTracer(f)
			c := units.NewCycle(cfg.cycleConfig())
			c.AttachTracer(tracer)
			in := cfg.initialInputs()
			for i := 0; i < ticks; i++ {
				in.PPS = ppsAt > 0 && i == ppsAt
				c.Step(in)
			}
			if err := tracer.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d ticks traced to %s, time %s\n",
				ticks, outFile, c.Time().HHMMSS())
			return nil
		},
	}
	cmd.Flags().IntVarP(&ticks, "ticks", "n", 600, "number of ticks to run")
	cmd.Flags().StringVarP(&outFile, "out", "o", "clocksim.vcd", "output VCD file")
	cmd.Flags().IntVar(&ppsAt, "pps-at", 0, "inject a one-tick PPS pulse at this tick (0 = never)")
	return cmd
}
