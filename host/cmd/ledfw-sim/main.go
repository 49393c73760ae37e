package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"ledfw/core"
	"ledfw/host/serial"
	"ledfw/host/sim"
)

var (
	configPath = flag.String("config", "", "Board configuration JSON (default: reference board)")
	device     = flag.String("device", "", "Serial device for the trace (default: stdout)")
	baud       = flag.Int("baud", 115200, "Serial baud rate")
	duration   = flag.Duration("duration", 10*time.Second, "Simulated run time")
	pollMs     = flag.Uint("poll", 0, "Main loop period in ms (overrides config)")
	realtime   = flag.Bool("realtime", false, "Run against the wall clock instead of simulated time")
	verbose    = flag.Bool("verbose", false, "Print scheduler debug trace")
	dump       = flag.Bool("dump", false, "Dump the timing ring at exit")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := sim.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = sim.LoadConfigFile(*configPath)
		if err != nil {
			return err
		}
	}
	if *pollMs != 0 {
		cfg.PollMs = uint32(*pollMs)
	}

	// Trace sink
	var out io.Writer = os.Stdout
	if *device != "" {
		sc := serial.DefaultConfig(*device)
		sc.Baud = *baud
		port, err := serial.Open(sc)
		if err != nil {
			return err
		}
		defer port.Close()
		out = port
	}

	writeErrors := 0
	trace := serial.LineWriter(out, &writeErrors)
	core.SetDebugWriter(trace)
	core.SetDebugEnabled(*verbose)
	core.SetTimingEnabled(*dump)

	s, err := sim.New(cfg)
	if err != nil {
		return err
	}
	s.OnTransition = transitionSink(*realtime, trace)

	fmt.Fprintf(os.Stderr, "Simulating %d LEDs, tick=%s poll=%dms for %s\n",
		len(cfg.LEDs), cfg.Tick, cfg.PollMs, *duration)

	if *realtime {
		// Serial writes must not stall the poll loop against the wall clock
		core.InitAsyncDebug()
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err := s.RunRealtime(ctx, *duration)
		stop()
		core.StopAsyncDebug()
		if err != nil && err != context.Canceled {
			return err
		}
		if n := core.AsyncDropped(); n > 0 {
			fmt.Fprintf(os.Stderr, "Warning: %d trace lines dropped\n", n)
		}
	} else if err := s.Run(*duration); err != nil {
		return err
	}

	if *dump {
		core.DumpTimingRing()
	}
	if writeErrors > 0 {
		return fmt.Errorf("%d trace writes failed", writeErrors)
	}
	return nil
}

// transitionSink formats transitions onto the trace. In async mode lines are
// queued on the debug channel and written by its worker.
func transitionSink(async bool, trace func(string)) func(sim.Transition) {
	if async {
		return func(tr sim.Transition) {
			core.DebugAsync(tr.String())
		}
	}
	return func(tr sim.Transition) {
		trace(tr.String())
	}
}
