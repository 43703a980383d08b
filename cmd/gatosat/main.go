package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/k0kubun/pp"
	"github.com/urfave/cli"

	"github.com/gatosat/gatosat/internal/config"
	"github.com/gatosat/gatosat/internal/dimacs"
	"github.com/gatosat/gatosat/internal/lit"
	"github.com/gatosat/gatosat/internal/proof"
	"github.com/gatosat/gatosat/internal/simplify"
	"github.com/gatosat/gatosat/internal/solver"
	"github.com/gatosat/gatosat/internal/stats"
)

var startTime time.Time

func flags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{Name: "debug,d", Usage: "dump the parsed config with k0kubun/pp before solving"},
		cli.BoolTFlag{Name: "verbosity,verb", Usage: "print problem and search statistics"},
		cli.StringFlag{Name: "input-file, in", Usage: "input CNF file (required)", Value: "None"},
		cli.IntFlag{Name: "cpu-time-limit", Usage: "wall-clock budget in seconds, <=0 means unbounded", Value: -1},
		cli.Int64Flag{Name: "conflict-limit", Usage: "conflict budget, <0 means unbounded", Value: -1},
		cli.StringFlag{Name: "restart", Usage: "restart policy: luby, geometric, glue", Value: "luby"},
		cli.BoolFlag{Name: "no-inprocessing", Usage: "disable all inprocessing subsystems"},
		cli.BoolFlag{Name: "no-bve", Usage: "disable bounded variable elimination"},
		cli.BoolFlag{Name: "no-subsumption", Usage: "disable subsumption/self-subsumption"},
		cli.BoolFlag{Name: "no-components", Usage: "disable component splitting"},
		cli.Int64Flag{Name: "seed", Usage: "random seed", Value: 0},
		cli.StringFlag{Name: "proof-out", Usage: "DRUP-style text proof output file"},
		cli.StringFlag{Name: "result-output-file, out", Usage: "write the result line to this file instead of stdout"},
	}
}

func validateFlags(c *cli.Context) error {
	if c.String("input-file") == "None" {
		return fmt.Errorf("input-file is required")
	}
	return nil
}

func configFromFlags(c *cli.Context) *config.Config {
	cfg := config.Default()
	cfg.Verbosity = 0
	if c.BoolT("verbosity") {
		cfg.Verbosity = 1
	}
	cfg.RandomSeed = c.Int64("seed")
	cfg.MaxConflicts = c.Int64("conflict-limit")
	if secs := c.Int("cpu-time-limit"); secs > 0 {
		cfg.MaxTime = time.Duration(secs) * time.Second
	}
	switch c.String("restart") {
	case "geometric":
		cfg.RestartPolicy = config.RestartGeometric
	case "glue":
		cfg.RestartPolicy = config.RestartGlue
	default:
		cfg.RestartPolicy = config.RestartLuby
	}
	if c.Bool("no-inprocessing") {
		cfg.EnableInprocessing = false
	}
	if c.Bool("no-bve") {
		cfg.EnableBVE = false
	}
	if c.Bool("no-subsumption") {
		cfg.EnableSubsumption = false
		cfg.EnableStrengthen = false
	}
	if c.Bool("no-components") {
		cfg.EnableComponents = false
	}
	return cfg
}

func printProblemStatistics(out *os.File, s *solver.Solver) {
	fmt.Fprintf(out, "c ============================[ Problem Statistics ]=============================\n")
	fmt.Fprintf(out, "c |  Number of variables:  %12d                                         |\n", s.NumVars())
	fmt.Fprintf(out, "c |  Number of clauses:    %12d                                         |\n", s.NumClauses())
	fmt.Fprintf(out, "c ================================================================================\n")
}

func printStatistics(out *os.File, snap stats.Snapshot) {
	elapsed := time.Since(startTime).Seconds()
	fmt.Fprintf(out, "c ================================================================================\n")
	fmt.Fprintf(out, "c restarts: %12d\n", snap.RestartCount)
	fmt.Fprintf(out, "c conflicts: %12d (%.02f / sec)\n", snap.ConflictCount, float64(snap.ConflictCount)/elapsed)
	fmt.Fprintf(out, "c decisions: %12d (%.02f / sec)\n", snap.DecisionCount, float64(snap.DecisionCount)/elapsed)
	fmt.Fprintf(out, "c propagations: %12d (%.02f / sec)\n", snap.PropagationCount, float64(snap.PropagationCount)/elapsed)
	fmt.Fprintf(out, "c reduce DB: %12d\n", snap.ReduceDBCount)
	fmt.Fprintf(out, "c removed clauses: %12d\n", snap.RemovedClauseCount)
	fmt.Fprintf(out, "c eliminated vars: %12d\n", snap.EliminatedVars)
	fmt.Fprintf(out, "c components solved: %12d\n", snap.ComponentsSolved)
	fmt.Fprintf(out, "c cpu time: %12f\n", elapsed)
}

// statReporter adapts stats.Reporter to pp-based debug dumping of each
// snapshot when -debug is set, grounded on the teacher's direct stat-struct
// printf calls but routed through k0kubun/pp for structured inspection.
type statReporter struct{ debug bool }

func (r statReporter) Report(snap stats.Snapshot) {
	if r.debug {
		pp.Println(snap)
	}
}

func printModel(out *os.File, s *solver.Solver) {
	fmt.Fprint(out, "v ")
	for i := 0; i < s.NumVars(); i++ {
		if s.Value(lit.Var(i)) == lit.True {
			fmt.Fprintf(out, "%d ", i+1)
		} else {
			fmt.Fprintf(out, "%d ", -(i + 1))
		}
	}
	fmt.Fprint(out, "0\n")
}

func setTimeout(s *solver.Solver, limitSeconds int, verbosity bool, out *os.File) {
	if limitSeconds <= 0 {
		return
	}
	go func() {
		<-time.After(time.Duration(limitSeconds) * time.Second)
		fmt.Fprintln(out, "c TIMEOUT")
		s.SetInterrupt()
	}()
}

func setInterruptHandler(s *solver.Solver, out *os.File) {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		fmt.Fprintln(out, "c INTERRUPT")
		s.SetInterrupt()
	}()
}

func main() {
	startTime = time.Now()

	app := cli.NewApp()
	app.Name = "gatosat"
	app.Usage = "a CDCL SAT solver"
	app.Flags = flags()

	var debugMode bool
	app.Before = func(c *cli.Context) error {
		debugMode = c.Bool("debug")
		return nil
	}

	app.Action = func(c *cli.Context) error {
		if err := validateFlags(c); err != nil {
			fmt.Println(err)
			cli.ShowAppHelpAndExit(c, 2)
		}

		cfg := configFromFlags(c)
		if debugMode {
			pp.Println(cfg)
		}

		s := solver.New(cfg)
		s.Reporter = statReporter{debug: debugMode}

		if path := c.String("proof-out"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			s.Proof = proof.NewTextWriter(f)
		}

		if cfg.EnableInprocessing {
			s.Inprocessor = simplify.New(cfg)
		}

		fp, err := os.Open(c.String("input-file"))
		if err != nil {
			return err
		}
		defer fp.Close()

		setTimeout(s, c.Int("cpu-time-limit"), cfg.Verbosity > 0, os.Stdout)
		setInterruptHandler(s, os.Stdout)

		in := bufio.NewScanner(fp)
		in.Buffer(make([]byte, 1024*1024), 16*1024*1024)
		if _, err := dimacs.Parse(in, s); err != nil {
			return err
		}

		if cfg.Verbosity > 0 {
			printProblemStatistics(os.Stdout, s)
		}

		result := s.Solve(nil)

		if cfg.Verbosity > 0 {
			printStatistics(os.Stdout, s.Stats.Snapshot())
		}

		resultOut := os.Stdout
		if path := c.String("result-output-file"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			resultOut = f
		}

		switch result {
		case solver.Sat:
			fmt.Fprintln(resultOut, "\ns SATISFIABLE")
			printModel(resultOut, s)
			os.Exit(10)
		case solver.Unsat:
			fmt.Fprintln(resultOut, "\ns UNSATISFIABLE")
			os.Exit(20)
		default:
			fmt.Fprintln(resultOut, "\ns UNKNOWN")
			os.Exit(0)
		}
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
