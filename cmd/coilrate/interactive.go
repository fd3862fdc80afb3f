package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/arloliu/coilrate"
	"github.com/arloliu/coilrate/report"
	"github.com/arloliu/coilrate/setupcode"
)

const prompt = "coilrate> "

var commands = []string{"calc", "summary", "show", "code", "load", "reset", "unset", "help", "quit"}

var errQuit = errors.New("quit")

// session is an interactive editing session over a single request.
type session struct {
	req     coilrate.Request
	initial coilrate.Request
	calc    *coilrate.Calculator
	report  []report.Option
	logger  *slog.Logger
}

func newSession(req coilrate.Request, calc *coilrate.Calculator, opts []report.Option, logger *slog.Logger) *session {
	return &session{req: req, initial: req, calc: calc, report: opts, logger: logger}
}

func (s *session) run(out io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	historyFile := filepath.Join(os.TempDir(), ".coilrate_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintln(out, `Set fields with "name=value" (e.g. rider=75kg), then "calc". "help" lists commands.`)
	for {
		input, err := line.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if err := s.exec(out, input); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

// exec runs a single command line. It returns errQuit to end the session.
func (s *session) exec(out io.Writer, input string) error {
	if name, value, ok := strings.Cut(input, "="); ok {
		return s.set(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "calc":
		return calculate(out, s.calc, s.req, s.report, false, s.logger)
	case "summary":
		return calculate(out, s.calc, s.req, s.report, true, s.logger)
	case "show":
		s.show(out)
		return nil
	case "code":
		code, _, err := setupcode.EncodeShortest(s.req)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, code)
		return nil
	case "load":
		req, err := setupcode.Decode(arg)
		if err != nil {
			return err
		}
		s.req = req
		return nil
	case "reset":
		s.req = s.initial
		return nil
	case "unset":
		return s.set(arg, "-")
	case "help":
		printHelp(out)
		return nil
	case "quit", "exit":
		return errQuit
	default:
		if _, ok := lookupField(cmd); ok {
			return s.set(cmd, arg)
		}
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (s *session) set(name, value string) error {
	f, ok := lookupField(name)
	if !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	if f.isBool && value == "" {
		value = "true"
	}
	if f.isBool && value == "-" {
		value = "false"
	}

	next := s.req
	if err := f.set(&next, value); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	s.req = next

	return nil
}

func (s *session) show(out io.Writer) {
	r := s.req
	fmt.Fprintf(out, "category=%s skill=%s spring=%s mode=%s\n", r.Category, r.Rider.Skill, r.Spring, r.Kinematics.Mode)
	fmt.Fprintf(out, "rider=%s gear=%s\n", r.Rider.Mass, r.Rider.GearMass)
	if r.Chassis.BikeMass != nil {
		fmt.Fprintf(out, "bike=%s\n", *r.Chassis.BikeMass)
	}
	if r.Kinematics.Travel != nil {
		fmt.Fprintf(out, "travel=%s\n", *r.Kinematics.Travel)
	}
	if r.Kinematics.Stroke != nil {
		fmt.Fprintf(out, "stroke=%s\n", *r.Kinematics.Stroke)
	}
	if r.TargetSagPct != nil {
		fmt.Fprintf(out, "sag=%g\n", *r.TargetSagPct)
	}
	if r.Chassis.RearBiasPct != nil {
		fmt.Fprintf(out, "bias=%g\n", *r.Chassis.RearBiasPct)
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  calc | summary     calculate and print the report or a summary")
	fmt.Fprintln(out, "  show               print the current request")
	fmt.Fprintln(out, "  code | load CODE   print or load a setup code")
	fmt.Fprintln(out, "  unset FIELD        clear an optional field")
	fmt.Fprintln(out, "  reset | quit")
	fmt.Fprintln(out, "Fields (name=value):")
	for _, f := range fields {
		fmt.Fprintf(out, "  %-12s %s\n", f.name, f.usage)
	}
}

func complete(line string) []string {
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	for _, f := range fields {
		if strings.HasPrefix(f.name, line) {
			out = append(out, f.name+"=")
		}
	}
	sort.Strings(out)

	return out
}
