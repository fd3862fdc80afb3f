// Command coilrate recommends a rear coil spring rate from the command line.
//
//	coilrate -category enduro -skill intermediate -rider 75kg -travel 160 -stroke 60
//	coilrate -code <setup code> -units imperial
//	coilrate -interactive -refdata ./reference.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/text/language"

	"github.com/arloliu/coilrate"
	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/linkage"
	"github.com/arloliu/coilrate/refdata"
	"github.com/arloliu/coilrate/report"
	"github.com/arloliu/coilrate/setupcode"
)

// Version is set at build time via -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	code        string
	share       bool
	compression string
	curve       string
	refdata     string
	rounding    string
	sprindex    bool
	lang        string
	units       string
	summary     bool
	interactive bool
	verbose     bool
	version     bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	req := defaultRequest()
	var opts options

	fs := flag.NewFlagSet("coilrate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	for _, f := range fields {
		set := f.set
		if f.isBool {
			fs.BoolFunc(f.name, f.usage, func(v string) error { return set(&req, v) })
		} else {
			fs.Func(f.name, f.usage, func(v string) error { return set(&req, v) })
		}
	}
	fs.StringVar(&opts.code, "code", "", "start from a setup code; later flags override its fields")
	fs.BoolVar(&opts.share, "share", false, "print the setup code of the request")
	fs.StringVar(&opts.compression, "compression", "auto", "setup code compression (auto, none, s2, lz4, zstd)")
	fs.StringVar(&opts.curve, "curve", "", "CSV of wheel_travel_mm,leverage_ratio samples to fit")
	fs.StringVar(&opts.refdata, "refdata", "", "reference data YAML file (embedded tables when empty)")
	fs.StringVar(&opts.rounding, "rounding", "half-away", "rounding of x.5 rates (half-away, half-even)")
	fs.BoolVar(&opts.sprindex, "sprindex", false, "match against the Sprindex catalog for every spring type")
	fs.StringVar(&opts.lang, "lang", "en", "language for number formatting")
	fs.StringVar(&opts.units, "units", "metric", "units for masses and lengths (metric, imperial)")
	fs.BoolVar(&opts.summary, "summary", false, "print a one line summary instead of the full report")
	fs.BoolVar(&opts.interactive, "interactive", false, "start an interactive session")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	fs.BoolVar(&opts.version, "version", false, "print the version")

	// -code is applied first so that explicit flags override the shared setup.
	if code := findCode(args); code != "" {
		decoded, err := setupcode.Decode(code)
		if err != nil {
			return err
		}
		req = decoded
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if opts.version {
		fmt.Fprintf(stdout, "coilrate version %s\n", Version)
		return nil
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if opts.curve != "" {
		if err := applyCurve(&req, opts.curve, logger); err != nil {
			return err
		}
	}

	calcOpts, store, err := calculatorOptions(opts, logger)
	if err != nil {
		return err
	}
	calc, err := coilrate.NewCalculator(calcOpts...)
	if err != nil {
		return err
	}
	reportOpts, err := reportOptions(opts)
	if err != nil {
		return err
	}

	if opts.interactive {
		if store != nil {
			watchCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			if err := store.Watch(watchCtx, opts.refdata, refdata.WatchHooks{
				OnReload: func(d *refdata.Data) {
					logger.Info("reference data reloaded", "path", opts.refdata, "version", d.Version)
				},
				OnError: func(err error) {
					logger.Warn("reference data reload failed", "path", opts.refdata, "error", err)
				},
			}); err != nil {
				return fmt.Errorf("watch reference data: %w", err)
			}
		}

		return newSession(req, calc, reportOpts, logger).run(stdout)
	}

	if opts.share {
		code, err := shareCode(req, opts.compression)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, code)
		return nil
	}

	return calculate(stdout, calc, req, reportOpts, opts.summary, logger)
}

func defaultRequest() coilrate.Request {
	return coilrate.Request{
		Category: format.CategoryTrail,
		Rider:    coilrate.RiderProfile{Skill: format.SkillIntermediate},
	}
}

// findCode returns the value of -code or --code in args before flag parsing.
func findCode(args []string) string {
	for i := 0; i < len(args); i++ {
		switch a := args[i]; {
		case a == "--":
			return ""
		case a == "-code" || a == "--code":
			if i+1 < len(args) {
				return args[i+1]
			}
		case len(a) > 6 && a[:6] == "-code=":
			return a[6:]
		case len(a) > 7 && a[:7] == "--code=":
			return a[7:]
		}
	}

	return ""
}

func applyCurve(req *coilrate.Request, path string, logger *slog.Logger) error {
	samples, err := linkage.ReadCSVFile(path)
	if err != nil {
		return err
	}
	fit, err := linkage.Fit(samples)
	if err != nil {
		return fmt.Errorf("fit leverage curve %s: %w", path, err)
	}
	logger.Info("leverage curve fitted",
		"path", path,
		"samples", len(samples),
		"model", fit.BestFit.Type.String(),
		"r2", fit.BestFit.RSquared,
		"formula", fit.BestFit.Formula())

	req.Kinematics.Mode = format.ModeCurve
	req.Kinematics.LeverageStart = coilrate.Ptr(fit.Start())
	req.Kinematics.LeverageEnd = coilrate.Ptr(fit.End())
	req.Kinematics.ProgressionPct = nil

	return nil
}

func calculatorOptions(opts options, logger *slog.Logger) ([]coilrate.Option, *refdata.Store, error) {
	var calcOpts []coilrate.Option
	var store *refdata.Store

	if opts.refdata != "" {
		data, err := refdata.LoadFile(opts.refdata)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("reference data loaded", "path", opts.refdata, "version", data.Version)
		if opts.interactive {
			store = refdata.NewStore(data)
			calcOpts = append(calcOpts, coilrate.WithReferenceStore(store))
		} else {
			calcOpts = append(calcOpts, coilrate.WithReferenceData(data))
		}
	}

	switch opts.rounding {
	case "half-away", "":
		calcOpts = append(calcOpts, coilrate.WithRoundingPolicy(format.RoundHalfAwayFromZero))
	case "half-even":
		calcOpts = append(calcOpts, coilrate.WithRoundingPolicy(format.RoundHalfEven))
	default:
		return nil, nil, fmt.Errorf("unknown rounding policy %q", opts.rounding)
	}
	calcOpts = append(calcOpts, coilrate.WithSprindexMatching(opts.sprindex))

	return calcOpts, store, nil
}

func reportOptions(opts options) ([]report.Option, error) {
	tag, err := language.Parse(opts.lang)
	if err != nil {
		return nil, fmt.Errorf("invalid language %q: %w", opts.lang, err)
	}
	u := report.ParseUnitSystem(opts.units)
	if u == 0 {
		return nil, fmt.Errorf("unknown unit system %q", opts.units)
	}

	return []report.Option{report.WithLanguage(tag), report.WithUnits(u)}, nil
}

func shareCode(req coilrate.Request, compression string) (string, error) {
	if compression == "auto" {
		code, _, err := setupcode.EncodeShortest(req)
		return code, err
	}

	ct := format.ParseCompressionType(compression)
	if ct == 0 {
		return "", fmt.Errorf("unknown compression %q", compression)
	}

	return setupcode.Encode(req, ct)
}

func calculate(w io.Writer, calc *coilrate.Calculator, req coilrate.Request, opts []report.Option, summary bool, logger *slog.Logger) error {
	if fp, err := req.Fingerprint(); err == nil {
		logger.Debug("calculating", "fingerprint", fmt.Sprintf("%016x", fp), "category", req.Category.String())
	}

	res, err := calc.Calculate(req)
	if err != nil {
		return err
	}
	for _, warn := range res.Warnings {
		logger.Warn("calculation warning", "error", warn, "soft", errs.IsSoft(warn))
	}

	if summary {
		line, err := report.Summary(res, opts...)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, line)
		return err
	}

	return report.Render(w, res, opts...)
}
