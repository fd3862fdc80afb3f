// Package report renders a calculation result as aligned plain text.
//
// Numbers are formatted for the requested language, so a German report
// prints "446,7" where an English one prints "446.7". Masses and lengths
// follow the requested unit system; spring rates are always lbs/in.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/arloliu/coilrate"
	"github.com/arloliu/coilrate/format"
	"github.com/arloliu/coilrate/internal/options"
	"github.com/arloliu/coilrate/internal/pool"
	"github.com/arloliu/coilrate/sprindex"
	"github.com/arloliu/coilrate/units"
)

// UnitSystem selects how masses and lengths are shown.
type UnitSystem uint8

const (
	Metric   UnitSystem = 0x1
	Imperial UnitSystem = 0x2
)

func (u UnitSystem) String() string {
	switch u {
	case Metric:
		return "Metric"
	case Imperial:
		return "Imperial"
	default:
		return "Unknown"
	}
}

// ParseUnitSystem returns the UnitSystem for "metric" or "imperial", or zero.
func ParseUnitSystem(name string) UnitSystem {
	switch name {
	case "metric", "Metric", "":
		return Metric
	case "imperial", "Imperial":
		return Imperial
	default:
		return 0
	}
}

// Config configures a report.
type Config struct {
	lang    language.Tag
	units   UnitSystem
	tables  bool
	printer *message.Printer
}

// Option is a functional option for a report.
type Option = options.Option[*Config]

// WithLanguage sets the language used for number formatting.
func WithLanguage(tag language.Tag) Option {
	return options.NoError(func(c *Config) {
		c.lang = tag
	})
}

// WithUnits sets the unit system for masses and lengths.
func WithUnits(u UnitSystem) Option {
	return options.New(func(c *Config) error {
		if u != Metric && u != Imperial {
			return fmt.Errorf("report: invalid unit system %d", u)
		}
		c.units = u

		return nil
	})
}

// WithTables includes the candidate and preload tables. Enabled by default.
func WithTables(enabled bool) Option {
	return options.NoError(func(c *Config) {
		c.tables = enabled
	})
}

func newConfig(opts []Option) (*Config, error) {
	cfg := &Config{lang: language.English, units: Metric, tables: true}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	cfg.printer = message.NewPrinter(cfg.lang)

	return cfg, nil
}

// Render writes the full report of res to w.
func Render(w io.Writer, res *coilrate.Result, opts ...Option) error {
	if res == nil {
		return fmt.Errorf("report: nil result")
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return err
	}

	bb := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(bb)

	r := &renderer{
		cfg:     cfg,
		p:       cfg.printer,
		tw:      tabwriter.NewWriter(bb, 0, 0, 2, ' ', 0),
		heading: cases.Upper(language.English),
	}
	r.summary(res)
	r.load(res)
	r.leverage(res)
	r.rate(res)
	if cfg.tables {
		r.candidates(res)
		r.preload(res)
	}
	r.sprindex(res)
	r.advice(res)
	r.warnings(res)
	if err := r.tw.Flush(); err != nil {
		return err
	}

	_, err = w.Write(bb.Bytes())

	return err
}

// Summary returns a single line with the recommended rate.
func Summary(res *coilrate.Result, opts ...Option) (string, error) {
	if res == nil {
		return "", fmt.Errorf("report: nil result")
	}
	cfg, err := newConfig(opts)
	if err != nil {
		return "", err
	}

	r := &renderer{cfg: cfg, p: cfg.printer}

	return cfg.printer.Sprintf("%v lbs/in %s (raw %v) at %v%% sag",
		r.rateNum(res.ChosenRate), res.Spring, r.num(res.Rate.Raw, 1), r.num(res.Applied.SagPct, 1)), nil
}

type renderer struct {
	cfg *Config
	p   *message.Printer
	tw  *tabwriter.Writer
	// Casers keep state and are not shared between renders.
	heading cases.Caser
}

func (r *renderer) section(title string) {
	r.p.Fprintf(r.tw, "\n%s\n", r.heading.String(title))
}

func (r *renderer) row(label string, value any) {
	r.p.Fprintf(r.tw, "  %s\t%v\n", label, value)
}

func (r *renderer) num(v float64, digits int) number.Formatter {
	return number.Decimal(v, number.MinFractionDigits(digits), number.MaxFractionDigits(digits))
}

func (r *renderer) rateNum(v float64) number.Formatter {
	return number.Decimal(v, number.MaxFractionDigits(0))
}

func (r *renderer) mass(kg float64) string {
	if r.cfg.units == Imperial {
		return r.p.Sprintf("%v lb", r.num(units.KgToLbs(kg), 1))
	}

	return r.p.Sprintf("%v kg", r.num(kg, 2))
}

func (r *renderer) length(mm float64) string {
	if r.cfg.units == Imperial {
		return r.p.Sprintf("%v in", r.num(units.MmToIn(mm), 2))
	}

	return r.p.Sprintf("%v mm", r.num(mm, 1))
}

func (r *renderer) estimated(s string, estimated bool) string {
	if estimated {
		return s + " (estimated)"
	}

	return s
}

func (r *renderer) summary(res *coilrate.Result) {
	r.p.Fprintf(r.tw, "Recommended spring: %v lbs/in (%s)\n", r.rateNum(res.ChosenRate), res.Spring)
	r.p.Fprintf(r.tw, "%s, %s rider, reference data v%d\n", res.Category, res.Skill, res.ReferenceVersion)
}

func (r *renderer) load(res *coilrate.Result) {
	r.section("Load")
	r.row("Rider", r.mass(res.RiderMassKg))
	if res.GearMassKg > 0 {
		r.row("Gear", r.p.Sprintf("%s x %v coupling", r.mass(res.GearMassKg), r.num(res.Coupling, 2)))
	}
	r.row("Bike", r.estimated(r.mass(res.BikeMassKg), res.BikeMassEstimated))
	r.row("Unsprung", r.estimated(r.mass(res.UnsprungMassKg), res.UnsprungEstimated))
	r.row("System", r.mass(res.Load.SystemMassKg))
	r.row("Rear bias", r.p.Sprintf("%v%%", r.num(res.Applied.BiasPct, 1)))
	r.row("Rear sprung", r.p.Sprintf("%s (%v lbs)", r.mass(res.Load.RearSprungKg), r.num(res.Load.RearSprungLbs, 1)))
}

func (r *renderer) leverage(res *coilrate.Result) {
	lev := res.Leverage
	r.section("Kinematics")
	r.row("Travel / stroke", r.length(res.TravelMm)+" / "+r.length(res.StrokeMm))
	if lev.Start != lev.End {
		r.row("Leverage", r.p.Sprintf("%v to %v (%v%% progression)",
			r.num(lev.Start, 2), r.num(lev.End, 2), r.num(lev.ProgressionDisplay(), 1)))
		r.row("Effective", r.p.Sprintf("%v (%s)", r.num(lev.Effective, 3), lev.Averaging))
	} else {
		r.row("Leverage", r.num(lev.Effective, 3))
	}
	r.row("Target sag", r.p.Sprintf("%v%% (%s)", r.num(res.Applied.SagPct, 1), r.length(res.Rate.SagDisplacementMm)))
}

func (r *renderer) rate(res *coilrate.Result) {
	rate := res.Rate
	r.section("Rate")
	if rate.Corrected {
		r.row("Uncorrected", r.num(rate.Uncorrected, 1))
	}
	r.row("Raw", r.num(rate.Raw, 1))
	r.row("Rounded", r.rateNum(rate.Rounded))
	r.row("Fine", r.rateNum(rate.Fine))
}

func (r *renderer) candidates(res *coilrate.Result) {
	r.section("Candidates")
	r.p.Fprintf(r.tw, "  Rate\tSag\tSag %%\tStatus\n")
	for _, c := range res.Candidates {
		r.p.Fprintf(r.tw, "  %v\t%s\t%v\t%s\n", r.rateNum(c.Rate), r.length(c.SagMm), r.num(c.SagPct, 1), c.Status)
	}
}

func (r *renderer) preload(res *coilrate.Result) {
	r.section("Preload")
	r.p.Fprintf(r.tw, "  Turns\tPreload\tSag\tSag %%\tStatus\n")
	for _, row := range res.Preload {
		r.p.Fprintf(r.tw, "  %v\t%s\t%s\t%v\t%s\n",
			r.num(row.Turns, 1), r.length(row.PreloadMm), r.length(row.SagMm), r.num(row.SagPct, 1), row.Status)
	}
}

func (r *renderer) sprindex(res *coilrate.Result) {
	m := res.Sprindex
	if m == nil {
		return
	}

	r.section("Sprindex")
	if m.Family != nil {
		r.row("Family", m.Family.Name)
	}
	switch m.Status {
	case sprindex.StatusExact:
		r.row("Range", m.Range.String())
		r.row("Setting", r.rateNum(m.Setting))
	case sprindex.StatusGap:
		r.row("Option A", r.option(m.Lower))
		r.row("Option B", r.option(m.Upper))
	case sprindex.StatusOutOfRange:
		r.row("Range", "rate outside the family's ranges")
	case sprindex.StatusNoFamily:
		r.row("Family", "none fits this stroke")
	}
}

func (r *renderer) option(o sprindex.Option) string {
	return r.p.Sprintf("%s at %v lbs/in, %v%% sag", o.Range, r.rateNum(o.Rate), r.num(o.SagPct, 1))
}

func (r *renderer) advice(res *coilrate.Result) {
	r.section("Spring type")
	r.row(res.Advice.Type.String(), res.Advice.Rationale)
	if res.Spring != res.Advice.Type && res.Spring != format.SpringSprindex {
		r.row("Selected", res.Spring.String())
	}
}

func (r *renderer) warnings(res *coilrate.Result) {
	if len(res.Warnings) == 0 {
		return
	}

	r.section("Warnings")
	for _, w := range res.Warnings {
		r.p.Fprintf(r.tw, "  %s\n", w)
	}
}
