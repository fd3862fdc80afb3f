package refdata

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/coilrate/errs"
	"github.com/arloliu/coilrate/format"
)

func TestDefault(t *testing.T) {
	d := Default()
	require.NotNil(t, d)
	require.Equal(t, 3, d.Version)

	categories := []format.Category{
		format.CategoryDowncountry, format.CategoryTrail, format.CategoryAllMountain,
		format.CategoryEnduro, format.CategoryLongTravelEnduro, format.CategoryEnduroRace,
		format.CategoryDownhill,
	}
	for _, c := range categories {
		def, err := d.Category(c)
		require.NoError(t, err, c.String())
		require.Positive(t, def.StrokeMm)
		require.GreaterOrEqual(t, def.TravelMm, def.StrokeMm)
		require.NotEmpty(t, def.SprindexFamily)
	}

	enduro, err := d.Category(format.CategoryEnduro)
	require.NoError(t, err)
	require.InDelta(t, 165.0, enduro.TravelMm, 1e-9)
	require.InDelta(t, 60.0, enduro.StrokeMm, 1e-9)
	require.InDelta(t, 68.0, enduro.BaseRearBiasPct, 1e-9)

	for _, s := range []format.SkillLevel{format.SkillJustStarting, format.SkillBeginner, format.SkillIntermediate, format.SkillAdvanced, format.SkillRacer} {
		mod, err := d.Skill(s)
		require.NoError(t, err)
		require.GreaterOrEqual(t, mod.BiasPct, -2.0)
		require.LessOrEqual(t, mod.BiasPct, 4.0)
		require.GreaterOrEqual(t, mod.SagPct, -1.0)
		require.LessOrEqual(t, mod.SagPct, 1.5)
	}

	fams := d.Families()
	require.Len(t, fams, 3)
	require.Equal(t, "xc_trail", fams[0].Key)
	require.Equal(t, "XC/Trail (55mm)", fams[0].Name)
	require.Equal(t, "dh", fams[2].Key)
}

func TestLookupErrors(t *testing.T) {
	d := Default()

	_, err := d.Category(format.Category(0))
	require.ErrorIs(t, err, errs.ErrUnknownCategory)

	_, err = d.Skill(format.SkillLevel(42))
	require.ErrorIs(t, err, errs.ErrUnknownSkill)
}

// withDefaults returns the embedded YAML with old replaced by new.
func withDefaults(t *testing.T, old, new string) string {
	t.Helper()

	src := string(defaultsYAML)
	require.Contains(t, src, old)

	return strings.Replace(src, old, new, 1)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"unknown field", "version: 1\nbogus: 2\n", "bogus"},
		{"unknown category", withDefaults(t, "  trail:\n", "  gravel:\n"), `unknown category "gravel"`},
		{"missing category", "version: 4\ncategories:\n  trail: {travel_mm: 140, stroke_mm: 50, base_rear_bias_pct: 63, base_sag_pct: 30, leverage_ratio_start: 2.8}\n", "missing category"},
		{"bias out of range", withDefaults(t, "base_rear_bias_pct: 63", "base_rear_bias_pct: 90"), "bias 90 outside [55,85]"},
		{"sag out of range", withDefaults(t, "base_sag_pct: 30", "base_sag_pct: 45"), "sag 45 outside [20,40]"},
		{"progression flattens below one", withDefaults(t, "progression_pct: 15", "progression_pct: 70"), "progression 70"},
		{"negative progression", withDefaults(t, "progression_pct: 15", "progression_pct: -5"), "progression -5"},
		{"missing skill", withDefaults(t, "  racer: {bias_pct: -2, sag_pct: -1.0}\n", ""), `missing skill "racer"`},
		{"skill bias out of range", withDefaults(t, "beginner: {bias_pct: 2, sag_pct: 1.0}", "beginner: {bias_pct: 30, sag_pct: 1.0}"), `skill "beginner" bias 30`},
		{"skill sag out of range", withDefaults(t, "beginner: {bias_pct: 2, sag_pct: 1.0}", "beginner: {bias_pct: 2, sag_pct: -15}"), `skill "beginner" sag -15`},
		{"suggestion out of range", withDefaults(t, "base_sag_pct: 34", "base_sag_pct: 39.5"), "suggests bias"},
		{"duplicate family", withDefaults(t, "key: dh", "key: enduro"), `duplicate sprindex family "enduro"`},
		{"overlapping ranges", withDefaults(t, "[[250, 300], [300, 350]", "[[250, 320], [300, 350]"), "overlap"},
		{"bad pair", withDefaults(t, "[[250, 300], [300, 350]", "[[250], [300, 350]"), "not an ascending"},
		{"unknown family", withDefaults(t, "sprindex_family: dh", "sprindex_family: nope"), `unknown sprindex family "nope"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			require.ErrorIs(t, err, errs.ErrInvalidReferenceData)
			require.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadRequiresFamilies(t *testing.T) {
	src := string(defaultsYAML)
	i := strings.Index(src, "\nsprindex:")
	require.Positive(t, i)

	_, err := Load(strings.NewReader(src[:i+1]))
	require.ErrorIs(t, err, errs.ErrInvalidReferenceData)
	require.Contains(t, err.Error(), "no sprindex families")
}

func TestDataFamily(t *testing.T) {
	d := Default()
	require.Equal(t, "Enduro (65mm)", d.Family("enduro").Name)
	require.Nil(t, d.Family("bmx"))
}

func TestRange(t *testing.T) {
	r := Range{Low: 430, High: 500}
	require.True(t, r.Contains(430))
	require.True(t, r.Contains(446.9))
	require.True(t, r.Contains(500))
	require.False(t, r.Contains(500.1))
	require.Equal(t, "430-500", r.String())
}

func TestStoreWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refdata.yaml")
	require.NoError(t, os.WriteFile(path, defaultsYAML, 0o600))

	store := NewStore(nil)
	require.Same(t, Default(), store.Load())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Data, 4)
	require.NoError(t, store.Watch(ctx, path, WatchHooks{
		OnReload: func(d *Data) { reloaded <- d },
	}))

	custom := withDefaults(t, "version: 3", "version: 99")
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o600))

	select {
	case d := <-reloaded:
		require.Equal(t, 99, d.Version)
		require.Equal(t, 99, store.Load().Version)
	case <-time.After(5 * time.Second):
		t.Fatal("reference data was not reloaded")
	}
}

func TestStoreWatchKeepsLastGoodData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refdata.yaml")
	require.NoError(t, os.WriteFile(path, defaultsYAML, 0o600))

	store := NewStore(Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failed := make(chan error, 16)
	reloaded := make(chan *Data, 16)
	require.NoError(t, store.Watch(ctx, path, WatchHooks{
		OnReload: func(d *Data) { reloaded <- d },
		OnError:  func(err error) { failed <- err },
	}))

	// A partially written file parses but lacks most categories.
	partial := "version: 100\ncategories:\n  trail: {travel_mm: 140, stroke_mm: 50, base_rear_bias_pct: 63, base_sag_pct: 30, leverage_ratio_start: 2.8}\nskills:\n  beginner: {bias_pct: 30, sag_pct: -15}\n"
	require.NoError(t, os.WriteFile(path, []byte(partial), 0o600))

	select {
	case err := <-failed:
		require.ErrorIs(t, err, errs.ErrInvalidReferenceData)
	case d := <-reloaded:
		t.Fatalf("incomplete reference data v%d was accepted", d.Version)
	case <-time.After(5 * time.Second):
		t.Fatal("reload error was not reported")
	}
	require.Same(t, Default(), store.Load())

	_, err := store.Load().Category(format.CategoryEnduro)
	require.NoError(t, err)
	require.Len(t, store.Load().Families(), 3)
}

func TestStoreReplaceIgnoresNil(t *testing.T) {
	store := NewStore(nil)
	store.Replace(nil)
	require.NotNil(t, store.Load())
}
