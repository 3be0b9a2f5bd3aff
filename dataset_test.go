package hartufo_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/hartufo/hartufo"
	"github.com/hartufo/hartufo/hrir"
	"github.com/hartufo/hartufo/internal/hrirtest"
)

// oneEared drops the right ear of one position, for pairing tests.
type oneEared struct {
	*hrirtest.MockAdapter
}

func (a oneEared) Enumerate() ([]hrir.Entry, error) {
	entries, err := a.MockAdapter.Enumerate()
	if err != nil {
		return nil, err
	}
	var out []hrir.Entry
	for _, e := range entries {
		if e.Key.Subject == "alpha" && e.Key.Position.Azimuth == 45 && e.Key.Side == hrir.SideRight {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func TestLoad_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := hartufo.Load("flac", t.TempDir(), hartufo.Config{})
	if !errors.Is(err, hrir.ErrBadConfig) {
		t.Errorf("Load() error = %v, want hrir.ErrBadConfig", err)
	}
}

func TestLoad_EmptyRoot(t *testing.T) {
	t.Parallel()

	// An existing but empty directory must fail at construction, not
	// at first Get.
	_, err := hartufo.Load(hartufo.KindSOFA, t.TempDir(), hartufo.Config{})
	if !errors.Is(err, hrir.ErrBadConfig) {
		t.Errorf("Load() error = %v, want hrir.ErrBadConfig", err)
	}
}

func TestNew_ConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  hartufo.Config
	}{
		{name: "negative rate", cfg: hartufo.Config{SampleRate: -1}},
		{name: "unknown domain", cfg: hartufo.Config{Domain: hrir.Domain(9)}},
		{name: "negative cache", cfg: hartufo.Config{CacheSize: -4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := hartufo.New(hrirtest.New(48000), tt.cfg)
			if !errors.Is(err, hrir.ErrBadConfig) {
				t.Errorf("New() error = %v, want hrir.ErrBadConfig", err)
			}
		})
	}
}

func TestDataset_TargetRate(t *testing.T) {
	t.Parallel()

	// Two subjects, two ears, three positions: twelve measurements at
	// 48000 Hz, served at 44100 Hz.
	adapter := hrirtest.New(48000)
	ds, err := hartufo.New(adapter, hartufo.Config{SampleRate: 44100})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if ds.Len() != 12 {
		t.Fatalf("Len() = %d, want 12", ds.Len())
	}

	wantLen := adapter.Length * 44100 / 48000
	for _, key := range ds.Keys() {
		rec, err := ds.Get(key)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", key, err)
		}
		if rec.SampleRate != 44100 {
			t.Errorf("Get(%s) rate = %d, want 44100", key, rec.SampleRate)
		}
		if diff := len(rec.Samples) - wantLen; diff < -1 || diff > 1 {
			t.Errorf("Get(%s) length = %d, want %d within 1", key, len(rec.Samples), wantLen)
		}
	}
}

func TestDataset_NativeRateWhenUnset(t *testing.T) {
	t.Parallel()

	adapter := hrirtest.New(48000)
	ds, err := hartufo.New(adapter, hartufo.Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rec, err := ds.Get(ds.Keys()[0])
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if rec.SampleRate != 48000 {
		t.Errorf("rate = %d, want native 48000", rec.SampleRate)
	}
	if len(rec.Samples) != adapter.Length {
		t.Errorf("length = %d, want %d", len(rec.Samples), adapter.Length)
	}
}

func TestDataset_UnknownKey(t *testing.T) {
	t.Parallel()

	ds, err := hartufo.New(hrirtest.New(48000), hartufo.Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = ds.Get(hrir.Key{Subject: "nobody"})
	if !errors.Is(err, hrir.ErrUnknownKey) {
		t.Fatalf("Get() error = %v, want hrir.ErrUnknownKey", err)
	}

	// The dataset stays usable after a failed lookup.
	if _, err := ds.Get(ds.Keys()[0]); err != nil {
		t.Errorf("Get() after failed lookup error = %v", err)
	}
}

func TestDataset_Domains(t *testing.T) {
	t.Parallel()

	adapter := hrirtest.New(48000) // Length 256, a power of two
	bins := adapter.Length/2 + 1

	tests := []struct {
		name    string
		domain  hrir.Domain
		wantLen int
	}{
		{name: "time", domain: hrir.DomainTime, wantLen: adapter.Length},
		{name: "magnitude", domain: hrir.DomainMagnitude, wantLen: bins},
		{name: "complex", domain: hrir.DomainComplex, wantLen: 2 * bins},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ds, err := hartufo.New(adapter, hartufo.Config{Domain: tt.domain})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			rec, err := ds.Get(ds.Keys()[0])
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if rec.Domain != tt.domain {
				t.Errorf("Domain = %v, want %v", rec.Domain, tt.domain)
			}
			if len(rec.Samples) != tt.wantLen {
				t.Errorf("length = %d, want %d", len(rec.Samples), tt.wantLen)
			}
		})
	}
}

func TestDataset_SubjectFilters(t *testing.T) {
	t.Parallel()

	ds, err := hartufo.New(hrirtest.New(48000), hartufo.Config{Subjects: []string{"alpha"}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if ds.Len() != 6 {
		t.Errorf("Len() = %d, want 6", ds.Len())
	}
	for _, key := range ds.Keys() {
		if key.Subject != "alpha" {
			t.Fatalf("kept subject %q", key.Subject)
		}
	}

	_, err = hartufo.New(hrirtest.New(48000), hartufo.Config{
		ExcludeSubjects: []string{"alpha", "beta"},
	})
	if !errors.Is(err, hrir.ErrBadConfig) {
		t.Errorf("excluding every subject: error = %v, want hrir.ErrBadConfig", err)
	}
}

func TestDataset_SideFilters(t *testing.T) {
	t.Parallel()

	t.Run("left only", func(t *testing.T) {
		t.Parallel()

		ds, err := hartufo.New(hrirtest.New(48000), hartufo.Config{Side: hartufo.SideLeft})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if ds.Len() != 6 {
			t.Errorf("Len() = %d, want 6", ds.Len())
		}
		for _, key := range ds.Keys() {
			if key.Side != hrir.SideLeft {
				t.Fatalf("kept side %v", key.Side)
			}
		}
	})

	t.Run("both drops unpaired positions", func(t *testing.T) {
		t.Parallel()

		adapter := oneEared{hrirtest.New(48000)}
		ds, err := hartufo.New(adapter, hartufo.Config{Side: hartufo.SideBoth})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		// Eleven measured, minus the orphaned left ear at azimuth 45.
		if ds.Len() != 10 {
			t.Errorf("Len() = %d, want 10", ds.Len())
		}
		for _, key := range ds.Keys() {
			if key.Subject == "alpha" && key.Position.Azimuth == 45 {
				t.Fatalf("kept unpaired position %s", key)
			}
		}
	})

	t.Run("any keeps unpaired positions", func(t *testing.T) {
		t.Parallel()

		adapter := oneEared{hrirtest.New(48000)}
		ds, err := hartufo.New(adapter, hartufo.Config{Side: hartufo.SideAny})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if ds.Len() != 11 {
			t.Errorf("Len() = %d, want 11", ds.Len())
		}
	})
}

func TestDataset_PositionFilter(t *testing.T) {
	t.Parallel()

	ds, err := hartufo.New(hrirtest.New(48000), hartufo.Config{
		Position: func(p hrir.Position) bool { return p.Azimuth >= 0 },
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if ds.Len() != 8 {
		t.Errorf("Len() = %d, want 8", ds.Len())
	}
}

func TestDataset_Subset(t *testing.T) {
	t.Parallel()

	adapter := hrirtest.New(48000)
	ds, err := hartufo.New(adapter, hartufo.Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sub, err := ds.Subset(func(k hrir.Key) bool { return k.Side == hrir.SideRight })
	if err != nil {
		t.Fatalf("Subset() error = %v", err)
	}

	if sub.Len() > ds.Len() {
		t.Errorf("subset grew: %d > %d", sub.Len(), ds.Len())
	}
	if sub.Len() != 6 {
		t.Errorf("subset Len() = %d, want 6", sub.Len())
	}
	for _, key := range sub.Keys() {
		if key.Side != hrir.SideRight {
			t.Fatalf("subset kept %s", key)
		}
	}

	// Deriving a subset never rescans the dataset root.
	if scans := adapter.Scans.Load(); scans != 1 {
		t.Errorf("adapter scanned %d times, want 1", scans)
	}

	if _, err := ds.Subset(func(hrir.Key) bool { return false }); !errors.Is(err, hrir.ErrBadConfig) {
		t.Errorf("empty subset error = %v, want hrir.ErrBadConfig", err)
	}
}

func TestDataset_AllRestartable(t *testing.T) {
	t.Parallel()

	ds, err := hartufo.New(hrirtest.New(48000), hartufo.Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	pass := func() []hrir.Key {
		var keys []hrir.Key
		for rec, err := range ds.All() {
			if err != nil {
				t.Fatalf("All() yielded error %v", err)
			}
			keys = append(keys, hrir.Key{Subject: rec.Subject, Side: rec.Side, Position: rec.Position})
		}
		return keys
	}

	first, second := pass(), pass()
	if len(first) != ds.Len() || len(second) != ds.Len() {
		t.Fatalf("iterations visited %d and %d records, want %d", len(first), len(second), ds.Len())
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("iteration order diverged at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestDataset_Cache(t *testing.T) {
	t.Parallel()

	adapter := hrirtest.New(48000)
	ds, err := hartufo.New(adapter, hartufo.Config{CacheSize: 16})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	key := ds.Keys()[0]
	first, err := ds.Get(key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	reads := adapter.Reads.Load()

	second, err := ds.Get(key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if adapter.Reads.Load() != reads {
		t.Errorf("cached Get() hit the adapter")
	}

	// Served records are caller-owned copies.
	second.Samples[0] = 42
	third, err := ds.Get(key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if third.Samples[0] == 42 {
		t.Error("mutating a served record leaked into the cache")
	}
	if first.Samples[0] == 42 {
		t.Error("mutating a served record leaked into another")
	}
}

func TestDataset_ConcurrentGet(t *testing.T) {
	t.Parallel()

	ds, err := hartufo.New(hrirtest.New(48000), hartufo.Config{SampleRate: 44100})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, ds.Len())
	for _, key := range ds.Keys() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := ds.Get(key)
			if err != nil {
				errs <- err
				return
			}
			if rec.SampleRate != 44100 {
				errs <- errors.New("wrong rate from concurrent Get")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func BenchmarkDataset_Get(b *testing.B) {
	ds, err := hartufo.New(hrirtest.New(48000), hartufo.Config{SampleRate: 44100})
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}
	keys := ds.Keys()

	b.ResetTimer()
	b.ReportAllocs()

	i := 0
	for b.Loop() {
		if _, err := ds.Get(keys[i%len(keys)]); err != nil {
			b.Fatal(err)
		}
		i++
	}
}

func BenchmarkDataset_GetCached(b *testing.B) {
	ds, err := hartufo.New(hrirtest.New(48000), hartufo.Config{SampleRate: 44100, CacheSize: 16})
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}
	key := ds.Keys()[0]
	if _, err := ds.Get(key); err != nil {
		b.Fatalf("warm Get() error = %v", err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		if _, err := ds.Get(key); err != nil {
			b.Fatal(err)
		}
	}
}
