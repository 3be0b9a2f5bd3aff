// SPDX-License-Identifier: EPL-2.0

package hartufo

import (
	"fmt"
	"iter"

	"github.com/hartufo/hartufo/hrir"
)

// Dataset serves the measurements of one dataset root through a fixed
// Config. It is safe for concurrent use.
type Dataset struct {
	adapter hrir.Adapter
	cfg     Config
	index   *hrir.Index
	cache   *recordCache
}

// New builds a Dataset over an already-constructed adapter. The dataset
// root is scanned once; a scan that yields no measurements after the
// Config's filters fails with ErrBadConfig.
func New(adapter hrir.Adapter, cfg Config) (*Dataset, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	idx, err := hrir.BuildIndex(adapter)
	if err != nil {
		return nil, fmt.Errorf("scanning %s dataset: %w", adapter.Format(), err)
	}
	idx = cfg.filterIndex(idx)
	if idx.Len() == 0 {
		return nil, fmt.Errorf("%w: %s dataset is empty after filtering", hrir.ErrBadConfig, adapter.Format())
	}

	return &Dataset{
		adapter: adapter,
		cfg:     cfg,
		index:   idx,
		cache:   newRecordCache(cfg.CacheSize),
	}, nil
}

// Len reports the number of servable measurements.
func (d *Dataset) Len() int { return d.index.Len() }

// Keys lists every servable key in stable sorted order.
func (d *Dataset) Keys() []hrir.Key { return d.index.Keys() }

// Subjects lists the distinct subjects in sorted order.
func (d *Dataset) Subjects() []string { return d.index.Subjects() }

// Get serves one measurement, resampled to the configured rate and
// converted to the configured domain. The caller owns the returned
// record. A key outside the dataset fails with ErrUnknownKey and leaves
// the dataset usable.
func (d *Dataset) Get(key hrir.Key) (*hrir.Record, error) {
	loc, err := d.index.Locator(key)
	if err != nil {
		return nil, err
	}

	if rec, ok := d.cache.get(key); ok {
		return rec, nil
	}

	rec, err := d.adapter.Read(loc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	if d.cfg.SampleRate > 0 && rec.SampleRate != d.cfg.SampleRate {
		rec.Samples, err = hrir.Resample(rec.Samples, rec.SampleRate, d.cfg.SampleRate, d.cfg.Quality)
		if err != nil {
			return nil, fmt.Errorf("resampling %s: %w", key, err)
		}
		rec.SampleRate = d.cfg.SampleRate
	}

	switch d.cfg.Domain {
	case hrir.DomainMagnitude:
		rec.Samples, err = hrir.Magnitude(rec.Samples)
	case hrir.DomainComplex:
		rec.Samples, err = hrir.Spectrum(rec.Samples)
	}
	if err != nil {
		return nil, fmt.Errorf("converting %s to %v domain: %w", key, d.cfg.Domain, err)
	}
	rec.Domain = d.cfg.Domain

	d.cache.put(key, rec)
	return rec, nil
}

// All iterates every measurement in stable key order. The sequence is
// restartable: ranging over it again replays the same records. A read
// failure is yielded as a non-nil error with a nil record, after which
// iteration stops.
func (d *Dataset) All() iter.Seq2[*hrir.Record, error] {
	return func(yield func(*hrir.Record, error) bool) {
		for _, key := range d.index.Keys() {
			rec, err := d.Get(key)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Subset derives a Dataset serving only the keys the filter keeps. The
// adapter and configuration are shared; the dataset root is not
// rescanned. An empty result fails with ErrBadConfig.
func (d *Dataset) Subset(keep Filter) (*Dataset, error) {
	idx := d.index.Filter(func(key hrir.Key) bool { return keep(key) })
	if idx.Len() == 0 {
		return nil, fmt.Errorf("%w: subset filter keeps no measurements", hrir.ErrBadConfig)
	}

	return &Dataset{
		adapter: d.adapter,
		cfg:     d.cfg,
		index:   idx,
		cache:   newRecordCache(d.cfg.CacheSize),
	}, nil
}
