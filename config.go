// SPDX-License-Identifier: EPL-2.0

package hartufo

import (
	"fmt"
	"slices"

	"github.com/hartufo/hartufo/hrir"
)

// SideFilter selects which ears a dataset serves.
type SideFilter uint8

const (
	// SideAny keeps every measured ear.
	SideAny SideFilter = iota
	// SideBoth keeps only positions measured for both ears.
	SideBoth
	// SideLeft keeps left-ear measurements.
	SideLeft
	// SideRight keeps right-ear measurements.
	SideRight
)

func (s SideFilter) String() string {
	switch s {
	case SideAny:
		return "any"
	case SideBoth:
		return "both"
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	}
	return fmt.Sprintf("side-filter(%d)", uint8(s))
}

// Filter keeps the keys it returns true for.
type Filter func(hrir.Key) bool

// Config controls how a Dataset serves records. The zero value serves
// every measurement in its native samplerate and time domain, uncached.
// A Dataset copies its Config at construction; later changes to the
// caller's value have no effect.
type Config struct {
	// SampleRate is the target samplerate. 0 keeps each record's
	// native rate.
	SampleRate int
	// Quality selects the resampler preset.
	Quality hrir.Quality
	// Domain selects the representation records are served in.
	Domain hrir.Domain

	// Subjects keeps only the listed subjects when non-empty.
	// ExcludeSubjects drops subjects and applies after Subjects.
	Subjects        []string
	ExcludeSubjects []string
	// Side selects ears.
	Side SideFilter
	// Position keeps only positions it returns true for, when set.
	Position func(hrir.Position) bool

	// CacheSize bounds the record cache. 0 disables caching.
	CacheSize int
}

func (c Config) validate() error {
	if c.SampleRate < 0 {
		return fmt.Errorf("%w: negative target samplerate %d", hrir.ErrBadConfig, c.SampleRate)
	}
	switch c.Domain {
	case hrir.DomainTime, hrir.DomainMagnitude, hrir.DomainComplex:
	default:
		return fmt.Errorf("%w: unknown domain %v", hrir.ErrBadConfig, c.Domain)
	}
	if c.Side > SideRight {
		return fmt.Errorf("%w: unknown side filter %v", hrir.ErrBadConfig, c.Side)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: negative cache size %d", hrir.ErrBadConfig, c.CacheSize)
	}
	return nil
}

// keep is the key predicate induced by the subject, side and position
// fields. The SideBoth pairing constraint is applied separately.
func (c Config) keep(key hrir.Key) bool {
	if len(c.Subjects) > 0 && !slices.Contains(c.Subjects, key.Subject) {
		return false
	}
	if slices.Contains(c.ExcludeSubjects, key.Subject) {
		return false
	}
	switch c.Side {
	case SideLeft:
		if key.Side != hrir.SideLeft {
			return false
		}
	case SideRight:
		if key.Side != hrir.SideRight {
			return false
		}
	}
	if c.Position != nil && !c.Position(key.Position) {
		return false
	}
	return true
}

// filterIndex applies the Config's filters to a freshly built index.
func (c Config) filterIndex(idx *hrir.Index) *hrir.Index {
	idx = idx.Filter(c.keep)

	if c.Side != SideBoth {
		return idx
	}

	// Keep only (subject, position) pairs measured for both ears.
	type pairing struct {
		subject  string
		position hrir.Position
	}
	ears := make(map[pairing]uint8)
	for _, key := range idx.Keys() {
		ears[pairing{key.Subject, key.Position}] |= 1 << key.Side
	}
	return idx.Filter(func(key hrir.Key) bool {
		return ears[pairing{key.Subject, key.Position}] == 0b11
	})
}
