// SPDX-License-Identifier: EPL-2.0

// Package hrirtest provides an in-memory dataset adapter for tests.
package hrirtest

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"

	"github.com/hartufo/hartufo/hrir"
)

// MockAdapter serves synthetic impulse responses without touching the
// filesystem. Each subject gets a sine of its own frequency so reads
// are distinguishable.
type MockAdapter struct {
	Subjects  []string
	Positions []hrir.Position
	Rate      int
	Length    int

	// Waveform overrides the default per-subject sine when set.
	Waveform func(key hrir.Key, n int) float64

	// EnumerateErr and ReadErr force failures when set.
	EnumerateErr error
	ReadErr      error

	// Scans and Reads count calls, for assertions about rescanning.
	Scans atomic.Int64
	Reads atomic.Int64
}

// New returns a mock with two subjects, three positions and short
// responses at the given rate.
func New(rate int) *MockAdapter {
	return &MockAdapter{
		Subjects: []string{"alpha", "beta"},
		Positions: []hrir.Position{
			{Azimuth: 0, Elevation: 0, Distance: 1},
			{Azimuth: 45, Elevation: 0, Distance: 1},
			{Azimuth: -90, Elevation: 30, Distance: 1},
		},
		Rate:   rate,
		Length: 256,
	}
}

func (m *MockAdapter) Format() string { return "mock" }

func (m *MockAdapter) Enumerate() ([]hrir.Entry, error) {
	m.Scans.Add(1)
	if m.EnumerateErr != nil {
		return nil, m.EnumerateErr
	}

	var entries []hrir.Entry
	for si, subject := range m.Subjects {
		for pi, pos := range m.Positions {
			for _, side := range []hrir.Side{hrir.SideLeft, hrir.SideRight} {
				entries = append(entries, hrir.Entry{
					Key: hrir.Key{Subject: subject, Side: side, Position: pos},
					Loc: hrir.Locator{
						Path:    "mock://" + subject,
						Name:    fmt.Sprintf("ir_%d", si),
						Row:     pi,
						Channel: int(side),
					},
				})
			}
		}
	}
	return entries, nil
}

func (m *MockAdapter) Read(loc hrir.Locator) (*hrir.Record, error) {
	m.Reads.Add(1)
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	subject := strings.TrimPrefix(loc.Path, "mock://")
	found := false
	for _, s := range m.Subjects {
		if s == subject {
			found = true
			break
		}
	}
	if !found || loc.Row < 0 || loc.Row >= len(m.Positions) {
		return nil, fmt.Errorf("%w: locator %s", hrir.ErrUnknownKey, loc)
	}

	key := hrir.Key{
		Subject:  subject,
		Side:     hrir.Side(loc.Channel),
		Position: m.Positions[loc.Row],
	}
	samples := make([]float64, m.Length)
	for n := range samples {
		if m.Waveform != nil {
			samples[n] = m.Waveform(key, n)
			continue
		}
		freq := 220.0 * float64(len(subject)+loc.Row+1)
		samples[n] = 0.5 * math.Sin(2*math.Pi*freq*float64(n)/float64(m.Rate))
	}

	return &hrir.Record{
		Subject:    subject,
		Side:       key.Side,
		Position:   key.Position,
		SampleRate: m.Rate,
		Domain:     hrir.DomainTime,
		Samples:    samples,
	}, nil
}
