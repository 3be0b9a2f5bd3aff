package hrir

import (
	"fmt"
	"math"
)

// mockAdapter is a test helper that serves synthetic measurements.
// It implements the Adapter interface without touching the filesystem.
type mockAdapter struct {
	subjects  []string
	sides     []Side
	positions []Position
	rate      int
	length    int
	waveform  func(key Key, i int) float64

	enumerateErr error
	readErr      error
}

// newMockAdapter creates a mock adapter over the cartesian product of
// subjects, sides and positions. The default waveform is a sine whose
// frequency depends on the subject index, so records differ per key.
func newMockAdapter(subjects []string, sides []Side, positions []Position, rate, length int) *mockAdapter {
	m := &mockAdapter{
		subjects:  subjects,
		sides:     sides,
		positions: positions,
		rate:      rate,
		length:    length,
	}
	m.waveform = func(key Key, i int) float64 {
		freq := 440.0
		for s, subject := range m.subjects {
			if subject == key.Subject {
				freq += 100 * float64(s)
			}
		}
		t := float64(i) / float64(m.rate)
		return math.Sin(2 * math.Pi * freq * t)
	}
	return m
}

func (m *mockAdapter) Format() string { return "mock" }

func (m *mockAdapter) Enumerate() ([]Entry, error) {
	if m.enumerateErr != nil {
		return nil, m.enumerateErr
	}

	var entries []Entry
	for si, subject := range m.subjects {
		for _, side := range m.sides {
			for pi, pos := range m.positions {
				entries = append(entries, Entry{
					Key: Key{Subject: subject, Side: side, Position: pos},
					Loc: Locator{
						Path:    fmt.Sprintf("mock://%s", subject),
						Row:     pi,
						Channel: int(side),
						Name:    fmt.Sprintf("ir_%d", si),
					},
				})
			}
		}
	}
	return entries, nil
}

func (m *mockAdapter) Read(loc Locator) (*Record, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}

	entries, err := m.Enumerate()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Loc == loc {
			samples := make([]float64, m.length)
			for i := range samples {
				samples[i] = m.waveform(e.Key, i)
			}
			return &Record{
				Subject:    e.Key.Subject,
				Side:       e.Key.Side,
				Position:   e.Key.Position,
				SampleRate: m.rate,
				Domain:     DomainTime,
				Samples:    samples,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: locator %s does not resolve", ErrUnknownKey, loc)
}
