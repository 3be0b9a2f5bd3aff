// SPDX-License-Identifier: EPL-2.0

package hrir

import (
	"fmt"
	"sync"
)

// Side identifies which ear a measurement belongs to.
type Side uint8

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	}
	return fmt.Sprintf("side(%d)", uint8(s))
}

// ParseSide parses "left" or "right".
func ParseSide(name string) (Side, error) {
	switch name {
	case "left":
		return SideLeft, nil
	case "right":
		return SideRight, nil
	}
	return 0, fmt.Errorf("%w: unknown side %q", ErrBadFormat, name)
}

// Position is a spatial measurement position in spherical coordinates:
// azimuth in degrees counter-clockwise in [-180, 180), elevation in degrees
// in [-90, 90], distance in metres (0 when the collection does not declare one).
type Position struct {
	Azimuth   float64
	Elevation float64
	Distance  float64
}

func (p Position) String() string {
	if p.Distance == 0 {
		return fmt.Sprintf("az %.1f el %.1f", p.Azimuth, p.Elevation)
	}
	return fmt.Sprintf("az %.1f el %.1f dist %.2fm", p.Azimuth, p.Elevation, p.Distance)
}

// Key uniquely identifies one measurement within a dataset.
type Key struct {
	Subject  string
	Side     Side
	Position Position
}

func (k Key) String() string {
	return fmt.Sprintf("subject %s %s (%s)", k.Subject, k.Side, k.Position)
}

// Domain describes the representation of a record's sample vector.
type Domain uint8

const (
	// DomainTime is the impulse response as stored.
	DomainTime Domain = iota
	// DomainMagnitude is the magnitude spectrum, N/2+1 bins of a
	// power-of-two FFT.
	DomainMagnitude
	// DomainComplex is the complex spectrum with real and imaginary
	// parts interleaved, 2*(N/2+1) values.
	DomainComplex
)

func (d Domain) String() string {
	switch d {
	case DomainTime:
		return "time"
	case DomainMagnitude:
		return "magnitude"
	case DomainComplex:
		return "complex"
	}
	return fmt.Sprintf("domain(%d)", uint8(d))
}

// Record is one HRTF measurement read from storage. Records are produced
// per access and owned by the caller; the library never mutates a record
// after returning it.
type Record struct {
	Subject    string
	Side       Side
	Position   Position
	SampleRate int
	Domain     Domain
	Samples    []float64
}

// Locator resolves a measurement inside its storage. Path is the file on
// disk; Name is the variable or member inside a container, if any; Row and
// Channel select the measurement row and receiver channel within it. The
// meaning of Row and Channel is adapter-specific.
type Locator struct {
	Path    string
	Name    string
	Row     int
	Channel int
}

func (l Locator) String() string {
	if l.Name == "" {
		return fmt.Sprintf("%s [%d:%d]", l.Path, l.Row, l.Channel)
	}
	return fmt.Sprintf("%s:%s [%d:%d]", l.Path, l.Name, l.Row, l.Channel)
}

// Entry pairs a measurement key with the locator that resolves it.
type Entry struct {
	Key Key
	Loc Locator
}

// Adapter reads one on-disk dataset encoding into the common Record shape.
// Enumerate must be deterministic given identical on-disk content. Read
// must be safe to call concurrently; adapters that cannot share a handle
// open their own per call.
type Adapter interface {
	// Format names the encoding, used in error messages.
	Format() string
	// Enumerate lists every measurement and its locator.
	Enumerate() ([]Entry, error)
	// Read loads a single measurement in its native samplerate and domain.
	Read(loc Locator) (*Record, error)
}

// AdapterFactory constructs an Adapter for a dataset root.
type AdapterFactory func(root string) (Adapter, error)

// Registry maps dataset kind discriminants (e.g. "sofa", "mat", "dir") to
// adapter factories. Adapters are always selected by declared kind, never
// by sniffing file content.
type Registry struct {
	factories map[string]AdapterFactory

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]AdapterFactory),
		mtx:       &sync.Mutex{},
	}
}

func (r *Registry) Register(kind string, f AdapterFactory) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.factories[kind] = f
}

func (r *Registry) Get(kind string) (AdapterFactory, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	f, ok := r.factories[kind]
	return f, ok
}

// New constructs an adapter for the given kind and dataset root.
func (r *Registry) New(kind, root string) (Adapter, error) {
	f, ok := r.Get(kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown dataset kind %q", ErrBadConfig, kind)
	}
	return f(root)
}
