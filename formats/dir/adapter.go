package dir

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hartufo/hartufo/hrir"
	"github.com/hartufo/hartufo/utils"
)

// Adapter reads directory-per-subject measurement layouts.
type Adapter struct {
	root     string
	decoders map[string]decoder
}

// New creates an adapter over a root directory of subject directories.
func New(root string) (*Adapter, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: dataset root %q: %w", hrir.ErrBadFormat, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: dataset root %q is not a directory", hrir.ErrBadFormat, root)
	}
	return &Adapter{root: root, decoders: newDecoderTable()}, nil
}

func (a *Adapter) Format() string { return "dir" }

// parseName parses a file stem of the form
// azi<az>_ele<el>[_dist<d>][_<side>]. hasSide reports whether the name
// names a single ear; otherwise the file carries both ears as channels.
func parseName(stem string) (pos hrir.Position, side hrir.Side, hasSide bool, err error) {
	parts := strings.Split(stem, "_")
	if len(parts) < 2 {
		return pos, side, false, fmt.Errorf("%w: %q", ErrBadName, stem)
	}

	angle := func(part, prefix string) (float64, error) {
		if !strings.HasPrefix(part, prefix) {
			return 0, fmt.Errorf("%w: %q (expected %s<number>)", ErrBadName, stem, prefix)
		}
		v, err := strconv.ParseFloat(part[len(prefix):], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %w", ErrBadName, stem, err)
		}
		return v, nil
	}

	az, err := angle(parts[0], "azi")
	if err != nil {
		return pos, side, false, err
	}
	el, err := angle(parts[1], "ele")
	if err != nil {
		return pos, side, false, err
	}
	pos = hrir.Position{Azimuth: utils.WrapDegrees(az), Elevation: el}

	rest := parts[2:]
	if len(rest) > 0 && strings.HasPrefix(rest[0], "dist") {
		d, err := angle(rest[0], "dist")
		if err != nil {
			return pos, side, false, err
		}
		pos.Distance = d
		rest = rest[1:]
	}

	switch len(rest) {
	case 0:
		return pos, side, false, nil
	case 1:
		side, err = hrir.ParseSide(rest[0])
		if err != nil {
			return pos, side, false, fmt.Errorf("%w: %q", ErrBadName, stem)
		}
		return pos, side, true, nil
	}
	return pos, side, false, fmt.Errorf("%w: %q", ErrBadName, stem)
}

// Enumerate walks subject directories in lexical order and lists one
// entry per ear and position. Files with unsupported extensions are
// ignored; supported files with malformed names fail the enumeration.
func (a *Adapter) Enumerate() ([]hrir.Entry, error) {
	subjects, err := os.ReadDir(a.root)
	if err != nil {
		return nil, fmt.Errorf("%w: scanning %q: %w", hrir.ErrBadFormat, a.root, err)
	}

	var entries []hrir.Entry
	for _, subjectDir := range subjects {
		if !subjectDir.IsDir() {
			continue
		}
		subject := subjectDir.Name()

		files, err := os.ReadDir(filepath.Join(a.root, subject))
		if err != nil {
			return nil, fmt.Errorf("%w: scanning subject %q: %w", hrir.ErrBadFormat, subject, err)
		}

		for _, file := range files {
			if file.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(file.Name()))
			if _, ok := a.decoders[ext]; !ok {
				continue
			}

			stem := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))
			pos, side, hasSide, err := parseName(stem)
			if err != nil {
				return nil, fmt.Errorf("%w: subject %q: %w", hrir.ErrBadFormat, subject, err)
			}

			path := filepath.Join(a.root, subject, file.Name())
			if hasSide {
				entries = append(entries, hrir.Entry{
					Key: hrir.Key{Subject: subject, Side: side, Position: pos},
					Loc: hrir.Locator{Path: path, Channel: 0},
				})
				continue
			}
			for _, s := range []hrir.Side{hrir.SideLeft, hrir.SideRight} {
				entries = append(entries, hrir.Entry{
					Key: hrir.Key{Subject: subject, Side: s, Position: pos},
					Loc: hrir.Locator{Path: path, Channel: int(s)},
				})
			}
		}
	}
	return entries, nil
}

// Read decodes one measurement file and extracts the locator's channel.
// Each call opens its own handle; concurrent reads are independent.
func (a *Adapter) Read(loc hrir.Locator) (*hrir.Record, error) {
	ext := strings.ToLower(filepath.Ext(loc.Path))
	dec, ok := a.decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: locator %s has unsupported extension (format dir)", hrir.ErrBadFormat, loc)
	}

	f, err := os.Open(loc.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: locator %s no longer resolves: %w", hrir.ErrUnknownKey, loc, err)
		}
		return nil, fmt.Errorf("%w: opening %s: %w", hrir.ErrBadFormat, loc, err)
	}
	defer f.Close()

	out, err := dec.decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", hrir.ErrBadFormat, loc, err)
	}

	stem := strings.TrimSuffix(filepath.Base(loc.Path), filepath.Ext(loc.Path))
	pos, side, hasSide, err := parseName(stem)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", hrir.ErrBadFormat, err)
	}
	if !hasSide {
		if len(out.channels) < 2 {
			return nil, fmt.Errorf("%w: %w: %s has %d channel(s)",
				hrir.ErrBadFormat, ErrMissingStereo, loc, len(out.channels))
		}
		side = hrir.Side(loc.Channel)
	}
	if loc.Channel >= len(out.channels) {
		return nil, fmt.Errorf("%w: locator %s wants channel %d of %d (format dir)",
			hrir.ErrBadFormat, loc, loc.Channel, len(out.channels))
	}

	return &hrir.Record{
		Subject:    filepath.Base(filepath.Dir(loc.Path)),
		Side:       side,
		Position:   pos,
		SampleRate: out.rate,
		Domain:     hrir.DomainTime,
		Samples:    out.channels[loc.Channel],
	}, nil
}
