package mat

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hartufo/hartufo/hrir"
)

// NativeRate is the sampling rate of the CIPIC measurement archives.
const NativeRate = 44100

// gridAzimuths is the interaural-polar azimuth grid, lateral angles in
// degrees from the right hemisphere to the left.
var gridAzimuths = []float64{
	-80, -65, -55, -45, -40, -35, -30, -25, -20, -15, -10, -5,
	0, 5, 10, 15, 20, 25, 30, 35, 40, 45, 55, 65, 80,
}

// gridElevations runs from -45 degrees in steps of 5.625 up over the head
// and behind it.
var gridElevations = func() []float64 {
	out := make([]float64, 50)
	for i := range out {
		out[i] = -45 + 5.625*float64(i)
	}
	return out
}()

var sideVars = map[hrir.Side]string{
	hrir.SideLeft:  "hrir_l",
	hrir.SideRight: "hrir_r",
}

// Adapter reads directory trees of one MATLAB archive per subject.
type Adapter struct {
	root string
}

// New creates an adapter over a directory of subject_*.mat archives.
func New(root string) (*Adapter, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: dataset root %q: %w", hrir.ErrBadFormat, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: dataset root %q is not a directory", hrir.ErrBadFormat, root)
	}
	return &Adapter{root: root}, nil
}

func (a *Adapter) Format() string { return "mat" }

// subjectID derives the subject identifier from an archive filename,
// e.g. "subject_003.mat" -> "003".
func subjectID(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimPrefix(stem, "subject_")
}

func (a *Adapter) archives() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(a.root, "*.mat"))
	if err != nil {
		return nil, fmt.Errorf("%w: scanning %q: %w", hrir.ErrBadFormat, a.root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Enumerate parses every archive and lists one entry per grid position
// and ear. Archives whose response arrays do not match the expected grid
// fail the whole enumeration.
func (a *Adapter) Enumerate() ([]hrir.Entry, error) {
	paths, err := a.archives()
	if err != nil {
		return nil, err
	}

	var entries []hrir.Entry
	for _, path := range paths {
		file, err := a.parse(path)
		if err != nil {
			return nil, err
		}

		subject := subjectID(path)
		found := false
		for _, side := range []hrir.Side{hrir.SideLeft, hrir.SideRight} {
			v, ok := file.Vars[sideVars[side]]
			if !ok {
				continue
			}
			found = true
			if err := checkGrid(path, v); err != nil {
				return nil, err
			}
			for ai, az := range gridAzimuths {
				for ei, el := range gridElevations {
					entries = append(entries, hrir.Entry{
						Key: hrir.Key{
							Subject:  subject,
							Side:     side,
							Position: hrir.Position{Azimuth: az, Elevation: el},
						},
						Loc: hrir.Locator{
							Path:    path,
							Name:    sideVars[side],
							Row:     ai,
							Channel: ei,
						},
					})
				}
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %w in %s", hrir.ErrBadFormat, ErrNoResponseArrays, path)
		}
	}
	return entries, nil
}

func checkGrid(path string, v *matVar) error {
	if len(v.Dims) != 3 || v.Dims[0] != len(gridAzimuths) || v.Dims[1] != len(gridElevations) {
		return fmt.Errorf("%w: %w: %s/%s has dims %v, want [%d %d N]",
			hrir.ErrBadFormat, ErrUnexpectedGrid, path, v.Name, v.Dims,
			len(gridAzimuths), len(gridElevations))
	}
	return nil
}

func (a *Adapter) parse(path string) (*matFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", hrir.ErrBadFormat, path, err)
	}
	file, err := parseMat(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", hrir.ErrBadFormat, path, err)
	}
	return file, nil
}

// Read loads one impulse response. The locator's Row and Channel index
// the azimuth and elevation grid. Each call parses its own copy of the
// archive, so concurrent reads never share state.
func (a *Adapter) Read(loc hrir.Locator) (*hrir.Record, error) {
	if _, err := os.Stat(loc.Path); err != nil {
		return nil, fmt.Errorf("%w: locator %s no longer resolves: %w", hrir.ErrUnknownKey, loc, err)
	}

	file, err := a.parse(loc.Path)
	if err != nil {
		return nil, err
	}

	v, ok := file.Vars[loc.Name]
	if !ok {
		return nil, fmt.Errorf("%w: locator %s: array missing (format mat)", hrir.ErrUnknownKey, loc)
	}
	if err := checkGrid(loc.Path, v); err != nil {
		return nil, err
	}
	if loc.Row < 0 || loc.Row >= v.Dims[0] || loc.Channel < 0 || loc.Channel >= v.Dims[1] {
		return nil, fmt.Errorf("%w: locator %s outside grid %v (format mat)", hrir.ErrUnknownKey, loc, v.Dims)
	}

	var side hrir.Side
	switch loc.Name {
	case sideVars[hrir.SideLeft]:
		side = hrir.SideLeft
	case sideVars[hrir.SideRight]:
		side = hrir.SideRight
	default:
		return nil, fmt.Errorf("%w: locator %s names no response array (format mat)", hrir.ErrUnknownKey, loc)
	}

	// Column-major layout: value(a, e, n) = data[a + A*e + A*E*n].
	nAz, nEl, nSamp := v.Dims[0], v.Dims[1], v.Dims[2]
	samples := make([]float64, nSamp)
	base := loc.Row + nAz*loc.Channel
	for n := range samples {
		samples[n] = v.Data[base+nAz*nEl*n]
	}

	rate := NativeRate
	if fs, ok := file.Vars["fs"]; ok && len(fs.Data) > 0 && fs.Data[0] > 0 {
		rate = int(fs.Data[0])
	}

	return &hrir.Record{
		Subject:    subjectID(loc.Path),
		Side:       side,
		Position:   hrir.Position{Azimuth: gridAzimuths[loc.Row], Elevation: gridElevations[loc.Channel]},
		SampleRate: rate,
		Domain:     hrir.DomainTime,
		Samples:    samples,
	}, nil
}
