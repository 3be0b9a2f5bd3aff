package sofa

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/hartufo/hartufo/hrir"
	"github.com/hartufo/hartufo/utils"
)

const (
	irVar       = "Data.IR"
	rateVar     = "Data.SamplingRate"
	positionVar = "SourcePosition"
)

// Adapter reads SOFA containers, one per subject.
type Adapter struct {
	root string
}

// New creates an adapter over a single .sofa file or a directory of
// them.
func New(root string) (*Adapter, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("%w: dataset root %q: %w", hrir.ErrBadFormat, root, err)
	}
	return &Adapter{root: root}, nil
}

func (a *Adapter) Format() string { return "sofa" }

// containers lists the container paths in lexical order.
func (a *Adapter) containers() ([]string, error) {
	info, err := os.Stat(a.root)
	if err != nil {
		return nil, fmt.Errorf("%w: dataset root %q: %w", hrir.ErrBadFormat, a.root, err)
	}
	if !info.IsDir() {
		return []string{a.root}, nil
	}

	paths, err := filepath.Glob(filepath.Join(a.root, "*.sofa"))
	if err != nil {
		return nil, fmt.Errorf("%w: scanning %q: %w", hrir.ErrBadFormat, a.root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// subjectID derives the subject identifier from a container path.
func subjectID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// container is the decoded geometry of one SOFA file: per-measurement
// source positions plus the receiver and sample counts.
type container struct {
	positions []hrir.Position
	receivers int
	samples   int
	rate      int
}

// floatMatrix coerces a netCDF 2-D variable into rows of float64.
func floatMatrix(values any) ([][]float64, error) {
	switch v := values.(type) {
	case [][]float64:
		return v, nil
	case [][]float32:
		out := make([][]float64, len(v))
		for i, row := range v {
			out[i] = make([]float64, len(row))
			for j, x := range row {
				out[i][j] = float64(x)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unexpected element type %T", values)
}

// floatScalar coerces a scalar or single-element netCDF variable.
func floatScalar(values any) (float64, error) {
	switch v := values.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case []float64:
		if len(v) == 1 {
			return v[0], nil
		}
	case []float32:
		if len(v) == 1 {
			return float64(v[0]), nil
		}
	}
	return 0, fmt.Errorf("unexpected element type %T", values)
}

// attrString reads a string attribute, tolerating absence.
func attrString(attrs api.AttributeMap, key string) string {
	if attrs == nil {
		return ""
	}
	v, has := attrs.Get(key)
	if !has {
		return ""
	}
	s, _ := v.(string)
	return s
}

// readGeometry decodes everything except the impulse responses.
func readGeometry(nc api.Group) (*container, error) {
	posVar, err := nc.GetVariable(positionVar)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoPositions, err)
	}
	rows, err := floatMatrix(posVar.Values)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", positionVar, err)
	}

	positions, err := convertPositions(rows, attrString(posVar.Attributes, "Type"))
	if err != nil {
		return nil, err
	}

	irVariable, err := nc.GetVariable(irVar)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoImpulseData, err)
	}
	measurements, receivers, samples, err := irShape(irVariable.Values)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", irVar, err)
	}
	if measurements != len(positions) {
		return nil, fmt.Errorf("%w: %d responses, %d positions",
			ErrShapeMismatch, measurements, len(positions))
	}

	c := &container{positions: positions, receivers: receivers, samples: samples}

	rateVariable, err := nc.GetVariable(rateVar)
	if err != nil {
		return nil, fmt.Errorf("container has no %s: %w", rateVar, err)
	}
	rate, err := floatScalar(rateVariable.Values)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rateVar, err)
	}
	c.rate = int(rate)
	return c, nil
}

// convertPositions maps SourcePosition rows into the module's
// spherical convention. An empty type defaults to spherical, which is
// what almost every published container declares.
func convertPositions(rows [][]float64, posType string) ([]hrir.Position, error) {
	posType = strings.ToLower(posType)
	if posType == "" {
		posType = "spherical"
	}

	positions := make([]hrir.Position, len(rows))
	for i, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("%s row %d has %d coordinates", positionVar, i, len(row))
		}
		switch posType {
		case "spherical":
			positions[i] = hrir.Position{
				Azimuth:   utils.WrapDegrees(row[0]),
				Elevation: row[1],
				Distance:  row[2],
			}
		case "cartesian":
			az, el, r := utils.CartesianToSpherical(row[0], row[1], row[2])
			positions[i] = hrir.Position{Azimuth: az, Elevation: el, Distance: r}
		default:
			return nil, fmt.Errorf("%w: %q", ErrBadPositionType, posType)
		}
	}
	return positions, nil
}

// irShape reports the measurement, receiver and sample counts of a
// Data.IR value without converting any of it.
func irShape(values any) (measurements, receivers, samples int, err error) {
	switch v := values.(type) {
	case [][][]float64:
		measurements = len(v)
		if measurements > 0 {
			receivers = len(v[0])
			if receivers > 0 {
				samples = len(v[0][0])
			}
		}
		return measurements, receivers, samples, nil
	case [][][]float32:
		measurements = len(v)
		if measurements > 0 {
			receivers = len(v[0])
			if receivers > 0 {
				samples = len(v[0][0])
			}
		}
		return measurements, receivers, samples, nil
	}
	return 0, 0, 0, fmt.Errorf("unexpected element type %T", values)
}

// irResponse copies the single response at [m][r] out of a Data.IR
// value, converting only that row. Serving one measurement stays
// proportional to one response, not to the whole container.
func irResponse(values any, m, r int) ([]float64, error) {
	switch v := values.(type) {
	case [][][]float64:
		if m < 0 || m >= len(v) || r < 0 || r >= len(v[m]) {
			return nil, fmt.Errorf("response [%d][%d] outside %d measurements", m, r, len(v))
		}
		out := make([]float64, len(v[m][r]))
		copy(out, v[m][r])
		return out, nil
	case [][][]float32:
		if m < 0 || m >= len(v) || r < 0 || r >= len(v[m]) {
			return nil, fmt.Errorf("response [%d][%d] outside %d measurements", m, r, len(v))
		}
		out := make([]float64, len(v[m][r]))
		for n, x := range v[m][r] {
			out[n] = float64(x)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unexpected element type %T", values)
}

// Enumerate opens every container once and lists one entry per
// measurement and receiver.
func (a *Adapter) Enumerate() ([]hrir.Entry, error) {
	paths, err := a.containers()
	if err != nil {
		return nil, err
	}

	var entries []hrir.Entry
	for _, path := range paths {
		nc, err := netcdf.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: opening %q: %w", hrir.ErrBadFormat, path, err)
		}
		c, err := readGeometry(nc)
		nc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", hrir.ErrBadFormat, path, err)
		}

		subject := subjectID(path)
		for m, pos := range c.positions {
			for r := range min(c.receivers, 2) {
				entries = append(entries, hrir.Entry{
					Key: hrir.Key{Subject: subject, Side: hrir.Side(r), Position: pos},
					Loc: hrir.Locator{Path: path, Name: irVar, Row: m, Channel: r},
				})
			}
		}
	}
	return entries, nil
}

// Read opens the locator's container and extracts one response,
// converting only the addressed row rather than the whole Data.IR
// array. Each call opens its own handle; concurrent reads are
// independent.
func (a *Adapter) Read(loc hrir.Locator) (*hrir.Record, error) {
	if _, err := os.Stat(loc.Path); err != nil {
		return nil, fmt.Errorf("%w: locator %s no longer resolves: %w", hrir.ErrUnknownKey, loc, err)
	}

	nc, err := netcdf.Open(loc.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", hrir.ErrBadFormat, loc, err)
	}
	defer nc.Close()

	posVar, err := nc.GetVariable(positionVar)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", hrir.ErrBadFormat, loc, ErrNoPositions)
	}
	rows, err := floatMatrix(posVar.Values)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading %s: %w", hrir.ErrBadFormat, loc, positionVar, err)
	}
	if loc.Row < 0 || loc.Row >= len(rows) {
		return nil, fmt.Errorf("%w: locator %s outside container shape (%d measurements)",
			hrir.ErrUnknownKey, loc, len(rows))
	}
	positions, err := convertPositions(rows[loc.Row:loc.Row+1], attrString(posVar.Attributes, "Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", hrir.ErrBadFormat, loc, err)
	}

	rateVariable, err := nc.GetVariable(rateVar)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: container has no %s", hrir.ErrBadFormat, loc, rateVar)
	}
	rate, err := floatScalar(rateVariable.Values)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading %s: %w", hrir.ErrBadFormat, loc, rateVar, err)
	}

	irVariable, err := nc.GetVariable(irVar)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", hrir.ErrBadFormat, loc, ErrNoImpulseData)
	}
	measurements, receivers, _, err := irShape(irVariable.Values)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading %s: %w", hrir.ErrBadFormat, loc, irVar, err)
	}
	if loc.Row >= measurements || loc.Channel < 0 || loc.Channel >= receivers {
		return nil, fmt.Errorf("%w: locator %s outside container shape (%d measurements, %d receivers)",
			hrir.ErrUnknownKey, loc, measurements, receivers)
	}
	samples, err := irResponse(irVariable.Values, loc.Row, loc.Channel)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", hrir.ErrBadFormat, loc, err)
	}

	return &hrir.Record{
		Subject:    subjectID(loc.Path),
		Side:       hrir.Side(loc.Channel),
		Position:   positions[0],
		SampleRate: int(rate),
		Domain:     hrir.DomainTime,
		Samples:    samples,
	}, nil
}
