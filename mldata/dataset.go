// SPDX-License-Identifier: EPL-2.0

package mldata

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/hartufo/hartufo/hrir"
)

// InputDim is the width of an example's input vector: azimuth,
// elevation, distance, side.
const InputDim = 4

var ErrRaggedResponses = errors.New("responses have unequal lengths; configure a fixed target rate or domain")

// Source serves keyed measurements. *hartufo.Dataset satisfies it.
type Source interface {
	Keys() []hrir.Key
	Get(key hrir.Key) (*hrir.Record, error)
}

// Dataset batches measurements as gomlx tensors. It implements the
// gomlx train.Dataset interface (Name, Yield, Restart).
type Dataset struct {
	src       Source
	batchSize int

	mtx      sync.Mutex
	keys     []hrir.Key
	next     int
	labelDim int
}

// New wraps a source for batched tensor access. Label width is fixed by
// the first measurement; sources serving unequal response lengths fail
// at Yield time with ErrRaggedResponses.
func New(src Source, batchSize int) (*Dataset, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size %d", hrir.ErrBadConfig, batchSize)
	}
	keys := src.Keys()
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: source has no measurements", hrir.ErrBadConfig)
	}
	return &Dataset{src: src, batchSize: batchSize, keys: keys}, nil
}

// Name identifies the dataset in gomlx training output.
func (d *Dataset) Name() string { return "hartufo" }

// Len reports the number of examples per epoch.
func (d *Dataset) Len() int {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return len(d.keys)
}

// Shuffle reorders the epoch deterministically for the given seed.
func (d *Dataset) Shuffle(seed uint64) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	rng := rand.New(rand.NewPCG(seed, 0))
	rng.Shuffle(len(d.keys), func(i, j int) {
		d.keys[i], d.keys[j] = d.keys[j], d.keys[i]
	})
	d.next = 0
}

// Example reads one example by epoch position.
func (d *Dataset) Example(i int) (inputs, labels []float32, err error) {
	d.mtx.Lock()
	if i < 0 || i >= len(d.keys) {
		d.mtx.Unlock()
		return nil, nil, fmt.Errorf("%w: example %d of %d", hrir.ErrUnknownKey, i, len(d.keys))
	}
	key := d.keys[i]
	d.mtx.Unlock()

	rec, err := d.src.Get(key)
	if err != nil {
		return nil, nil, err
	}

	inputs = []float32{
		float32(key.Position.Azimuth),
		float32(key.Position.Elevation),
		float32(key.Position.Distance),
		float32(key.Side),
	}
	labels = make([]float32, len(rec.Samples))
	for n, v := range rec.Samples {
		labels[n] = float32(v)
	}
	return inputs, labels, nil
}

// Yield serves the next batch of the epoch as gomlx tensors, shaped
// [batch, InputDim] and [batch, labelDim]. The final batch of an epoch
// may be short; the call after it returns io.EOF.
func (d *Dataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	d.mtx.Lock()
	if d.next >= len(d.keys) {
		d.mtx.Unlock()
		return nil, nil, nil, io.EOF
	}
	start := d.next
	end := min(start+d.batchSize, len(d.keys))
	d.next = end
	d.mtx.Unlock()

	in := make([][]float32, 0, end-start)
	la := make([][]float32, 0, end-start)
	for i := start; i < end; i++ {
		exIn, exLa, err := d.Example(i)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := d.checkLabelDim(len(exLa)); err != nil {
			return nil, nil, nil, err
		}
		in = append(in, exIn)
		la = append(la, exLa)
	}

	return nil, []*tensors.Tensor{tensors.FromAnyValue(in)}, []*tensors.Tensor{tensors.FromAnyValue(la)}, nil
}

func (d *Dataset) checkLabelDim(n int) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.labelDim == 0 {
		d.labelDim = n
		return nil
	}
	if n != d.labelDim {
		return fmt.Errorf("%w: %d then %d samples", ErrRaggedResponses, d.labelDim, n)
	}
	return nil
}

// Restart rewinds the dataset for the next epoch.
func (d *Dataset) Restart() error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.next = 0
	return nil
}
