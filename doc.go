// SPDX-License-Identifier: EPL-2.0

// Package hartufo loads HRTF measurement collections (per-subject,
// per-ear, per-position head-related impulse responses) from
// heterogeneous on-disk formats and serves them through one keyed
// interface with on-demand resampling and optional frequency-domain
// conversion.
//
// # Supported Formats
//
// Datasets are opened by declared kind, never by sniffing file content:
//   - KindSOFA: AES69 (SOFA) containers via formats/sofa
//   - KindMAT: CIPIC-style MATLAB archives via formats/mat
//   - KindDir: directory-per-subject audio layouts via formats/dir
//
// # Quick Start
//
// Load a dataset and read one measurement:
//
//	ds, _ := hartufo.Load(hartufo.KindSOFA, "/data/ari", hartufo.Config{
//		SampleRate: 44100,
//	})
//
//	key := ds.Keys()[0]
//	rec, _ := ds.Get(key)
//	// rec.Samples is the impulse response at 44100 Hz
//
// Iterate everything in stable key order:
//
//	for rec, err := range ds.All() {
//		if err != nil {
//			break
//		}
//		process(rec)
//	}
//
// Derive a subset without rescanning the dataset root:
//
//	frontal, _ := ds.Subset(func(k hrir.Key) bool {
//		return math.Abs(k.Position.Azimuth) <= 45
//	})
//
// # Collections
//
// Published public collections have metadata entries with their kind,
// download URL and default dummy-head exclusions:
//
//	cipic, _ := hartufo.FindCollection("cipic")
//	ds, _ := cipic.Load("/data/cipic", hartufo.Config{})
//
// # Lower Level Access
//
// The hrir subpackage holds the data model, the adapter interface and
// registry, the immutable index, resampling and spectral conversion.
// The formats subpackages can be used directly when the facade is more
// than a caller needs. The mldata subpackage batches records into
// tensors for training loops.
package hartufo
