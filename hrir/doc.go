// SPDX-License-Identifier: EPL-2.0

// Package hrir provides the core model for HRTF measurement datasets.
//
// This package contains the format-agnostic building blocks:
//   - Record, Key, Position and Side describing one measurement
//   - Adapter interface for on-disk format readers
//   - Index mapping measurement keys to storage locators
//   - Resample for sample rate conversion
//   - Magnitude and Spectrum for frequency-domain access
//   - Registry for adapter selection by dataset kind
//
// # Adapter Interface
//
// The Adapter interface is the boundary every storage format implements:
//
//	type Adapter interface {
//	    Format() string
//	    Enumerate() ([]Entry, error)
//	    Read(loc Locator) (*Record, error)
//	}
//
// Enumerate lists every (subject, side, position) measurement together with
// a locator that resolves it later; Read loads a single measurement in its
// native samplerate. Enumeration is deterministic for identical on-disk
// content, and Read is safe to call from multiple goroutines.
//
// # Index
//
// BuildIndex turns an adapter's enumeration into an immutable keyed index:
//
//	idx, err := hrir.BuildIndex(adapter)
//	loc, err := idx.Locator(key)
//
// Indexes never change after construction. Filter derives restricted
// views that share nothing mutable with the original, so train/test
// splits of one dataset can coexist safely.
//
// # Resampling
//
// Resample converts a response vector between sample rates using
// band-limited polyphase FIR filtering:
//
//	out, err := hrir.Resample(samples, 48000, 44100, hrir.QualityDefault)
//
// Equal source and target rates short-circuit to the input unchanged.
//
// # Sample Format
//
// Response samples are float64 values normalized to [-1.0, 1.0] in the
// time domain. Frequency-domain representations derive from a
// power-of-two FFT of the time-domain response.
//
// # Error Handling
//
// Failures wrap one of four sentinels, checked with errors.Is:
//   - ErrBadFormat: malformed or unreadable source data
//   - ErrBadConfig: invalid configuration, including empty datasets
//   - ErrUnknownKey: lookup of a key the index does not hold
//   - ErrInvalidRate: non-positive sample rate
//
// Error messages carry the offending key or locator and the dataset
// format to make layout mismatches debuggable.
package hrir
