// SPDX-License-Identifier: EPL-2.0

// Package mat provides the dataset adapter for MATLAB .mat measurement
// archives laid out one file per subject, as distributed by the CIPIC
// HRTF database.
//
// Each subject_*.mat file holds the impulse responses as two
// three-dimensional double arrays, hrir_l and hrir_r, shaped
// azimuths x elevations x samples on the CIPIC interaural-polar grid
// (25 azimuths from -80 to 80, 50 elevations from -45 in steps of
// 5.625 degrees) at a native rate of 44100 Hz.
//
// Positions are reported in the collection's own grid convention:
// Position.Azimuth is the lateral angle and Position.Elevation the polar
// angle, which ranges past 90 degrees to cover positions behind the head.
//
// The reader understands the subset of the MAT version 5 container needed
// for these archives: numeric matrices, little-endian encoding, and
// zlib-compressed elements. Cell arrays, structs and character data are
// skipped.
//
// Usage:
//
//	adapter, err := mat.New("/data/cipic/standard_hrir_database")
//	entries, err := adapter.Enumerate()
//	rec, err := adapter.Read(entries[0].Loc)
package mat
