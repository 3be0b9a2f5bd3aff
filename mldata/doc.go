// SPDX-License-Identifier: EPL-2.0

// Package mldata adapts an HRTF dataset into the gomlx train.Dataset
// interface for training loops. Each example pairs a position input
// vector (azimuth, elevation, distance, side) with the measurement's
// sample vector as the label. Yield serves fixed-size batches and
// returns io.EOF at the end of an epoch; Restart begins the next one.
package mldata
