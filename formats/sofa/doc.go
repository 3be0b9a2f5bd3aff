// SPDX-License-Identifier: EPL-2.0

// Package sofa provides the dataset adapter for SOFA (AES69)
// containers, the standard interchange format for spatially oriented
// acoustic measurements.
//
// The adapter accepts either a single .sofa file or a directory of
// them, one file per subject; the subject identifier is the file name
// without extension. From each container it reads the Data.IR array
// (measurements x receivers x samples), the SourcePosition array with
// its Type attribute, and Data.SamplingRate. Receiver 0 is taken as the
// left ear and receiver 1 as the right ear, matching the convention
// used by published HRTF collections.
//
// Cartesian source positions are converted to the spherical convention
// used throughout this module: azimuth counter-clockwise from the front
// in degrees, elevation up from the horizontal plane in degrees, and
// distance in metres.
package sofa
