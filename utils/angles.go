// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// WrapDegrees normalizes an angle in degrees into the range [-180, 180).
func WrapDegrees(deg float64) float64 {
	wrapped := math.Mod(deg+180, 360)
	if wrapped < 0 {
		wrapped += 360
	}
	return wrapped - 180
}

// CartesianToSpherical converts a cartesian coordinate (metres) to the
// spherical convention used for measurement positions: azimuth in degrees
// counter-clockwise in [-180, 180), elevation in degrees in [-90, 90],
// radius in metres. The x axis points forward, y to the left, z up.
func CartesianToSpherical(x, y, z float64) (azimuth, elevation, radius float64) {
	radius = math.Sqrt(x*x + y*y + z*z)
	if radius == 0 {
		return 0, 0, 0
	}
	azimuth = WrapDegrees(math.Atan2(y, x) * 180 / math.Pi)
	elevation = math.Asin(z/radius) * 180 / math.Pi
	return azimuth, elevation, radius
}
