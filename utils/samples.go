// SPDX-License-Identifier: EPL-2.0

package utils

// IntSamplesToFloat64 converts integer PCM samples to float64 in [-1, 1],
// normalizing by the full-scale value of the given bit depth.
func IntSamplesToFloat64(data []int, bitDepth int) []float64 {
	var maxVal float64
	switch bitDepth {
	case 8:
		maxVal = 128.0
	case 16:
		maxVal = 32768.0
	case 24:
		maxVal = 8388608.0
	case 32:
		maxVal = 2147483648.0
	default:
		maxVal = 32768.0
	}

	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v) / maxVal
	}
	return out
}

// PCM16BytesToFloat64 converts little-endian 16-bit PCM bytes to float64
// samples in [-1, 1]. A trailing odd byte is ignored.
func PCM16BytesToFloat64(buf []byte) []float64 {
	samples := len(buf) / 2
	out := make([]float64, samples)
	for i := range samples {
		low := uint16(buf[2*i])
		high := uint16(buf[2*i+1])
		out[i] = float64(int16(low|(high<<8))) / 32768.0
	}
	return out
}
