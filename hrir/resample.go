// SPDX-License-Identifier: EPL-2.0

package hrir

import (
	"fmt"

	resampler "github.com/tphakala/go-audio-resampler"
)

// Quality selects the band-limited resampling preset. The zero value maps
// to QualityHigh, which keeps the round-trip RMS error of a pure tone well
// under 1%.
type Quality uint8

const (
	QualityDefault Quality = iota
	QualityQuick
	QualityLow
	QualityMedium
	QualityHigh
	QualityVeryHigh
)

func (q Quality) preset() resampler.QualityPreset {
	switch q {
	case QualityQuick:
		return resampler.QualityQuick
	case QualityLow:
		return resampler.QualityLow
	case QualityMedium:
		return resampler.QualityMedium
	case QualityVeryHigh:
		return resampler.QualityVeryHigh
	}
	return resampler.QualityHigh
}

// Resample converts a response vector from srcRate to dstRate using
// polyphase FIR filtering. When the rates already match, the input slice
// is returned unchanged. Resample keeps no state between calls and is safe
// to invoke concurrently with different inputs.
func Resample(samples []float64, srcRate, dstRate int, quality Quality) ([]float64, error) {
	if srcRate <= 0 {
		return nil, fmt.Errorf("%w: source rate %d", ErrInvalidRate, srcRate)
	}
	if dstRate <= 0 {
		return nil, fmt.Errorf("%w: target rate %d", ErrInvalidRate, dstRate)
	}
	if srcRate == dstRate {
		return samples, nil
	}

	out, err := resampler.ResampleMono(samples, float64(srcRate), float64(dstRate), quality.preset())
	if err != nil {
		return nil, fmt.Errorf("resampling %d Hz -> %d Hz: %w", srcRate, dstRate, err)
	}
	return out, nil
}

// ResampledLength returns the expected number of samples after resampling
// a vector of length n from srcRate to dstRate.
func ResampledLength(n, srcRate, dstRate int) int {
	if srcRate == dstRate {
		return n
	}
	return int(float64(n)*float64(dstRate)/float64(srcRate) + 0.5)
}
