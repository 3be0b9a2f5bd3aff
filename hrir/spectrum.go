// SPDX-License-Identifier: EPL-2.0

package hrir

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
)

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// spectrum computes the one-sided complex spectrum of a time-domain
// response, zero-padded to the next power of two. It returns N/2+1 bins
// where N is the FFT size.
func spectrum(samples []float64) ([]complex64, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty response vector", ErrBadFormat)
	}

	fftSize := nextPowerOf2(len(samples))
	plan, err := algofft.NewPlan32(fftSize)
	if err != nil {
		return nil, fmt.Errorf("creating FFT plan of size %d: %w", fftSize, err)
	}

	in := make([]complex64, fftSize)
	for i, v := range samples {
		in[i] = complex(float32(v), 0)
	}

	out := make([]complex64, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("forward FFT: %w", err)
	}

	return out[:fftSize/2+1], nil
}

// Magnitude converts a time-domain response to its magnitude spectrum.
func Magnitude(samples []float64) ([]float64, error) {
	bins, err := spectrum(samples)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(bins))
	for i, c := range bins {
		re := float64(real(c))
		im := float64(imag(c))
		out[i] = math.Sqrt(re*re + im*im)
	}
	return out, nil
}

// Spectrum converts a time-domain response to its one-sided complex
// spectrum, with real and imaginary parts interleaved.
func Spectrum(samples []float64) ([]float64, error) {
	bins, err := spectrum(samples)
	if err != nil {
		return nil, err
	}

	out := make([]float64, 2*len(bins))
	for i, c := range bins {
		out[2*i] = float64(real(c))
		out[2*i+1] = float64(imag(c))
	}
	return out, nil
}
