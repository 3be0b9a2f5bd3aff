package hrir

import (
	"errors"
	"testing"
)

func TestMagnitude_PeakBin(t *testing.T) {
	t.Parallel()

	// 512 samples at 48kHz with a tone exactly on bin 32 (3kHz).
	const n = 512
	const rate = 48000
	freq := float64(rate) / n * 32
	in := sine(rate, n, freq)

	mag, err := Magnitude(in)
	if err != nil {
		t.Fatalf("Magnitude() error = %v", err)
	}

	if len(mag) != n/2+1 {
		t.Fatalf("Magnitude() returned %d bins, want %d", len(mag), n/2+1)
	}

	peak := 0
	for i, v := range mag {
		if v > mag[peak] {
			peak = i
		}
	}
	if peak != 32 {
		t.Errorf("peak bin = %d, want 32", peak)
	}
}

func TestSpectrum_Interleaved(t *testing.T) {
	t.Parallel()

	in := sine(48000, 300, 440) // padded to 512
	out, err := Spectrum(in)
	if err != nil {
		t.Fatalf("Spectrum() error = %v", err)
	}

	wantBins := 512/2 + 1
	if len(out) != 2*wantBins {
		t.Errorf("Spectrum() length = %d, want %d (re/im interleaved)", len(out), 2*wantBins)
	}
}

func TestMagnitude_Empty(t *testing.T) {
	t.Parallel()

	_, err := Magnitude(nil)
	if !errors.Is(err, ErrBadFormat) {
		t.Errorf("Magnitude(nil) error = %v, want ErrBadFormat", err)
	}
}

func TestNextPowerOf2(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want int
	}{
		{1, 1},
		{2, 2},
		{3, 4},
		{200, 256},
		{512, 512},
		{513, 1024},
	}

	for _, tt := range tests {
		if got := nextPowerOf2(tt.in); got != tt.want {
			t.Errorf("nextPowerOf2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func BenchmarkMagnitude(b *testing.B) {
	in := sine(48000, 512, 3000)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		if _, err := Magnitude(in); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSpectrum(b *testing.B) {
	in := sine(48000, 512, 3000)

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		if _, err := Spectrum(in); err != nil {
			b.Fatal(err)
		}
	}
}
