package hrir

import (
	"errors"
	"strings"
	"testing"
)

func TestParseSide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Side
		wantErr bool
	}{
		{input: "left", want: SideLeft},
		{input: "right", want: SideRight},
		{input: "Left", wantErr: true},
		{input: "both", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseSide(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrBadFormat) {
					t.Errorf("ParseSide(%q) error = %v, want ErrBadFormat", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSide(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSide(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestKeyString(t *testing.T) {
	t.Parallel()

	k := Key{Subject: "003", Side: SideLeft, Position: Position{Azimuth: 45, Elevation: -30}}
	s := k.String()
	for _, part := range []string{"003", "left", "45", "-30"} {
		if !strings.Contains(s, part) {
			t.Errorf("Key.String() = %q, missing %q", s, part)
		}
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register("mock", func(root string) (Adapter, error) {
		return newMockAdapter([]string{root}, []Side{SideLeft}, testPositions, 48000, 64), nil
	})

	adapter, err := reg.New("mock", "003")
	if err != nil {
		t.Fatalf("Registry.New() error = %v", err)
	}
	if adapter.Format() != "mock" {
		t.Errorf("Format() = %q, want mock", adapter.Format())
	}

	_, err = reg.New("sofa", "/tmp/nowhere")
	if !errors.Is(err, ErrBadConfig) {
		t.Errorf("Registry.New() for unregistered kind error = %v, want ErrBadConfig", err)
	}
}
