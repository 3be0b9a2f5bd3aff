package dir

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"

	"github.com/hartufo/hartufo/utils"
)

// decoded is the common result of decoding one measurement file:
// per-channel sample vectors in [-1, 1] plus the file's sample rate.
type decoded struct {
	channels [][]float64
	rate     int
}

type decoder interface {
	decode(rs io.ReadSeeker) (*decoded, error)
}

// newDecoderTable maps lowercase file extensions to decoders.
func newDecoderTable() map[string]decoder {
	return map[string]decoder{
		".wav":  wavDecoder{},
		".aiff": aiffDecoder{},
		".aif":  aiffDecoder{},
		".mp3":  mp3Decoder{},
		".ogg":  vorbisDecoder{},
	}
}

// deinterleave splits interleaved samples into per-channel vectors.
func deinterleave(samples []float64, channels int) [][]float64 {
	frames := len(samples) / channels
	out := make([][]float64, channels)
	for c := range out {
		out[c] = make([]float64, frames)
		for f := range frames {
			out[c][f] = samples[f*channels+c]
		}
	}
	return out
}

type wavDecoder struct{}

func (wavDecoder) decode(rs io.ReadSeeker) (*decoded, error) {
	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAudioFile
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading wav data: %w", err)
	}

	channels := buf.Format.NumChannels
	floats := utils.IntSamplesToFloat64(buf.Data, int(dec.BitDepth))
	return &decoded{
		channels: deinterleave(floats, channels),
		rate:     buf.Format.SampleRate,
	}, nil
}

type aiffDecoder struct{}

func (aiffDecoder) decode(rs io.ReadSeeker) (*decoded, error) {
	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAudioFile
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil {
		return nil, ErrNotAudioFile
	}

	intBuf := &goaudio.IntBuffer{Data: make([]int, 4096), Format: format}
	var all []int
	for {
		n, err := dec.PCMBuffer(intBuf)
		if n > 0 {
			all = append(all, intBuf.Data[:n]...)
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		if n < len(intBuf.Data) || err == io.EOF {
			break
		}
	}

	floats := utils.IntSamplesToFloat64(all, int(dec.BitDepth))
	return &decoded{
		channels: deinterleave(floats, format.NumChannels),
		rate:     format.SampleRate,
	}, nil
}

type mp3Decoder struct{}

func (mp3Decoder) decode(rs io.ReadSeeker) (*decoded, error) {
	dec, err := gomp3.NewDecoder(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAudioFile, err)
	}

	// go-mp3 always emits 16-bit little-endian stereo.
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("reading mp3 data: %w", err)
	}

	floats := utils.PCM16BytesToFloat64(raw)
	return &decoded{
		channels: deinterleave(floats, 2),
		rate:     dec.SampleRate(),
	}, nil
}

type vorbisDecoder struct{}

func (vorbisDecoder) decode(rs io.ReadSeeker) (*decoded, error) {
	dec, err := oggvorbis.NewReader(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAudioFile, err)
	}

	channels := dec.Channels()
	buf := make([]float32, 4096)
	var all []float64
	for {
		n, err := dec.Read(buf)
		for _, v := range buf[:n] {
			all = append(all, float64(v))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading ogg data: %w", err)
		}
	}

	return &decoded{
		channels: deinterleave(all, channels),
		rate:     dec.SampleRate(),
	}, nil
}
