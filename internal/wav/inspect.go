package wav

import (
	"bytes"
	"fmt"
	"time"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
)

// Info is what a general-purpose WAV reader sees in a container
type Info struct {
	Format      Format
	AudioFormat uint16
	ByteRate    uint32
	PCMSize     int
	Duration    time.Duration
}

// Inspect reads b with the go-audio decoder, independently of ParseHeader, so
// that the output of Encode can be checked against a third-party reader
func Inspect(b []byte) (Info, error) {
	dec := gowav.NewDecoder(bytes.NewReader(b))
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrNotWav, err)
	}
	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return Info{}, ErrNotWav
	}

	if err := dec.FwdToPCM(); err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrUnsupportedLayout, err)
	}

	info := Info{
		Format: Format{
			Channels:   int(dec.NumChans),
			SampleRate: int(dec.SampleRate),
			BitDepth:   int(dec.BitDepth),
		},
		AudioFormat: dec.WavAudioFormat,
		ByteRate:    dec.AvgBytesPerSec,
		PCMSize:     dec.PCMSize,
	}
	if info.ByteRate > 0 {
		info.Duration = time.Duration(info.PCMSize) * time.Second / time.Duration(info.ByteRate)
	}

	return info, nil
}

// Samples decodes the PCM body of b into integer samples
func Samples(b []byte) (*goaudio.IntBuffer, error) {
	dec := gowav.NewDecoder(bytes.NewReader(b))
	if !dec.IsValidFile() {
		return nil, ErrNotWav
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode PCM: %w", err)
	}
	return buf, nil
}
