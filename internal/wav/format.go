package wav

import "math"

const (
	// HeaderSize is the size of the canonical RIFF/WAVE header in bytes
	HeaderSize = 44

	// DefaultChannels, DefaultSampleRate and DefaultBitDepth describe the
	// mono 24 kHz 16-bit PCM the speech generators produce
	DefaultChannels   = 1
	DefaultSampleRate = 24000
	DefaultBitDepth   = 16

	// MIMEType is the media type of an encoded container
	MIMEType = "audio/wav"

	pcmFormat      = 1
	fmtChunkSize   = 16
	riffHeaderRest = 36 // bytes after the ChunkSize field that precede the PCM body

	maxDataSize = math.MaxUint32 - riffHeaderRest
)

// Format describes raw interleaved linear PCM
type Format struct {
	Channels   int // Number of channels (1 for mono)
	SampleRate int // Samples per second per channel
	BitDepth   int // Bits per sample, whole bytes only
}

// DefaultFormat returns the format used when a caller does not specify one
func DefaultFormat() Format {
	return Format{
		Channels:   DefaultChannels,
		SampleRate: DefaultSampleRate,
		BitDepth:   DefaultBitDepth,
	}
}

// SampleWidth returns the number of bytes per sample
func (f Format) SampleWidth() int {
	return f.BitDepth / 8
}

// BlockAlign returns the frame size in bytes (one sample per channel)
func (f Format) BlockAlign() int {
	return f.Channels * f.SampleWidth()
}

// ByteRate returns the number of bytes per second of audio
func (f Format) ByteRate() int {
	return f.SampleRate * f.BlockAlign()
}

// Validate checks that every field is positive, byte-aligned and fits its
// slot in the header
func (f Format) Validate() error {
	switch {
	case f.Channels <= 0:
		return &InvalidFormatError{Field: "channels", Value: f.Channels, Reason: "must be positive"}
	case f.SampleRate <= 0:
		return &InvalidFormatError{Field: "sample_rate", Value: f.SampleRate, Reason: "must be positive"}
	case f.BitDepth <= 0:
		return &InvalidFormatError{Field: "bit_depth", Value: f.BitDepth, Reason: "must be positive"}
	case f.BitDepth%8 != 0:
		return &InvalidFormatError{Field: "bit_depth", Value: f.BitDepth, Reason: "must be a multiple of 8"}
	case f.Channels > math.MaxUint16:
		return &InvalidFormatError{Field: "channels", Value: f.Channels, Reason: "exceeds 16-bit header field"}
	case f.BitDepth > math.MaxUint16:
		return &InvalidFormatError{Field: "bit_depth", Value: f.BitDepth, Reason: "exceeds 16-bit header field"}
	case uint64(f.SampleRate) > math.MaxUint32:
		return &InvalidFormatError{Field: "sample_rate", Value: f.SampleRate, Reason: "exceeds 32-bit header field"}
	}

	blockAlign := uint64(f.Channels) * uint64(f.SampleWidth())
	if blockAlign > math.MaxUint16 {
		return &InvalidFormatError{Field: "block_align", Value: f.BlockAlign(), Reason: "exceeds 16-bit header field"}
	}
	if uint64(f.SampleRate)*blockAlign > math.MaxUint32 {
		return &InvalidFormatError{Field: "byte_rate", Value: f.ByteRate(), Reason: "exceeds 32-bit header field"}
	}

	return nil
}
