package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Header holds the fields of the canonical 44-byte RIFF/WAVE header
type Header struct {
	ChunkSize     uint32 // 36 + DataSize
	AudioFormat   uint16 // 1 for linear PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataSize      uint32 // Length of the PCM body in bytes
}

// NewHeader derives the header for dataLen bytes of PCM in format f.
// f must already be valid.
func NewHeader(f Format, dataLen int) Header {
	return Header{
		ChunkSize:     uint32(riffHeaderRest + dataLen),
		AudioFormat:   pcmFormat,
		NumChannels:   uint16(f.Channels),
		SampleRate:    uint32(f.SampleRate),
		ByteRate:      uint32(f.ByteRate()),
		BlockAlign:    uint16(f.BlockAlign()),
		BitsPerSample: uint16(f.BitDepth),
		DataSize:      uint32(dataLen),
	}
}

// Format returns the PCM format the header describes
func (h Header) Format() Format {
	return Format{
		Channels:   int(h.NumChannels),
		SampleRate: int(h.SampleRate),
		BitDepth:   int(h.BitsPerSample),
	}
}

// put writes the header into dst, which must hold at least HeaderSize bytes
func (h Header) put(dst []byte) {
	// RIFF descriptor
	copy(dst[0:4], "RIFF")
	binary.LittleEndian.PutUint32(dst[4:8], h.ChunkSize)
	copy(dst[8:12], "WAVE")

	// fmt subchunk
	copy(dst[12:16], "fmt ")
	binary.LittleEndian.PutUint32(dst[16:20], fmtChunkSize)
	binary.LittleEndian.PutUint16(dst[20:22], h.AudioFormat)
	binary.LittleEndian.PutUint16(dst[22:24], h.NumChannels)
	binary.LittleEndian.PutUint32(dst[24:28], h.SampleRate)
	binary.LittleEndian.PutUint32(dst[28:32], h.ByteRate)
	binary.LittleEndian.PutUint16(dst[32:34], h.BlockAlign)
	binary.LittleEndian.PutUint16(dst[34:36], h.BitsPerSample)

	// data subchunk
	copy(dst[36:40], "data")
	binary.LittleEndian.PutUint32(dst[40:44], h.DataSize)
}

// MarshalBinary returns the 44 header bytes
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)
	h.put(b)
	return b, nil
}

// ParseHeader reads a canonical header from the start of b. Only the layout
// produced by Encode is accepted: fmt chunk of 16 bytes directly followed by
// the data chunk.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes, need %d", ErrNotWav, len(b), HeaderSize)
	}

	if !bytes.Equal(b[0:4], []byte("RIFF")) || !bytes.Equal(b[8:12], []byte("WAVE")) {
		return Header{}, ErrNotWav
	}

	if !bytes.Equal(b[12:16], []byte("fmt ")) ||
		binary.LittleEndian.Uint32(b[16:20]) != fmtChunkSize ||
		!bytes.Equal(b[36:40], []byte("data")) {
		return Header{}, ErrUnsupportedLayout
	}

	return Header{
		ChunkSize:     binary.LittleEndian.Uint32(b[4:8]),
		AudioFormat:   binary.LittleEndian.Uint16(b[20:22]),
		NumChannels:   binary.LittleEndian.Uint16(b[22:24]),
		SampleRate:    binary.LittleEndian.Uint32(b[24:28]),
		ByteRate:      binary.LittleEndian.Uint32(b[28:32]),
		BlockAlign:    binary.LittleEndian.Uint16(b[32:34]),
		BitsPerSample: binary.LittleEndian.Uint16(b[34:36]),
		DataSize:      binary.LittleEndian.Uint32(b[40:44]),
	}, nil
}
