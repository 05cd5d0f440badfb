package wav

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseHeader_TooShort(t *testing.T) {
	t.Parallel()

	_, err := ParseHeader(make([]byte, 43))
	if !errors.Is(err, ErrNotWav) {
		t.Errorf("ParseHeader(43 bytes) error = %v, want ErrNotWav", err)
	}
}

func TestParseHeader_BadMagic(t *testing.T) {
	t.Parallel()

	out, _ := Encode([]byte{1, 2}, DefaultFormat())
	copy(out[0:4], "RIFX")

	if _, err := ParseHeader(out); !errors.Is(err, ErrNotWav) {
		t.Errorf("ParseHeader(RIFX) error = %v, want ErrNotWav", err)
	}
}

func TestParseHeader_ExtraChunk(t *testing.T) {
	t.Parallel()

	out, _ := Encode([]byte{1, 2}, DefaultFormat())
	copy(out[36:40], "LIST")

	if _, err := ParseHeader(out); !errors.Is(err, ErrUnsupportedLayout) {
		t.Errorf("ParseHeader(LIST) error = %v, want ErrUnsupportedLayout", err)
	}
}

func TestHeader_MarshalBinary(t *testing.T) {
	t.Parallel()

	pcm := []byte{1, 2, 3, 4, 5, 6}
	f := Format{Channels: 2, SampleRate: 22050, BitDepth: 8}

	h := NewHeader(f, len(pcm))
	b, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}

	out, _ := Encode(pcm, f)
	if !bytes.Equal(b, out[:HeaderSize]) {
		t.Errorf("MarshalBinary() = % x, want % x", b, out[:HeaderSize])
	}

	back, err := ParseHeader(b)
	if err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}
	if back != h {
		t.Errorf("ParseHeader() = %+v, want %+v", back, h)
	}
}

func TestFormat_Derived(t *testing.T) {
	t.Parallel()

	f := Format{Channels: 2, SampleRate: 44100, BitDepth: 24}
	if f.SampleWidth() != 3 {
		t.Errorf("SampleWidth() = %d, want 3", f.SampleWidth())
	}
	if f.BlockAlign() != 6 {
		t.Errorf("BlockAlign() = %d, want 6", f.BlockAlign())
	}
	if f.ByteRate() != 264600 {
		t.Errorf("ByteRate() = %d, want 264600", f.ByteRate())
	}
}

func TestDefaultFormat(t *testing.T) {
	t.Parallel()

	f := DefaultFormat()
	if f.Channels != 1 || f.SampleRate != 24000 || f.BitDepth != 16 {
		t.Errorf("DefaultFormat() = %+v, want mono 24000 Hz 16-bit", f)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("DefaultFormat().Validate() error = %v", err)
	}
}
