package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/commandhub/audio-studio/internal/wav"
)

func execute(t *testing.T, stdin []byte, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(bytes.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEncode_StdinToStdout(t *testing.T) {
	pcm := []byte{0x00, 0x00, 0xFF, 0x7F}

	out, err := execute(t, pcm, "encode", "--rate", "8000")
	require.NoError(t, err)

	h, err := wav.ParseHeader([]byte(out))
	require.NoError(t, err)
	require.Equal(t, uint32(8000), h.SampleRate)
	require.Equal(t, uint32(len(pcm)), h.DataSize)
	require.Equal(t, pcm, []byte(out)[wav.HeaderSize:])
}

func TestEncode_DataURI(t *testing.T) {
	out, err := execute(t, []byte{1, 0}, "encode", "--data-uri")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "data:audio/wav;base64,UklGR"))
}

func TestEncode_FilesAndInspect(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "speech.pcm")
	outPath := filepath.Join(dir, "speech.wav")
	require.NoError(t, os.WriteFile(in, make([]byte, 48000), 0o644))

	_, err := execute(t, nil, "encode", "-i", in, "-o", outPath)
	require.NoError(t, err)

	out, err := execute(t, nil, "inspect", outPath)
	require.NoError(t, err)
	require.Contains(t, out, "sample rate:  24000 Hz")
	require.Contains(t, out, "duration:     1s")
	require.Contains(t, out, "canonical:    yes")
}

func TestEncode_Limit(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "loud.wav")
	pcm := []byte{0x00, 0x40, 0x00, 0xC0} // 16384, -16384

	_, err := execute(t, pcm, "encode", "--limit", "8192", "-o", outPath)
	require.NoError(t, err)

	out, err := execute(t, nil, "inspect", outPath)
	require.NoError(t, err)
	require.Contains(t, out, "peak:         8192")
	require.Contains(t, out, "rms:          8192.0")

	_, err = execute(t, pcm, "encode", "--limit", "8192", "--bits", "24")
	require.Error(t, err)
}

func TestEncode_LimitKeepsOddTrailingByte(t *testing.T) {
	pcm := []byte{0x00, 0x40, 0x00, 0xC0, 0x7F} // 16384, -16384, half sample

	out, err := execute(t, pcm, "encode", "--limit", "8192")
	require.NoError(t, err)

	h, err := wav.ParseHeader([]byte(out))
	require.NoError(t, err)
	require.Equal(t, uint32(len(pcm)), h.DataSize)
	require.Equal(t, []byte{0x00, 0x20, 0x00, 0xE0, 0x7F}, []byte(out)[wav.HeaderSize:])
}

func TestEncode_Errors(t *testing.T) {
	_, err := execute(t, nil, "encode")
	require.ErrorIs(t, err, wav.ErrEmptyPayload)

	_, err = execute(t, []byte{1, 0}, "encode", "--bits", "12")
	require.ErrorIs(t, err, wav.ErrInvalidFormat)
}

func TestInspect_NotWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.bin")
	require.NoError(t, os.WriteFile(path, []byte("definitely not audio, just some bytes here"), 0o644))

	_, err := execute(t, nil, "inspect", path)
	require.ErrorIs(t, err, wav.ErrNotWav)
}
