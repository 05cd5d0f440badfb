package main

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/commandhub/audio-studio/internal/audio"
	"github.com/commandhub/audio-studio/internal/wav"
)

type encodeOptions struct {
	input    string
	output   string
	channels int
	rate     int
	bits     int
	dataURI  bool
	limit    int
}

func newEncodeCmd() *cobra.Command {
	opts := encodeOptions{}
	def := wav.DefaultFormat()

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode raw little-endian PCM as WAV",
		Long: `Reads raw PCM from --input (or stdin) and writes a canonical 44-byte-header
WAV file to --output (or stdout). With --data-uri the result is written as a
data:audio/wav;base64 URI instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.limit < 0 || opts.limit > math.MaxInt16 {
				return fmt.Errorf("--limit must be between 0 and %d", math.MaxInt16)
			}
			return runEncode(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "raw PCM file, - for stdin")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "-", "output file, - for stdout")
	cmd.Flags().IntVarP(&opts.channels, "channels", "c", def.Channels, "number of interleaved channels")
	cmd.Flags().IntVarP(&opts.rate, "rate", "r", def.SampleRate, "sample rate in Hz")
	cmd.Flags().IntVarP(&opts.bits, "bits", "b", def.BitDepth, "bits per sample")
	cmd.Flags().BoolVar(&opts.dataURI, "data-uri", false, "write a base64 data URI instead of binary WAV")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "scale 16-bit PCM down so its peak is at most this value (0 = off)")

	return cmd
}

func runEncode(cmd *cobra.Command, opts encodeOptions) error {
	in, err := openInput(cmd, opts.input)
	if err != nil {
		return err
	}
	defer in.Close()

	// PCM from a pipe arrives in pieces; the header is written once it ends
	var buf wav.Buffer
	if opts.limit > 0 {
		if opts.bits != 16 {
			return fmt.Errorf("--limit needs 16-bit PCM, got %d-bit", opts.bits)
		}
		pcm, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read PCM: %w", err)
		}
		samples := audio.NormalizeAudio(audio.BytesToSamples(pcm), int16(opts.limit))
		limited := audio.SamplesToBytes(samples)
		// a trailing half sample is not scaled but is kept
		if len(pcm)%2 == 1 {
			limited = append(limited, pcm[len(pcm)-1])
		}
		buf.Write(limited)
	} else if _, err := io.Copy(&buf, in); err != nil {
		return fmt.Errorf("failed to read PCM: %w", err)
	}

	f := wav.Format{Channels: opts.channels, SampleRate: opts.rate, BitDepth: opts.bits}

	var out []byte
	if opts.dataURI {
		uri, err := buf.EncodeDataURI(f)
		if err != nil {
			return err
		}
		out = []byte(uri + "\n")
	} else {
		out, err = buf.Encode(f)
		if err != nil {
			return err
		}
	}

	if opts.output == "-" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.output, err)
	}
	return nil
}

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return f, nil
}
