package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/commandhub/audio-studio/internal/audio"
	"github.com/commandhub/audio-studio/internal/wav"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.wav>",
		Short: "Print the format of a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			info, err := wav.Inspect(b)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			canonical := "no"
			if _, err := wav.ParseHeader(b); err == nil {
				canonical = "yes"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "channels:     %d\n", info.Format.Channels)
			fmt.Fprintf(out, "sample rate:  %d Hz\n", info.Format.SampleRate)
			fmt.Fprintf(out, "bit depth:    %d\n", info.Format.BitDepth)
			fmt.Fprintf(out, "audio format: %d\n", info.AudioFormat)
			fmt.Fprintf(out, "byte rate:    %d\n", info.ByteRate)
			fmt.Fprintf(out, "data bytes:   %d\n", info.PCMSize)
			fmt.Fprintf(out, "duration:     %s\n", info.Duration)
			fmt.Fprintf(out, "canonical:    %s\n", canonical)

			if info.Format.BitDepth == 16 && info.PCMSize > 0 {
				peak, rms, err := levels(b)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "peak:         %d\n", peak)
				fmt.Fprintf(out, "rms:          %.1f\n", rms)
			}
			return nil
		},
	}
}

// levels decodes 16-bit samples with the go-audio reader
func levels(b []byte) (int, float64, error) {
	buf, err := wav.Samples(b)
	if err != nil {
		return 0, 0, err
	}

	samples := make([]int16, len(buf.Data))
	peak := 0
	for i, v := range buf.Data {
		samples[i] = int16(v)
		if v < 0 {
			v = -v
		}
		peak = max(peak, v)
	}
	return peak, audio.CalculateRMS(samples), nil
}
