package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pcm2wav",
		Short:         "Wrap raw PCM audio in a WAV container",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newEncodeCmd())
	root.AddCommand(newInspectCmd())

	return root
}
