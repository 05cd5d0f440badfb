// Command pcm2wav wraps raw PCM in a WAV container and inspects WAV files.
//
//	pcm2wav encode --rate 24000 --channels 1 --bits 16 -i speech.pcm -o speech.wav
//	pcm2wav encode --data-uri < speech.pcm
//	pcm2wav inspect speech.wav
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
