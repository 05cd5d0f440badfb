package wav_test

import (
	"fmt"

	"github.com/commandhub/audio-studio/internal/wav"
)

func ExampleEncode() {
	out, err := wav.Encode([]byte{0x01, 0x02, 0x03, 0x04}, wav.DefaultFormat())
	if err != nil {
		panic(err)
	}

	h, _ := wav.ParseHeader(out)
	fmt.Println(len(out), string(out[0:4]), h.NumChannels, h.SampleRate, h.DataSize)
	// Output: 48 RIFF 1 24000 4
}

func ExampleEncodeDataURI() {
	uri, err := wav.EncodeDataURI([]byte{0, 0}, wav.Format{Channels: 1, SampleRate: 8000, BitDepth: 16})
	if err != nil {
		panic(err)
	}
	fmt.Println(uri[:22])
	// Output: data:audio/wav;base64,
}
