package audio

import (
	"fmt"
	"math"
)

// BytesToSamples decodes 16-bit signed little-endian PCM.
// A trailing odd byte is ignored.
func BytesToSamples(pcmData []byte) []int16 {
	samples := make([]int16, len(pcmData)/2)
	for i := 0; i < len(samples); i++ {
		// Little-endian 16-bit signed integer
		samples[i] = int16(pcmData[i*2]) | int16(pcmData[i*2+1])<<8
	}
	return samples
}

// SamplesToBytes encodes samples as 16-bit signed little-endian PCM
func SamplesToBytes(samples []int16) []byte {
	pcmData := make([]byte, len(samples)*2)
	for i, sample := range samples {
		pcmData[i*2] = byte(sample)
		pcmData[i*2+1] = byte(sample >> 8)
	}
	return pcmData
}

// ResamplePCM16 converts interleaved 16-bit PCM from inputRate to outputRate.
// Each channel is interpolated on its own so stereo stays in step.
func ResamplePCM16(pcmData []byte, channels, inputRate, outputRate int) ([]byte, error) {
	if len(pcmData) == 0 {
		return nil, fmt.Errorf("empty PCM data")
	}
	if channels <= 0 || inputRate <= 0 || outputRate <= 0 {
		return nil, fmt.Errorf("invalid resample parameters: channels=%d in=%d out=%d", channels, inputRate, outputRate)
	}
	if len(pcmData)%(2*channels) != 0 {
		return nil, fmt.Errorf("PCM data length %d is not a whole number of 16-bit frames", len(pcmData))
	}
	if inputRate == outputRate {
		return pcmData, nil
	}

	samples := BytesToSamples(pcmData)
	if channels == 1 {
		return SamplesToBytes(resample(samples, inputRate, outputRate)), nil
	}

	// Split, resample, and re-interleave
	frames := len(samples) / channels
	var out []int16
	for ch := 0; ch < channels; ch++ {
		mono := make([]int16, frames)
		for i := 0; i < frames; i++ {
			mono[i] = samples[i*channels+ch]
		}
		mono = resample(mono, inputRate, outputRate)
		if out == nil {
			out = make([]int16, len(mono)*channels)
		}
		for i, s := range mono {
			out[i*channels+ch] = s
		}
	}

	return SamplesToBytes(out), nil
}

// resample performs simple linear interpolation resampling
// This is a basic implementation - for production, consider using a library
// with better quality algorithms (e.g., sinc interpolation)
func resample(samples []int16, inputRate, outputRate int) []int16 {
	if inputRate == outputRate || len(samples) == 0 {
		return samples
	}

	ratio := float64(outputRate) / float64(inputRate)
	outputLength := int(int64(len(samples)) * int64(outputRate) / int64(inputRate))
	output := make([]int16, outputLength)

	for i := 0; i < outputLength; i++ {
		// Calculate source position
		srcPos := float64(i) / ratio

		// Linear interpolation
		idx0 := int(srcPos)
		if idx0 >= len(samples) {
			idx0 = len(samples) - 1
		}
		idx1 := idx0 + 1
		if idx1 >= len(samples) {
			idx1 = len(samples) - 1
		}

		// Interpolate between two samples
		fraction := srcPos - float64(idx0)
		output[i] = int16(float64(samples[idx0])*(1.0-fraction) + float64(samples[idx1])*fraction)
	}

	return output
}

// NormalizeAudio normalizes audio samples to prevent clipping
func NormalizeAudio(samples []int16, maxAmplitude int16) []int16 {
	if len(samples) == 0 {
		return samples
	}

	// Find maximum amplitude
	maxVal := int32(0)
	for _, sample := range samples {
		abs := int32(sample)
		if abs < 0 {
			abs = -abs
		}
		if abs > maxVal {
			maxVal = abs
		}
	}

	// If already within range, return as-is
	if maxVal <= int32(maxAmplitude) {
		return samples
	}

	// Normalize
	ratio := float64(maxAmplitude) / float64(maxVal)
	normalized := make([]int16, len(samples))
	for i, sample := range samples {
		normalized[i] = int16(float64(sample) * ratio)
	}

	return normalized
}

// CalculateRMS calculates the root mean square (RMS) of audio samples
// Useful for detecting audio levels and silence
func CalculateRMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, sample := range samples {
		sum += float64(sample) * float64(sample)
	}

	return math.Sqrt(sum / float64(len(samples)))
}

// DetectSilence detects if audio samples represent silence
// Uses a simple energy threshold
func DetectSilence(samples []int16, threshold float64) bool {
	return CalculateRMS(samples) < threshold
}
