package recorder

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// amplitudeEnvelope computes the analytic-signal amplitude of the recording
// and downsamples it into at most buckets points for chart rendering. Each
// bucket keeps its peak so resonance dips stay visible at low resolution.
func amplitudeEnvelope(samples []int, buckets int) []float64 {
	if len(samples) == 0 || buckets <= 0 {
		return nil
	}

	signal := make([]float64, len(samples))
	for i, s := range samples {
		signal[i] = float64(s) / 32768.0
	}

	envelope := hilbertMagnitude(signal)

	if len(envelope) <= buckets {
		return envelope
	}

	out := make([]float64, buckets)
	per := float64(len(envelope)) / float64(buckets)
	for b := 0; b < buckets; b++ {
		lo := int(float64(b) * per)
		hi := int(float64(b+1) * per)
		if hi > len(envelope) {
			hi = len(envelope)
		}
		peak := 0.0
		for i := lo; i < hi; i++ {
			if envelope[i] > peak {
				peak = envelope[i]
			}
		}
		out[b] = peak
	}
	return out
}

// hilbertMagnitude builds the analytic signal in the frequency domain and
// returns its magnitude, which traces the amplitude envelope.
func hilbertMagnitude(signal []float64) []float64 {
	n := len(signal)
	spectrum := fft.FFTReal(signal)

	// Zero the negative frequencies, double the positive ones.
	for i := 1; i < (n+1)/2; i++ {
		spectrum[i] *= 2
	}
	for i := n/2 + 1; i < n; i++ {
		spectrum[i] = 0
	}

	analytic := fft.IFFT(spectrum)
	out := make([]float64, n)
	for i, c := range analytic {
		out[i] = cmplx.Abs(c)
		if math.IsNaN(out[i]) {
			out[i] = 0
		}
	}
	return out
}
