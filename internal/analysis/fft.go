package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// PowerSpectrum returns |X(k)| for k in [0, n/2) of the mean-removed
// series. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	centred := make([]float64, len(data))
	copy(centred, data)
	floats.AddConst(-floats.Sum(data)/float64(len(data)), centred)

	spec := fft.FFTReal(centred)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantFrequency returns the frequency of the largest spectral peak
// above DC for samples taken every sampleDt seconds, and its magnitude.
func DominantFrequency(data []float64, sampleDt float64) (freq, magnitude float64) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || sampleDt <= 0 {
		return 0, 0
	}
	k := floats.MaxIdx(ps[1:]) + 1
	return float64(k) / (float64(len(data)) * sampleDt), ps[k]
}
