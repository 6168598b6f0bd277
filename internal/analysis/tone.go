// Package analysis measures the spectral quality of resampled test tones.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/go-lagrange-resampler/internal/simdops"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidInput indicates a signal or tone that cannot be measured.
var ErrInvalidInput = errors.New("invalid analysis input")

const (
	// maxHarmonics is the highest harmonic included in THD.
	maxHarmonics = 10

	// toneBins is the half-width, in bins, of the band that holds a tone's
	// energy after Hann windowing.
	toneBins = 3

	// dcBins are excluded from the noise measurement.
	dcBins = 3

	// hannCoherentGain is the amplitude loss of a Hann window.
	hannCoherentGain = 0.5

	minFFTSize = 64
)

// ToneMetrics describes a sine tone found in a signal.
type ToneMetrics struct {
	// Frequency is the measured fundamental frequency in Hz.
	Frequency float64

	// Amplitude is the peak amplitude of the fundamental.
	Amplitude float64

	// THD is the ratio of harmonic to fundamental amplitude.
	THD float64

	// THDN is the ratio of everything except the fundamental and DC
	// (harmonics plus noise and images) to the fundamental amplitude.
	THDN float64
}

// THDDB returns THD in decibels.
func (m ToneMetrics) THDDB() float64 { return ratioToDB(m.THD) }

// THDNDB returns THD+N in decibels.
func (m ToneMetrics) THDNDB() float64 { return ratioToDB(m.THDN) }

// String implements fmt.Stringer.
func (m ToneMetrics) String() string {
	return fmt.Sprintf("%.1f Hz, amplitude %.4f, THD %.1f dB, THD+N %.1f dB",
		m.Frequency, m.Amplitude, m.THDDB(), m.THDNDB())
}

// Spectrum returns the one-sided power spectrum of the first fftSize
// samples of signal after a Hann window. Shorter signals are zero-padded.
func Spectrum[F simdops.Float](signal []F, fftSize int) ([]float64, error) {
	if fftSize < minFFTSize {
		return nil, fmt.Errorf("%w: FFT size %d below %d", ErrInvalidInput, fftSize, minFFTSize)
	}

	x := make([]float64, fftSize)
	for i := range min(len(signal), fftSize) {
		x[i] = float64(signal[i])
	}
	window.Hann(x)

	coeffs := fourier.NewFFT(fftSize).Coefficients(nil, x)
	power := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mag := cmplx.Abs(c)
		power[i] = mag * mag
	}
	return power, nil
}

// MeasureTone locates the strongest component near freq in signal sampled
// at sampleRate and reports its distortion. fftSize must not exceed the
// signal length.
func MeasureTone[F simdops.Float](signal []F, sampleRate, freq float64, fftSize int) (ToneMetrics, error) {
	if fftSize > len(signal) {
		return ToneMetrics{}, fmt.Errorf("%w: %d samples for FFT size %d", ErrInvalidInput, len(signal), fftSize)
	}
	if !(sampleRate > 0) || !(freq > 0) || freq >= sampleRate/2 {
		return ToneMetrics{}, fmt.Errorf("%w: tone %v Hz at rate %v Hz", ErrInvalidInput, freq, sampleRate)
	}

	power, err := Spectrum(signal, fftSize)
	if err != nil {
		return ToneMetrics{}, err
	}

	binHz := sampleRate / float64(fftSize)
	lo := max(dcBins, int(freq/binHz)-toneBins)
	hi := min(len(power)-1, int(freq/binHz)+toneBins)
	if lo > hi {
		return ToneMetrics{}, fmt.Errorf("%w: tone %v Hz too close to DC", ErrInvalidInput, freq)
	}
	peak := lo + floats.MaxIdx(power[lo:hi+1])

	fundamental := bandPower(power, peak)
	if fundamental == 0 {
		return ToneMetrics{}, fmt.Errorf("%w: no energy near %v Hz", ErrInvalidInput, freq)
	}

	var harmonics float64
	for h := 2; h <= maxHarmonics; h++ {
		bin := peak * h
		if bin+toneBins >= len(power) {
			break
		}
		harmonics += bandPower(power, bin)
	}

	total := floats.Sum(power[dcBins:])
	rest := max(0, total-fundamental)

	return ToneMetrics{
		Frequency: interpolatePeak(power, peak) * binHz,
		Amplitude: amplitude(power, peak, fftSize),
		THD:       math.Sqrt(harmonics / fundamental),
		THDN:      math.Sqrt(rest / fundamental),
	}, nil
}

// bandPower sums the power within toneBins of center.
func bandPower(power []float64, center int) float64 {
	lo := max(0, center-toneBins)
	hi := min(len(power), center+toneBins+1)
	return floats.Sum(power[lo:hi])
}

// amplitude converts the main-lobe power to peak amplitude. The Hann
// window spreads a tone over three bins; summing them and taking the
// energy-equivalent magnitude recovers the amplitude independent of where
// the tone falls between bins.
func amplitude(power []float64, peak, fftSize int) float64 {
	// Hann has an equivalent noise bandwidth of 1.5 bins.
	const enbw = 1.5
	mag := math.Sqrt(bandPower(power, peak) / enbw)
	return 2 * mag / (float64(fftSize) * hannCoherentGain)
}

// interpolatePeak refines the peak bin with a parabolic fit on log power.
func interpolatePeak(power []float64, peak int) float64 {
	if peak < 1 || peak+1 >= len(power) || power[peak-1] <= 0 || power[peak+1] <= 0 {
		return float64(peak)
	}
	a := math.Log(power[peak-1])
	b := math.Log(power[peak])
	c := math.Log(power[peak+1])
	den := a - 2*b + c
	if den == 0 {
		return float64(peak)
	}
	return float64(peak) + 0.5*(a-c)/den
}

func ratioToDB(r float64) float64 {
	if r <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(r)
}
