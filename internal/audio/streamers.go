package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"

	"github.com/dunkmaster/backend/internal/game"
)

// fadeFloor is the gain every voice decays to by the end of its duration.
const fadeFloor = 0.01

// oscillator is a single voice with an exponential pitch slide and an
// exponential fade from vol to fadeFloor.
type oscillator struct {
	wave     game.Waveform
	freq     float64
	slideTo  float64
	vol      float64
	phase    float64
	position int
	total    int
	rate     beep.SampleRate
}

func newOscillator(rate beep.SampleRate, freq float64, wave game.Waveform, duration time.Duration, vol, slideTo float64) *oscillator {
	return &oscillator{
		wave:    wave,
		freq:    freq,
		slideTo: slideTo,
		vol:     vol,
		total:   rate.N(duration),
		rate:    rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.total {
			return i, i > 0
		}
		t := float64(o.position) / float64(o.total)

		var val float64
		switch o.wave {
		case game.WaveSquare:
			if o.phase < 0.5 {
				val = 1
			} else {
				val = -1
			}
		case game.WaveSawtooth:
			val = 2 * (o.phase - 0.5)
		case game.WaveTriangle:
			val = 4*math.Abs(o.phase-0.5) - 1
		default:
			val = math.Sin(2 * math.Pi * o.phase)
		}
		val *= expRamp(o.vol, fadeFloor, t)

		samples[i][0] = val
		samples[i][1] = val

		freq := o.freq
		if o.slideTo > 0 {
			freq = expRamp(o.freq, o.slideTo, t)
		}
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// noise is white noise through a one-pole lowpass whose cutoff can sweep down to 100Hz.
type noise struct {
	rng      *rand.Rand
	cutoff   float64
	sweep    bool
	vol      float64
	last     float64
	position int
	total    int
	rate     beep.SampleRate
}

func newNoise(rate beep.SampleRate, rng *rand.Rand, duration time.Duration, vol, cutoff float64, sweep bool) *noise {
	return &noise{
		rng:    rng,
		cutoff: cutoff,
		sweep:  sweep,
		vol:    vol,
		total:  rate.N(duration),
		rate:   rate,
	}
}

func (s *noise) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.position >= s.total {
			return i, i > 0
		}
		t := float64(s.position) / float64(s.total)

		cutoff := s.cutoff
		if s.sweep {
			cutoff = expRamp(s.cutoff, 100, t)
		}
		alpha := 1 - math.Exp(-2*math.Pi*cutoff/float64(s.rate))
		s.last += alpha * (s.rng.Float64()*2 - 1 - s.last)

		val := s.last * expRamp(s.vol, fadeFloor, t)
		samples[i][0] = val
		samples[i][1] = val
		s.position++
	}
	return len(samples), true
}

func (s *noise) Err() error { return nil }

// expRamp interpolates exponentially from a to b for t in [0, 1].
func expRamp(a, b, t float64) float64 {
	if a <= 0 || b <= 0 {
		return a + (b-a)*t
	}
	return a * math.Pow(b/a, t)
}
