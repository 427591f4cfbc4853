package audio

import (
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/dunkmaster/backend/internal/game"
)

// Sink receives finished voices. A Recorder is one; a live speaker mixer is another.
type Sink interface {
	Play(s beep.Streamer)
}

// Synth renders game sounds procedurally. It implements game.Audio and stays
// silent until Init attaches a sink, and whenever it is muted.
type Synth struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	sink   Sink
	muted  bool
	master float64
	rng    *rand.Rand
}

var _ game.Audio = (*Synth)(nil)

func NewSynth(rate beep.SampleRate, seed int64) *Synth {
	if rate <= 0 {
		rate = beep.SampleRate(44100)
	}
	return &Synth{
		rate:   rate,
		master: 1,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Init attaches the output. Only the first call has any effect.
func (s *Synth) Init(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sink != nil || sink == nil {
		return
	}
	s.sink = sink
	log.Printf("[AUDIO] Synth initialised at %d Hz", s.rate)
}

func (s *Synth) SetMuted(muted bool) {
	s.mu.Lock()
	s.muted = muted
	s.mu.Unlock()
}

func (s *Synth) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// ToggleMute flips the mute flag and returns the new value.
func (s *Synth) ToggleMute() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = !s.muted
	return s.muted
}

// SetVolume scales every voice. Values outside [0, 1] are clamped.
func (s *Synth) SetVolume(v float64) {
	s.mu.Lock()
	s.master = math.Max(0, math.Min(1, v))
	s.mu.Unlock()
}

func (s *Synth) Jump() {
	s.play(0, s.osc(200, game.WaveTriangle, 200*time.Millisecond, 0.1, 400))
	s.play(0, s.noise(200*time.Millisecond, 0.05, 800, true))
}

func (s *Synth) Hit() {
	s.play(0, s.osc(150, game.WaveSquare, 100*time.Millisecond, 0.05, 50))
	s.play(0, s.noise(50*time.Millisecond, 0.05, 600, false))
}

func (s *Synth) Score(perfect bool) {
	if perfect {
		s.play(0, s.noise(400*time.Millisecond, 0.15, 2000, true))
		s.play(0, s.osc(1318, game.WaveSine, 400*time.Millisecond, 0.05, 0))
		s.play(100*time.Millisecond, s.osc(1567, game.WaveSine, 400*time.Millisecond, 0.05, 0))
		s.play(200*time.Millisecond, s.osc(1975, game.WaveSine, 500*time.Millisecond, 0.05, 0))
		return
	}
	s.play(0, s.noise(100*time.Millisecond, 0.1, 500, false))
	s.play(50*time.Millisecond, s.osc(523.25, game.WaveTriangle, 200*time.Millisecond, 0.1, 0))
	s.play(100*time.Millisecond, s.osc(659.25, game.WaveTriangle, 200*time.Millisecond, 0.1, 0))
	s.play(150*time.Millisecond, s.osc(783.99, game.WaveTriangle, 300*time.Millisecond, 0.1, 0))
}

// FloorBounce gets quieter for softer impacts and never exceeds 0.2.
func (s *Synth) FloorBounce(velocity float64) {
	vol := math.Min(0.2, velocity*0.05)
	if vol <= 0 {
		return
	}
	s.play(0, s.osc(100, game.WaveSine, 150*time.Millisecond, vol, 50))
}

func (s *Synth) GameOver() {
	s.play(0, s.osc(800, game.WaveSawtooth, 800*time.Millisecond, 0.2, 50))
	s.play(0, s.noise(800*time.Millisecond, 0.1, 1000, true))
	s.play(100*time.Millisecond, s.osc(392, game.WaveSquare, 300*time.Millisecond, 0.1, 0))
	s.play(400*time.Millisecond, s.osc(370, game.WaveSquare, 300*time.Millisecond, 0.1, 0))
	s.play(700*time.Millisecond, s.osc(349, game.WaveSquare, 600*time.Millisecond, 0.1, 0))
}

// Tone plays a single voice; duration is in seconds.
func (s *Synth) Tone(freq float64, wave game.Waveform, duration, volume float64) {
	if freq <= 0 || duration <= 0 {
		return
	}
	if volume <= 0 {
		volume = game.DefaultToneVolume
	}
	d := time.Duration(duration * float64(time.Second))
	s.play(0, s.osc(freq, wave, d, volume, 0))
}

// Blip is a short pure tone used for menu feedback.
func (s *Synth) Blip(freq float64) {
	sine, err := generators.SineTone(s.rate, freq)
	if err != nil {
		log.Printf("[AUDIO] blip at %.0f Hz: %v", freq, err)
		return
	}
	s.play(0, &effects.Volume{Streamer: beep.Take(s.rate.N(50*time.Millisecond), sine), Base: 2, Volume: math.Log2(0.1)})
}

func (s *Synth) osc(freq float64, wave game.Waveform, d time.Duration, vol, slideTo float64) beep.Streamer {
	return newOscillator(s.rate, freq, wave, d, vol, slideTo)
}

func (s *Synth) noise(d time.Duration, vol, cutoff float64, sweep bool) beep.Streamer {
	s.mu.Lock()
	seed := s.rng.Int63()
	s.mu.Unlock()
	return newNoise(s.rate, rand.New(rand.NewSource(seed)), d, vol, cutoff, sweep)
}

// play hands a voice to the sink after delay, scaled by the master volume.
func (s *Synth) play(delay time.Duration, voice beep.Streamer) {
	s.mu.Lock()
	sink, muted, master := s.sink, s.muted, s.master
	s.mu.Unlock()

	if sink == nil || muted || master <= 0 {
		return
	}
	if master < 1 {
		voice = &effects.Volume{Streamer: voice, Base: 2, Volume: math.Log2(master)}
	}
	if delay > 0 {
		voice = beep.Seq(beep.Silence(s.rate.N(delay)), voice)
	}
	sink.Play(voice)
}
