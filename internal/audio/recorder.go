package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// Recorder is an offline Sink: voices are mixed into a buffer as the game clock
// advances, and the result can be written out as a WAV file.
type Recorder struct {
	mu     sync.Mutex
	format beep.Format
	mixer  *beep.Mixer
	buf    *beep.Buffer
}

func NewRecorder(rate beep.SampleRate) *Recorder {
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	return &Recorder{
		format: format,
		mixer:  &beep.Mixer{},
		buf:    beep.NewBuffer(format),
	}
}

func (r *Recorder) Play(s beep.Streamer) {
	r.mu.Lock()
	r.mixer.Add(s)
	r.mu.Unlock()
}

// Advance renders d worth of the current mix. Gaps with nothing playing are
// recorded as silence.
func (r *Recorder) Advance(d time.Duration) {
	n := r.format.SampleRate.N(d)
	if n <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.Append(beep.Take(n, beep.Seq(r.mixer, beep.Silence(-1))))
}

// Active is the number of voices still playing.
func (r *Recorder) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mixer.Len()
}

// Len is the number of recorded frames.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Len()
}

func (r *Recorder) Duration() time.Duration {
	return r.format.SampleRate.D(r.Len())
}

// Peak returns the largest absolute sample value recorded so far.
func (r *Recorder) Peak() float64 {
	r.mu.Lock()
	s := r.buf.Streamer(0, r.buf.Len())
	r.mu.Unlock()

	var peak float64
	samples := make([][2]float64, 512)
	for {
		n, ok := s.Stream(samples)
		for _, v := range samples[:n] {
			for _, c := range v {
				if c < 0 {
					c = -c
				}
				if c > peak {
					peak = c
				}
			}
		}
		if !ok {
			return peak
		}
	}
}

func (r *Recorder) WriteWAV(w io.WriteSeeker) error {
	r.mu.Lock()
	s := r.buf.Streamer(0, r.buf.Len())
	r.mu.Unlock()

	if err := wav.Encode(w, s, r.format); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}
