package game

// EventKind names a side effect produced by the simulation.
type EventKind string

const (
	EventJump        EventKind = "jump"
	EventHit         EventKind = "hit"
	EventScore       EventKind = "score"
	EventFloorBounce EventKind = "floor_bounce"
	EventGameOver    EventKind = "game_over"
	EventTone        EventKind = "tone"
	EventVibrate     EventKind = "vibrate"
	EventText        EventKind = "text"
	EventWarning     EventKind = "warning"
	EventLives       EventKind = "lives"
)

// Waveform is an oscillator shape for tone events.
type Waveform string

const (
	WaveSine     Waveform = "sine"
	WaveSquare   Waveform = "square"
	WaveSawtooth Waveform = "sawtooth"
	WaveTriangle Waveform = "triangle"
)

// DefaultToneVolume applies when a tone is requested without a volume.
const DefaultToneVolume = 0.1

// Event is a discrete trigger for audio, haptics or UI. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind     EventKind `json:"kind"`
	Perfect  bool      `json:"perfect,omitempty"`
	Velocity float64   `json:"velocity,omitempty"`
	Freq     float64   `json:"freq,omitempty"`
	Wave     Waveform  `json:"wave,omitempty"`
	Duration float64   `json:"duration,omitempty"`
	Volume   float64   `json:"volume,omitempty"`
	Pattern  []int     `json:"pattern,omitempty"`
	Text     string    `json:"text,omitempty"`
	Color    string    `json:"color,omitempty"`
	X        float64   `json:"x,omitempty"`
	Y        float64   `json:"y,omitempty"`
	Score    int       `json:"score,omitempty"`
	Lives    int       `json:"lives,omitempty"`
}

// Audio plays game sounds. Implementations must treat every call as fire-and-forget
// and stay silent when muted or not yet initialised.
type Audio interface {
	Jump()
	Hit()
	Score(perfect bool)
	FloorBounce(velocity float64)
	GameOver()
	Tone(freq float64, wave Waveform, duration, volume float64)
}

// Haptics vibrates the device. A single value is a duration in ms; more values
// alternate vibrate and pause.
type Haptics interface {
	Vibrate(pattern ...int)
}

// Dispatch forwards events to the audio and haptics collaborators. Either may be nil.
func Dispatch(events []Event, audio Audio, haptics Haptics) {
	for _, e := range events {
		switch e.Kind {
		case EventVibrate:
			if haptics != nil {
				haptics.Vibrate(e.Pattern...)
			}
			continue
		case EventText, EventWarning, EventLives:
			continue
		}
		if audio == nil {
			continue
		}
		switch e.Kind {
		case EventJump:
			audio.Jump()
		case EventHit:
			audio.Hit()
		case EventScore:
			audio.Score(e.Perfect)
		case EventFloorBounce:
			audio.FloorBounce(e.Velocity)
		case EventGameOver:
			audio.GameOver()
		case EventTone:
			vol := e.Volume
			if vol == 0 {
				vol = DefaultToneVolume
			}
			audio.Tone(e.Freq, e.Wave, e.Duration, vol)
		}
	}
}

func (g *GameState) emit(e Event) {
	g.events = append(g.events, e)
}

func (g *GameState) tone(freq float64, wave Waveform, duration, volume float64) {
	g.emit(Event{Kind: EventTone, Freq: freq, Wave: wave, Duration: duration, Volume: volume})
}

func (g *GameState) vibrate(pattern ...int) {
	g.emit(Event{Kind: EventVibrate, Pattern: pattern})
}

// floatingText shows a short-lived label at a world position.
func (g *GameState) floatingText(text string, x, y float64, color string) {
	g.emit(Event{Kind: EventText, Text: text, X: x, Y: y, Color: color})
}

// warning announces a newly introduced hazard with an alarm tone.
func (g *GameState) warning(text, color string) {
	g.emit(Event{Kind: EventWarning, Text: text, Color: color})
	g.tone(100, WaveSawtooth, 0.5, 0.05)
}

func (g *GameState) livesChanged() {
	g.emit(Event{Kind: EventLives, Lives: g.Lives})
}

// Drain returns the events produced since the last call and clears the buffer.
func (g *GameState) Drain() []Event {
	if len(g.events) == 0 {
		return nil
	}
	out := g.events
	g.events = nil
	return out
}
