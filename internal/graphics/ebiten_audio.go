package graphics

import (
	"io"
	"math"
	"sync"

	ebitenaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"gones/internal/audio"
)

// SampleRate is the fixed PCM sample rate used for oscillator synthesis.
const SampleRate = 44100

type oscillator struct {
	mu      sync.Mutex
	enabled bool
	mute    bool
	freqHz  float64
	volume  float64
	duty    float64
	phase   float64
	isTri   bool
}

// Read implements io.Reader, streaming signed 16-bit little-endian stereo
// PCM for one oscillator. Silence is emitted whenever the channel is
// disabled or muted, matching the APU's translate-only role: the tone
// shape comes entirely from the last UpdatePulse/UpdateTriangle event.
func (o *oscillator) Read(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := len(p) / 4 * 4
	for i := 0; i < n; i += 4 {
		var sample float64
		if o.enabled && !o.mute && o.freqHz > 0 {
			if o.isTri {
				sample = triangleWave(o.phase) * o.volume
			} else {
				sample = squareWave(o.phase, o.duty) * o.volume
			}
			o.phase += o.freqHz / SampleRate
			if o.phase >= 1 {
				o.phase -= math.Trunc(o.phase)
			}
		}
		v := int16(sample * 12000)
		p[i] = byte(v)
		p[i+1] = byte(v >> 8)
		p[i+2] = byte(v)
		p[i+3] = byte(v >> 8)
	}
	return n, nil
}

func squareWave(phase, duty float64) float64 {
	if phase < duty {
		return 1
	}
	return -1
}

func triangleWave(phase float64) float64 {
	return 4*math.Abs(phase-0.5) - 1
}

// AudioSink implements audio.Sink on top of ebiten's audio context,
// synthesizing square waves for the two pulse channels and a triangle
// wave for the triangle channel from the APU's translated events.
type AudioSink struct {
	pulse1, pulse2, triangle *oscillator
	players                  [3]*ebitenaudio.Player
}

var _ audio.Sink = (*AudioSink)(nil)

// NewAudioSink creates and starts three looping oscillator players against
// ctx. Pass ebitenaudio.CurrentContext() once ebiten has initialized one, or
// a fresh ebitenaudio.NewContext(sampleRate) before the game starts.
func NewAudioSink(ctx *ebitenaudio.Context) (*AudioSink, error) {
	s := &AudioSink{
		pulse1:   &oscillator{duty: 0.5},
		pulse2:   &oscillator{duty: 0.5},
		triangle: &oscillator{isTri: true},
	}

	oscs := []io.Reader{s.pulse1, s.pulse2, s.triangle}
	for i, r := range oscs {
		p, err := ctx.NewPlayer(r)
		if err != nil {
			return nil, err
		}
		p.Play()
		s.players[i] = p
	}
	return s, nil
}

// EnableChannel implements audio.Sink.
func (s *AudioSink) EnableChannel(ch audio.Channel, enabled bool) error {
	o := s.oscillatorFor(ch)
	o.mu.Lock()
	o.enabled = enabled
	o.mu.Unlock()
	return nil
}

// UpdatePulse implements audio.Sink.
func (s *AudioSink) UpdatePulse(ch audio.Channel, dutyCycle, volume, freqHz *float64) error {
	o := s.oscillatorFor(ch)
	o.mu.Lock()
	if dutyCycle != nil {
		o.duty = *dutyCycle
	}
	if volume != nil {
		o.volume = *volume
	}
	if freqHz != nil {
		o.freqHz = *freqHz
	}
	o.mu.Unlock()
	return nil
}

// UpdateTriangle implements audio.Sink.
func (s *AudioSink) UpdateTriangle(muted *bool, freqHz *float64) error {
	o := s.triangle
	o.mu.Lock()
	if muted != nil {
		o.mute = *muted
	}
	if freqHz != nil {
		o.freqHz = *freqHz
	}
	o.volume = 0.6
	o.mu.Unlock()
	return nil
}

func (s *AudioSink) oscillatorFor(ch audio.Channel) *oscillator {
	switch ch {
	case audio.Pulse2:
		return s.pulse2
	case audio.Triangle:
		return s.triangle
	default:
		return s.pulse1
	}
}
