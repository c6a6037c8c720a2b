// Package apu implements the audio processing unit as a pure register
// translator: it never synthesizes samples, only observes $4000-$4015
// writes and reports the resulting high-level parameters to an
// audio.Sink. Noise and DMC are out of scope; only Pulse1, Pulse2, and
// Triangle are tracked.
package apu

import (
	"log"

	"gones/internal/audio"
)

var dutyCycles = [4]float64{0.125, 0.25, 0.50, 0.75}

// pulseState is the subset of a pulse channel's registers the translator
// needs to recompute duty/volume/frequency on each write.
type pulseState struct {
	period uint16
	duty   float64
	volume float64
}

// APU tracks just enough register state to translate writes into
// audio.Sink calls; it holds no timers, envelopes, or sequencers.
type APU struct {
	Sink audio.Sink

	pulse1, pulse2 pulseState
	trianglePeriod uint16
	triangleMuted  bool

	enabled [3]bool // indexed by audio.Channel
}

// New returns an APU translator driving sink.
func New(sink audio.Sink) *APU {
	return &APU{Sink: sink}
}

// Reset clears all tracked register state.
func (a *APU) Reset() {
	a.pulse1 = pulseState{}
	a.pulse2 = pulseState{}
	a.trianglePeriod = 0
	a.triangleMuted = false
	for i := range a.enabled {
		a.enabled[i] = false
	}
}

// ReadRegister implements the bus.APURegisters read path. Only $4015
// (channel-enable status) is meaningfully readable; everything else
// returns 0, matching a silent/open APU.
func (a *APU) ReadRegister(addr uint16) (uint8, error) {
	if addr != 0x4015 {
		return 0, nil
	}
	var v uint8
	for ch, on := range a.enabled {
		if on {
			v |= 1 << uint(ch)
		}
	}
	return v, nil
}

// WriteRegister implements the bus.APURegisters write path per spec §4.5.
// Writes to registers this translator does not model (noise, DMC, the
// frame counter at $4017, sweep/length-counter bits) are logged and
// otherwise ignored; they are not errors.
func (a *APU) WriteRegister(addr uint16, v uint8) error {
	switch addr {
	case 0x4000:
		return a.writeDutyVolume(audio.Pulse1, &a.pulse1, v)
	case 0x4004:
		return a.writeDutyVolume(audio.Pulse2, &a.pulse2, v)
	case 0x4002:
		a.pulse1.period = (a.pulse1.period &^ 0x00FF) | uint16(v)
		return a.emitPulseFreq(audio.Pulse1, a.pulse1.period)
	case 0x4006:
		a.pulse2.period = (a.pulse2.period &^ 0x00FF) | uint16(v)
		return a.emitPulseFreq(audio.Pulse2, a.pulse2.period)
	case 0x4003:
		a.pulse1.period = (a.pulse1.period & 0x00FF) | (uint16(v)&0x07)<<8
		return a.emitPulseFreq(audio.Pulse1, a.pulse1.period)
	case 0x4007:
		a.pulse2.period = (a.pulse2.period & 0x00FF) | (uint16(v)&0x07)<<8
		return a.emitPulseFreq(audio.Pulse2, a.pulse2.period)
	case 0x4008:
		muted := v&0xC0 != 0
		if muted == a.triangleMuted {
			return nil
		}
		a.triangleMuted = muted
		return a.Sink.UpdateTriangle(&muted, nil)
	case 0x400A:
		a.trianglePeriod = (a.trianglePeriod &^ 0x00FF) | uint16(v)
		return a.emitTriangleFreq()
	case 0x400B:
		a.trianglePeriod = (a.trianglePeriod & 0x00FF) | (uint16(v)&0x07)<<8
		return a.emitTriangleFreq()
	case 0x4015:
		return a.writeChannelEnable(v)
	default:
		log.Printf("apu: ignoring write $%02X to unimplemented register $%04X", v, addr)
		return nil
	}
}

func (a *APU) writeDutyVolume(ch audio.Channel, st *pulseState, v uint8) error {
	duty := dutyCycles[(v>>6)&0x03]
	volume := float64(v&0x0F) / 15.0
	st.duty, st.volume = duty, volume
	return a.Sink.UpdatePulse(ch, &duty, &volume, nil)
}

func (a *APU) emitPulseFreq(ch audio.Channel, period uint16) error {
	freq := pulseFrequencyHz(period)
	return a.Sink.UpdatePulse(ch, nil, nil, &freq)
}

func (a *APU) emitTriangleFreq() error {
	freq := triangleFrequencyHz(a.trianglePeriod)
	return a.Sink.UpdateTriangle(nil, &freq)
}

func (a *APU) writeChannelEnable(v uint8) error {
	for ch := 0; ch < 3; ch++ {
		on := v>>uint(ch)&1 != 0
		if on == a.enabled[ch] {
			continue
		}
		a.enabled[ch] = on
		if err := a.Sink.EnableChannel(audio.Channel(ch), on); err != nil {
			return err
		}
	}
	return nil
}

// pulseFrequencyHz and triangleFrequencyHz implement spec §4.5's formula:
// clamp(111860.8/(period+1), 100, 2000). The spec permits a different
// constant for the triangle channel; this translator uses the same one
// for both, since nothing in the reference material calls for a
// different value.
func pulseFrequencyHz(period uint16) float64    { return clampFreq(111860.8 / float64(period+1)) }
func triangleFrequencyHz(period uint16) float64 { return clampFreq(111860.8 / float64(period+1)) }

func clampFreq(hz float64) float64 {
	if hz < 100 {
		return 100
	}
	if hz > 2000 {
		return 2000
	}
	return hz
}
