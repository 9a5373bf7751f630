// Package petsound emulates the Commodore PET CB2 sound output.
//
// The PET has no sound chip. Programs load a waveform byte into the VIA
// 6522 shift register and let timer 2 clock it out on the CB2 pin in
// free-running mode. This package models that path as a small register
// mapped device producing 12-bit PCM for a host mixer.
package petsound

import (
	"fmt"

	"github.com/user-none/go-chip-petsound/soundchip"
)

// Register offsets relative to the chip's base in the sound registry.
const (
	RegOnOff    = 0 // shift register output gated onto CB2
	RegWaveform = 1 // waveform byte, msb shifted first
	RegRateLo   = 2 // shift period, low byte
	RegRateHi   = 3 // shift period, high byte, triggers recompute
	RegManual   = 4 // CB2 forced high while output is off

	NumRegisters = 5
)

// DefaultPeriod is the shift period programmed at init when none has been
// written yet.
const DefaultPeriod = 32

// PetSound is the channel state for one emulated machine.
type PetSound struct {
	enabled bool
	manual  bool

	waveform uint8
	cursor   float64 // bit position within waveform, [0, 8)

	clock WaveformClock
}

var _ soundchip.Chip = (*PetSound)(nil)

// New creates a PetSound ready to produce samples.
// sampleRate is the host audio rate (e.g., 44100 Hz)
// cyclesPerSecond is the machine clock (1000000 Hz for the PET)
func New(sampleRate int, cyclesPerSecond int) *PetSound {
	p := &PetSound{}
	p.Init(sampleRate, cyclesPerSecond)
	return p
}

// Init captures the audio and machine rates, programs the default period
// if none is set and rewinds the cursor. It always succeeds.
func (p *PetSound) Init(sampleRate int, cyclesPerSecond int) bool {
	p.clock.SetSampleRate(sampleRate)
	p.clock.SetCyclesPerSecond(cyclesPerSecond)
	period := p.clock.Period()
	if period == 0 {
		period = DefaultPeriod
	}
	p.clock.SetPeriod(period)
	p.cursor = 0
	return true
}

// Store handles a write to one of the five registers. Any other offset
// means the bus decoder is broken and panics.
func (p *PetSound) Store(offset uint16, value uint8) {
	switch offset {
	case RegOnOff:
		p.enabled = value != 0
	case RegWaveform:
		p.StoreSample(value)
	case RegRateLo:
		p.clock.SetPeriodLow(value)
	case RegRateHi:
		p.clock.SetPeriodHigh(value)
	case RegManual:
		p.manual = value != 0
	default:
		panic(fmt.Sprintf("petsound: store to invalid register offset %d", offset))
	}
}

// Read always returns 0. The registers are write-only.
func (p *PetSound) Read(offset uint16) uint8 {
	return 0
}

// Reset silences the channel. The programmed period and waveform are kept.
func (p *PetSound) Reset(clock uint64) {
	p.enabled = false
}

// StoreOnOff gates the shift register onto the audio path.
func (p *PetSound) StoreOnOff(on bool) {
	p.enabled = on
}

// StoreRate programs the whole shift period in one call, for VIA models
// that latch timer 2 as a 16-bit value.
func (p *PetSound) StoreRate(period uint16) {
	p.clock.SetPeriod(period)
}

// StoreSample loads a new waveform byte. Only the fractional part of the
// cursor survives, restarting output at the first slot.
func (p *PetSound) StoreSample(wave uint8) {
	p.waveform = wave
	for p.cursor >= 1.0 {
		p.cursor -= 1.0
	}
}

// StoreManual sets the CB2 level used while the shift output is off.
func (p *PetSound) StoreManual(high bool) {
	p.manual = high
}

// Sample produces one output sample in the range 0-4095 and advances the
// cursor by one sample window.
func (p *PetSound) Sample() uint16 {
	var v uint16
	if p.enabled {
		v = sampleAt(p.cursor, p.clock.BitsPerSample(), p.waveform)
	} else if p.manual {
		v = MaxSample
	}
	p.cursor = advance(p.cursor, p.clock.BitsPerSample())
	return v
}

// CalculateSamples mixes frames samples into buf, an interleaved buffer of
// outChannels channels. The mono output is duplicated into every channel.
// chipChannels and carry are part of the registry contract and are not
// used by this chip. Returns frames.
func (p *PetSound) CalculateSamples(buf []int16, frames int, outChannels int, chipChannels int, carry *int) int {
	for i := 0; i < frames; i++ {
		v := int16(p.Sample())
		for ch := 0; ch < outChannels; ch++ {
			idx := i*outChannels + ch
			buf[idx] = soundchip.Mix(buf[idx], v)
		}
	}
	return frames
}

// IsCycleBased reports false: samples are pulled per audio period.
func (p *PetSound) IsCycleBased() bool {
	return false
}

// Channels returns the number of chip channels (1).
func (p *PetSound) Channels() int {
	return 1
}

// Enabled reports whether the shift register output is on
func (p *PetSound) Enabled() bool {
	return p.enabled
}

// Manual reports the manual CB2 level
func (p *PetSound) Manual() bool {
	return p.manual
}

// Waveform returns the current waveform byte
func (p *PetSound) Waveform() uint8 {
	return p.waveform
}

// Cursor returns the bit position within the waveform (for testing)
func (p *PetSound) Cursor() float64 {
	return p.cursor
}

// Period returns the programmed shift period
func (p *PetSound) Period() uint16 {
	return p.clock.Period()
}

// BitsPerSample returns the bit slots consumed per output sample
func (p *PetSound) BitsPerSample() float64 {
	return p.clock.BitsPerSample()
}

// Stalled reports whether a zero period has stopped the shift clock
func (p *PetSound) Stalled() bool {
	return p.clock.Stalled()
}
