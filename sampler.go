package petsound

import (
	"math"
	"math/bits"
)

const (
	// MaxSample is the level of a fully set output window (12-bit).
	MaxSample = 4095

	// waveformBits is the number of bit slots in the shift register.
	waveformBits = 8
)

// waveformBit reports whether bit slot i of wave is set. Slots count from
// the most significant bit, which is shifted out first.
func waveformBit(wave uint8, slot int) bool {
	return wave&(0x80>>uint(slot%waveformBits)) != 0
}

// exactSample returns the instantaneous level of the slot under cursor.
// Used when one bit spans at least one whole output sample.
func exactSample(cursor float64, wave uint8) uint16 {
	if waveformBit(wave, int(cursor)) {
		return MaxSample
	}
	return 0
}

// windowSample averages the waveform over the bit window [s, e). The
// window must span more than one slot; shorter windows would count the
// start slot twice.
func windowSample(s, e float64, wave uint8) uint16 {
	sf := math.Floor(s)
	sc := sf + 1
	ef := math.Floor(e)

	// whole slots in [sc, ef): complete bytes first, then the remainder
	first, last := int(sc), int(ef)
	var n int
	if last > first {
		n = (last - first) / waveformBits * bits.OnesCount8(wave)
		for i := first + (last-first)/waveformBits*waveformBits; i < last; i++ {
			if waveformBit(wave, i) {
				n++
			}
		}
	}
	v := float64(n)

	// partial slots at either end of the window
	if waveformBit(wave, int(sf)) {
		v += sc - s
	}
	if waveformBit(wave, int(ef)) {
		v += e - ef
	}

	v = math.Round(v * MaxSample / (e - s))
	if v > MaxSample {
		v = MaxSample
	}
	return uint16(v)
}

// sampleAt picks exact mode for windows of one bit or less and averaging
// for anything wider.
func sampleAt(cursor, bitsPerSample float64, wave uint8) uint16 {
	if bitsPerSample <= 1.0 {
		return exactSample(cursor, wave)
	}
	return windowSample(cursor, cursor+bitsPerSample, wave)
}

// advance moves the cursor by one sample window, wrapped into [0, 8).
func advance(cursor, bitsPerSample float64) float64 {
	return math.Mod(cursor+bitsPerSample, waveformBits)
}
