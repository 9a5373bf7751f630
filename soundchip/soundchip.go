// Package soundchip defines the contract between sound chip cores and the
// host mixer, and a registry that maps chips into one register space.
package soundchip

import "math"

// Chip is implemented by every sound chip core the registry can host.
type Chip interface {
	// Init captures the host sample rate and machine clock. Returns false
	// if the chip cannot run with them.
	Init(sampleRate int, cyclesPerSecond int) bool
	// Store writes a register at a chip-relative offset.
	Store(offset uint16, value uint8)
	// Read reads a register at a chip-relative offset.
	Read(offset uint16) uint8
	// Reset is called on machine reset.
	Reset(clock uint64)
	// CalculateSamples mixes frames of output into the interleaved buf
	// and returns the number of frames produced. carry belongs to the chip
	// and keeps its value from one call to the next.
	CalculateSamples(buf []int16, frames int, outChannels int, chipChannels int, carry *int) int
	// IsCycleBased reports whether the chip needs per-cycle updates.
	IsCycleBased() bool
	// Channels returns the number of chip channels.
	Channels() int
}

// Mix adds v to existing, saturating at the int16 range.
func Mix(existing int16, v int16) int16 {
	sum := int32(existing) + int32(v)
	if sum > math.MaxInt16 {
		return math.MaxInt16
	}
	if sum < math.MinInt16 {
		return math.MinInt16
	}
	return int16(sum)
}
