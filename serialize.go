package petsound

import (
	"encoding/binary"
	"errors"
	"math"
)

const serializeVersion = 2
const petsoundSerializeSize = 22

// SerializeSize returns the number of bytes needed to serialize the chip state.
// The value is constant and can be used to pre-allocate a reusable buffer.
func (p *PetSound) SerializeSize() int {
	return petsoundSerializeSize
}

// Serialize writes all mutable chip state into buf in a compact little-endian
// binary format. Returns an error if len(buf) < SerializeSize(). The sample
// rate and machine clock are not included; the caller supplies them to New.
func (p *PetSound) Serialize(buf []byte) error {
	if len(buf) < petsoundSerializeSize {
		return errors.New("petsound: serialize buffer too small")
	}

	buf[0] = serializeVersion
	buf[1] = boolByte(p.enabled)
	buf[2] = boolByte(p.manual)
	buf[3] = p.waveform
	binary.LittleEndian.PutUint16(buf[4:], p.clock.Period())
	binary.LittleEndian.PutUint64(buf[6:], math.Float64bits(p.cursor))
	binary.LittleEndian.PutUint64(buf[14:], math.Float64bits(p.clock.BitsPerSample()))
	return nil
}

// Deserialize restores all mutable chip state from buf, which must have been
// produced by Serialize. Returns an error if the buffer is too small, was
// produced by an incompatible version, holds a cursor outside the waveform
// or a negative or non-finite bits per sample. Bits per sample is restored
// as saved, so a period whose high byte is still pending keeps the old rate.
func (p *PetSound) Deserialize(buf []byte) error {
	if len(buf) < petsoundSerializeSize {
		return errors.New("petsound: deserialize buffer too small")
	}
	if buf[0] != serializeVersion {
		return errors.New("petsound: unsupported serialize version")
	}
	cursor := math.Float64frombits(binary.LittleEndian.Uint64(buf[6:]))
	if !(cursor >= 0 && cursor < waveformBits) {
		return errors.New("petsound: cursor out of range")
	}
	bps := math.Float64frombits(binary.LittleEndian.Uint64(buf[14:]))
	if !(bps >= 0) || math.IsInf(bps, 1) {
		return errors.New("petsound: bits per sample out of range")
	}

	p.enabled = buf[1] != 0
	p.manual = buf[2] != 0
	p.waveform = buf[3]
	p.clock.restore(binary.LittleEndian.Uint16(buf[4:]), bps)
	p.cursor = cursor
	return nil
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
