package petsound

// WaveformClock converts the VIA timer 2 shift period into the number of
// shift register bits consumed per output sample.
//
// The period is written as two bytes, low then high, mirroring the 16-bit
// timer latch. Only the high byte write recomputes BitsPerSample.
type WaveformClock struct {
	cyclesPerSecond int
	sampleRate      int

	period        uint16  // cycles between bit shifts
	bitsPerSample float64 // 0 while stalled
}

// SetCyclesPerSecond sets the machine clock used for later recomputation.
func (c *WaveformClock) SetCyclesPerSecond(cycles int) {
	c.cyclesPerSecond = cycles
}

// SetSampleRate sets the host audio rate used for later recomputation.
func (c *WaveformClock) SetSampleRate(rate int) {
	c.sampleRate = rate
}

// SetPeriodLow stores the low byte of the shift period. BitsPerSample is
// not updated until the high byte arrives.
func (c *WaveformClock) SetPeriodLow(value uint8) {
	c.period = (c.period & 0xFF00) | uint16(value)
}

// SetPeriodHigh combines value with the stored low byte and recomputes
// BitsPerSample.
func (c *WaveformClock) SetPeriodHigh(value uint8) {
	c.period = (c.period & 0x00FF) | uint16(value)<<8
	c.recompute()
}

// SetPeriod writes the whole period at once and recomputes.
func (c *WaveformClock) SetPeriod(period uint16) {
	c.period = period
	c.recompute()
}

// restore loads a saved period and rate verbatim. The rate may lag the
// period when a low byte was written without its high byte.
func (c *WaveformClock) restore(period uint16, bitsPerSample float64) {
	c.period = period
	c.bitsPerSample = bitsPerSample
}

// A zero period or zero sample rate leaves the clock stalled: nothing is
// shifted, so the cursor holds its position and the output holds the
// current bit level.
func (c *WaveformClock) recompute() {
	if c.period == 0 || c.sampleRate <= 0 {
		c.bitsPerSample = 0
		return
	}
	c.bitsPerSample = float64(c.cyclesPerSecond) / (float64(c.period) * float64(c.sampleRate))
}

// Period returns the programmed 16-bit shift period.
func (c *WaveformClock) Period() uint16 {
	return c.period
}

// BitsPerSample returns the fractional number of bit slots covered by one
// output sample.
func (c *WaveformClock) BitsPerSample() float64 {
	return c.bitsPerSample
}

// Stalled reports whether the clock is not shifting.
func (c *WaveformClock) Stalled() bool {
	return c.bitsPerSample == 0
}
