package soundchip

import (
	"fmt"
	"sync"
)

// addressSpace is the number of register offsets a registry can map.
const addressSpace = 1 << 16

type entry struct {
	chip  Chip
	base  uint16
	size  uint16
	carry int // kept between CalculateSamples calls
}

// Registry holds the chips of one machine in registration order. Each chip
// gets a contiguous range of register offsets starting at its base.
//
// All methods lock the registry, so the emulation goroutine can store
// registers while the audio goroutine pulls samples.
type Registry struct {
	mu      sync.Mutex
	entries []entry
	next    int

	sampleRate      int
	cyclesPerSecond int
	opened          bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds chip with size registers and returns its base offset.
// If the registry is already open the chip is initialised immediately.
// Running out of offsets, or a late chip refusing the open rates, panics
// and leaves the chip unmapped.
func (r *Registry) Register(chip Chip, size uint16) uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	base := r.next
	if base == addressSpace || base+int(size) > addressSpace {
		panic(fmt.Sprintf("soundchip: no room for %d registers at offset %d", size, base))
	}
	if r.opened && !chip.Init(r.sampleRate, r.cyclesPerSecond) {
		panic(fmt.Sprintf("soundchip: chip %d (base %d) failed to init at %d Hz", len(r.entries), base, r.sampleRate))
	}
	r.entries = append(r.entries, entry{chip: chip, base: uint16(base), size: size})
	r.next += int(size)
	return uint16(base)
}

// Open initialises every registered chip. It returns an error naming the
// first chip that refuses the rates.
func (r *Registry) Open(sampleRate int, cyclesPerSecond int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sampleRate = sampleRate
	r.cyclesPerSecond = cyclesPerSecond
	for i, e := range r.entries {
		if !e.chip.Init(sampleRate, cyclesPerSecond) {
			return fmt.Errorf("soundchip: chip %d (base %d) failed to init at %d Hz", i, e.base, sampleRate)
		}
	}
	r.opened = true
	return nil
}

// find returns the entry owning addr. Unmapped addresses panic: the caller's
// address decoder should never route them here.
func (r *Registry) find(addr uint16) entry {
	for _, e := range r.entries {
		if addr >= e.base && int(addr) < int(e.base)+int(e.size) {
			return e
		}
	}
	panic(fmt.Sprintf("soundchip: no chip mapped at offset %d", addr))
}

// Store writes value to the chip register at addr.
func (r *Registry) Store(addr uint16, value uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.find(addr)
	e.chip.Store(addr-e.base, value)
}

// Read reads the chip register at addr.
func (r *Registry) Read(addr uint16) uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.find(addr)
	return e.chip.Read(addr - e.base)
}

// Reset resets every chip.
func (r *Registry) Reset(clock uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		e.chip.Reset(clock)
	}
}

// CalculateSamples lets every chip mix frames of output into buf on top of
// its existing contents. Each chip keeps its own carry across calls. Returns the smallest frame count any chip
// produced, or frames if no chips are registered.
func (r *Registry) CalculateSamples(buf []int16, frames int, outChannels int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(buf) < frames*outChannels {
		panic(fmt.Sprintf("soundchip: buffer of %d samples too small for %d frames of %d channels",
			len(buf), frames, outChannels))
	}

	produced := frames
	for i := range r.entries {
		e := &r.entries[i]
		n := e.chip.CalculateSamples(buf, frames, outChannels, e.chip.Channels(), &e.carry)
		if n < produced {
			produced = n
		}
	}
	return produced
}

// Chips returns the registered chips in registration order.
func (r *Registry) Chips() []Chip {
	r.mu.Lock()
	defer r.mu.Unlock()

	chips := make([]Chip, len(r.entries))
	for i, e := range r.entries {
		chips[i] = e.chip
	}
	return chips
}

// Base returns the base offset of chip, or false if it is not registered.
func (r *Registry) Base(chip Chip) (uint16, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.chip == chip {
			return e.base, true
		}
	}
	return 0, false
}
