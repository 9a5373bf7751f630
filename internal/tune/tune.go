// Package tune loads scripted register writes and renders them through a
// sound registry. A tune stands in for the emulated CPU when auditioning
// the chip outside a machine.
package tune

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	petsound "github.com/user-none/go-chip-petsound"
	"github.com/user-none/go-chip-petsound/soundchip"
	"gopkg.in/yaml.v3"
)

// chunkFrames bounds a single CalculateSamples call.
const chunkFrames = 1024

// RegRate is the pseudo register that writes both period bytes.
const RegRate = "rate"

var registers = map[string]uint16{
	"onoff":    petsound.RegOnOff,
	"waveform": petsound.RegWaveform,
	"rate_lo":  petsound.RegRateLo,
	"rate_hi":  petsound.RegRateHi,
	"manual":   petsound.RegManual,
}

// Event is one register write applied before frame At is rendered.
type Event struct {
	At    int    `yaml:"at"`
	Reg   string `yaml:"reg"`
	Value int    `yaml:"value"`
}

// Tune is a parsed tune script.
type Tune struct {
	SampleRate      int     `yaml:"sample_rate"`       // 0 = caller default
	CyclesPerSecond int     `yaml:"cycles_per_second"` // 0 = caller default
	Frames          int     `yaml:"frames"`
	Events          []Event `yaml:"events"`
}

// Load parses the tune in filename.
func Load(filename string) (*Tune, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("tune: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads and validates a tune. Events are ordered by frame, keeping
// file order for writes to the same frame.
func Parse(r io.Reader) (*Tune, error) {
	var t Tune
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("tune: empty document")
		}
		return nil, fmt.Errorf("tune: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(t.Events, func(i, j int) bool {
		return t.Events[i].At < t.Events[j].At
	})
	return &t, nil
}

func (t *Tune) validate() error {
	if t.Frames <= 0 {
		return fmt.Errorf("tune: frames must be positive, got %d", t.Frames)
	}
	if t.SampleRate < 0 || t.CyclesPerSecond < 0 {
		return errors.New("tune: rates must not be negative")
	}
	for i, e := range t.Events {
		if e.At < 0 || e.At >= t.Frames {
			return fmt.Errorf("tune: event %d: frame %d outside 0-%d", i, e.At, t.Frames-1)
		}
		limit := 0xFF
		if e.Reg == RegRate {
			limit = 0xFFFF
		} else if _, ok := registers[e.Reg]; !ok {
			return fmt.Errorf("tune: event %d: unknown register %q", i, e.Reg)
		}
		if e.Value < 0 || e.Value > limit {
			return fmt.Errorf("tune: event %d: value %d out of range for %s", i, e.Value, e.Reg)
		}
	}
	return nil
}

// apply performs e on the chip mapped at base.
func apply(reg *soundchip.Registry, base uint16, e Event) {
	slog.Debug("register write", "frame", e.At, "reg", e.Reg, "value", e.Value)
	if e.Reg == RegRate {
		reg.Store(base+petsound.RegRateLo, uint8(e.Value))
		reg.Store(base+petsound.RegRateHi, uint8(e.Value>>8))
		return
	}
	reg.Store(base+registers[e.Reg], uint8(e.Value))
}

// Render plays the tune into a new interleaved buffer of channels
// channels. Events address the chip mapped at base. progress, if not nil,
// is called with the number of frames completed by each step.
func (t *Tune) Render(reg *soundchip.Registry, base uint16, channels int, progress func(frames int)) []int16 {
	out := make([]int16, t.Frames*channels)

	next := 0
	for frame := 0; frame < t.Frames; {
		for next < len(t.Events) && t.Events[next].At <= frame {
			apply(reg, base, t.Events[next])
			next++
		}

		end := t.Frames
		if next < len(t.Events) {
			end = t.Events[next].At
		}
		if end-frame > chunkFrames {
			end = frame + chunkFrames
		}

		reg.CalculateSamples(out[frame*channels:end*channels], end-frame, channels)
		if progress != nil {
			progress(end - frame)
		}
		frame = end
	}
	return out
}
