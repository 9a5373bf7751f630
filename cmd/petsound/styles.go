package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	petsound "github.com/user-none/go-chip-petsound"
)

type styles struct {
	label lipgloss.Style
	value lipgloss.Style
	on    lipgloss.Style
	off   lipgloss.Style
}

// ANSI colours: 2 green, 3 yellow, 6 cyan, 8 grey
func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{label: plain.Width(10), value: plain, on: plain, off: plain}
	}
	return styles{
		label: lipgloss.NewStyle().Bold(true).Width(10).Foreground(lipgloss.ANSIColor(6)),
		value: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(3)),
		on:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(2)),
		off:   lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)),
	}
}

func (st styles) flag(b bool) string {
	if b {
		return st.on.Render("on")
	}
	return st.off.Render("off")
}

// dumpState formats the chip registers and derived clock state.
func dumpState(chip *petsound.PetSound, st styles) string {
	period := fmt.Sprintf("$%04X (%d cycles)", chip.Period(), chip.Period())
	if chip.Stalled() {
		period += " stalled"
	}

	rows := [][2]string{
		{"ONOFF", st.flag(chip.Enabled())},
		{"WAVEFORM", st.value.Render(fmt.Sprintf("$%02X %08b", chip.Waveform(), chip.Waveform()))},
		{"RATE", st.value.Render(period)},
		{"MANUAL", st.flag(chip.Manual())},
		{"BITS/SMP", st.value.Render(fmt.Sprintf("%.4f", chip.BitsPerSample()))},
		{"CURSOR", st.value.Render(fmt.Sprintf("%.3f", chip.Cursor()))},
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(st.label.Render(r[0]))
		b.WriteString(r[1])
		b.WriteByte('\n')
	}
	return b.String()
}
