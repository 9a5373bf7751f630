// Package wavout writes rendered 16-bit PCM to a WAV file.
package wavout

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth  = 16
	formatPCM = 1
)

// Writer streams interleaved int16 frames into a WAV container. The
// header sizes are fixed up on Close.
type Writer struct {
	enc     *wav.Encoder
	file    *os.File // non-nil when the Writer owns the file
	format  *audio.Format
	buf     audio.IntBuffer
	samples int
	closed  bool
}

// New returns a Writer encoding to w.
func New(w io.WriteSeeker, sampleRate int, channels int) (*Writer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wavout: invalid sample rate %d", sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("wavout: invalid channel count %d", channels)
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, channels, formatPCM)
	if enc == nil {
		return nil, errors.New("wavout: bad parameters for wav encoding")
	}

	format := &audio.Format{NumChannels: channels, SampleRate: sampleRate}
	return &Writer{
		enc:    enc,
		format: format,
		buf:    audio.IntBuffer{Format: format, SourceBitDepth: bitDepth},
	}, nil
}

// Create creates filename and returns a Writer that closes it on Close.
func Create(filename string, sampleRate int, channels int) (*Writer, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("wavout: %w", err)
	}
	w, err := New(f, sampleRate, channels)
	if err != nil {
		f.Close()
		os.Remove(filename)
		return nil, err
	}
	w.file = f
	return w, nil
}

// Write appends interleaved samples. len(samples) must be a whole number
// of frames.
func (w *Writer) Write(samples []int16) error {
	if w.closed {
		return errors.New("wavout: write after close")
	}
	if len(samples)%w.format.NumChannels != 0 {
		return fmt.Errorf("wavout: %d samples is not a whole number of %d-channel frames",
			len(samples), w.format.NumChannels)
	}

	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]
	for i, s := range samples {
		w.buf.Data[i] = int(s)
	}

	if err := w.enc.Write(&w.buf); err != nil {
		return fmt.Errorf("wavout: %w", err)
	}
	w.samples += len(samples)
	return nil
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int {
	return w.samples / w.format.NumChannels
}

// Close finalises the header and, for Writers from Create, closes the file.
func (w *Writer) Close() (rerr error) {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.file != nil {
		defer func() {
			if err := w.file.Close(); err != nil && rerr == nil {
				rerr = fmt.Errorf("wavout: %w", err)
			}
		}()
	}

	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("wavout: %w", err)
	}
	return nil
}
