package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"github.com/ebitengine/oto/v3"
)

// play sends interleaved pcm to the default audio device and blocks until
// it has been played.
func play(pcm []int16, sampleRate int, channels int) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	<-ready

	data := make([]byte, len(pcm)*2)
	for i, v := range pcm {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(v))
	}

	p := ctx.NewPlayer(bytes.NewReader(data))
	defer p.Close()

	slog.Info("playing", "seconds", float64(len(pcm)/channels)/float64(sampleRate))
	p.Play()
	for p.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return p.Err()
}
