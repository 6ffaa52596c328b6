// Package tone generates the alarm tone played when a reminder fires and
// defines the playback abstraction the dispatcher uses.
package tone

import (
	"bytes"
	"encoding/binary"
	"math"

	"healthaxis/internal/pkg/logger"
)

const (
	sampleRate = 44100
	frequency  = 800.0
	durationS  = 1
	amplitude  = 0.3
)

// Player plays a WAV-encoded tone. Playback failures are reported to the
// caller, which logs and continues.
type Player interface {
	Play(wav []byte) error
}

// AlarmTone returns a one second 800 Hz sine tone as 16-bit mono PCM in a WAV
// container. Computed once at startup and reused for every dispatch.
func AlarmTone() []byte {
	samples := sampleRate * durationS
	dataSize := samples * 2

	var buf bytes.Buffer
	buf.Grow(44 + dataSize)

	// RIFF header
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	// fmt chunk: PCM, mono, 16-bit
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	// data chunk
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	for i := 0; i < samples; i++ {
		t := float64(i) / sampleRate
		sample := math.Sin(2*math.Pi*frequency*t) * amplitude
		intSample := int16(math.Max(-32767, math.Min(32767, sample*32767)))
		binary.Write(&buf, binary.LittleEndian, intSample)
	}

	return buf.Bytes()
}

type logPlayer struct {
	log logger.Logger
}

// NewLogPlayer returns a Player that only records that playback happened.
// Used when no audio sink is configured on the host.
func NewLogPlayer(log logger.Logger) Player {
	return &logPlayer{log: log}
}

func (p *logPlayer) Play(wav []byte) error {
	p.log.Debug("alarm tone playback requested (no audio sink configured)")
	return nil
}
