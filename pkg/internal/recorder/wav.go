package recorder

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// decodePCM16 converts raw little-endian 16-bit PCM bytes to samples. A
// trailing odd byte is discarded.
func decodePCM16(pcm []byte) []int {
	n := len(pcm) / 2
	samples := make([]int, n)
	for i := 0; i < n; i++ {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
	}
	return samples
}

// encodeWAVBase64 wraps the samples in a WAV container and returns the base64
// payload expected by the complete_audio frame.
func encodeWAVBase64(samples []int, sampleRate, channels, bitDepth int) (string, error) {
	if sampleRate <= 0 || channels <= 0 || bitDepth <= 0 {
		return "", fmt.Errorf("recorder: invalid format %dHz/%dch/%dbit", sampleRate, channels, bitDepth)
	}

	ws := &memWriteSeeker{}
	enc := wav.NewEncoder(ws, sampleRate, bitDepth, channels, 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(ws.buf), nil
}

// memWriteSeeker is the in-memory io.WriteSeeker the WAV encoder needs to
// patch chunk sizes into the header after writing.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	if need := m.pos + len(p); need > len(m.buf) {
		grown := make([]byte, need)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:], p)
	m.pos += len(p)
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int
	switch whence {
	case io.SeekStart:
		next = int(offset)
	case io.SeekCurrent:
		next = m.pos + int(offset)
	case io.SeekEnd:
		next = len(m.buf) + int(offset)
	default:
		return 0, errors.New("recorder: invalid seek whence")
	}
	if next < 0 {
		return 0, errors.New("recorder: negative seek position")
	}
	m.pos = next
	return int64(next), nil
}
