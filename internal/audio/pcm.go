// Package audio turns synthesized speech payloads into playable buffers.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DefaultSampleRate is the rate of the speech models' raw PCM output.
const DefaultSampleRate = 24000

// Buffer holds de-interleaved samples in [-1, 1).
type Buffer struct {
	SampleRate int
	Channels   [][]float32
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int {
	return len(b.Channels)
}

// Frames returns the number of samples per channel.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// DecodeBase64 decodes a standard base64 payload.
func DecodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("decode audio payload: %w", err)
	}
	return data, nil
}

// DecodePCM16 converts interleaved little-endian 16-bit PCM into a Buffer.
// A trailing partial frame is dropped.
func DecodePCM16(data []byte, sampleRate, channels int) (*Buffer, error) {
	if channels < 1 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("pcm payload has odd length %d", len(data))
	}

	samples := len(data) / 2
	frames := samples / channels

	buf := &Buffer{
		SampleRate: sampleRate,
		Channels:   make([][]float32, channels),
	}
	for ch := range buf.Channels {
		buf.Channels[ch] = make([]float32, frames)
	}

	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			off := 2 * (i*channels + ch)
			v := int16(binary.LittleEndian.Uint16(data[off:]))
			buf.Channels[ch][i] = float32(v) / 32768.0
		}
	}
	return buf, nil
}

// DecodeSpeech decodes a base64 mono PCM payload from the speech endpoint.
func DecodeSpeech(payload string, sampleRate int) (*Buffer, error) {
	data, err := DecodeBase64(payload)
	if err != nil {
		return nil, err
	}
	return DecodePCM16(data, sampleRate, 1)
}

// WAV encodes the buffer as a 16-bit PCM WAV file.
func (b *Buffer) WAV() ([]byte, error) {
	channels := b.NumChannels()
	if channels == 0 {
		return nil, fmt.Errorf("buffer has no channels")
	}
	frames := b.Frames()

	ib := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: b.SampleRate},
		Data:           make([]int, 0, frames*channels),
		SourceBitDepth: 16,
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			ib.Data = append(ib.Data, int(toInt16(b.Channels[ch][i])))
		}
	}

	out := &memFile{}
	enc := wav.NewEncoder(out, b.SampleRate, 16, channels, 1)
	if err := enc.Write(ib); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finish wav: %w", err)
	}
	return out.buf, nil
}

// EncodeWAV wraps raw mono PCM16 bytes in a WAV container.
func EncodeWAV(pcm []byte, sampleRate int) ([]byte, error) {
	buf, err := DecodePCM16(pcm, sampleRate, 1)
	if err != nil {
		return nil, err
	}
	return buf.WAV()
}

func toInt16(v float32) int16 {
	s := v * 32768.0
	switch {
	case s > 32767:
		return 32767
	case s < -32768:
		return -32768
	default:
		return int16(s)
	}
}

// memFile is an in-memory io.WriteSeeker; the WAV encoder seeks back to
// patch chunk sizes on Close.
type memFile struct {
	buf []byte
	pos int
}

func (f *memFile) Write(p []byte) (int, error) {
	if end := f.pos + len(p); end > len(f.buf) {
		f.buf = append(f.buf, make([]byte, end-len(f.buf))...)
	}
	n := copy(f.buf[f.pos:], p)
	f.pos += n
	return n, nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(f.pos) + offset
	case io.SeekEnd:
		pos = int64(len(f.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("negative position %d", pos)
	}
	f.pos = int(pos)
	return pos, nil
}
