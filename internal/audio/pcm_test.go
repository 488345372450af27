package audio

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/go-audio/wav"
)

func pcm(samples ...int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

func TestDecodePCM16Mono(t *testing.T) {
	buf, err := DecodePCM16(pcm(0, 16384, -32768, 32767), 24000, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.NumChannels() != 1 || buf.Frames() != 4 {
		t.Fatalf("expected 1x4 buffer, got %dx%d", buf.NumChannels(), buf.Frames())
	}

	want := []float32{0, 0.5, -1, 32767.0 / 32768.0}
	for i, w := range want {
		if got := buf.Channels[0][i]; got != w {
			t.Errorf("sample %d: got %v, want %v", i, got, w)
		}
	}
}

func TestDecodePCM16Stereo(t *testing.T) {
	// L R L R L R + one dangling sample
	data := pcm(100, -100, 200, -200, 300, -300, 7)
	buf, err := DecodePCM16(data, 48000, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.Frames(); got != 7/2 {
		t.Fatalf("expected %d frames, got %d", 7/2, got)
	}
	for i, v := range []int16{100, 200, 300} {
		if buf.Channels[0][i] != float32(v)/32768 {
			t.Errorf("left[%d] = %v", i, buf.Channels[0][i])
		}
		if buf.Channels[1][i] != float32(-v)/32768 {
			t.Errorf("right[%d] = %v", i, buf.Channels[1][i])
		}
	}
	if buf.SampleRate != 48000 {
		t.Errorf("expected sample rate to be kept, got %d", buf.SampleRate)
	}
}

func TestDecodePCM16Errors(t *testing.T) {
	if _, err := DecodePCM16([]byte{1, 2, 3}, 24000, 1); err == nil {
		t.Error("expected error for odd byte count")
	}
	if _, err := DecodePCM16(pcm(1, 2), 24000, 0); err == nil {
		t.Error("expected error for zero channels")
	}
	if _, err := DecodePCM16(pcm(1, 2), 0, 1); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestDecodeSpeech(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString(pcm(16384, -16384))
	buf, err := DecodeSpeech(payload, DefaultSampleRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Frames() != 2 || buf.Channels[0][0] != 0.5 || buf.Channels[0][1] != -0.5 {
		t.Errorf("unexpected samples %v", buf.Channels[0])
	}

	if _, err := DecodeSpeech("not base64!", DefaultSampleRate); err == nil {
		t.Error("expected error for invalid base64")
	}
}

func TestWAVRoundTrip(t *testing.T) {
	raw := pcm(0, 1000, -1000, 32767)
	wav, err := EncodeWAV(raw, 24000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wav) != 44+len(raw) {
		t.Fatalf("expected %d bytes, got %d", 44+len(raw), len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Fatal("missing WAV chunk markers")
	}
	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != 24000 {
		t.Errorf("expected rate 24000, got %d", rate)
	}
	if string(wav[44:]) != string(raw) {
		t.Error("expected samples to survive the round trip")
	}
}

func TestBufferWAVStereo(t *testing.T) {
	buf, err := DecodePCM16(pcm(100, -100, 200, -200, 300, -300), 16000, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := buf.WAV()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		t.Fatal("expected a valid WAV file")
	}
	out, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.Format.NumChannels != 2 || out.Format.SampleRate != 16000 {
		t.Errorf("unexpected format %+v", out.Format)
	}
	want := []int{100, -100, 200, -200, 300, -300}
	if len(out.Data) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(out.Data))
	}
	for i, v := range want {
		if out.Data[i] != v {
			t.Errorf("sample %d: expected %d, got %d", i, v, out.Data[i])
		}
	}
}

func TestBufferWAVRejectsEmpty(t *testing.T) {
	if _, err := (&Buffer{SampleRate: 24000}).WAV(); err == nil {
		t.Error("expected error for a buffer without channels")
	}
}
