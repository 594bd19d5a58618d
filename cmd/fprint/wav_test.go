package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func writeTestWAV(t *testing.T, path string, sampleRate, channels int, samples []int16) {
	t.Helper()
	dataBytes := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(dataBytes[i*2:], uint16(s))
	}

	var buf []byte
	buf = append(buf, []byte("RIFF")...)
	buf = append(buf, 0, 0, 0, 0) // placeholder size
	buf = append(buf, []byte("WAVE")...)

	buf = append(buf, []byte("fmt ")...)
	fmtChunk := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtChunk[0:], 1) // PCM
	binary.LittleEndian.PutUint16(fmtChunk[2:], uint16(channels))
	binary.LittleEndian.PutUint32(fmtChunk[4:], uint32(sampleRate))
	byteRate := sampleRate * channels * 2
	binary.LittleEndian.PutUint32(fmtChunk[8:], uint32(byteRate))
	binary.LittleEndian.PutUint16(fmtChunk[12:], uint16(channels*2))
	binary.LittleEndian.PutUint16(fmtChunk[14:], 16) // bits per sample
	var fmtSize [4]byte
	binary.LittleEndian.PutUint32(fmtSize[:], uint32(len(fmtChunk)))
	buf = append(buf, fmtSize[:]...)
	buf = append(buf, fmtChunk...)

	buf = append(buf, []byte("data")...)
	var dataSize [4]byte
	binary.LittleEndian.PutUint32(dataSize[:], uint32(len(dataBytes)))
	buf = append(buf, dataSize[:]...)
	buf = append(buf, dataBytes...)

	riffSize := uint32(len(buf) - 8)
	binary.LittleEndian.PutUint32(buf[4:8], riffSize)

	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReadWAVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	samples := []int16{1, -1, 2, -2, 3, -3}
	writeTestWAV(t, path, 44100, 2, samples)

	pcm, err := readWAV(path)
	if err != nil {
		t.Fatal(err)
	}
	if pcm.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", pcm.SampleRate)
	}
	if pcm.Channels != 2 {
		t.Errorf("Channels = %d, want 2", pcm.Channels)
	}
	if len(pcm.Samples) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(pcm.Samples), len(samples))
	}
	for i, s := range samples {
		if pcm.Samples[i] != s {
			t.Errorf("sample %d = %d, want %d", i, pcm.Samples[i], s)
		}
	}
}

func TestReadWAVRejectsNonRIFF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-a-wav.bin")
	if err := os.WriteFile(path, []byte("not a wav file at all, just junk bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readWAV(path); err == nil {
		t.Error("expected an error reading a non-RIFF file")
	}
}

func TestReadWAVRejectsNonPCMFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "float.wav")

	dataBytes := make([]byte, 8)
	var buf []byte
	buf = append(buf, []byte("RIFF")...)
	buf = append(buf, 0, 0, 0, 0)
	buf = append(buf, []byte("WAVE")...)

	buf = append(buf, []byte("fmt ")...)
	fmtChunk := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtChunk[0:], 3) // IEEE float, unsupported
	binary.LittleEndian.PutUint16(fmtChunk[2:], 1)
	binary.LittleEndian.PutUint32(fmtChunk[4:], 44100)
	binary.LittleEndian.PutUint32(fmtChunk[8:], 44100*2)
	binary.LittleEndian.PutUint16(fmtChunk[12:], 2)
	binary.LittleEndian.PutUint16(fmtChunk[14:], 16)
	var fmtSize [4]byte
	binary.LittleEndian.PutUint32(fmtSize[:], uint32(len(fmtChunk)))
	buf = append(buf, fmtSize[:]...)
	buf = append(buf, fmtChunk...)

	buf = append(buf, []byte("data")...)
	var dataSize [4]byte
	binary.LittleEndian.PutUint32(dataSize[:], uint32(len(dataBytes)))
	buf = append(buf, dataSize[:]...)
	buf = append(buf, dataBytes...)

	riffSize := uint32(len(buf) - 8)
	binary.LittleEndian.PutUint32(buf[4:8], riffSize)

	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readWAV(path); err == nil {
		t.Error("expected an error reading a non-PCM WAV file")
	}
}
