package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// wavPCM holds one decoded 16-bit PCM WAV file's samples, interleaved by
// channel, plus the format fields needed to drive a chromaprint.Context.
type wavPCM struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

// readWAV parses a canonical PCM WAV file (RIFF/WAVE, fmt + data chunks,
// 16-bit integer samples only). Any other container or codec is explicitly
// out of scope, per the engine's PCM-in boundary. Compressed formats
// (m4a, mp3, etc.) must be decoded to WAV upstream of this CLI.
func readWAV(path string) (*wavPCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var riffHeader [12]byte
	if _, err := io.ReadFull(f, riffHeader[:]); err != nil {
		return nil, errors.Wrapf(err, "read RIFF header of %s", path)
	}
	if string(riffHeader[0:4]) != "RIFF" || string(riffHeader[8:12]) != "WAVE" {
		return nil, errors.Errorf("%s is not a RIFF/WAVE file (unsupported container)", path)
	}

	var (
		channels, bitsPerSample int
		sampleRate              int
		audioFormat             uint16
		samples                 []int16
	)

	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(f, chunkHeader[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, errors.Wrapf(err, "read chunk header of %s", path)
		}
		chunkID := string(chunkHeader[0:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])

		switch chunkID {
		case "fmt ":
			body := make([]byte, chunkSize)
			if _, err := io.ReadFull(f, body); err != nil {
				return nil, errors.Wrapf(err, "read fmt chunk of %s", path)
			}
			audioFormat = binary.LittleEndian.Uint16(body[0:2])
			channels = int(binary.LittleEndian.Uint16(body[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
		case "data":
			body := make([]byte, chunkSize)
			if _, err := io.ReadFull(f, body); err != nil {
				return nil, errors.Wrapf(err, "read data chunk of %s", path)
			}
			if bitsPerSample != 16 {
				return nil, errors.Errorf("%s: unsupported bit depth %d (only 16-bit PCM is supported)", path, bitsPerSample)
			}
			samples = make([]int16, len(body)/2)
			for i := range samples {
				samples[i] = int16(binary.LittleEndian.Uint16(body[i*2 : i*2+2]))
			}
			if chunkSize%2 == 1 {
				var pad [1]byte
				io.ReadFull(f, pad[:])
			}
		default:
			if _, err := f.Seek(int64(chunkSize+chunkSize%2), io.SeekCurrent); err != nil {
				return nil, errors.Wrapf(err, "skip chunk %q of %s", chunkID, path)
			}
		}
	}

	if audioFormat != 1 {
		return nil, errors.Errorf("%s: unsupported WAV audio format %d (only PCM is supported)", path, audioFormat)
	}
	if channels == 0 || sampleRate == 0 || samples == nil {
		return nil, fmt.Errorf("%s: missing fmt or data chunk", path)
	}

	return &wavPCM{SampleRate: sampleRate, Channels: channels, Samples: samples}, nil
}
