// Package chromaprint is the public façade over the fingerprinting engine:
// a streaming Context mirroring chromaprint_new/_start/_feed/_finish/
// _get_fingerprint/_clear_fingerprint, and a Matcher mirroring the matcher
// context lifecycle. Methods return an error instead of the C API's
// boolean-return convention, but the lifecycle and option surface are
// otherwise unchanged.
package chromaprint

import (
	"fmt"

	"github.com/afsispa/fprint/internal/audio"
	"github.com/afsispa/fprint/internal/codec"
	"github.com/afsispa/fprint/internal/config"
)

// Context is the streaming fingerprinting session. Its lifecycle is
// new → [SetOption]* → Start → Feed* → Finish → GetFingerprint →
// ClearFingerprint → (Start again) — mirroring chromaprint_new through
// chromaprint_clear_fingerprint.
type Context struct {
	algorithm int
	cfg       *config.Config
	frontend  *audio.Frontend
	started   bool
}

// New creates a Context for the given algorithm id (0..4).
func New(algorithm int) (*Context, error) {
	cfg, err := config.New(algorithm)
	if err != nil {
		return nil, fmt.Errorf("chromaprint: %w", err)
	}
	return &Context{
		algorithm: algorithm,
		cfg:       cfg,
		frontend:  audio.NewFrontend(cfg),
	}, nil
}

// Algorithm returns the algorithm id this context was created with.
func (c *Context) Algorithm() int { return c.algorithm }

// SampleRate returns the algorithm's internal sample rate.
func (c *Context) SampleRate() int { return c.cfg.SampleRate }

// ItemDuration returns one fingerprint item's duration in internal samples.
func (c *Context) ItemDuration() int { return c.cfg.ItemDurationSamples() }

// ItemDurationMs returns one fingerprint item's duration in milliseconds.
func (c *Context) ItemDurationMs() float64 { return c.cfg.ItemDurationSeconds() * 1000 }

// SetOption sets a named option before Start. Only "silence_threshold" is
// recognized, matching the fingerprinter's option surface.
func (c *Context) SetOption(name string, value int) error {
	return c.frontend.SetOption(name, value)
}

// Start validates the incoming stream's format and begins a new session.
func (c *Context) Start(sampleRate, numChannels int) error {
	if err := c.frontend.Start(sampleRate, numChannels); err != nil {
		return err
	}
	c.started = true
	return nil
}

// Feed consumes interleaved PCM samples.
func (c *Context) Feed(samples []int16) error {
	if !c.started {
		return fmt.Errorf("chromaprint: Feed called before Start")
	}
	return c.frontend.Consume(samples)
}

// Finish flushes any buffered audio and finalizes the session's
// fingerprint; GetFingerprint/GetRawFingerprint/GetFingerprintHash become
// valid to call afterward.
func (c *Context) Finish() error {
	if !c.started {
		return fmt.Errorf("chromaprint: Finish called before Start")
	}
	c.frontend.Finish()
	return nil
}

// GetRawFingerprint returns the accumulated fingerprint's raw 32-bit items.
func (c *Context) GetRawFingerprint() []uint32 {
	fp := c.frontend.Fingerprint()
	out := make([]uint32, len(fp.Items))
	for i, item := range fp.Items {
		out[i] = uint32(item)
	}
	return out
}

// GetFingerprint returns the accumulated fingerprint, compressed and
// base64-encoded for transport.
func (c *Context) GetFingerprint() (string, error) {
	raw := c.GetRawFingerprint()
	compressed, err := codec.Compress(c.algorithm, raw)
	if err != nil {
		return "", fmt.Errorf("chromaprint: %w", err)
	}
	return codec.EncodeBase64(compressed), nil
}

// GetFingerprintHash returns the SimHash of the accumulated fingerprint.
func (c *Context) GetFingerprintHash() uint32 {
	return codec.SimHash(c.GetRawFingerprint())
}

// ClearFingerprint resets the accumulated output, leaving DSP state (and
// the current Start'd session) untouched, matching
// chromaprint_clear_fingerprint.
func (c *Context) ClearFingerprint() {
	c.frontend.ClearFingerprint()
}

// EncodeFingerprint compresses a raw fingerprint for the given algorithm,
// optionally base64-encoding it, matching chromaprint_encode_fingerprint.
func EncodeFingerprint(items []uint32, algorithm int, base64 bool) (string, error) {
	compressed, err := codec.Compress(algorithm, items)
	if err != nil {
		return "", fmt.Errorf("chromaprint: %w", err)
	}
	if base64 {
		return codec.EncodeBase64(compressed), nil
	}
	return string(compressed), nil
}

// DecodeFingerprint is the inverse of EncodeFingerprint, matching
// chromaprint_decode_fingerprint.
func DecodeFingerprint(encoded string, base64 bool) (items []uint32, algorithm int, err error) {
	raw := []byte(encoded)
	if base64 {
		raw, err = codec.DecodeBase64(encoded)
		if err != nil {
			return nil, 0, fmt.Errorf("chromaprint: %w", err)
		}
	}
	algorithm, items, err = codec.Decompress(raw)
	if err != nil {
		return nil, 0, fmt.Errorf("chromaprint: %w", err)
	}
	return items, algorithm, nil
}

// HashFingerprint computes the SimHash of a raw fingerprint, matching
// chromaprint_hash_fingerprint.
func HashFingerprint(items []uint32) uint32 {
	return codec.SimHash(items)
}
