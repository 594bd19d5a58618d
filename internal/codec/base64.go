package codec

import "encoding/base64"

// EncodeBase64 and DecodeBase64 wrap the compressed wire format for
// transport in text contexts (URLs, JSON fields). Plain stdlib
// encoding/base64 covers this: it's a generic transport encoding, not part
// of the fingerprint algorithm itself, so there's no domain library to
// ground it on.
func EncodeBase64(compressed []byte) string {
	return base64.RawURLEncoding.EncodeToString(compressed)
}

func DecodeBase64(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
