// Package encoding provides JSON and URI encodings for binary payloads.
//
// Speech providers carry audio inside text protocols: realtime sessions
// base64 PCM chunks into JSON events, and one-shot HTTP APIs accept base64
// request fields or data: URIs. Base64Bytes lets request structs hold raw
// bytes and defer the encoding to marshal time.
package encoding

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Base64Bytes is a byte slice carried as a standard base64 string in JSON.
type Base64Bytes []byte

// MarshalJSON implements json.Marshaler.
func (b Base64Bytes) MarshalJSON() ([]byte, error) {
	buf := make([]byte, base64.StdEncoding.EncodedLen(len(b))+2)
	buf[0] = '"'
	base64.StdEncoding.Encode(buf[1:], b)
	buf[len(buf)-1] = '"'
	return buf, nil
}

// UnmarshalJSON implements json.Unmarshaler. JSON null leaves the slice
// unchanged.
func (b *Base64Bytes) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("base64 bytes: %w", err)
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("base64 bytes: %w", err)
	}
	*b = decoded
	return nil
}

// String returns the base64 encoding of the bytes.
func (b Base64Bytes) String() string {
	return base64.StdEncoding.EncodeToString(b)
}

// DataURI renders the bytes as a data: URI with the given MIME type.
func (b Base64Bytes) DataURI(mime string) string {
	return "data:" + mime + ";base64," + b.String()
}
