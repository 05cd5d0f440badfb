// Package datauri reads and writes base64 data URIs (RFC 2397), the form in
// which generated audio travels between the generators and the browser.
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMalformed = errors.New("malformed data URI")
	ErrNotBase64 = errors.New("data URI is not base64 encoded")
)

// URI is a decoded data URI
type URI struct {
	MIMEType string            // e.g. audio/L16, lower-cased
	Params   map[string]string // e.g. codec=pcm, rate=24000
	Data     []byte
}

// Parse splits data:<mime>[;k=v]*;base64,<payload> and decodes the payload.
// Both padded and unpadded base64 are accepted.
func Parse(s string) (*URI, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return nil, fmt.Errorf("%w: missing data: scheme", ErrMalformed)
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing comma", ErrMalformed)
	}

	parts := strings.Split(meta, ";")
	if len(parts) == 0 || parts[len(parts)-1] != "base64" {
		return nil, ErrNotBase64
	}
	parts = parts[:len(parts)-1]

	u := &URI{
		MIMEType: "text/plain",
		Params:   make(map[string]string),
	}
	if len(parts) > 0 && parts[0] != "" {
		u.MIMEType = strings.ToLower(strings.TrimSpace(parts[0]))
	}
	for _, p := range parts[min(1, len(parts)):] {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("%w: parameter %q", ErrMalformed, p)
		}
		u.Params[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}

	data, err := decode(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	u.Data = data

	return u, nil
}

// IntParam returns a numeric parameter such as rate=24000
func (u *URI) IntParam(name string) (int, bool) {
	v, ok := u.Params[strings.ToLower(name)]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// String re-encodes the URI, parameters in the order given by keys
func (u *URI) String(keys ...string) string {
	var b strings.Builder
	b.WriteString("data:")
	b.WriteString(u.MIMEType)
	for _, k := range keys {
		if v, ok := u.Params[k]; ok {
			b.WriteString(";" + k + "=" + v)
		}
	}
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(u.Data))
	return b.String()
}

// Encode builds data:<mime>;base64,<payload>
func Encode(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func decode(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasSuffix(payload, "=") || len(payload)%4 == 0 {
		return base64.StdEncoding.DecodeString(payload)
	}
	return base64.RawStdEncoding.DecodeString(payload)
}
