package application

import (
	"net/url"
	"strings"
)

// DecodePayload turns a stored job payload back into the text the submitting
// client intended. Clients encode spaces as '+', so those are rewritten to %20
// before percent-decoding; a literal plus arrives as %2B and survives. Payloads
// that are not valid percent-encoding are returned unchanged with ok=false.
func DecodePayload(data string) (decoded string, ok bool) {
	normalized := strings.ReplaceAll(data, "+", "%20")

	decoded, err := url.PathUnescape(normalized)
	if err != nil {
		return data, false
	}

	return decoded, true
}
