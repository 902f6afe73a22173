package client

import (
	"errors"
	"mime"
	"strings"

	"github.com/bytedance/sonic"
)

// Payload is a parsed response body: either JSON or Text.
type Payload interface {
	isPayload()
}

// JSON is a body that was declared and parsed as JSON.
type JSON struct {
	Value any
	Raw   []byte
}

// Text is any other body, including declared JSON that failed to parse.
type Text string

func (JSON) isPayload() {}
func (Text) isPayload() {}

// Decode unmarshals p into v. Text payloads are decoded as JSON text, which
// lets callers try a typed decode of a mislabelled body.
func Decode(p Payload, v any) error {
	switch t := p.(type) {
	case JSON:
		return sonic.ConfigStd.Unmarshal(t.Raw, v)
	case Text:
		return sonic.ConfigStd.Unmarshal([]byte(t), v)
	default:
		return errors.New("client: no payload to decode")
	}
}

// IsJSONContentType reports whether a Content-Type header declares JSON.
func IsJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func parsePayload(contentType string, body []byte) Payload {
	if IsJSONContentType(contentType) {
		var v any
		if err := sonic.ConfigStd.Unmarshal(body, &v); err == nil {
			return JSON{Value: v, Raw: body}
		}
	}
	return Text(body)
}
