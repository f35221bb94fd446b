package tree

import (
	"encoding/base64"
	"fmt"
)

// ContentKind discriminates content variants on the wire.
type ContentKind string

const (
	// KindText is content captured as a decoded string.
	KindText ContentKind = "text"
	// KindBinary is content captured as a base64 payload.
	KindBinary ContentKind = "binary"
	// KindError marks content that could not be read.
	KindError ContentKind = "error"
)

// EncodingBase64 is the recorded encoding for binary content.
const EncodingBase64 = "base64"

// Content is the captured payload of a file node.
// Exactly one variant applies, selected by Kind.
type Content struct {
	// Kind selects the variant.
	Kind ContentKind

	// Encoding names the textual encoding for KindText, or "base64"
	// for KindBinary. Empty for KindError.
	Encoding string

	// Data holds the decoded string for KindText or the base64
	// payload for KindBinary. Empty for KindError.
	Data string

	// Err is the read-failure message for KindError.
	Err string
}

// TextContent builds a text content payload decoded with the named encoding.
func TextContent(data, encoding string) *Content {
	return &Content{Kind: KindText, Encoding: encoding, Data: data}
}

// BinaryContent builds a binary content payload from raw bytes.
func BinaryContent(raw []byte) *Content {
	return &Content{
		Kind:     KindBinary,
		Encoding: EncodingBase64,
		Data:     base64.StdEncoding.EncodeToString(raw),
	}
}

// ErrorContent builds an error marker for unreadable content.
func ErrorContent(msg string) *Content {
	return &Content{Kind: KindError, Err: msg}
}

// Bytes reverses the capture transform and returns the original byte
// sequence. Text is re-encoded with the recorded encoding, binary is
// base64-decoded. KindError content has no bytes and returns an error.
func (c *Content) Bytes() ([]byte, error) {
	switch c.Kind {
	case KindText:
		return EncodeText(c.Data, c.Encoding)
	case KindBinary:
		if c.Encoding != EncodingBase64 {
			return nil, fmt.Errorf("unsupported binary encoding %q", c.Encoding)
		}
		raw, err := base64.StdEncoding.DecodeString(c.Data)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 payload: %w", err)
		}
		return raw, nil
	case KindError:
		return nil, fmt.Errorf("content was not captured: %s", c.Err)
	default:
		return nil, fmt.Errorf("unsupported content type %q", c.Kind)
	}
}
