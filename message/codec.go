package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/F45FW/fwsp-umf-message/errors"
)

// MarshalJSON encodes the message as a JSON object keyed in its own
// vocabulary.
func (m *Message) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(m.Map())
	if err != nil {
		return nil, errors.WrapInvalid(err, "Message", "MarshalJSON", "encode fields")
	}
	return data, nil
}

// UnmarshalJSON decodes a JSON object in either vocabulary (or a mixture).
// The message takes the vocabulary detected from the keys. Malformed JSON is
// returned as an invalid-class error wrapping errors.ErrParsingFailed and the
// decoder's error.
func (m *Message) UnmarshalJSON(data []byte) error {
	fields, err := DecodeFields(data)
	if err != nil {
		return err
	}
	*m = *FromMap(fields, DetectForm(fields))
	return nil
}

// DecodeFields decodes a JSON object into a plain mapping. Numbers are kept
// as json.Number so integers beyond float64 precision re-encode unchanged.
// A JSON null yields a nil map.
func DecodeFields(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, errors.WrapInvalid(fmt.Errorf("%w: %w", errors.ErrParsingFailed, err),
			"Message", "UnmarshalJSON", "decode wire text")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.WrapInvalid(fmt.Errorf("%w: trailing data after object", errors.ErrParsingFailed),
			"Message", "UnmarshalJSON", "decode wire text")
	}
	return fields, nil
}

// Parse decodes wire text into a Message.
func Parse(data []byte) (*Message, error) {
	m := &Message{}
	if err := m.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return m, nil
}

// Marshal encodes m and records the outcome.
func (f *Factory) Marshal(m *Message) ([]byte, error) {
	data, err := m.MarshalJSON()
	f.metrics.RecordEncoding("marshal", err)
	return data, err
}

// Unmarshal decodes wire text and records the outcome.
func (f *Factory) Unmarshal(data []byte) (*Message, error) {
	m, err := Parse(data)
	f.metrics.RecordEncoding("unmarshal", err)
	if err != nil {
		f.logger.Debug("UMF wire text rejected", "error", err)
	}
	return m, err
}
