package message

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/F45FW/fwsp-umf-message/errors"
	"github.com/F45FW/fwsp-umf-message/pkg/timestamp"
)

// Message is a UMF envelope.
//
// Every documented field is held once, keyed by Field, so reading it through
// its long-form accessor (From, Body, Timestamp, Version, Forward) or its
// short-form accessor (Frm, Bdy, TS, Ver, For) always yields the same value.
// The form only decides which vocabulary Map and MarshalJSON emit.
//
// Undocumented keys supplied by a caller are kept verbatim and emitted
// unchanged in both vocabularies.
//
// A Message is not safe for concurrent mutation; share it read-only or copy
// it with Clone.
type Message struct {
	form   Form
	values map[Field]any
	extra  map[string]any
}

// FromMap builds a Message in the given vocabulary from a mapping whose keys
// may mix long and short spellings. Values are stored as supplied. When the
// same field is given under both spellings, the spelling of form wins.
// No defaults are generated; see Factory for construction with defaults.
func FromMap(fields map[string]any, form Form) *Message {
	m := &Message{
		form:   form,
		values: make(map[Field]any, len(fields)),
	}

	// Off-vocabulary spellings first so that the form's own spelling
	// overwrites them.
	for key, value := range fields {
		if _, ok := Lookup(key); ok && !isShared(key) && spelling(key) != form {
			m.Set(key, value)
		}
	}
	for key, value := range fields {
		if _, ok := Lookup(key); ok && !isShared(key) && spelling(key) != form {
			continue
		}
		m.Set(key, value)
	}

	return m
}

func isShared(key string) bool {
	f, ok := Lookup(key)
	return ok && f.Long() == f.Short()
}

// Form returns the vocabulary the message serializes in.
func (m *Message) Form() Form {
	return m.form
}

// InForm returns a copy of the message that serializes in form.
func (m *Message) InForm(form Form) *Message {
	c := m.Clone()
	c.form = form
	return c
}

// Clone returns a shallow copy: the field store is copied, values are shared.
func (m *Message) Clone() *Message {
	c := &Message{
		form:   m.form,
		values: maps.Clone(m.values),
		extra:  maps.Clone(m.extra),
	}
	if c.values == nil {
		c.values = make(map[Field]any)
	}
	return c
}

// Get returns the value stored under key, which may be spelled in either
// vocabulary or be an undocumented key.
func (m *Message) Get(key string) (any, bool) {
	if f, ok := Lookup(key); ok {
		v, ok := m.values[f]
		return v, ok
	}
	v, ok := m.extra[key]
	return v, ok
}

// Has reports whether key (either spelling) is present.
func (m *Message) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key. Documented keys of either spelling address the
// same field.
func (m *Message) Set(key string, value any) {
	if f, ok := Lookup(key); ok {
		m.put(f, value)
		return
	}
	if m.extra == nil {
		m.extra = make(map[string]any)
	}
	m.extra[key] = value
}

// Delete removes key (either spelling) from the message.
func (m *Message) Delete(key string) {
	if f, ok := Lookup(key); ok {
		delete(m.values, f)
		return
	}
	delete(m.extra, key)
}

func (m *Message) put(f Field, value any) {
	if m.values == nil {
		m.values = make(map[Field]any)
	}
	m.values[f] = value
}

// Value returns the value of a documented field.
func (m *Message) Value(f Field) (any, bool) {
	v, ok := m.values[f]
	return v, ok
}

func (m *Message) str(f Field) string {
	s, _ := m.values[f].(string)
	return s
}

// To returns the destination route string.
func (m *Message) To() string { return m.str(FieldTo) }

// SetTo sets the destination route string.
func (m *Message) SetTo(to string) { m.put(FieldTo, to) }

// From returns the sender route string (short form: frm).
func (m *Message) From() string { return m.str(FieldFrom) }

// SetFrom sets the sender route string.
func (m *Message) SetFrom(from string) { m.put(FieldFrom, from) }

// Frm is the short-form accessor for From.
func (m *Message) Frm() string { return m.str(FieldFrom) }

// SetFrm is the short-form setter for From.
func (m *Message) SetFrm(frm string) { m.put(FieldFrom, frm) }

// Body returns the payload (short form: bdy).
func (m *Message) Body() any { return m.values[FieldBody] }

// SetBody sets the payload.
func (m *Message) SetBody(body any) { m.put(FieldBody, body) }

// Bdy is the short-form accessor for Body.
func (m *Message) Bdy() any { return m.values[FieldBody] }

// SetBdy is the short-form setter for Body.
func (m *Message) SetBdy(bdy any) { m.put(FieldBody, bdy) }

// MID returns the message identifier.
func (m *Message) MID() string { return m.str(FieldMID) }

// SetMID sets the message identifier.
func (m *Message) SetMID(mid string) { m.put(FieldMID, mid) }

// RMID returns the identifier of the message being replied to.
func (m *Message) RMID() string { return m.str(FieldRMID) }

// SetRMID sets the identifier of the message being replied to.
func (m *Message) SetRMID(rmid string) { m.put(FieldRMID, rmid) }

// Timestamp returns the ISO-8601 creation time (short form: ts).
func (m *Message) Timestamp() string { return m.str(FieldTimestamp) }

// SetTimestamp sets the creation time.
func (m *Message) SetTimestamp(ts string) { m.put(FieldTimestamp, ts) }

// TS is the short-form accessor for Timestamp.
func (m *Message) TS() string { return m.str(FieldTimestamp) }

// SetTS is the short-form setter for Timestamp.
func (m *Message) SetTS(ts string) { m.put(FieldTimestamp, ts) }

// Version returns the format version tag (short form: ver).
func (m *Message) Version() string { return m.str(FieldVersion) }

// SetVersion sets the format version tag.
func (m *Message) SetVersion(version string) { m.put(FieldVersion, version) }

// Ver is the short-form accessor for Version.
func (m *Message) Ver() string { return m.str(FieldVersion) }

// SetVer is the short-form setter for Version.
func (m *Message) SetVer(ver string) { m.put(FieldVersion, ver) }

// Via returns the intermediate-hop route string.
func (m *Message) Via() string { return m.str(FieldVia) }

// SetVia sets the intermediate-hop route string.
func (m *Message) SetVia(via string) { m.put(FieldVia, via) }

// Forward returns the forwarding route string (short form: for).
func (m *Message) Forward() string { return m.str(FieldForward) }

// SetForward sets the forwarding route string.
func (m *Message) SetForward(forward string) { m.put(FieldForward, forward) }

// For is the short-form accessor for Forward.
func (m *Message) For() string { return m.str(FieldForward) }

// SetFor is the short-form setter for Forward.
func (m *Message) SetFor(f string) { m.put(FieldForward, f) }

// Time parses the timestamp field. ISO-8601 strings are parsed as written;
// numeric values (and numeric strings) are read as Unix milliseconds, or
// seconds when too small to be milliseconds.
func (m *Message) Time() (time.Time, error) {
	v := m.values[FieldTimestamp]
	if s, ok := v.(string); ok {
		if t, err := timestamp.ParseISO(s); err == nil {
			return t, nil
		}
	}
	if ms := timestamp.Parse(v); ms != 0 {
		return timestamp.FromUnixMs(ms).UTC(), nil
	}
	return time.Time{}, errors.WrapInvalid(
		fmt.Errorf("%w: timestamp %v", errors.ErrInvalidData, v),
		"Message", "Time", "parse timestamp")
}

// BodyMap returns a shallow copy of a map body. Any other body, including a
// missing one, yields an empty map.
func (m *Message) BodyMap() map[string]any {
	if body, ok := m.values[FieldBody].(map[string]any); ok {
		return maps.Clone(body)
	}
	return map[string]any{}
}

// present treats nil and the empty string as absent.
func present(v any, ok bool) bool {
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr && s == "" {
		return false
	}
	return true
}

// Missing returns the long-form names of required fields that are absent.
func (m *Message) Missing() []string {
	var missing []string
	for f := Field(0); f < numFields; f++ {
		if !f.Required() {
			continue
		}
		v, ok := m.values[f]
		if !present(v, ok) {
			missing = append(missing, f.Long())
		}
	}
	return missing
}

// Validate reports whether the message carries a destination, a sender and a
// body. It never fails in any other way. Only nil and "" count as absent:
// a body of false, 0 or an empty object is present.
func (m *Message) Validate() bool {
	return len(m.Missing()) == 0
}

// Check is Validate with a reason: it returns an invalid-class error naming
// the missing fields, or nil.
func (m *Message) Check() error {
	missing := m.Missing()
	if len(missing) == 0 {
		return nil
	}
	return errors.WrapInvalid(
		fmt.Errorf("%w: %s", errors.ErrMissingField, strings.Join(missing, ", ")),
		"Message", "Check", "required field check")
}

// Map returns the message as a mapping in its own vocabulary.
func (m *Message) Map() map[string]any {
	return m.mapIn(m.form)
}

// ToShort returns a new mapping with every present field re-keyed to the
// short vocabulary. Absent fields stay absent.
func (m *Message) ToShort() map[string]any {
	return m.mapIn(Short)
}

// ToLong returns a new mapping with every present field re-keyed to the long
// vocabulary. Absent fields stay absent.
func (m *Message) ToLong() map[string]any {
	return m.mapIn(Long)
}

func (m *Message) mapIn(form Form) map[string]any {
	out := make(map[string]any, len(m.values)+len(m.extra))
	for key, value := range m.extra {
		out[key] = value
	}
	for f, value := range m.values {
		out[f.Key(form)] = value
	}
	return out
}
