package message

import "github.com/F45FW/fwsp-umf-message/metric"

// Form selects one of the two UMF key vocabularies.
type Form int

const (
	// Long uses the verbose field names (from, body, timestamp, version, forward).
	Long Form = iota
	// Short uses the abbreviated field names (frm, bdy, ts, ver, for).
	Short
)

// String returns the metric/log label for the vocabulary.
func (f Form) String() string {
	if f == Short {
		return metric.FormShort
	}
	return metric.FormLong
}

// Field identifies one documented UMF field independently of its spelling.
type Field int

// Documented UMF fields.
const (
	FieldTo Field = iota
	FieldFrom
	FieldBody
	FieldMID
	FieldRMID
	FieldTimestamp
	FieldVersion
	FieldVia
	FieldForward

	numFields
)

type fieldSpec struct {
	long     string
	short    string
	required bool
}

// fieldTable is the long/short key equivalence table.
var fieldTable = [numFields]fieldSpec{
	FieldTo:        {long: "to", short: "to", required: true},
	FieldFrom:      {long: "from", short: "frm", required: true},
	FieldBody:      {long: "body", short: "bdy", required: true},
	FieldMID:       {long: "mid", short: "mid"},
	FieldRMID:      {long: "rmid", short: "rmid"},
	FieldTimestamp: {long: "timestamp", short: "ts"},
	FieldVersion:   {long: "version", short: "ver"},
	FieldVia:       {long: "via", short: "via"},
	FieldForward:   {long: "forward", short: "for"},
}

type keyInfo struct {
	field Field
	// spelledShort is true only for keys that exist solely in the short
	// vocabulary (frm, bdy, ts, ver, for).
	spelledShort bool
}

var keyIndex = func() map[string]keyInfo {
	idx := make(map[string]keyInfo, 2*int(numFields))
	for f := Field(0); f < numFields; f++ {
		spec := fieldTable[f]
		idx[spec.long] = keyInfo{field: f}
		if spec.short != spec.long {
			idx[spec.short] = keyInfo{field: f, spelledShort: true}
		}
	}
	return idx
}()

// Fields returns every documented field in table order.
func Fields() []Field {
	fields := make([]Field, 0, numFields)
	for f := Field(0); f < numFields; f++ {
		fields = append(fields, f)
	}
	return fields
}

// Long returns the long-form key of f.
func (f Field) Long() string {
	return fieldTable[f].long
}

// Short returns the short-form key of f.
func (f Field) Short() string {
	return fieldTable[f].short
}

// Key returns the key of f in the given vocabulary.
func (f Field) Key(form Form) string {
	if form == Short {
		return f.Short()
	}
	return f.Long()
}

// Required reports whether a valid message must carry f.
func (f Field) Required() bool {
	return fieldTable[f].required
}

// String returns the long-form key.
func (f Field) String() string {
	return f.Long()
}

// Lookup resolves a key of either vocabulary to its field.
func Lookup(key string) (Field, bool) {
	info, ok := keyIndex[key]
	return info.field, ok
}

// spelling reports the vocabulary a documented key belongs to. Keys shared
// by both vocabularies (to, mid, rmid, via) report Long.
func spelling(key string) Form {
	if keyIndex[key].spelledShort {
		return Short
	}
	return Long
}
