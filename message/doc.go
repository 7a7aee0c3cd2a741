// Package message implements the UMF (Universal Message Format) envelope.
//
// # Vocabularies
//
// A UMF message can be written with long keys or short keys:
//
//	long       short   required
//	to         to      yes
//	from       frm     yes
//	body       bdy     yes
//	mid        mid     generated when absent
//	rmid       rmid
//	timestamp  ts      generated when absent
//	version    ver     generated when absent
//	via        via
//	forward    for
//
// A Message stores each field once. The long accessor and the short accessor
// of a field (From/Frm, Body/Bdy, Timestamp/TS, Version/Ver, Forward/For) read
// and write the same value, whichever vocabulary the message was built or
// decoded in. Get and Set accept either spelling.
//
// # Construction
//
// Factory fills mid, timestamp and version when the caller omits them. The
// version tag comes from config.Current(), not from a literal in this package:
//
//	f := message.NewFactory()
//	msg := f.Create(map[string]any{
//	    "to":   "test-service:[GET]/v1/somedata",
//	    "from": "client:/",
//	    "body": map[string]any{},
//	})
//	ok := msg.Validate()
//
// Create never fails; missing required fields are reported by Validate
// (boolean) or Check (error).
//
// # Conversion and wire format
//
// ToShort and ToLong return new mappings holding only the fields that are
// present, re-keyed to the target vocabulary. Converting long to short and
// back reproduces the original mapping. MarshalJSON emits a plain JSON object
// in the message's vocabulary; UnmarshalJSON accepts either vocabulary.
package message
