package message

// ToShort re-keys a plain mapping to the short vocabulary. The input may mix
// spellings; when a field appears under both, the short spelling wins.
// Fields absent from the input stay absent.
func ToShort(fields map[string]any) map[string]any {
	return FromMap(fields, Short).Map()
}

// ToLong re-keys a plain mapping to the long vocabulary. The input may mix
// spellings; when a field appears under both, the long spelling wins.
// Fields absent from the input stay absent.
func ToLong(fields map[string]any) map[string]any {
	return FromMap(fields, Long).Map()
}

// ValidateMap reports whether a plain mapping carries to, a sender (from or
// frm) and a body (body or bdy).
func ValidateMap(fields map[string]any) bool {
	return FromMap(fields, DetectForm(fields)).Validate()
}

// DetectForm guesses the vocabulary of a mapping: Short when it uses at least
// one short-only key and no long-only key, Long otherwise.
func DetectForm(fields map[string]any) Form {
	var short, long bool
	for key := range fields {
		if _, ok := Lookup(key); !ok || isShared(key) {
			continue
		}
		if spelling(key) == Short {
			short = true
		} else {
			long = true
		}
	}
	if short && !long {
		return Short
	}
	return Long
}
