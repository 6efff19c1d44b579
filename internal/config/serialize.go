package config

import "strings"

// Serialize renders sections back into the grammar Reader.Add parses,
// preserving section order and each key's raw stored text (quotes and
// unit suffixes included) so that parse(Serialize(parse(D))) == parse(D)
// for any document D (spec.md §8 parser round-trip property).
func Serialize(sections []*Section) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteByte('[')
		b.WriteString(s.Name())
		b.WriteString("]\n")
		for _, key := range s.Keys() {
			raw, _ := s.raw(key)
			b.WriteString(key)
			b.WriteString(" = ")
			b.WriteString(raw)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
