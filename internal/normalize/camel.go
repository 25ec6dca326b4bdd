// Package normalize holds a JSON-like value tree and the key rewriting applied
// to upstream payloads before they reach the display.
package normalize

import "strings"

// CamelKey rewrites every '_' that is followed by an ASCII lowercase letter
// into the upper-cased letter. All other characters are left as they are, so
// "feels_like" becomes "feelsLike" while "feels_Like" and "lon" are unchanged.
func CamelKey(key string) string {
	if strings.IndexByte(key, '_') < 0 {
		return key
	}

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '_' && i+1 < len(key) && isLower(key[i+1]) {
			b.WriteByte(key[i+1] - ('a' - 'A'))
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

// CamelKeys applies CamelKey to every record key at every depth. Sequences keep
// their order and length; scalars and null come back unchanged.
//
// If two keys of one record rewrite to the same name, the later field's value
// wins and keeps the position of the first occurrence.
func CamelKeys(v Value) Value {
	switch v.kind {
	case Sequence:
		items := make([]Value, len(v.items))
		for i, item := range v.items {
			items[i] = CamelKeys(item)
		}
		return Value{kind: Sequence, items: items}
	case Record:
		fields := make([]Field, 0, len(v.fields))
		seen := make(map[string]int, len(v.fields))
		for _, f := range v.fields {
			key := CamelKey(f.Key)
			val := CamelKeys(f.Value)
			if i, ok := seen[key]; ok {
				fields[i].Value = val
				continue
			}
			seen[key] = len(fields)
			fields = append(fields, Field{Key: key, Value: val})
		}
		return Value{kind: Record, fields: fields}
	default:
		return v
	}
}
