// Package items defines the builtin item record and the rules that turn a
// parsed CSV row into one.
package items

import (
	"bytes"
	"encoding/json"
	"strconv"
	"unicode/utf8"
)

// Known columns map onto fixed Item fields. Every other header column becomes
// a free-form attribute.
const (
	ColumnID     = "id"
	ColumnName   = "name"
	ColumnRating = "rating"
	ColumnNote   = "note"
)

// KnownColumns lists the fixed columns in output order.
var KnownColumns = []string{ColumnID, ColumnName, ColumnRating, ColumnNote}

// IsKnownColumn reports whether name is one of the fixed columns (case-sensitive).
func IsKnownColumn(name string) bool {
	switch name {
	case ColumnID, ColumnName, ColumnRating, ColumnNote:
		return true
	}
	return false
}

// RatingKind tags which variant a Rating holds.
type RatingKind int

const (
	RatingAbsent RatingKind = iota
	RatingInt
	RatingText
)

// Rating is an integer-or-string value that may also be absent. Integers are
// held as canonical base-10 digits so values beyond int64 survive.
type Rating struct {
	Kind RatingKind
	Num  json.Number
	Text string
}

// IntRating returns a Rating holding n.
func IntRating(n int64) Rating {
	return Rating{Kind: RatingInt, Num: json.Number(strconv.FormatInt(n, 10))}
}

// TextRating returns a Rating holding s verbatim.
func TextRating(s string) Rating { return Rating{Kind: RatingText, Text: s} }

// IsZero reports whether the rating is absent. encoding/json uses it with omitzero.
func (r Rating) IsZero() bool { return r.Kind == RatingAbsent }

func (r Rating) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RatingInt:
		return []byte(r.Num), nil
	case RatingText:
		return marshalString(r.Text)
	default:
		return []byte("null"), nil
	}
}

// Attribute is one extra column carried by an item.
type Attribute struct {
	Key   string
	Value string
}

// Attributes keeps extra columns in header order. It marshals as a JSON object.
type Attributes []Attribute

func (a Attributes) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := marshalString(attr.Key)
		if err != nil {
			return nil, err
		}
		v, err := marshalString(attr.Value)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Item is one normalized record of the builtin items array.
type Item struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Rating     Rating     `json:"rating,omitzero"`
	Note       string     `json:"note,omitempty"`
	Attributes Attributes `json:"attributes,omitempty"`
}

// marshalString encodes s without HTML escaping so output text stays literal.
func marshalString(s string) ([]byte, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return UnescapeLineSeparators(bytes.TrimRight(b.Bytes(), "\n")), nil
}

// UnescapeLineSeparators rewrites the \u2028 and \u2029 escapes that
// encoding/json always emits back into the literal characters. Escaped
// backslashes are skipped, so a literal `\\u2028` stays as it is.
func UnescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if i+5 < len(data) && string(data[i+1:i+5]) == "u202" && (data[i+5] == '8' || data[i+5] == '9') {
			out = utf8.AppendRune(out, rune(0x2020+int(data[i+5]-'0')))
			i += 5
			continue
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}
