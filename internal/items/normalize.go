package items

import (
	"encoding/json"
	"math/big"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// FallbackIDPrefix starts every generated id.
const FallbackIDPrefix = "b-"

// Field is one column of a Row.
type Field struct {
	Column string
	Value  string
}

// Row is one parsed CSV record keyed by header column, in header order.
type Row []Field

// NewRow pairs a record with its header. Cells beyond the header are dropped
// and header columns without a cell are left out. A repeated column keeps its
// first position and takes the last value.
func NewRow(header, record []string) Row {
	row := make(Row, 0, len(header))
	pos := make(map[string]int, len(header))
	for i, col := range header {
		if i >= len(record) {
			break
		}
		if j, ok := pos[col]; ok {
			row[j].Value = record[i]
			continue
		}
		pos[col] = len(row)
		row = append(row, Field{Column: col, Value: record[i]})
	}
	return row
}

// Get returns the raw value stored under column.
func (r Row) Get(column string) (string, bool) {
	for _, f := range r {
		if f.Column == column {
			return f.Value, true
		}
	}
	return "", false
}

// value returns the trimmed value of column, or "" when absent.
func (r Row) value(column string) string {
	v, _ := r.Get(column)
	return TrimSpace(v)
}

// IsBlank reports whether every value of the row is empty after trimming.
func IsBlank(r Row) bool {
	for _, f := range r {
		if TrimSpace(f.Value) != "" {
			return false
		}
	}
	return true
}

// TrimSpace removes leading and trailing white space. Besides what
// unicode.IsSpace covers it strips the information separators U+001C to
// U+001F, which spreadsheet exports occasionally leave in cells.
func TrimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// IDGenerator produces fallback ids for rows without one.
type IDGenerator func() string

// RandomID returns "b-" followed by the first 8 hex characters of a random UUID.
func RandomID() string {
	return FallbackIDPrefix + uuid.NewString()[:8]
}

// Normalizer turns rows into items.
type Normalizer struct {
	NewID IDGenerator
}

// NewNormalizer returns a Normalizer that draws fallback ids from RandomID.
func NewNormalizer() *Normalizer {
	return &Normalizer{NewID: RandomID}
}

// Normalize builds an Item from a row. It never fails: unparseable ratings are
// kept as text and blank optional fields are dropped.
//
// Columns with an empty header name are ignored. Other column names are
// trimmed to form the attribute key; keys that collide after trimming keep the
// first position and take the last non-blank value.
func (n *Normalizer) Normalize(r Row) Item {
	item := Item{
		ID:   r.value(ColumnID),
		Name: r.value(ColumnName),
		Note: r.value(ColumnNote),
	}
	if item.ID == "" {
		gen := n.NewID
		if gen == nil {
			gen = RandomID
		}
		item.ID = gen()
	}
	item.Rating = ParseRating(r.value(ColumnRating))

	var pos map[string]int
	for _, f := range r {
		if f.Column == "" {
			continue
		}
		key := TrimSpace(f.Column)
		if IsKnownColumn(key) {
			continue
		}
		val := TrimSpace(f.Value)
		if val == "" {
			continue
		}
		if i, ok := pos[key]; ok {
			item.Attributes[i].Value = val
			continue
		}
		if pos == nil {
			pos = make(map[string]int)
		}
		pos[key] = len(item.Attributes)
		item.Attributes = append(item.Attributes, Attribute{Key: key, Value: val})
	}
	return item
}

// maxRatingDigits caps integer ratings; longer digit strings stay text.
const maxRatingDigits = 4300

// ParseRating coerces a trimmed raw rating. Empty input is absent and anything
// that is not a base-10 integer is kept as text.
//
// Integers take an optional sign and may group digits with single underscores
// ("1_000"). They are stored in canonical form, so "+007" becomes 7, and are
// not limited to the int64 range.
func ParseRating(raw string) Rating {
	if raw == "" {
		return Rating{}
	}
	n, ok := parseInteger(raw)
	if !ok {
		return TextRating(raw)
	}
	return Rating{Kind: RatingInt, Num: json.Number(n.String())}
}

func parseInteger(s string) (*big.Int, bool) {
	var sign string
	if s[0] == '+' || s[0] == '-' {
		sign, s = s[:1], s[1:]
	}

	digits := make([]byte, 0, len(s))
	afterDigit := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits = append(digits, c)
			afterDigit = true
		case c == '_' && afterDigit:
			afterDigit = false
		default:
			return nil, false
		}
	}
	if !afterDigit || len(digits) > maxRatingDigits {
		return nil, false
	}
	return new(big.Int).SetString(sign+string(digits), 10)
}
