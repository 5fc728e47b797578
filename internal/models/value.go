package models

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Kind tags the content of a table cell.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindText
)

// Value is a single table cell. A cell is either missing, a number, or the
// original text of a reading that did not parse as a number. Numbers are
// never NaN: NaN readings are stored as missing.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Null is the missing cell.
var Null = Value{}

// Num returns a numeric cell.
func Num(f float64) Value {
	if math.IsNaN(f) {
		return Null
	}
	return Value{kind: KindNumber, num: f}
}

// Str returns a text cell.
func Str(s string) Value {
	return Value{kind: KindText, text: s}
}

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsMissing() bool { return v.kind == KindMissing }
func (v Value) IsNumber() bool  { return v.kind == KindNumber }
func (v Value) IsText() bool    { return v.kind == KindText }

// Float returns the numeric content and whether the cell is numeric.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Text returns the text content and whether the cell is text.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// Interface returns nil, float64 or string.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindText:
		return v.text
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// Compare orders cells: missing < number < text. Numbers compare
// numerically, text compares lexically.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindNumber:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
	case KindText:
		return strings.Compare(a.text, b.text)
	}
	return 0
}

// Coerce converts a raw reading into a cell. Numbers and strings that parse
// as a float become numeric, other strings keep their text. Booleans count
// as 1 and 0, nulls are missing.
func Coerce(raw interface{}) Value {
	switch x := raw.(type) {
	case nil:
		return Null
	case float64:
		return Num(x)
	case float32:
		return Num(float64(x))
	case int:
		return Num(float64(x))
	case int64:
		return Num(float64(x))
	case json.Number:
		if f, ok := parseFloat(x.String()); ok {
			return Num(f)
		}
		return Str(x.String())
	case bool:
		if x {
			return Num(1)
		}
		return Num(0)
	case string:
		if f, ok := parseFloat(strings.TrimSpace(x)); ok {
			return Num(f)
		}
		return Str(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return Null
		}
		return Str(string(b))
	}
}

// parseFloat accepts out-of-range literals such as "1e400" as ±Inf.
func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}
