// Package tuple implements the positional row model: scalar value
// types, the column-name-to-position index, and schema-driven parsing
// of string fields (CSV records) into typed values.
package tuple

import (
	"fmt"
	"strconv"

	"github.com/carloshernandez2/clj-db/internal/codec"
	"github.com/carloshernandez2/clj-db/internal/dberr"
)

// Type is one of the three scalar types a column may hold.
type Type int8

const (
	STRING Type = iota
	INT
	FLOAT
)

func (t Type) String() string {
	switch t {
	case STRING:
		return "STRING"
	case INT:
		return "INT"
	case FLOAT:
		return "FLOAT"
	default:
		return fmt.Sprintf("Type(%d)", int8(t))
	}
}

// TypeFromString parses one of the three catalog type names.
func TypeFromString(s string) (Type, error) {
	switch s {
	case "STRING":
		return STRING, nil
	case "INT":
		return INT, nil
	case "FLOAT":
		return FLOAT, nil
	default:
		return 0, dberr.SchemaViolation("unknown type %q", s)
	}
}

// Value is a tagged scalar. Only the field matching Typ is meaningful;
// this avoids boxing every value behind `any` on the hot row path.
type Value struct {
	Typ Type
	S   string
	I   int32
	F   float32
}

func StringValue(s string) Value { return Value{Typ: STRING, S: s} }
func IntValue(i int32) Value     { return Value{Typ: INT, I: i} }
func FloatValue(f float32) Value { return Value{Typ: FLOAT, F: f} }

// Encode serializes v per its type: STRING as codec.EncodeString
// (u8-len-prefixed, <=255 bytes), INT/FLOAT as their fixed 4-byte
// encodings.
func (v Value) Encode() ([]byte, error) {
	switch v.Typ {
	case STRING:
		if len(v.S) > codec.MaxStringLen {
			return nil, dberr.SchemaViolation("string value %q exceeds %d bytes", v.S, codec.MaxStringLen)
		}
		return codec.EncodeString(v.S), nil
	case INT:
		return codec.EncodeI32(v.I), nil
	case FLOAT:
		return codec.EncodeF32(v.F), nil
	default:
		return nil, dberr.SchemaViolation("cannot encode value of type %v", v.Typ)
	}
}

// Size returns the encoded size of v, without allocating.
func (v Value) Size() int {
	switch v.Typ {
	case STRING:
		return 1 + len(v.S)
	default:
		return codec.I32Size
	}
}

// DecodeValue reads one field of type typ from the front of b,
// returning the value and the number of bytes consumed.
func DecodeValue(typ Type, b []byte) (Value, int, error) {
	switch typ {
	case STRING:
		s, n, err := codec.DecodeString(b)
		if err != nil {
			return Value{}, 0, err
		}
		return StringValue(s), n, nil
	case INT:
		i, err := codec.DecodeI32(b)
		if err != nil {
			return Value{}, 0, err
		}
		return IntValue(i), codec.I32Size, nil
	case FLOAT:
		f, err := codec.DecodeF32(b)
		if err != nil {
			return Value{}, 0, err
		}
		return FloatValue(f), codec.F32Size, nil
	default:
		return Value{}, 0, dberr.SchemaViolation("cannot decode value of type %v", typ)
	}
}

// ParseString parses a raw CSV-style string field into a typed Value
// per typ.
func ParseString(typ Type, raw string) (Value, error) {
	switch typ {
	case STRING:
		if len(raw) > codec.MaxStringLen {
			return Value{}, dberr.SchemaViolation("string value %q exceeds %d bytes", raw, codec.MaxStringLen)
		}
		return StringValue(raw), nil
	case INT:
		i, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return Value{}, dberr.SchemaViolation("invalid INT value %q: %v", raw, err)
		}
		return IntValue(int32(i)), nil
	case FLOAT:
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return Value{}, dberr.SchemaViolation("invalid FLOAT value %q: %v", raw, err)
		}
		return FloatValue(float32(f)), nil
	default:
		return Value{}, dberr.SchemaViolation("unknown type %v", typ)
	}
}

// Native unwraps v into the plain Go value its type carries, for
// callers (result materialization, debugging) that want `any` instead
// of the tagged union.
func (v Value) Native() any {
	switch v.Typ {
	case STRING:
		return v.S
	case INT:
		return v.I
	case FLOAT:
		return v.F
	default:
		return nil
	}
}

// Compare returns -1, 0, 1 comparing a and b, which must share a type.
// STRING compares as UTF-8 code-point (byte) order; INT/FLOAT compare
// numerically.
func Compare(a, b Value) int {
	switch a.Typ {
	case STRING:
		switch {
		case a.S < b.S:
			return -1
		case a.S > b.S:
			return 1
		default:
			return 0
		}
	case INT:
		switch {
		case a.I < b.I:
			return -1
		case a.I > b.I:
			return 1
		default:
			return 0
		}
	case FLOAT:
		switch {
		case a.F < b.F:
			return -1
		case a.F > b.F:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}
