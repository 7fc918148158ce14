// Copyright 2025 the treewave authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dynval implements the canonical dynamic value type used by the
// promise package.
//
// Every value that enters a promise is converted to a single Value sum type,
// so downstream code always deals with one self-describing representation,
// regardless of what Go type produced it. A Value is one of a fixed set of
// kinds: a null, a scalar leaf (bool, int, float, decimal, text, bytes,
// timestamp, UUID, or network address), a list, a string-keyed map, or an
// opaque leaf carrying any Go value the converter has no dedicated kind for.
//
// The zero Value is null. Values are immutable by convention: accessors
// return the stored payload without copying, and callers are expected not
// to mutate composite payloads they hand in or read out.
package dynval

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/netip"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind identifies the variant stored in a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDecimal
	KindText
	KindBytes
	KindTime
	KindUUID
	KindAddr
	KindList
	KindMap
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindTime:
		return "time"
	case KindUUID:
		return "uuid"
	case KindAddr:
		return "addr"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindOpaque:
		return "opaque"
	default:
		return "<unknown kind>"
	}
}

// Value is a single canonical dynamic value.
//
// The payload is interpreted according to the kind tag:
//
//	KindNull    nothing
//	KindBool    bool
//	KindInt     int64
//	KindFloat   float64
//	KindDecimal decimal.Decimal
//	KindText    string
//	KindBytes   []byte
//	KindTime    time.Time
//	KindUUID    uuid.UUID
//	KindAddr    netip.Addr
//	KindList    []Value
//	KindMap     map[string]Value
//	KindOpaque  any
type Value struct {
	kind Kind
	x    any
}

// Null returns the null Value. It is identical to the zero Value.
func Null() Value { return Value{} }

// List returns a list Value over the given elements.
// List() with no arguments is an empty list, which is distinct from null.
// The elements slice is taken over without copying.
func List(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{kind: KindList, x: vs}
}

// Map returns a map Value over the given entries.
// The map is taken over without copying. Entry order is not defined.
func Map(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindMap, x: m}
}

// Kind returns the variant tag of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Len returns the element count of a list or map, or the byte/char length
// of bytes and text. It is 0 for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.x.([]Value))
	case KindMap:
		return len(v.x.(map[string]Value))
	case KindText:
		return len(v.x.(string))
	case KindBytes:
		return len(v.x.([]byte))
	default:
		return 0
	}
}

// AsBool returns the value coerced to a bool.
// Numbers are true when non-zero, text is parsed with strconv.ParseBool,
// and every other kind (including null) is false.
func (v Value) AsBool() bool {
	switch v.kind {
	case KindBool:
		return v.x.(bool)
	case KindInt:
		return v.x.(int64) != 0
	case KindFloat:
		return v.x.(float64) != 0
	case KindDecimal:
		return !v.x.(decimal.Decimal).IsZero()
	case KindText:
		b, err := strconv.ParseBool(v.x.(string))
		return err == nil && b
	default:
		return false
	}
}

// AsInt returns the value coerced to an int64.
// Floats and decimals are truncated, bools map to 0/1, text is parsed
// (integer first, then float), and timestamps yield Unix milliseconds.
// Kinds with no numeric reading yield 0.
func (v Value) AsInt() int64 {
	switch v.kind {
	case KindInt:
		return v.x.(int64)
	case KindFloat:
		return int64(v.x.(float64))
	case KindDecimal:
		return v.x.(decimal.Decimal).IntPart()
	case KindBool:
		if v.x.(bool) {
			return 1
		}
		return 0
	case KindText:
		s := v.x.(string)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f)
		}
		return 0
	case KindTime:
		return v.x.(time.Time).UnixMilli()
	default:
		return 0
	}
}

// AsFloat returns the value coerced to a float64, following the same rules
// as AsInt.
func (v Value) AsFloat() float64 {
	switch v.kind {
	case KindFloat:
		return v.x.(float64)
	case KindInt:
		return float64(v.x.(int64))
	case KindDecimal:
		return v.x.(decimal.Decimal).InexactFloat64()
	case KindBool:
		if v.x.(bool) {
			return 1
		}
		return 0
	case KindText:
		f, err := strconv.ParseFloat(v.x.(string), 64)
		if err != nil {
			return 0
		}
		return f
	case KindTime:
		return float64(v.x.(time.Time).UnixMilli())
	default:
		return 0
	}
}

// AsDecimal returns the value coerced to a decimal.
// Kinds with no numeric reading yield decimal zero.
func (v Value) AsDecimal() decimal.Decimal {
	switch v.kind {
	case KindDecimal:
		return v.x.(decimal.Decimal)
	case KindInt:
		return decimal.NewFromInt(v.x.(int64))
	case KindFloat:
		return decimal.NewFromFloat(v.x.(float64))
	case KindBool:
		if v.x.(bool) {
			return decimal.NewFromInt(1)
		}
		return decimal.Decimal{}
	case KindText:
		d, err := decimal.NewFromString(v.x.(string))
		if err != nil {
			return decimal.Decimal{}
		}
		return d
	default:
		return decimal.Decimal{}
	}
}

// AsText returns the value rendered as text.
// Scalars format the usual way, bytes are base64, timestamps are RFC 3339,
// null is the empty string, and composites use the String rendering.
func (v Value) AsText() string {
	switch v.kind {
	case KindText:
		return v.x.(string)
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.x.(bool))
	case KindInt:
		return strconv.FormatInt(v.x.(int64), 10)
	case KindFloat:
		return strconv.FormatFloat(v.x.(float64), 'g', -1, 64)
	case KindDecimal:
		return v.x.(decimal.Decimal).String()
	case KindBytes:
		return base64.StdEncoding.EncodeToString(v.x.([]byte))
	case KindTime:
		return v.x.(time.Time).Format(time.RFC3339)
	case KindUUID:
		return v.x.(uuid.UUID).String()
	case KindAddr:
		return v.x.(netip.Addr).String()
	case KindList, KindMap:
		return v.String()
	default:
		return fmt.Sprint(v.x)
	}
}

// AsBytes returns the value coerced to a byte slice.
// Text is base64-decoded when possible and taken verbatim otherwise, and a
// UUID yields its 16 raw bytes. Other kinds yield nil.
func (v Value) AsBytes() []byte {
	switch v.kind {
	case KindBytes:
		return v.x.([]byte)
	case KindText:
		s := v.x.(string)
		if b, err := base64.StdEncoding.DecodeString(s); err == nil {
			return b
		}
		return []byte(s)
	case KindUUID:
		u := v.x.(uuid.UUID)
		return u[:]
	default:
		return nil
	}
}

// AsTime returns the value coerced to a timestamp.
// Ints are read as Unix milliseconds and text as RFC 3339. Other kinds
// yield the zero time.
func (v Value) AsTime() time.Time {
	switch v.kind {
	case KindTime:
		return v.x.(time.Time)
	case KindInt:
		return time.UnixMilli(v.x.(int64))
	case KindText:
		t, err := time.Parse(time.RFC3339, v.x.(string))
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}

// AsUUID returns the value coerced to a UUID: parsed from text, rebuilt
// from 16 bytes, or uuid.Nil when neither applies.
func (v Value) AsUUID() uuid.UUID {
	switch v.kind {
	case KindUUID:
		return v.x.(uuid.UUID)
	case KindText:
		u, err := uuid.Parse(v.x.(string))
		if err != nil {
			return uuid.Nil
		}
		return u
	case KindBytes:
		u, err := uuid.FromBytes(v.x.([]byte))
		if err != nil {
			return uuid.Nil
		}
		return u
	default:
		return uuid.Nil
	}
}

// AsAddr returns the value coerced to a network address: parsed from text
// or the zero netip.Addr when no reading exists.
func (v Value) AsAddr() netip.Addr {
	switch v.kind {
	case KindAddr:
		return v.x.(netip.Addr)
	case KindText:
		a, err := netip.ParseAddr(v.x.(string))
		if err != nil {
			return netip.Addr{}
		}
		return a
	default:
		return netip.Addr{}
	}
}

// AsList returns the elements of a list. Null yields nil, and any other
// kind yields a single-element list holding the value itself.
func (v Value) AsList() []Value {
	switch v.kind {
	case KindList:
		return v.x.([]Value)
	case KindNull:
		return nil
	default:
		return []Value{v}
	}
}

// AsMap returns the entries of a map, or nil for every other kind.
func (v Value) AsMap() map[string]Value {
	if v.kind == KindMap {
		return v.x.(map[string]Value)
	}
	return nil
}

// AsAny returns the native payload: nil for null, the scalar payload for
// leaves, []Value / map[string]Value for composites, and the original value
// for opaque leaves.
func (v Value) AsAny() any { return v.x }

// Equal reports deep structural equality. Kinds must match exactly; there
// is no cross-kind numeric comparison.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.x.(bool) == o.x.(bool)
	case KindInt:
		return v.x.(int64) == o.x.(int64)
	case KindFloat:
		return v.x.(float64) == o.x.(float64)
	case KindDecimal:
		return v.x.(decimal.Decimal).Equal(o.x.(decimal.Decimal))
	case KindText:
		return v.x.(string) == o.x.(string)
	case KindBytes:
		return bytes.Equal(v.x.([]byte), o.x.([]byte))
	case KindTime:
		return v.x.(time.Time).Equal(o.x.(time.Time))
	case KindUUID:
		return v.x.(uuid.UUID) == o.x.(uuid.UUID)
	case KindAddr:
		return v.x.(netip.Addr) == o.x.(netip.Addr)
	case KindList:
		a, b := v.x.([]Value), o.x.([]Value)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case KindMap:
		a, b := v.x.(map[string]Value), o.x.(map[string]Value)
		if len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !av.Equal(bv) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(v.x, o.x)
	}
}

// String renders the value in a compact JSON-flavored form, for logs and
// test failures. Map keys are sorted so the rendering is deterministic.
func (v Value) String() string {
	var sb strings.Builder
	v.render(&sb)
	return sb.String()
}

func (v Value) render(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindText:
		sb.WriteString(strconv.Quote(v.x.(string)))
	case KindBytes, KindTime, KindUUID, KindAddr:
		sb.WriteString(strconv.Quote(v.AsText()))
	case KindList:
		sb.WriteByte('[')
		for i, e := range v.x.([]Value) {
			if i > 0 {
				sb.WriteByte(',')
			}
			e.render(sb)
		}
		sb.WriteByte(']')
	case KindMap:
		m := v.x.(map[string]Value)
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteByte(':')
			m[k].render(sb)
		}
		sb.WriteByte('}')
	case KindOpaque:
		fmt.Fprintf(sb, "opaque(%v)", v.x)
	default:
		sb.WriteString(v.AsText())
	}
}
