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

package dynval

import (
	"math"
	"math/big"
	"net"
	"net/netip"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Of converts an arbitrary Go value to its canonical Value.
//
// The conversion is total and pure: it never fails, never blocks, and has no
// side effects. Inputs with a dedicated kind map to it (see the table on
// Value); nil and typed nil pointers map to null; slices, arrays, and
// string-keyed maps convert deeply; everything else becomes an opaque leaf
// that keeps the original value reachable through AsAny.
//
// Of does not know about promises or cells: a future-like value, whether on
// its own or nested inside a collection, is just another opaque leaf here.
// Adoption of futures is the completion layer's job.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case bool:
		return Value{kind: KindBool, x: x}
	case int:
		return Value{kind: KindInt, x: int64(x)}
	case int8:
		return Value{kind: KindInt, x: int64(x)}
	case int16:
		return Value{kind: KindInt, x: int64(x)}
	case int32:
		return Value{kind: KindInt, x: int64(x)}
	case int64:
		return Value{kind: KindInt, x: x}
	case uint:
		return ofUint(uint64(x))
	case uint8:
		return Value{kind: KindInt, x: int64(x)}
	case uint16:
		return Value{kind: KindInt, x: int64(x)}
	case uint32:
		return Value{kind: KindInt, x: int64(x)}
	case uint64:
		return ofUint(x)
	case float32:
		return Value{kind: KindFloat, x: float64(x)}
	case float64:
		return Value{kind: KindFloat, x: x}
	case decimal.Decimal:
		return Value{kind: KindDecimal, x: x}
	case *big.Int:
		if x == nil {
			return Value{}
		}
		return Value{kind: KindDecimal, x: decimal.NewFromBigInt(x, 0)}
	case string:
		return Value{kind: KindText, x: x}
	case []byte:
		if x == nil {
			return Value{}
		}
		return Value{kind: KindBytes, x: x}
	case time.Time:
		return Value{kind: KindTime, x: x}
	case uuid.UUID:
		return Value{kind: KindUUID, x: x}
	case netip.Addr:
		return Value{kind: KindAddr, x: x}
	case net.IP:
		if a, ok := netip.AddrFromSlice(x); ok {
			return Value{kind: KindAddr, x: a.Unmap()}
		}
		return Value{kind: KindOpaque, x: x}
	case []Value:
		if x == nil {
			return Value{}
		}
		return Value{kind: KindList, x: x}
	case map[string]Value:
		if x == nil {
			return Value{}
		}
		return Value{kind: KindMap, x: x}
	case []any:
		if x == nil {
			return Value{}
		}
		vs := make([]Value, len(x))
		for i, e := range x {
			vs[i] = Of(e)
		}
		return Value{kind: KindList, x: vs}
	case map[string]any:
		if x == nil {
			return Value{}
		}
		m := make(map[string]Value, len(x))
		for k, e := range x {
			m[k] = Of(e)
		}
		return Value{kind: KindMap, x: m}
	default:
		return ofReflect(v)
	}
}

func ofUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Value{kind: KindDecimal, x: decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)}
	}
	return Value{kind: KindInt, x: int64(u)}
}

// ofReflect handles named types and arbitrary containers that the fast
// type switch missed.
func ofReflect(v any) Value {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Value{}
		}
		return Of(rv.Elem().Interface())
	case reflect.Bool:
		return Value{kind: KindBool, x: rv.Bool()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Value{kind: KindInt, x: rv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return ofUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Value{kind: KindFloat, x: rv.Float()}
	case reflect.String:
		return Value{kind: KindText, x: rv.String()}
	case reflect.Slice:
		if rv.IsNil() {
			return Value{}
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Value{kind: KindBytes, x: rv.Bytes()}
		}
		return ofSequence(rv)
	case reflect.Array:
		return ofSequence(rv)
	case reflect.Map:
		if rv.IsNil() {
			return Value{}
		}
		if rv.Type().Key().Kind() != reflect.String {
			return Value{kind: KindOpaque, x: v}
		}
		m := make(map[string]Value, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			m[it.Key().String()] = Of(it.Value().Interface())
		}
		return Value{kind: KindMap, x: m}
	default:
		return Value{kind: KindOpaque, x: v}
	}
}

func ofSequence(rv reflect.Value) Value {
	vs := make([]Value, rv.Len())
	for i := range vs {
		vs[i] = Of(rv.Index(i).Interface())
	}
	return Value{kind: KindList, x: vs}
}
