package registry

import (
	"math/big"
	"reflect"
	"strings"

	gethcommon "github.com/ethereum/go-ethereum/common"
)

// field identifies one logical member of a registry tuple: the name used by
// named decodings and the positional index used when the same shape arrives
// as a bare array. Every struct-like response is resolved through this
// adapter; nothing outside this file inspects raw decoded values.
type field struct {
	name  string
	index int
}

// tuple wraps a decoded contract return value, which may arrive as a named
// map, a positional slice, or a component struct depending on how the call
// was decoded. Fields resolve by name first, position second.
type tuple struct {
	raw interface{}
}

func newTuple(raw interface{}) *tuple {
	return &tuple{raw: raw}
}

func (t *tuple) value(f field) (interface{}, bool) {
	switch v := t.raw.(type) {
	case map[string]interface{}:
		if val, ok := v[f.name]; ok {
			return val, true
		}
	case []interface{}:
		if f.index >= 0 && f.index < len(v) {
			return v[f.index], true
		}
	default:
		rv := reflect.Indirect(reflect.ValueOf(t.raw))
		if rv.Kind() == reflect.Struct {
			fv := rv.FieldByName(componentFieldName(f.name))
			if fv.IsValid() {
				return fv.Interface(), true
			}
			if f.index >= 0 && f.index < rv.NumField() {
				return rv.Field(f.index).Interface(), true
			}
		}
	}
	return nil, false
}

func (t *tuple) address(f field) string {
	v, ok := t.value(f)
	if !ok {
		return ""
	}
	switch addr := v.(type) {
	case gethcommon.Address:
		return addr.Hex()
	case string:
		return addr
	}
	return ""
}

func (t *tuple) addressList(f field) []string {
	v, ok := t.value(f)
	if !ok {
		return nil
	}
	addrs, ok := v.([]gethcommon.Address)
	if !ok {
		return nil
	}
	list := make([]string, len(addrs))
	for i, addr := range addrs {
		list[i] = addr.Hex()
	}
	return list
}

func (t *tuple) bytes32(f field) [32]byte {
	v, ok := t.value(f)
	if !ok {
		return [32]byte{}
	}
	switch b := v.(type) {
	case [32]byte:
		return b
	case gethcommon.Hash:
		return b
	}
	return [32]byte{}
}

func (t *tuple) bigInt(f field) *big.Int {
	v, ok := t.value(f)
	if !ok {
		return new(big.Int)
	}
	switch n := v.(type) {
	case *big.Int:
		if n != nil {
			return n
		}
	case uint8:
		return big.NewInt(int64(n))
	case uint64:
		return new(big.Int).SetUint64(n)
	case int64:
		return big.NewInt(n)
	}
	return new(big.Int)
}

func (t *tuple) uint64At(f field) uint64 {
	return t.bigInt(f).Uint64()
}

func (t *tuple) int64At(f field) int64 {
	return t.bigInt(f).Int64()
}

func (t *tuple) boolAt(f field) bool {
	v, ok := t.value(f)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// tupleElements flattens a decoded tuple[] value into its elements so each
// can be resolved through the field adapter regardless of the concrete slice
// type the decoder produced.
func tupleElements(raw interface{}) []interface{} {
	if raw == nil {
		return nil
	}
	if elements, ok := raw.([]interface{}); ok {
		return elements
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice {
		return nil
	}
	elements := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elements[i] = rv.Index(i).Interface()
	}
	return elements
}

// componentFieldName maps an abi component name to the exported struct field
// name the decoder generates for it.
func componentFieldName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
