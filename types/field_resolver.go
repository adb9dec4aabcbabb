package types

import (
	"reflect"
	"strings"
	"sync"
)

// fieldIndexCache maps (struct type, key) to the resolved field index
var fieldIndexCache sync.Map

type fieldCacheKey struct {
	typ reflect.Type
	key string
}

// ResolveField reads the value stored under key in row.
//
// Maps with string keys are indexed directly. Structs are matched by json
// tag, then exact field name, then case-insensitive field name. When the
// whole key does not match, a dotted key ("address.city") descends one
// segment at a time. Pointers and interfaces are unwrapped. A missing field
// yields nil.
func ResolveField(row interface{}, key string) interface{} {
	v, ok := lookup(reflect.ValueOf(row), key)
	if ok {
		return v
	}
	if !strings.Contains(key, ".") {
		return nil
	}

	current := reflect.ValueOf(row)
	for _, part := range strings.Split(key, ".") {
		next, ok := lookup(current, part)
		if !ok {
			return nil
		}
		current = reflect.ValueOf(next)
	}
	if !current.IsValid() {
		return nil
	}
	return current.Interface()
}

func lookup(v reflect.Value, key string) (interface{}, bool) {
	v = unwrap(v)
	if !v.IsValid() {
		return nil, false
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	case reflect.Struct:
		idx, ok := structFieldIndex(v.Type(), key)
		if !ok {
			return nil, false
		}
		f := v.Field(idx)
		if !f.CanInterface() {
			return nil, false
		}
		return f.Interface(), true
	}
	return nil, false
}

func unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func structFieldIndex(t reflect.Type, key string) (int, bool) {
	ck := fieldCacheKey{typ: t, key: key}
	if idx, ok := fieldIndexCache.Load(ck); ok {
		i := idx.(int)
		return i, i >= 0
	}

	idx := -1
	folded := -1
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" && tag != "-" && tag == key {
			idx = i
			break
		}
		if f.Name == key && idx < 0 {
			idx = i
		}
		if folded < 0 && strings.EqualFold(f.Name, key) {
			folded = i
		}
	}
	if idx < 0 {
		idx = folded
	}

	fieldIndexCache.Store(ck, idx)
	return idx, idx >= 0
}
