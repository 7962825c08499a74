// Package hash computes hashes for resource inputs.
//
// The hash is used to detect configuration changes between the previously
// applied state and the desired state. Because the hash is one-way, it is
// safe to persist even when it covers secret input values.
package hash

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"io"
	"reflect"
	"sort"

	"github.com/rampart/rampart/resource"
)

// Compute computes a hash string based on the input values set in the
// resource.
//
// The type name and all input fields contribute to the hash, in field
// declaration order. Output fields do not. Slice elements are hashed in
// order, so two resources that differ only in element order produce
// different hashes.
//
// Panics in case there was an error but a panic always indicates a bug in
// Compute(); except for nil, no user input should be able to cause a panic.
func Compute(value interface{}) string {
	h := fnv.New64a()

	v := reflect.Indirect(reflect.ValueOf(value))
	t := v.Type()
	h.Write([]byte(t.Name())) // nolint: errcheck

	for _, f := range resource.Fields(t, resource.Input) {
		if err := visit(h, v.Field(f.Index)); err != nil {
			panic(fmt.Sprintf("Field %d in %s: %v", f.Index, t, err))
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}

func visit(w io.Writer, v reflect.Value) error {
	v = reflect.Indirect(v)
	if !v.IsValid() {
		// Nil pointer, contributes nothing.
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		_, err := io.WriteString(w, v.String())
		return err
	case reflect.Bool:
		b := byte('0')
		if v.Bool() {
			b = '1'
		}
		_, err := w.Write([]byte{b})
		return err
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return binary.Write(w, binary.LittleEndian, v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return binary.Write(w, binary.LittleEndian, v.Uint())
	case reflect.Float32, reflect.Float64:
		return binary.Write(w, binary.LittleEndian, v.Float())
	case reflect.Slice, reflect.Array:
		// In order; element order is significant.
		for i := 0; i < v.Len(); i++ {
			if err := visit(w, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		// Iteration order is not stable so entries are hashed
		// individually and combined in sorted order.
		entries := make([][]byte, 0, v.Len())
		for _, k := range v.MapKeys() {
			var buf bytes.Buffer
			if err := visit(&buf, k); err != nil {
				return err
			}
			if err := visit(&buf, v.MapIndex(k)); err != nil {
				return err
			}
			entries = append(entries, buf.Bytes())
		}
		sort.Slice(entries, func(i, j int) bool {
			return bytes.Compare(entries[i], entries[j]) < 0
		})
		for _, e := range entries {
			if _, err := w.Write(e); err != nil {
				return err
			}
		}
		return nil
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if err := visit(w, v.Field(i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("not supported: %s", v.Kind())
	}
}
