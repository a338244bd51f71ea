package vango

import (
	"reflect"
	"unsafe"
)

// StrictEqual reports whether a and b are the same value under identity
// semantics:
//
//   - comparable values (numbers, strings, bools, structs of those,
//     interfaces) compare with ==
//   - pointers, maps and channels compare by address
//   - slices compare by backing array and length
//   - funcs compare by closure identity: a function literal evaluated twice
//     yields two different values, a top-level function is always the same
//
// Values that are neither comparable nor references (for example a struct
// holding a slice) are never equal. StrictEqual never compares contents.
func StrictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Func:
		return funcIdentity(a) == funcIdentity(b)
	case reflect.Slice:
		return va.Len() == vb.Len() && va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Map, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.UnsafePointer() == vb.UnsafePointer()
	}

	if va.Comparable() {
		return a == b
	}
	return false
}

// funcIdentity returns the closure pointer of a func stored in an interface.
// Funcs are pointer-shaped, so the interface data word is the closure itself.
func funcIdentity(fn any) unsafe.Pointer {
	type eface struct {
		typ  unsafe.Pointer
		data unsafe.Pointer
	}
	return (*eface)(unsafe.Pointer(&fn)).data
}

// depsEqual compares two dependency lists element-wise with StrictEqual.
// A nil list never equals anything, so effects without deps run after every
// commit.
func depsEqual(prev, next []any) bool {
	if prev == nil || next == nil {
		return false
	}
	if len(prev) != len(next) {
		return false
	}
	for i := range prev {
		if !StrictEqual(prev[i], next[i]) {
			return false
		}
	}
	return true
}
