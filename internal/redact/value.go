package redact

import (
	"bytes"
	"fmt"
	"reflect"
	"regexp"
	"sync"
	"time"
)

// pathGuard tracks the container references on the active recursion path,
// keyed by identity. It is created on entry to Value and destroyed on
// return; entries are removed on exit of each container so two sibling
// fields referencing the same non-cyclic object are both fully redacted.
type pathGuard map[uintptr]struct{}

func (g pathGuard) enter(p uintptr) bool {
	if _, seen := g[p]; seen {
		return false
	}
	g[p] = struct{}{}
	return true
}

func (g pathGuard) exit(p uintptr) {
	delete(g, p)
}

// Value returns a deep copy of v with every secret-shaped string redacted
// and every secret-named field replaced by the placeholder. Cycles are cut
// with CircularMarker. Like Text, it never panics.
func Value(v any) (redacted any) {
	defer func() {
		if r := recover(); r != nil {
			redacted = FailedPlaceholder
		}
	}()
	return redactValue(v, make(pathGuard))
}

func redactValue(v any, guard pathGuard) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return Text(t)

	// Closed allow-list of opaque built-ins, returned unchanged. This
	// list must stay closed: an open-ended "not a plain record" test
	// would let any user-defined type, including one deliberately
	// wrapping a secret, bypass redaction.
	case time.Time, *time.Time, time.Duration:
		return v
	case []byte, *bytes.Buffer:
		return v
	case *regexp.Regexp:
		return v
	case *sync.Map:
		return v
	case error:
		return v

	case map[string]any:
		return redactStringMap(t, guard)
	case []any:
		return redactSlice(t, guard)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		// Handles, not data.
		return v
	case reflect.String:
		// Defined string types (type Token string) carry the same secret
		// shape as plain strings and get the same treatment.
		return Text(rv.String())
	case reflect.Pointer:
		if rv.IsNil() {
			return v
		}
		p := rv.Pointer()
		if !guard.enter(p) {
			return CircularMarker
		}
		defer guard.exit(p)
		return redactValue(rv.Elem().Interface(), guard)
	case reflect.Map:
		return redactReflectedMap(rv, guard)
	case reflect.Slice:
		// Defined byte-slice types are raw bytes like []byte, not records.
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		return redactReflectedSlice(rv, guard)
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = redactValue(rv.Index(i).Interface(), guard)
		}
		return out
	case reflect.Struct:
		return redactStruct(rv, guard)
	default:
		// Non-string, non-container primitives carry no secret shape.
		return v
	}
}

func redactStringMap(m map[string]any, guard pathGuard) any {
	p := reflect.ValueOf(m).Pointer()
	if !guard.enter(p) {
		return CircularMarker
	}
	defer guard.exit(p)

	out := make(map[string]any, len(m))
	for key, val := range m {
		out[key] = redactField(key, val, guard)
	}
	return out
}

func redactSlice(s []any, guard pathGuard) any {
	p := reflect.ValueOf(s).Pointer()
	if !guard.enter(p) {
		return CircularMarker
	}
	defer guard.exit(p)

	out := make([]any, len(s))
	for i, elem := range s {
		out[i] = redactValue(elem, guard)
	}
	return out
}

func redactReflectedMap(rv reflect.Value, guard pathGuard) any {
	if rv.IsNil() {
		return nil
	}
	p := rv.Pointer()
	if !guard.enter(p) {
		return CircularMarker
	}
	defer guard.exit(p)

	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key := fmt.Sprint(iter.Key().Interface())
		out[key] = redactField(key, iter.Value().Interface(), guard)
	}
	return out
}

func redactReflectedSlice(rv reflect.Value, guard pathGuard) any {
	if rv.IsNil() {
		return nil
	}
	p := rv.Pointer()
	if !guard.enter(p) {
		return CircularMarker
	}
	defer guard.exit(p)

	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = redactValue(rv.Index(i).Interface(), guard)
	}
	return out
}

// redactStruct scrubs a user-defined record field by field. Custom types
// always default to "scrub", never "exempt". The result is a plain map so
// unexported or unsettable fields can never smuggle a value through.
func redactStruct(rv reflect.Value, guard pathGuard) any {
	rt := rv.Type()
	out := make(map[string]any, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		out[field.Name] = redactField(field.Name, rv.Field(i).Interface(), guard)
	}
	return out
}

// redactField applies the name-driven policy: a Secret-and-not-Whitelisted
// field becomes the placeholder outright, its value discarded unread.
// Secrecy is a property of the field name, the conservative choice even
// for container-valued fields.
func redactField(name string, val any, guard pathGuard) any {
	if activeClassifier.shouldRedact(name) {
		return Placeholder
	}
	return redactValue(val, guard)
}
