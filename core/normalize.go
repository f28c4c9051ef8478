package core

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/huangsam/repometrics/schema"
)

// resultKey is the payload field that carries a boolean verdict.
const resultKey = "result"

// NormalizeResult rewrites a boolean verdict into its string form.
// Any payload carrying a bool "result" field, whether a map or a struct,
// becomes exactly {"result": "true"|"false"}; its other fields are dropped.
// Every other shape is returned unchanged.
func NormalizeResult(v any) any {
	verdict, ok := verdictOf(v)
	if !ok {
		return v
	}
	return map[string]any{resultKey: strconv.FormatBool(verdict)}
}

// verdictOf extracts the boolean "result" field of a payload.
func verdictOf(v any) (bool, bool) {
	switch r := v.(type) {
	case nil:
		return false, false
	case schema.Verdict:
		return r.Result, true
	case *schema.Verdict:
		if r == nil {
			return false, false
		}
		return r.Result, true
	case map[string]any:
		b, ok := r[resultKey].(bool)
		return b, ok
	case map[string]bool:
		b, ok := r[resultKey]
		return b, ok
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return false, false
	}
	return structVerdict(v)
}

// structVerdict reads the verdict of a plugin-defined struct through its JSON
// form, so tags, embedding and custom marshalers decide the field like they
// do in the stored report.
func structVerdict(v any) (bool, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return false, false
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return false, false
	}
	if val, ok := fields[resultKey]; ok {
		b, ok := val.(bool)
		return b, ok
	}
	for k, val := range fields {
		if strings.EqualFold(k, resultKey) {
			b, ok := val.(bool)
			return b, ok
		}
	}
	return false, false
}
