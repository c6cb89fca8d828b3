package overrides

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/matzehuels/portindex/pkg/catalog"
)

// FieldError reports an override field that was skipped.
type FieldError struct {
	Target string
	Field  string
	Source string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("override %s.%s (%s): %v", e.Target, e.Field, e.Source, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

var (
	errUnknownField = errors.New("unknown field")

	// canonicalFields maps each json field name of catalog.Package to its
	// struct field index.
	canonicalFields = sync.OnceValue(func() map[string]int {
		t := reflect.TypeFor[catalog.Package]()
		fields := make(map[string]int, t.NumField())
		for i := range t.NumField() {
			name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
			if name != "" && name != "-" {
				fields[name] = i
			}
		}
		return fields
	})
)

// IsField reports whether name is a canonical package field.
func IsField(name string) bool {
	_, ok := canonicalFields()[name]
	return ok
}

// fieldPatch sets one canonical field. A null value resets the field to
// its zero value; encoding/json would otherwise leave it untouched.
type fieldPatch struct {
	index int
	obj   []byte // single-key JSON object, nil for null
}

func (f fieldPatch) apply(p *catalog.Package) error {
	if f.obj == nil {
		reflect.ValueOf(p).Elem().Field(f.index).SetZero()
		return nil
	}
	return json.Unmarshal(f.obj, p)
}

// Apply patches pkgs in place. Overrides are applied in order, and within an
// override every field is set on each record whose name equals the target at
// the time the override is applied, so the last override wins. A null value
// clears the field: strings become empty, numbers zero, and lists, raw
// values and stats unset. Fields with unknown names or values that do not
// fit the field type are skipped and returned as *FieldError. Apply returns
// the number of distinct records modified.
func Apply(pkgs []catalog.Package, overrides []Override) (int, []error) {
	var errs []error
	touched := make(map[int]bool)

	for _, ov := range overrides {
		patch := validFields(ov, &errs)
		if len(patch) == 0 {
			continue
		}
		for i := range pkgs {
			if pkgs[i].Name != ov.Target {
				continue
			}
			for _, f := range patch {
				if err := f.apply(&pkgs[i]); err != nil {
					errs = append(errs, &FieldError{Target: ov.Target, Source: ov.Source, Err: err})
				}
			}
			touched[i] = true
		}
	}
	return len(touched), errs
}

// validFields returns one patch per applicable field, in sorted field order.
func validFields(ov Override, errs *[]error) []fieldPatch {
	keys := make([]string, 0, len(ov.Fields))
	for k := range ov.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	fields := canonicalFields()
	var patch []fieldPatch
	for _, k := range keys {
		index, ok := fields[k]
		if !ok {
			*errs = append(*errs, &FieldError{Target: ov.Target, Field: k, Source: ov.Source, Err: errUnknownField})
			continue
		}
		if bytes.Equal(bytes.TrimSpace(ov.Fields[k]), []byte("null")) {
			patch = append(patch, fieldPatch{index: index})
			continue
		}
		obj := []byte("{" + strconv.Quote(k) + ":" + string(ov.Fields[k]) + "}")
		var scratch catalog.Package
		if err := json.Unmarshal(obj, &scratch); err != nil {
			*errs = append(*errs, &FieldError{Target: ov.Target, Field: k, Source: ov.Source, Err: err})
			continue
		}
		patch = append(patch, fieldPatch{index: index, obj: obj})
	}
	return patch
}
