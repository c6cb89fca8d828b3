package overrides

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/matzehuels/portindex/pkg/catalog"
)

func fields(m map[string]string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		out[k] = json.RawMessage(v)
	}
	return out
}

func TestApply(t *testing.T) {
	pkgs := []catalog.Package{
		{Name: "zlib", License: "Zlib"},
		{Name: "fmt", License: "MIT"},
		{Name: "zlib", License: "Zlib"},
	}
	ovs := []Override{{
		Target: "zlib",
		Fields: fields(map[string]string{
			"license":      `"MIT-like"`,
			"dependencies": `["a", {"name": "b"}]`,
			"stars":        `7`,
			"description":  `["x"]`,
		}),
	}}

	n, errs := Apply(pkgs, ovs)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if n != 2 {
		t.Errorf("touched = %d, want 2", n)
	}

	for _, i := range []int{0, 2} {
		p := pkgs[i]
		if p.License != "MIT-like" {
			t.Errorf("pkgs[%d].License = %q", i, p.License)
		}
		if want := []catalog.DependencyRef{{Name: "a"}, {Name: "b"}}; !reflect.DeepEqual(p.Dependencies, want) {
			t.Errorf("pkgs[%d].Dependencies = %v", i, p.Dependencies)
		}
		if p.Stars == nil || *p.Stars != 7 {
			t.Errorf("pkgs[%d].Stars = %v", i, p.Stars)
		}
		if string(p.Description) != `["x"]` {
			t.Errorf("pkgs[%d].Description = %s", i, p.Description)
		}
	}
	if pkgs[1].License != "MIT" {
		t.Error("non-matching record was modified")
	}
	if pkgs[0].Stars == pkgs[2].Stars {
		t.Error("records must not share stats storage")
	}
}

func TestApplyNullClearsField(t *testing.T) {
	stars := 12
	pkgs := []catalog.Package{{
		Name:         "x",
		Version:      "1.0",
		License:      "MIT",
		PortVersion:  3,
		Description:  json.RawMessage(`"a library"`),
		Stars:        &stars,
		Versions:     []string{"v1.0"},
		Dependencies: []catalog.DependencyRef{{Name: "zlib"}},
	}}
	ovs := []Override{{
		Target: "x",
		Fields: fields(map[string]string{
			"version":      `null`,
			"license":      `"BSD"`,
			"port_version": ` null `,
			"description":  `null`,
			"stars":        `null`,
			"versions":     `null`,
			"dependencies": `null`,
		}),
	}}

	n, errs := Apply(pkgs, ovs)
	if n != 1 || len(errs) != 0 {
		t.Fatalf("Apply() = %d, %v", n, errs)
	}

	p := pkgs[0]
	if p.Version != "" {
		t.Errorf("Version = %q, want cleared", p.Version)
	}
	if p.License != "BSD" {
		t.Errorf("License = %q, want BSD", p.License)
	}
	if p.PortVersion != 0 {
		t.Errorf("PortVersion = %d, want 0", p.PortVersion)
	}
	if p.Description != nil || p.Stars != nil || p.Versions != nil || p.Dependencies != nil {
		t.Errorf("nullable fields not cleared: %+v", p)
	}
	if p.Name != "x" {
		t.Error("untouched field changed")
	}
	if stars != 12 {
		t.Error("clearing stars must not write through the old pointer")
	}
}

func TestApplyNullName(t *testing.T) {
	pkgs := []catalog.Package{{Name: "x", Summary: "s"}}
	ovs := []Override{
		{Target: "x", Fields: fields(map[string]string{"name": `null`})},
		{Target: "x", Fields: fields(map[string]string{"summary": `"later"`})},
	}

	Apply(pkgs, ovs)
	if pkgs[0].Name != "" {
		t.Errorf("Name = %q, want cleared", pkgs[0].Name)
	}
	if pkgs[0].Summary != "s" {
		t.Error("record no longer named x must not match a later override")
	}
}

func TestApplyLastWins(t *testing.T) {
	pkgs := []catalog.Package{{Name: "zlib"}}
	ovs := []Override{
		{Target: "zlib", Fields: fields(map[string]string{"summary": `"first"`})},
		{Target: "zlib", Fields: fields(map[string]string{"summary": `"second"`})},
	}

	Apply(pkgs, ovs)
	if pkgs[0].Summary != "second" {
		t.Errorf("Summary = %q, want second", pkgs[0].Summary)
	}
}

func TestApplySkipsBadFields(t *testing.T) {
	pkgs := []catalog.Package{{Name: "zlib", Version: "1.0"}}
	ovs := []Override{{
		Target: "zlib",
		Source: "index/zlib/overrides.json",
		Fields: fields(map[string]string{
			"bogus":        `1`,
			"port_version": `"three"`,
			"version":      `"2.0"`,
		}),
	}}

	n, errs := Apply(pkgs, ovs)
	if n != 1 {
		t.Errorf("touched = %d, want 1", n)
	}
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}

	var fe *FieldError
	if !errors.As(errs[0], &fe) || fe.Field != "bogus" || !errors.Is(fe, errUnknownField) {
		t.Errorf("first error = %v", errs[0])
	}
	if !errors.As(errs[1], &fe) || fe.Field != "port_version" {
		t.Errorf("second error = %v", errs[1])
	}
	if pkgs[0].Version != "2.0" {
		t.Errorf("valid field not applied: Version = %q", pkgs[0].Version)
	}
	if pkgs[0].PortVersion != 0 {
		t.Errorf("invalid field applied: PortVersion = %d", pkgs[0].PortVersion)
	}
}

func TestApplyNoMatch(t *testing.T) {
	pkgs := []catalog.Package{{Name: "zlib"}}
	n, errs := Apply(pkgs, []Override{{Target: "absent", Fields: fields(map[string]string{"license": `"x"`})}})
	if n != 0 || len(errs) != 0 {
		t.Errorf("Apply() = %d, %v", n, errs)
	}
}

func TestIsField(t *testing.T) {
	for _, f := range []string{"name", "git_short", "versions", "port_version"} {
		if !IsField(f) {
			t.Errorf("IsField(%q) = false", f)
		}
	}
	for _, f := range []string{"Name", "Homepage", "stargazers_count", ""} {
		if IsField(f) {
			t.Errorf("IsField(%q) = true", f)
		}
	}
}
