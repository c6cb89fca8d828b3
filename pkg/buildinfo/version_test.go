package buildinfo

import (
	"strings"
	"testing"
)

func TestInfoUsesStampedValues(t *testing.T) {
	v, c, d := Info()
	if v == "" || c == "" || d == "" {
		t.Fatalf("Info() = %q, %q, %q", v, c, d)
	}
	if Version != "dev" && v != Version {
		t.Errorf("stamped version %q not reported, got %q", Version, v)
	}
}

func TestUserAgent(t *testing.T) {
	v, _, _ := Info()
	if got := UserAgent(); got != "portindex/"+v {
		t.Errorf("UserAgent() = %q", got)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} version ") || !strings.HasSuffix(tmpl, "\n") {
		t.Errorf("Template() = %q", tmpl)
	}
	if strings.Count(String(), "\n") != 2 {
		t.Errorf("String() = %q, want three lines", String())
	}
}
