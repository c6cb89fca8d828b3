package errors

import "testing"

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "zlib", false},
		{"valid with hyphen", "vcpkg-cmake", false},
		{"empty", "", true},
		{"traversal", "../etc", true},
		{"separator", "a/b", true},
		{"backslash", `a\b`, true},
		{"control char", "zl\tib", true},
		{"too long", string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPackage) {
				t.Errorf("expected INVALID_PACKAGE, got %v", GetCode(err))
			}
		})
	}
}

func TestValidatePortName(t *testing.T) {
	valid := []string{"zlib", "boost-asio", "7zip", "abseil"}
	for _, name := range valid {
		if err := ValidatePortName(name); err != nil {
			t.Errorf("ValidatePortName(%q) unexpected error: %v", name, err)
		}
	}

	invalid := []string{"Zlib", "boost_asio", "-lead", "trail-", "a--b", ""}
	for _, name := range invalid {
		if err := ValidatePortName(name); err == nil {
			t.Errorf("ValidatePortName(%q) expected error", name)
		}
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("https://vcpkg.io/output.json"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateURL("ftp://example.com"); err == nil {
		t.Error("expected error for ftp scheme")
	}
	if err := ValidateURL(""); err == nil {
		t.Error("expected error for empty URL")
	}
}
