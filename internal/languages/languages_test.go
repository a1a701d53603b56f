package languages

import "testing"

func TestIsCode(t *testing.T) {
	for _, code := range []string{"de", "en", "fr", "ja", "no"} {
		if !IsCode(code) {
			t.Errorf("Expected %q to be a known language code", code)
		}
	}
	for _, id := range []string{"", "german", "B00ABCDEFG", "prozess-1"} {
		if IsCode(id) {
			t.Errorf("Expected %q to not be a language code", id)
		}
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"de", "German"},
		{"en", "English"},
		{"no", "Norwegian"},
		// Not in the table, resolved through CLDR.
		{"eu", "Basque"},
		// Not a language tag at all.
		{"???", "???"},
	}
	for _, tt := range tests {
		if got := Name(tt.code); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCodesCoversTable(t *testing.T) {
	codes := Codes()
	if len(codes) == 0 {
		t.Fatal("Expected a non-empty code table")
	}
	for _, code := range codes {
		if !IsCode(code) {
			t.Errorf("Codes() returned %q but IsCode rejects it", code)
		}
	}
}
