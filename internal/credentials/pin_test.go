package credentials

import (
	"strings"
	"testing"
)

func TestGenerateDisplayName(t *testing.T) {
	name, err := GenerateDisplayName()
	if err != nil {
		t.Fatalf("GenerateDisplayName: %v", err)
	}

	parts := strings.Split(name, "-")
	if len(parts) != 2 {
		t.Fatalf("expected adjective-noun format, got %q", name)
	}
	if parts[0] == "" || parts[1] == "" {
		t.Errorf("both parts should be non-empty, got %q", name)
	}
}

func TestGeneratePIN(t *testing.T) {
	for i := 0; i < 20; i++ {
		pin, err := GeneratePIN()
		if err != nil {
			t.Fatalf("GeneratePIN: %v", err)
		}
		if len(pin) != 4 {
			t.Fatalf("PIN length = %d, want 4", len(pin))
		}
		for _, c := range pin {
			if c < '0' || c > '9' {
				t.Fatalf("PIN %q contains non-digit", pin)
			}
		}
	}
}
