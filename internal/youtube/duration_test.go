package youtube

import "testing"

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		wantErr  bool
	}{
		{"minutes and seconds", "PT4M13S", 253, false},
		{"hours minutes seconds", "PT1H2M3S", 3723, false},
		{"seconds only", "PT45S", 45, false},
		{"minutes only", "PT10M", 600, false},
		{"hours only", "PT2H", 7200, false},
		{"zero duration", "PT0S", 0, false},
		{"bare PT", "PT", 0, false},
		{"empty string", "", 0, true},
		{"not a duration", "4m13s", 0, true},
		{"with days (unsupported)", "P1DT2H", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseISODuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseISODuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseISODuration(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{253, "4:13"},
		{3723, "1:02:03"},
		{45, "0:45"},
		{0, "0:00"},
		{-5, "0:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.expected {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.expected)
		}
	}
}
