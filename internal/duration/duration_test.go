package duration

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"PT1H2M3S", 3723},
		{"PT5M9S", 309},
		{"PT45S", 45},
		{"PT4M13S", 253},
		{"PT2H", 7200},
		{"PT10M", 600},
		{"PT1H30S", 3630},
		{"PT", 0},
		{"", 0},
		{"garbage", 0},
		{"P1D", 0},
		{"PTxHyMzS", 0},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := Parse(tt.code); got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{3723, "1:02:03"},
		{309, "5:09"},
		{45, "0:45"},
		{0, "0:00"},
		{3600, "1:00:00"},
		{59, "0:59"},
		{60, "1:00"},
		{36610, "10:10:10"},
	}

	for _, tt := range tests {
		got, err := Format(tt.seconds)
		if err != nil {
			t.Fatalf("Format(%d) unexpected error: %v", tt.seconds, err)
		}
		if got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatNegative(t *testing.T) {
	if _, err := Format(-1); err == nil {
		t.Error("Format(-1) expected error, got nil")
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"PT1H2M3S", "1:02:03"},
		{"PT5M9S", "5:09"},
		{"PT45S", "0:45"},
		{"not-a-duration", "0:00"},
		{"", "0:00"},
	}

	for _, tt := range tests {
		if got := Display(tt.code); got != tt.want {
			t.Errorf("Display(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
