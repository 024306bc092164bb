package config

import "testing"

func TestDefaultParsesEmbedded(t *testing.T) {
	cfg := Default()
	if cfg.Window.Width == 0 || cfg.Window.Height == 0 {
		t.Fatalf("expected non-zero window size, got %+v", cfg.Window)
	}
	if cfg.Font.Size <= 0 {
		t.Fatalf("expected positive font size, got %v", cfg.Font.Size)
	}
	if cfg.Colors.Background == "" {
		t.Fatalf("expected a default background color")
	}
	if cfg.Animation.TargetFPS < 1 {
		t.Fatalf("target_fps must be >= 1, got %d", cfg.Animation.TargetFPS)
	}
}

func TestDefaultIsFreshEachCall(t *testing.T) {
	a := Default()
	b := Default()
	a.Font.Size = 99
	if b.Font.Size == 99 {
		t.Fatalf("Default() must not share state between calls")
	}
}

func TestThemeByNameKnownAndUnknown(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"raven-blue", "#0b1622"},
		{"crow-black", "#000000"},
		{"nonexistent-theme", Default().Colors.Background},
		{"", Default().Colors.Background},
	}
	for _, tt := range tests {
		got := ThemeByName(tt.name).Background
		if got != tt.want {
			t.Errorf("ThemeByName(%q).Background = %q, want %q", tt.name, got, tt.want)
		}
	}
}
