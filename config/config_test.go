package config

import "testing"

func TestParseModeSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    ModeSpec
		wantErr bool
	}{
		{"standard", "1280x720", ModeSpec{1280, 720}, false},
		{"uppercase x", "1920X1080", ModeSpec{1920, 1080}, false},
		{"small", "8x16", ModeSpec{8, 16}, false},
		{"missing separator", "1280", ModeSpec{}, true},
		{"bad width", "ax720", ModeSpec{}, true},
		{"bad height", "1280xb", ModeSpec{}, true},
		{"zero width", "0x720", ModeSpec{}, true},
		{"negative", "-1x720", ModeSpec{}, true},
		{"too large", "99999x720", ModeSpec{}, true},
		{"empty", "", ModeSpec{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModeSpec(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseModeSpec(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseModeSpec(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestModeSpec_String(t *testing.T) {
	m := ModeSpec{Width: 800, Height: 600}
	if got := m.String(); got != "800x600" {
		t.Errorf("String() = %q, want %q", got, "800x600")
	}
}

func TestParseRemoteSpec(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		wantUser string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{"full", "admin@loghost:2222", "admin", "loghost", 2222, false},
		{"no port", "admin@loghost", "admin", "loghost", 22, false},
		{"no user", "loghost:2222", "", "loghost", 2222, false},
		{"host only", "loghost", "", "loghost", 22, false},
		{"bad port", "admin@loghost:notaport", "", "", 0, true},
		{"port out of range", "admin@loghost:70000", "", "", 0, true},
		{"empty", "", "", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, host, port, err := ParseRemoteSpec(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRemoteSpec(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if user != tt.wantUser || host != tt.wantHost || port != tt.wantPort {
				t.Errorf("ParseRemoteSpec(%q) = (%q, %q, %d), want (%q, %q, %d)",
					tt.spec, user, host, port, tt.wantUser, tt.wantHost, tt.wantPort)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.VideoBackend != "sim" {
		t.Errorf("VideoBackend = %q, want sim", cfg.VideoBackend)
	}
	if cfg.VTBackend != "fake" {
		t.Errorf("VTBackend = %q, want fake", cfg.VTBackend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}
