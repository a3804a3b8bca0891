package config

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"term backend", func(c *Config) { c.VideoBackend = "term" }, false},
		{"unknown video backend", func(c *Config) { c.VideoBackend = "drm" }, true},
		{"unknown vt backend", func(c *Config) { c.VTBackend = "kernel" }, true},
		{"static vt", func(c *Config) { c.VTBackend = "static" }, false},
		{"displays with sim", func(c *Config) {
			c.Displays = []ModeSpec{{1280, 720}}
		}, false},
		{"displays with term", func(c *Config) {
			c.VideoBackend = "term"
			c.Displays = []ModeSpec{{1280, 720}}
		}, true},
		{"input file", func(c *Config) { c.InputPath = "/var/log/messages" }, false},
		{"input and remote", func(c *Config) {
			c.InputPath = "/var/log/messages"
			c.RemoteEnabled = true
			c.RemoteHost = "loghost"
			c.RemoteCommand = "journalctl -f"
		}, true},
		{"remote complete", func(c *Config) {
			c.RemoteEnabled = true
			c.RemoteHost = "loghost"
			c.RemoteCommand = "journalctl -f"
		}, false},
		{"remote without host", func(c *Config) {
			c.RemoteEnabled = true
			c.RemoteCommand = "journalctl -f"
		}, true},
		{"remote without command", func(c *Config) {
			c.RemoteEnabled = true
			c.RemoteHost = "loghost"
		}, true},
		{"reconnect without remote", func(c *Config) { c.AutoReconnect = true }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
