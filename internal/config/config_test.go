package config

import "testing"

const sample = `
[server]
host = 0.0.0.0
port = 3689
name = Living Room
id = 1234567890ABCDEF

[db]
path = /var/lib/euphony/euphony.db

[mpd]
host = 127.0.0.1
port = 6600

[logging]
filename = /var/log/euphony.log
level = debug
`

func TestLoadBytes(t *testing.T) {
	cfg, err := LoadBytes([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Name != "Living Room" {
		t.Errorf("server name: got %q", cfg.Server.Name)
	}
	if cfg.Server.Port != 3689 {
		t.Errorf("server port: got %d", cfg.Server.Port)
	}
	if cfg.MPD.Host != "127.0.0.1" || cfg.MPD.Port != 6600 {
		t.Errorf("mpd config: got %+v", cfg.MPD)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level: got %q", cfg.Logging.Level)
	}
}

func TestLoadBytesRequiresServerID(t *testing.T) {
	_, err := LoadBytes([]byte("[server]\nhost = 0.0.0.0\n"))
	if err == nil {
		t.Fatal("expected an error when [server] id is missing")
	}
}

func TestLoadBytesAppliesDefaults(t *testing.T) {
	cfg, err := LoadBytes([]byte("[server]\nid = ABCDEF1234567890\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 3689 {
		t.Errorf("expected default port 3689, got %d", cfg.Server.Port)
	}
	if cfg.DB.Path != "euphony.db" {
		t.Errorf("expected default db path, got %q", cfg.DB.Path)
	}
	if cfg.MPD.Port != 6600 {
		t.Errorf("expected default mpd port, got %d", cfg.MPD.Port)
	}
}
