// Package config loads euphonyd's INI configuration file, with one
// section per subsystem: [server], [db], [mpd], [logging].
package config

import (
	"fmt"

	"github.com/go-ini/ini"
)

// ServerConfig is the [server] section: the HTTP/DACP listen address and
// the identity this instance advertises over mDNS.
type ServerConfig struct {
	Host string
	Port int
	Name string
	ID   string // advertised as DbId; also seeds the pairing service name
}

// DBConfig is the [db] section: the bbolt file backing pairing + artwork.
type DBConfig struct {
	Path string
}

// MPDConfig is the [mpd] section: the backing MPD server to adapt.
type MPDConfig struct {
	Host     string
	Port     int
	Password string
}

// LoggingConfig is the [logging] section.
type LoggingConfig struct {
	Filename string // empty means log to stderr
	Level    string
}

// Config is the fully parsed configuration file.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	MPD     MPDConfig
	Logging LoggingConfig
}

// Load parses the INI file at path.
func Load(path string) (*Config, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: loading %s: %w", path, err)
	}
	return fromFile(f)
}

// LoadBytes parses raw INI content, used by tests and by any future
// in-memory default configuration.
func LoadBytes(raw []byte) (*Config, error) {
	f, err := ini.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("config: parsing: %w", err)
	}
	return fromFile(f)
}

func fromFile(f *ini.File) (*Config, error) {
	cfg := &Config{}

	server := f.Section("server")
	cfg.Server.Host = server.Key("host").MustString("0.0.0.0")
	cfg.Server.Port = server.Key("port").MustInt(3689)
	cfg.Server.Name = server.Key("name").MustString("Euphony")
	cfg.Server.ID = server.Key("id").String()
	if cfg.Server.ID == "" {
		return nil, fmt.Errorf("config: [server] id is required")
	}

	db := f.Section("db")
	cfg.DB.Path = db.Key("path").MustString("euphony.db")

	mpd := f.Section("mpd")
	cfg.MPD.Host = mpd.Key("host").MustString("localhost")
	cfg.MPD.Port = mpd.Key("port").MustInt(6600)
	cfg.MPD.Password = mpd.Key("password").String()

	logging := f.Section("logging")
	cfg.Logging.Filename = logging.Key("filename").String()
	cfg.Logging.Level = logging.Key("level").MustString("info")

	return cfg, nil
}
