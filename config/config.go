package config

import (
	"os"
	"strconv"
	"time"

	"github.com/jsphweid/chordloop/constants"
	"github.com/jsphweid/chordloop/metronome"
	"github.com/jsphweid/chordloop/tempo"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	BPM             float64 `yaml:"bpm"`
	TimeSignature   string  `yaml:"time_signature"`
	Looping         bool    `yaml:"looping"`
	DebounceMs      int     `yaml:"debounce_ms"`
	ProgressionPath string  `yaml:"progression_path"`
	ServeAddr       string  `yaml:"serve_addr"`
	LogLevel        string  `yaml:"log_level"`

	MIDI struct {
		In      string `yaml:"in"`
		Out     string `yaml:"out"`
		Channel uint8  `yaml:"channel"`
	} `yaml:"midi"`

	Metronome struct {
		Enabled bool  `yaml:"enabled"`
		Strong  uint8 `yaml:"strong"`
		Weak    uint8 `yaml:"weak"`
	} `yaml:"metronome"`

	Dynamo struct {
		Endpoint string `yaml:"endpoint"`
		Region   string `yaml:"region"`
		Table    string `yaml:"table"`
	} `yaml:"dynamo"`
}

func Default() Config {
	var cfg Config
	cfg.BPM = tempo.DefaultBPM
	cfg.TimeSignature = "4/4"
	cfg.DebounceMs = int(constants.DebounceWindow / time.Millisecond)
	cfg.ProgressionPath = constants.GetProgressionPath()
	cfg.ServeAddr = constants.DefaultServeAddr
	cfg.LogLevel = "info"
	cfg.Metronome.Enabled = true
	cfg.Metronome.Strong = metronome.DefaultStrong
	cfg.Metronome.Weak = metronome.DefaultWeak
	cfg.Dynamo.Endpoint = "http://localhost:8000"
	cfg.Dynamo.Region = "localhost"
	cfg.Dynamo.Table = constants.DynamoTable
	return cfg
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logrus.WithField("path", path).Debug("no config file, using defaults")
	case err != nil:
		return cfg, errors.Wrapf(err, "could not read config %v", path)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "config file %v is malformed", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PROGRESSION_PATH"); v != "" {
		c.ProgressionPath = v
	}
	if v := os.Getenv("MIDI_IN"); v != "" {
		c.MIDI.In = v
	}
	if v := os.Getenv("MIDI_OUT"); v != "" {
		c.MIDI.Out = v
	}
	if v := os.Getenv("DYNAMO_ENDPOINT"); v != "" {
		c.Dynamo.Endpoint = v
	}
	if v := os.Getenv("BPM"); v != "" {
		bpm, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "BPM=%q is not a number", v)
		}
		c.BPM = bpm
	}
	return nil
}

func (c Config) DebounceWindow() time.Duration {
	if c.DebounceMs <= 0 {
		return constants.DebounceWindow
	}
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// Level parses LogLevel, falling back to info.
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
