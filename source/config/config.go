// Package config holds the fixed building parameters and the tunable parts of
// the simulation: timing, log level and the batch of trips run at start-up.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Timing is the simulated duration of motion and boarding. Zero values make
// the corresponding step instantaneous.
type Timing struct {
	StandardPerFloor  time.Duration `yaml:"standardPerFloor"`
	HighSpeedPerFloor time.Duration `yaml:"highSpeedPerFloor"`
	FreightPerFloor   time.Duration `yaml:"freightPerFloor"`
	PerPassenger      time.Duration `yaml:"perPassenger"`
}

type Trip struct {
	From       int `yaml:"from"`
	To         int `yaml:"to"`
	Passengers int `yaml:"passengers"`
}

type Batch struct {
	Concurrent bool   `yaml:"concurrent"`
	Trips      []Trip `yaml:"trips"`
}

type Config struct {
	Timing   Timing `yaml:"timing"`
	LogLevel string `yaml:"logLevel"`
	Batch    Batch  `yaml:"batch"`
}

func Default() Config {
	return Config{
		Timing: Timing{
			StandardPerFloor:  STANDARD_PER_FLOOR,
			HighSpeedPerFloor: HIGH_SPEED_PER_FLOOR,
			FreightPerFloor:   FREIGHT_PER_FLOOR,
			PerPassenger:      PER_PASSENGER,
		},
		LogLevel: "info",
	}
}

// Instant is the default configuration with every delay removed.
func Instant() Config {
	c := Default()
	c.Timing = Timing{}
	return c
}

// Load reads a YAML file on top of Default. Fields missing from the file keep
// their default value.
func Load(path string) (Config, error) {
	c := Default()
	file, err := os.Open(path)
	if err != nil {
		return c, fmt.Errorf("open config %q: %w", path, err)
	}
	defer file.Close()

	err = yaml.NewDecoder(file).Decode(&c)
	if err != nil {
		return c, fmt.Errorf("decode config %q: %w", path, err)
	}
	return c, c.Validate()
}

// ApplyEnv overrides fields from a .env file. A missing file is not an error.
func (c *Config) ApplyEnv(path string) error {
	env, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read env file %q: %w", path, err)
	}
	return c.applyEnvMap(env)
}

func (c *Config) applyEnvMap(env map[string]string) error {
	if level, ok := env["ELEVSIM_LOG_LEVEL"]; ok {
		c.LogLevel = level
	}
	if raw, ok := env["ELEVSIM_TIME_SCALE"]; ok {
		scale, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || scale < 0 {
			return fmt.Errorf("ELEVSIM_TIME_SCALE must be a non-negative number, got %q", raw)
		}
		c.Timing = c.Timing.Scaled(scale)
	}
	if raw, ok := env["ELEVSIM_CONCURRENT"]; ok {
		concurrent, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("ELEVSIM_CONCURRENT must be a boolean, got %q", raw)
		}
		c.Batch.Concurrent = concurrent
	}
	return c.Validate()
}

func (t Timing) Scaled(factor float64) Timing {
	scale := func(d time.Duration) time.Duration {
		return time.Duration(float64(d) * factor)
	}
	return Timing{
		StandardPerFloor:  scale(t.StandardPerFloor),
		HighSpeedPerFloor: scale(t.HighSpeedPerFloor),
		FreightPerFloor:   scale(t.FreightPerFloor),
		PerPassenger:      scale(t.PerPassenger),
	}
}

func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return level
}

func (c Config) Validate() error {
	t := c.Timing
	if t.StandardPerFloor < 0 || t.HighSpeedPerFloor < 0 || t.FreightPerFloor < 0 || t.PerPassenger < 0 {
		return fmt.Errorf("timing values must not be negative: %+v", t)
	}
	for i, trip := range c.Batch.Trips {
		if trip.From < MIN_FLOOR || trip.From > NUM_FLOORS || trip.To < MIN_FLOOR || trip.To > NUM_FLOORS {
			return fmt.Errorf("trip %d: floors must be between %d and %d", i+1, MIN_FLOOR, NUM_FLOORS)
		}
		if trip.From == trip.To {
			return fmt.Errorf("trip %d: from and to floor must differ", i+1)
		}
		if trip.Passengers <= 0 {
			return fmt.Errorf("trip %d: passenger count must be positive", i+1)
		}
	}
	return nil
}
