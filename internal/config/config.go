package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/forcing"
	"github.com/san-kum/enginesim/internal/physics"
	"github.com/san-kum/enginesim/internal/sim"
)

const (
	DefaultTStart    = 0.0
	DefaultTEnd      = 10.0
	DefaultStep      = 0.01
	DefaultPrecision = 6
	DefaultOutput    = "simulation_results.csv"
	DefaultLogLevel  = "info"

	MaxPrecision = 15

	// EnvPrefix scopes environment overrides, e.g. ENGINESIM_ENGINE_K3.
	EnvPrefix = "ENGINESIM"
)

type Config struct {
	Engine    EngineConfig  `yaml:"engine" mapstructure:"engine"`
	Forcing   ForcingConfig `yaml:"forcing" mapstructure:"forcing"`
	Time      TimeConfig    `yaml:"time" mapstructure:"time"`
	InitState []float64     `yaml:"init_state" mapstructure:"init_state"`
	Output    OutputConfig  `yaml:"output" mapstructure:"output"`
	LogLevel  string        `yaml:"log_level" mapstructure:"log_level"`
}

type EngineConfig struct {
	T  float64 `yaml:"t" mapstructure:"t"`
	R  float64 `yaml:"r" mapstructure:"r"`
	K1 float64 `yaml:"k1" mapstructure:"k1"`
	K2 float64 `yaml:"k2" mapstructure:"k2"`
	K3 float64 `yaml:"k3" mapstructure:"k3"`
}

type ForcingConfig struct {
	Profile   string  `yaml:"profile" mapstructure:"profile"`
	Amplitude float64 `yaml:"amplitude" mapstructure:"amplitude"`
	Alpha     float64 `yaml:"alpha" mapstructure:"alpha"`
	Omega     float64 `yaml:"omega" mapstructure:"omega"`
}

type TimeConfig struct {
	Start float64 `yaml:"start" mapstructure:"start"`
	End   float64 `yaml:"end" mapstructure:"end"`
	Step  float64 `yaml:"step" mapstructure:"step"`
}

type OutputConfig struct {
	Path      string `yaml:"path" mapstructure:"path"`
	Precision int    `yaml:"precision" mapstructure:"precision"`
}

func DefaultConfig() *Config {
	p := physics.DefaultParams()
	return &Config{
		Engine: EngineConfig{T: p.T, R: p.R, K1: p.K1, K2: p.K2, K3: p.K3},
		Forcing: ForcingConfig{
			Profile:   forcing.NameExponentialDecay,
			Amplitude: forcing.DefaultDecayAmplitude,
			Alpha:     forcing.DefaultDecayAlpha,
			Omega:     forcing.DefaultOscOmega,
		},
		Time:      TimeConfig{Start: DefaultTStart, End: DefaultTEnd, Step: DefaultStep},
		InitState: []float64{0, 0, 0, 0},
		Output:    OutputConfig{Path: DefaultOutput, Precision: DefaultPrecision},
		LogLevel:  DefaultLogLevel,
	}
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("engine.t", c.Engine.T)
	v.SetDefault("engine.r", c.Engine.R)
	v.SetDefault("engine.k1", c.Engine.K1)
	v.SetDefault("engine.k2", c.Engine.K2)
	v.SetDefault("engine.k3", c.Engine.K3)
	v.SetDefault("forcing.profile", c.Forcing.Profile)
	v.SetDefault("forcing.amplitude", c.Forcing.Amplitude)
	v.SetDefault("forcing.alpha", c.Forcing.Alpha)
	v.SetDefault("forcing.omega", c.Forcing.Omega)
	v.SetDefault("time.start", c.Time.Start)
	v.SetDefault("time.end", c.Time.End)
	v.SetDefault("time.step", c.Time.Step)
	v.SetDefault("init_state", c.InitState)
	v.SetDefault("output.path", c.Output.Path)
	v.SetDefault("output.precision", c.Output.Precision)
	v.SetDefault("log_level", c.LogLevel)
}

// Load reads a YAML config on top of the defaults. Keys missing from the file
// keep their default, and ENGINESIM_* environment variables override both.
// An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configs the driver cannot run. T = 0 is accepted: it
// surfaces as dynamo.ErrSingularSystem at the first derivative evaluation.
func (c *Config) Validate() error {
	if err := c.SimConfig().Validate(); err != nil {
		return err
	}
	for name, v := range c.Engine.asMap() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: engine.%s must be finite", dynamo.ErrInvalidConfig, name)
		}
	}
	if _, err := forcing.New(c.ForcingSpec()); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, err)
	}
	if n := len(c.InitState); n != 0 && n != dynamo.Order {
		return fmt.Errorf("%w: init_state needs %d values, got %d", dynamo.ErrInvalidConfig, dynamo.Order, n)
	}
	if c.Output.Precision < 0 || c.Output.Precision > MaxPrecision {
		return fmt.Errorf("%w: output.precision must be in 0..%d, got %d", dynamo.ErrInvalidConfig, MaxPrecision, c.Output.Precision)
	}
	return nil
}

func (e EngineConfig) asMap() map[string]float64 {
	return map[string]float64{"t": e.T, "r": e.R, "k1": e.K1, "k2": e.K2, "k3": e.K3}
}

func (c *Config) Params() physics.Params {
	return physics.Params{T: c.Engine.T, R: c.Engine.R, K1: c.Engine.K1, K2: c.Engine.K2, K3: c.Engine.K3}
}

func (c *Config) ForcingSpec() forcing.Spec {
	return forcing.Spec{
		Profile:   c.Forcing.Profile,
		Amplitude: c.Forcing.Amplitude,
		Alpha:     c.Forcing.Alpha,
		Omega:     c.Forcing.Omega,
	}
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{TStart: c.Time.Start, TEnd: c.Time.End, Step: c.Time.Step}
}

// InitialState returns the configured x0; an empty list means rest.
func (c *Config) InitialState() dynamo.State {
	var x0 dynamo.State
	copy(x0[:], c.InitState)
	return x0
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.InitState = append([]float64(nil), c.InitState...)
	return &out
}
