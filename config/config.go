// Package config provides configuration loading and access for the fishery simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/seine/action"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig            `yaml:"screen"`
	Simulation SimulationConfig        `yaml:"simulation"`
	Ocean      OceanConfig             `yaml:"ocean"`
	Fleet      FleetConfig             `yaml:"fleet"`
	Species    []string                `yaml:"species"`
	Detection  DetectionConfig         `yaml:"detection"`
	Actions    map[string]ActionConfig `yaml:"actions"`
	Schools    SchoolConfig            `yaml:"schools"`
	Strategy   StrategyConfig          `yaml:"strategy"`
	Fads       FadConfig               `yaml:"fads"`
	Regulation RegulationConfig        `yaml:"regulation"`
	Tables     TablesConfig            `yaml:"tables"`
	Telemetry  TelemetryConfig         `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds viewer window settings.
type ScreenConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	TargetFPS     int     `yaml:"target_fps"`
	DaysPerSecond float64 `yaml:"days_per_second"`
}

// SimulationConfig holds run-level parameters.
type SimulationConfig struct {
	Seed        int64   `yaml:"seed"`          // 0 = time-based (CLI only)
	Year        int     `yaml:"year"`          // Selects the yearly slice of every table
	Days        int     `yaml:"days"`          // Run length for headless mode (0 = unlimited)
	HoursPerDay float64 `yaml:"hours_per_day"` // Time budget each vessel has per day
}

// OceanConfig holds grid and environmental field parameters.
type OceanConfig struct {
	Width         int     `yaml:"width"`          // Grid cells
	Height        int     `yaml:"height"`         // Grid cells
	LandThreshold float64 `yaml:"land_threshold"` // Noise above this is land (1 = no land)
	NoiseScale    float64 `yaml:"noise_scale"`
	Octaves       int     `yaml:"octaves"`
	Persistence   float64 `yaml:"persistence"`

	CurrentMaxSpeed  float64 `yaml:"current_max_speed"`  // m/s at noise extremes
	CurrentTimeScale float64 `yaml:"current_time_scale"` // Noise units per day

	// AttractionScale multiplies each kind's [0,1] attraction field (keyed by action code).
	AttractionScale map[string]float64 `yaml:"attraction_scale"`
}

// FleetConfig holds vessel population parameters.
type FleetConfig struct {
	Classes          []VesselClassConfig `yaml:"classes"`
	PortX            int                 `yaml:"port_x"`
	PortY            int                 `yaml:"port_y"`
	RelocationRadius int                 `yaml:"relocation_radius"` // Cells a vessel may move between days
}

// VesselClassConfig defines a group of identical vessels.
type VesselClassConfig struct {
	Name         string  `yaml:"name"`
	Count        int     `yaml:"count"`
	HoldCapacity float64 `yaml:"hold_capacity"` // Tonnes
	FadsCarried  int     `yaml:"fads_carried"`  // FADs loaded at the start of each trip
}

// DetectionConfig holds opportunity detection parameters.
type DetectionConfig struct {
	SearchBonus   float64            `yaml:"search_bonus"`
	Probabilities map[string]float64 `yaml:"probabilities"` // School kinds only
}

// ActionConfig holds per-kind duration, valuation transform and decay.
type ActionConfig struct {
	Duration  DistributionConfig `yaml:"duration"`
	Transform TransformConfig    `yaml:"transform"`
	Decay     float64            `yaml:"decay"`
}

// DistributionConfig describes a scalar distribution. Kind is one of
// constant, uniform, normal, lognormal.
type DistributionConfig struct {
	Kind   string  `yaml:"kind"`
	Value  float64 `yaml:"value,omitempty"`
	Min    float64 `yaml:"min,omitempty"`
	Max    float64 `yaml:"max,omitempty"`
	Mean   float64 `yaml:"mean,omitempty"`
	StdDev float64 `yaml:"std_dev,omitempty"`
	Mu     float64 `yaml:"mu,omitempty"`
	Sigma  float64 `yaml:"sigma,omitempty"`
}

// TransformConfig describes a monotonic value transform. Kind is one of
// identity, linear, logistic, saturating.
type TransformConfig struct {
	Kind           string  `yaml:"kind"`
	Slope          float64 `yaml:"slope,omitempty"`
	Intercept      float64 `yaml:"intercept,omitempty"`
	Max            float64 `yaml:"max,omitempty"`
	Steepness      float64 `yaml:"steepness,omitempty"`
	Midpoint       float64 `yaml:"midpoint,omitempty"`
	HalfSaturation float64 `yaml:"half_saturation,omitempty"`
}

// SchoolConfig holds free-school and dolphin-school opportunity parameters.
type SchoolConfig struct {
	CacheWindow  int                        `yaml:"cache_window"`  // Days a spotted school stays present
	CanPoach     bool                       `yaml:"can_poach"`     // School sets also take nearby FAD stock
	SearchRadius int                        `yaml:"search_radius"` // Cells searched for FADs when poaching
	Generators   map[string]TransformConfig `yaml:"generators"`    // Attraction -> school probability
}

// StrategyConfig holds decision loop parameters.
type StrategyConfig struct {
	MovingThreshold float64  `yaml:"moving_threshold"`
	SetKinds        []string `yaml:"set_kinds"` // Set kinds this fleet pursues
	Deploy          bool     `yaml:"deploy"`
}

// FadConfig holds floating object dynamics.
type FadConfig struct {
	LifetimeDays     int     `yaml:"lifetime_days"`
	RemovalDelayDays int     `yaml:"removal_delay_days"` // Inactive FADs linger this long before removal
	CarryingCapacity float64 `yaml:"carrying_capacity"`  // Tonnes
	AttractionRate   float64 `yaml:"attraction_rate"`    // Logistic growth rate per day
	DriftSpeed       float64 `yaml:"drift_speed"`        // Current speed (m/s) needed to move one cell per day
}

// RegulationConfig holds the reference regulation rules.
type RegulationConfig struct {
	Closures        []ClosureConfig `yaml:"closures"`
	ClosedAreas     []AreaConfig    `yaml:"closed_areas"`
	DolphinSetLimit int             `yaml:"dolphin_set_limit"` // Per vessel per year (0 = unlimited)
	ActiveFadLimit  int             `yaml:"active_fad_limit"`  // Per vessel (0 = unlimited)
}

// ClosureConfig is an inclusive day-of-year range during which no sets or deployments are allowed.
type ClosureConfig struct {
	StartDay int `yaml:"start_day"`
	EndDay   int `yaml:"end_day"`
}

// AreaConfig is an inclusive cell rectangle.
type AreaConfig struct {
	MinX int `yaml:"min_x"`
	MinY int `yaml:"min_y"`
	MaxX int `yaml:"max_x"`
	MaxY int `yaml:"max_y"`
}

// TablesConfig holds paths to calibration CSVs. Empty paths use the embedded defaults.
type TablesConfig struct {
	Weights          string `yaml:"weights"`
	MaxCurrentSpeeds string `yaml:"max_current_speeds"`
	Compositions     string `yaml:"compositions"`
	SchoolSizes      string `yaml:"school_sizes"`
	Prices           string `yaml:"prices"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindowDays int `yaml:"stats_window_days"`
}

// DerivedConfig holds values parsed out of the string-keyed sections.
type DerivedConfig struct {
	Actions       map[action.Kind]ActionConfig
	Probabilities map[action.Kind]float64
	Generators    map[action.Kind]TransformConfig
	Attraction    map[action.Kind]float64
	SetKinds      []action.Kind
	VesselCount   int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse builds a configuration from YAML bytes layered over the embedded defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived parses the code-keyed sections into Kind-keyed maps.
func (c *Config) computeDerived() error {
	d := DerivedConfig{
		Actions:       make(map[action.Kind]ActionConfig, len(c.Actions)),
		Probabilities: make(map[action.Kind]float64, len(c.Detection.Probabilities)),
		Generators:    make(map[action.Kind]TransformConfig, len(c.Schools.Generators)),
		Attraction:    make(map[action.Kind]float64, len(c.Ocean.AttractionScale)),
	}

	for code, ac := range c.Actions {
		k, err := action.ParseKind(code)
		if err != nil {
			return fmt.Errorf("actions: %w", err)
		}
		d.Actions[k] = ac
	}
	for code, p := range c.Detection.Probabilities {
		k, err := action.ParseKind(code)
		if err != nil {
			return fmt.Errorf("detection.probabilities: %w", err)
		}
		d.Probabilities[k] = p
	}
	for code, g := range c.Schools.Generators {
		k, err := action.ParseKind(code)
		if err != nil {
			return fmt.Errorf("schools.generators: %w", err)
		}
		d.Generators[k] = g
	}
	for code, s := range c.Ocean.AttractionScale {
		k, err := action.ParseKind(code)
		if err != nil {
			return fmt.Errorf("ocean.attraction_scale: %w", err)
		}
		d.Attraction[k] = s
	}
	for _, code := range c.Strategy.SetKinds {
		k, err := action.ParseKind(code)
		if err != nil {
			return fmt.Errorf("strategy.set_kinds: %w", err)
		}
		d.SetKinds = append(d.SetKinds, k)
	}
	for _, vc := range c.Fleet.Classes {
		d.VesselCount += vc.Count
	}

	c.Derived = d
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
