// Package config provides the configuration system for simcity. It loads a
// YAML document with environment-variable overrides and optional .env
// supplementation, resolves the set of active broker profiles, merges
// common settings with per-profile overrides, and produces a validated,
// immutable AppConfig.
//
// Supported document shape (all keys optional):
//
//	mqtt:
//	  profile: local                # or a list of names
//	  active_profiles: [local, hq]  # highest file-level priority
//	  profiles:
//	    local: {host: localhost, port: 1883, tls: false}
//	simulation:
//	  movement: {tick_s: 1.0, total_ticks: 20}
//	  map: {min_x: 0, max_x: 100, min_y: 0, max_y: 100}
//
// The active profile set can be overridden with the SIMCITY_MQTT_PROFILES
// environment variable (comma-separated profile names), which takes
// precedence over every file-level selection.
package config

import (
	"fmt"
	"time"
)

// Environment variable that overrides file-level profile selection with a
// comma-separated list of profile names.
const EnvActiveProfiles = "SIMCITY_MQTT_PROFILES"

// Broker field defaults.
const (
	DefaultHost           = "localhost"
	DefaultPort           = 1883
	DefaultClientIDPrefix = "simcity"
	DefaultKeepAlive      = 60 * time.Second
	DefaultBaseTopic      = "simulated-city"
)

// BrokerConfig is the immutable configuration of one MQTT broker profile.
// Credentials are resolved indirectly: the document names environment
// variables (username_env / password_env) and the actual values are read
// from the process environment at load time.
type BrokerConfig struct {
	Host           string
	Port           int
	TLS            bool
	Username       string
	Password       string
	ClientIDPrefix string
	KeepAlive      time.Duration
	BaseTopic      string
}

// Address returns the broker address as host:port.
func (c BrokerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// String renders the config for logs with the password redacted.
func (c BrokerConfig) String() string {
	password := ""
	if c.Password != "" {
		password = "[redacted]"
	}
	return fmt.Sprintf(
		"BrokerConfig{host: %s, port: %d, tls: %t, username: %s, password: %s, client_id_prefix: %s, keepalive: %s, base_topic: %s}",
		c.Host, c.Port, c.TLS, c.Username, password, c.ClientIDPrefix, c.KeepAlive, c.BaseTopic,
	)
}

// AppConfig is the result of a successful Load. Broker is the primary
// broker (first active profile); Brokers holds every active profile keyed
// by name, with Profiles preserving activation order.
type AppConfig struct {
	Broker     BrokerConfig
	Brokers    map[string]BrokerConfig
	Profiles   []string
	Simulation *SimulationConfig
}

// BrokerFor returns the broker config for a profile name.
func (c *AppConfig) BrokerFor(name string) (BrokerConfig, bool) {
	broker, ok := c.Brokers[name]
	return broker, ok
}

// LocationConfig is a named geographic location used by the simulation.
type LocationConfig struct {
	ID  string
	Lat float64
	Lon float64
}

// MovementConfig holds movement settings for the people simulation.
type MovementConfig struct {
	Tick          time.Duration
	TotalTicks    int
	StepDistanceM float64
	MaxTurnDeg    float64
	BoundaryMode  string
}

// MapConfig is the rectangular 2D simulation bounds used for local
// random-walk movement. Bounds are normalized at parse time so that
// min <= max on each axis.
type MapConfig struct {
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64
}

// SimulationConfig holds the optional simulation tunables. The section is
// optional; the template can be used without any simulation.
type SimulationConfig struct {
	TimestepMinutes   int
	ArrivalProb       float64
	BagFillDeltaPct   int
	StatusBoundaryPct int
	// If true, emit a status event on every successful deposit. If false,
	// emit only when crossing each N% boundary.
	PublishEveryDeposit bool
	StepDelay           time.Duration
	// Optional fixed simulation start timestamp (UTC) for deterministic
	// logs. If nil, the simulator uses the current wall-clock time.
	StartTime   *time.Time
	Seed        *int64
	PeopleCount int
	Names       []string
	Colors      []string
	Locations   []LocationConfig
	Movement    MovementConfig
	Map         MapConfig
}

// DefaultNames are the display names used when the document provides none.
var DefaultNames = []string{
	"Alex", "Sam", "Jordan", "Taylor", "Casey",
	"Riley", "Morgan", "Avery", "Parker", "Quinn",
}

// DefaultColors are the display colors used when the document provides none.
var DefaultColors = []string{
	"red", "blue", "green", "orange", "purple",
	"teal", "pink", "brown", "gray", "black",
}

// defaultSimulationConfig returns a SimulationConfig with all defaults set.
func defaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		TimestepMinutes:     15,
		ArrivalProb:         0.25,
		BagFillDeltaPct:     2,
		StatusBoundaryPct:   10,
		PublishEveryDeposit: false,
		StepDelay:           0,
		PeopleCount:         5,
		Names:               DefaultNames,
		Colors:              DefaultColors,
		Movement: MovementConfig{
			Tick:          time.Second,
			TotalTicks:    20,
			StepDistanceM: 1.2,
			MaxTurnDeg:    45.0,
			BoundaryMode:  "bounce",
		},
		Map: MapConfig{MinX: 0, MaxX: 100, MinY: 0, MaxY: 100},
	}
}
