package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/simulated-city/simcity/pkg/cityerrors"
)

// Load reads and resolves the configuration at path (default "config.yaml"
// by convention). A missing file is not an error: the loader falls back to
// built-in defaults so the template works with zero configuration present.
// Malformed documents, unknown profile names, and constraint violations
// fail fast with a typed error; no partial AppConfig is ever returned.
//
// A local .env file, if present, supplements the process environment first
// (it never overrides already-set variables).
func Load(path string) (*AppConfig, error) {
	// .env is gitignored by default; loading it here keeps workshop
	// credential setup to a single file instead of export statements.
	_ = godotenv.Load()

	resolved := resolveConfigPath(path)
	doc, err := loadYAMLMap(resolved)
	if err != nil {
		return nil, err
	}

	active, err := activeProfiles(doc)
	if err != nil {
		return nil, err
	}

	settings, err := profileSettings(doc, active)
	if err != nil {
		return nil, err
	}

	brokers := make(map[string]BrokerConfig, len(settings))
	order := make([]string, 0, len(settings))
	var primary *BrokerConfig

	for _, ps := range settings {
		broker, err := brokerFromSettings(ps.settings)
		if err != nil {
			return nil, err
		}
		brokers[ps.name] = broker
		order = append(order, ps.name)
		if primary == nil {
			b := broker
			primary = &b
		}
	}

	if primary == nil {
		return nil, cityerrors.New(cityerrors.ErrorTypeValidation, "no active mqtt profiles found in config")
	}

	simulation, err := parseSimulation(doc["simulation"])
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		Broker:     *primary,
		Brokers:    brokers,
		Profiles:   order,
		Simulation: simulation,
	}, nil
}

// resolveConfigPath resolves a config path in a notebook-friendly way.
// Absolute paths and already-existing relative paths are used as-is. A bare
// filename (no directory component) that does not exist in the working
// directory is searched for upward through every ancestor of the working
// directory, then upward from the directory containing the running binary.
// If still not found the original path is returned unchanged so the load
// step reports "missing" cleanly.
func resolveConfigPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	if filepath.Dir(path) != "." {
		return path
	}

	name := filepath.Base(path)
	if cwd, err := os.Getwd(); err == nil {
		if found, ok := searchUpwards(cwd, name); ok {
			return found
		}
	}
	if exe, err := os.Executable(); err == nil {
		if found, ok := searchUpwards(filepath.Dir(exe), name); ok {
			return found
		}
	}
	return path
}

func searchUpwards(start, name string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// loadYAMLMap reads the document at path as a top-level mapping. A missing
// or empty file yields an empty mapping; a non-mapping top level is an
// error.
func loadYAMLMap(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is controlled by the caller
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]interface{}{}, nil
		}
		return nil, cityerrors.Wrap(err, cityerrors.ErrorTypeConfig, "failed to read config file").
			WithDetail("path", path)
	}

	var loaded interface{}
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, cityerrors.Wrap(err, cityerrors.ErrorTypeConfig, "failed to parse config file").
			WithDetail("path", path)
	}
	if loaded == nil {
		return map[string]interface{}{}, nil
	}

	doc, ok := loaded.(map[string]interface{})
	if !ok {
		return nil, cityerrors.Newf(cityerrors.ErrorTypeConfig,
			"config file %s must contain a YAML mapping at top level", path)
	}
	return doc, nil
}

// Scalar coercion helpers. YAML decodes into interface{} values; these
// mirror the tolerant "default when absent or empty" semantics of the
// document format while rejecting values of the wrong kind.

func toStringDefault(v interface{}, def string) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return def
	}
	return s
}

func toInt(v interface{}, key string) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, cityerrors.Newf(cityerrors.ErrorTypeConfig, "%s must be an integer", key)
		}
		return parsed, nil
	default:
		return 0, cityerrors.Newf(cityerrors.ErrorTypeConfig, "%s must be an integer", key)
	}
}

func toIntDefault(v interface{}, def int, key string) (int, error) {
	if v == nil {
		return def, nil
	}
	n, err := toInt(v, key)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return def, nil
	}
	return n, nil
}

// toIntKeepZero is toIntDefault without the zero-is-absent rule: an
// explicit 0 in the document is returned as 0 so the caller's positivity
// check can reject it.
func toIntKeepZero(v interface{}, def int, key string) (int, error) {
	if v == nil {
		return def, nil
	}
	return toInt(v, key)
}

func toFloat(v interface{}, key string) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, cityerrors.Newf(cityerrors.ErrorTypeConfig, "%s must be a number", key)
		}
		return parsed, nil
	default:
		return 0, cityerrors.Newf(cityerrors.ErrorTypeConfig, "%s must be a number", key)
	}
}

func toFloatDefault(v interface{}, def float64, key string) (float64, error) {
	if v == nil {
		return def, nil
	}
	return toFloat(v, key)
}

func toBool(v interface{}) bool {
	b, ok := v.(bool)
	return ok && b
}
