package config

import (
	"os"
	"sort"
	"strings"
	"time"

	"github.com/simulated-city/simcity/pkg/cityerrors"
)

// Keys under mqtt: that manage profile selection rather than carrying
// broker settings. Everything else at the mqtt: level is treated as a
// common default shared by all profiles.
var profileManagementKeys = map[string]struct{}{
	"profiles":        {},
	"profile":         {},
	"active_profiles": {},
	"active_profile":  {},
	"default_profile": {},
}

type namedSettings struct {
	name     string
	settings map[string]interface{}
}

// mqttSection returns the mqtt: mapping from the document, or an empty
// mapping when absent.
func mqttSection(doc map[string]interface{}) (map[string]interface{}, error) {
	raw, ok := doc["mqtt"]
	if !ok || raw == nil {
		return map[string]interface{}{}, nil
	}
	section, ok := raw.(map[string]interface{})
	if !ok {
		return nil, cityerrors.New(cityerrors.ErrorTypeConfig, "config key 'mqtt' must be a mapping")
	}
	return section, nil
}

// activeProfiles resolves the ordered list of active profile names. Exactly
// one source is consulted, in priority order: the SIMCITY_MQTT_PROFILES
// environment variable (comma-separated), the active_profiles list, the
// profile key (a single name or a list), and finally the literal "local".
func activeProfiles(doc map[string]interface{}) ([]string, error) {
	section, err := mqttSection(doc)
	if err != nil {
		return nil, err
	}

	if env := os.Getenv(EnvActiveProfiles); env != "" {
		var names []string
		for _, part := range strings.Split(env, ",") {
			if name := strings.TrimSpace(part); name != "" {
				names = append(names, name)
			}
		}
		return names, nil
	}

	if active, ok := section["active_profiles"]; ok && active != nil {
		list, ok := active.([]interface{})
		if !ok {
			return nil, cityerrors.New(cityerrors.ErrorTypeConfig, "config key 'mqtt.active_profiles' must be a list")
		}
		return profileNameList(list), nil
	}

	profile := section["profile"]
	if profile == nil {
		profile = section["default_profile"]
	}
	if profile != nil {
		if list, ok := profile.([]interface{}); ok {
			return profileNameList(list), nil
		}
		if name, ok := profile.(string); ok && name != "" {
			return []string{name}, nil
		}
		return nil, cityerrors.New(cityerrors.ErrorTypeConfig, "config key 'mqtt.profile' must be a name or a list of names")
	}

	return []string{"local"}, nil
}

func profileNameList(list []interface{}) []string {
	names := make([]string, 0, len(list))
	for _, item := range list {
		if name, ok := item.(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return names
}

// profileSettings materializes the merged settings mapping for each active
// profile, in activation order. Common mqtt-level keys are applied first,
// then the profile-specific mapping overlays them (profile keys win).
//
// When "local" is requested and no profiles section exists at all, a
// default loopback broker is synthesized so the template works without any
// configuration file.
func profileSettings(doc map[string]interface{}, names []string) ([]namedSettings, error) {
	section, err := mqttSection(doc)
	if err != nil {
		return nil, err
	}

	var profiles map[string]interface{}
	if raw, ok := section["profiles"]; ok && raw != nil {
		profiles, ok = raw.(map[string]interface{})
		if !ok {
			return nil, cityerrors.New(cityerrors.ErrorTypeConfig, "config key 'mqtt.profiles' must be a mapping")
		}
	}

	common := make(map[string]interface{})
	for key, value := range section {
		if _, managed := profileManagementKeys[key]; !managed {
			common[key] = value
		}
	}

	result := make([]namedSettings, 0, len(names))
	for _, name := range names {
		var selected map[string]interface{}

		raw, known := profiles[name]
		switch {
		case name == "local" && len(profiles) == 0:
			selected = map[string]interface{}{
				"host": DefaultHost,
				"port": DefaultPort,
				"tls":  false,
			}
		case !known:
			available := make([]string, 0, len(profiles))
			for key := range profiles {
				available = append(available, key)
			}
			sort.Strings(available)
			return nil, cityerrors.Newf(cityerrors.ErrorTypeValidation,
				"unknown mqtt profile %q, available: %s", name, strings.Join(available, ", "))
		case raw == nil:
			selected = map[string]interface{}{}
		default:
			var ok bool
			selected, ok = raw.(map[string]interface{})
			if !ok {
				return nil, cityerrors.Newf(cityerrors.ErrorTypeConfig,
					"config key 'mqtt.profiles.%s' must be a mapping", name)
			}
		}

		merged := make(map[string]interface{}, len(common)+len(selected))
		for key, value := range common {
			merged[key] = value
		}
		for key, value := range selected {
			merged[key] = value
		}
		result = append(result, namedSettings{name: name, settings: merged})
	}

	return result, nil
}

// brokerFromSettings coerces a merged settings mapping into a typed
// BrokerConfig, applying documented defaults and resolving credentials
// through the environment variables named by username_env / password_env.
func brokerFromSettings(settings map[string]interface{}) (BrokerConfig, error) {
	port, err := toIntDefault(settings["port"], DefaultPort, "mqtt.port")
	if err != nil {
		return BrokerConfig{}, err
	}
	if port < 1 || port > 65535 {
		return BrokerConfig{}, cityerrors.Newf(cityerrors.ErrorTypeValidation,
			"mqtt.port must be between 1 and 65535, got %d", port)
	}

	keepaliveSeconds, err := toIntDefault(settings["keepalive_s"], int(DefaultKeepAlive/time.Second), "mqtt.keepalive_s")
	if err != nil {
		return BrokerConfig{}, err
	}
	if keepaliveSeconds <= 0 {
		return BrokerConfig{}, cityerrors.New(cityerrors.ErrorTypeValidation, "mqtt.keepalive_s must be > 0")
	}

	var username, password string
	if env := toStringDefault(settings["username_env"], ""); env != "" {
		username = os.Getenv(env)
	}
	if env := toStringDefault(settings["password_env"], ""); env != "" {
		password = os.Getenv(env)
	}

	return BrokerConfig{
		Host:           toStringDefault(settings["host"], DefaultHost),
		Port:           port,
		TLS:            toBool(settings["tls"]),
		Username:       username,
		Password:       password,
		ClientIDPrefix: toStringDefault(settings["client_id_prefix"], DefaultClientIDPrefix),
		KeepAlive:      time.Duration(keepaliveSeconds) * time.Second,
		BaseTopic:      toStringDefault(settings["base_topic"], DefaultBaseTopic),
	}, nil
}
