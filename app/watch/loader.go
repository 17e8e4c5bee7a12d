package watch

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a watch file. Files ending in .yml or .yaml are decoded as YAML,
// everything else as JSON.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("failed to read file: %w", err)}
	}

	config, err := parse(data, decoderFor(path))
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	slog.Debug("Watch configuration loaded", "path", path, "rules", len(config.Rules), "ntfy_topic", config.NtfyTopic)

	return config, nil
}

type decodeFunc func(data []byte, v any) error

func decoderFor(path string) decodeFunc {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return yaml.Unmarshal
	default:
		return json.Unmarshal
	}
}

func parse(data []byte, decode decodeFunc) (*Config, error) {
	var raw rawConfig
	if err := decode(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	if raw.Watched == nil {
		return nil, ErrWatchedMissing
	}

	rules := make([]Rule, 0, len(*raw.Watched))
	for i, r := range *raw.Watched {
		rule, err := buildRule(r)
		if err != nil {
			return nil, fmt.Errorf("rule at index %d: %w", i, err)
		}
		rules = append(rules, rule)
	}

	return &Config{
		Rules:     rules,
		NtfyTopic: raw.NtfyTopic,
	}, nil
}

func buildRule(r rawRule) (Rule, error) {
	if r.Name == "" {
		return Rule{}, fmt.Errorf("%w: name is required", ErrInvalidRule)
	}

	switch {
	case len(r.MatchAll) > 0:
		if len(r.Keywords) > 0 {
			slog.Warn("Rule has both match_all and keywords, keywords ignored", "rule", r.Name)
		}
		return Rule{Name: r.Name, Strategy: MatchAll{Terms: r.MatchAll}}, nil
	case len(r.Keywords) > 0:
		return Rule{Name: r.Name, Strategy: AnyKeyword{Keywords: r.Keywords}}, nil
	default:
		return Rule{}, fmt.Errorf("%w: %q needs match_all or keywords", ErrInvalidRule, r.Name)
	}
}
