package watch

// Config is the parsed watch list. It is read once per check and never mutated.
type Config struct {
	Rules     []Rule
	NtfyTopic string
}

// Rule describes one wanted flavor by its display name and matching strategy.
type Rule struct {
	Name     string
	Strategy Strategy
}

// Strategy is either MatchAll or AnyKeyword.
type Strategy interface {
	strategy()
}

// MatchAll requires every term to appear in a flavor name.
type MatchAll struct {
	Terms []string
}

// AnyKeyword requires at least one keyword to appear in a flavor name.
type AnyKeyword struct {
	Keywords []string
}

func (MatchAll) strategy()   {}
func (AnyKeyword) strategy() {}

// File layout

type rawConfig struct {
	Watched   *[]rawRule `json:"watched" yaml:"watched"`
	NtfyTopic string     `json:"ntfy_topic" yaml:"ntfy_topic"`
}

type rawRule struct {
	Name     string   `json:"name" yaml:"name"`
	MatchAll []string `json:"match_all" yaml:"match_all"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}
