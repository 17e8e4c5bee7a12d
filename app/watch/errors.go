package watch

import (
	"errors"
	"fmt"
)

var (
	ErrWatchedMissing = errors.New("required key 'watched' is missing")
	ErrInvalidRule    = errors.New("invalid watch rule")
)

// ConfigError is returned for any problem reading or decoding the watch file.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
