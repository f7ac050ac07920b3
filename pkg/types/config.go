package types

import "errors"

// Config holds the settings a project open or run needs. Loaded from
// config.yaml by the CLI layer and validated before use.
type Config struct {
	ProjectPath string `json:"project_path" yaml:"project_path"`

	// Buffer widths (metres) for the vegetation overlay.
	StreamsideBufferM float64 `json:"streamside_buffer_m" yaml:"streamside_buffer_m"`
	RiparianBufferM   float64 `json:"riparian_buffer_m" yaml:"riparian_buffer_m"`

	// Workers bounds the per-reach capacity computation pool.
	// Zero means one worker per CPU.
	Workers int `json:"workers" yaml:"workers"`
}

// Config validation errors.
var (
	ErrProjectPathEmpty = errors.New("project path must not be empty")
	ErrBufferOrder      = errors.New("riparian buffer must be wider than streamside buffer")
	ErrBufferInvalid    = errors.New("buffer widths must be positive")
	ErrWorkersInvalid   = errors.New("workers must be non-negative")
)

// Default buffer widths.
const (
	DefaultStreamsideBufferM = 30.0
	DefaultRiparianBufferM   = 100.0
)

// Validate checks that the Config is well-formed, returning a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.ProjectPath == "" {
		return ErrProjectPathEmpty
	}
	if c.StreamsideBufferM <= 0 || c.RiparianBufferM <= 0 {
		return ErrBufferInvalid
	}
	if c.RiparianBufferM <= c.StreamsideBufferM {
		return ErrBufferOrder
	}
	if c.Workers < 0 {
		return ErrWorkersInvalid
	}
	return nil
}
