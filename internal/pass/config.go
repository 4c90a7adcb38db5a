package pass

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// PassOptions carries free-form per-pass configuration, e.g. a DCE pass's
// "keep-unreferenced-declarations" flag.
type PassOptions map[string]any

// passSpec is one [[pipeline]] entry in a pipeline TOML file.
type passSpec struct {
	Name    string      `toml:"name"`
	Options PassOptions `toml:"options"`
}

type pipelineFile struct {
	Pipeline []passSpec `toml:"pipeline"`
}

// PipelineConfig is an ordered list of pass identifiers with per-pass
// options, per spec §4.6's "the pass framework orders a pipeline of
// transforms and analyses by configuration rather than by a hard-coded
// driver". Order matches declaration order in the TOML source.
type PipelineConfig struct {
	Passes []PipelineStep
}

// PipelineStep names one pass in a PipelineConfig and its options.
type PipelineStep struct {
	Name    string
	Options PassOptions
}

// LoadPipelineConfig parses the [[pipeline]] table array from a TOML file.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	var raw pipelineFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("pipeline") {
		return &PipelineConfig{}, nil
	}
	cfg := &PipelineConfig{Passes: make([]PipelineStep, 0, len(raw.Pipeline))}
	for _, p := range raw.Pipeline {
		if p.Name == "" {
			return nil, fmt.Errorf("%s: pipeline entry missing name", path)
		}
		cfg.Passes = append(cfg.Passes, PipelineStep{Name: p.Name, Options: p.Options})
	}
	return cfg, nil
}
