// Package config resolves the staircase configuration from built-in
// defaults, an optional YAML file and environment variables.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/acuity/internal/staircase"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://acuity-config.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// File is the on-disk configuration. Unset fields keep their defaults.
type File struct {
	Answers           string      `json:"answers"`
	PassThreshold     *int        `json:"pass_threshold"`
	FailPolicy        string      `json:"fail_policy"`
	FailThreshold     *int        `json:"fail_threshold"`
	MaxTrialsPerLevel *int        `json:"max_trials_per_level"`
	StartRank         *int        `json:"start_rank"`
	StartLabel        string      `json:"start_label"`
	RepeatPolicy      string      `json:"repeat_policy"`
	Levels            []FileLevel `json:"levels"`
}

// FileLevel is one ladder entry, easiest first.
type FileLevel struct {
	Label     string  `json:"label"`
	Magnitude float64 `json:"magnitude"`
}

// Default returns the built-in configuration.
func Default() staircase.Config {
	return staircase.DefaultConfig()
}

// Load reads and validates the YAML configuration file at path.
func Load(path string) (staircase.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return staircase.Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return staircase.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document, checks it against the embedded schema and
// applies it on top of the defaults.
func Parse(data []byte) (staircase.Config, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return staircase.Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	labelsAsText(&root)

	var doc any
	if root.Kind != 0 {
		if err := root.Decode(&doc); err != nil {
			return staircase.Config{}, fmt.Errorf("parse yaml: %w", err)
		}
	}
	if doc == nil {
		doc = map[string]any{}
	}

	// The schema validator works on JSON values, so round-trip through JSON.
	raw, err := json.Marshal(doc)
	if err != nil {
		return staircase.Config{}, fmt.Errorf("convert yaml: %w", err)
	}
	if err := validate(raw); err != nil {
		return staircase.Config{}, err
	}

	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return staircase.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return f.Apply(Default())
}

func validate(raw []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &schemaError{verr: verr}
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// schemaError reports every failing location of a schema validation.
type schemaError struct {
	verr *jsonschema.ValidationError
}

func (e *schemaError) Error() string {
	return fmt.Sprintf("schema validation failed: %#v", e.verr)
}

func (e *schemaError) Unwrap() error { return e.verr }

// labelKeys hold level labels. Labels such as 1.0 look like numbers to
// YAML but must keep their written form.
var labelKeys = map[string]bool{"label": true, "start_label": true}

// labelsAsText retags plain scalar label values as strings so they decode
// with their source text.
func labelsAsText(n *yaml.Node) {
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if labelKeys[k.Value] && v.Kind == yaml.ScalarNode && v.Style == 0 && v.Tag != "!!null" {
				v.Tag = "!!str"
			}
		}
	}
	for _, c := range n.Content {
		labelsAsText(c)
	}
}

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Apply overlays the file's settings on base and validates the result.
func (f File) Apply(base staircase.Config) (staircase.Config, error) {
	cfg := base

	if len(f.Levels) > 0 {
		levels := make([]staircase.Level, len(f.Levels))
		for i, l := range f.Levels {
			levels[i] = staircase.Level{Label: l.Label, Magnitude: l.Magnitude}
		}
		ladder, err := staircase.NewLadder(levels)
		if err != nil {
			return staircase.Config{}, err
		}
		cfg.Ladder = ladder
		// A custom ladder starts mid-way unless told otherwise.
		cfg.StartRank = (ladder.Len() + 1) / 2
	}

	if f.Answers != "" {
		space, err := staircase.AnswerSpaceByName(f.Answers)
		if err != nil {
			return staircase.Config{}, err
		}
		cfg.Answers = space
	}
	if f.PassThreshold != nil {
		cfg.PassThreshold = *f.PassThreshold
	}
	if f.FailPolicy != "" {
		cfg.FailPolicy = staircase.FailPolicy(f.FailPolicy)
	}
	if f.FailThreshold != nil {
		cfg.FailThreshold = *f.FailThreshold
	}
	if f.MaxTrialsPerLevel != nil {
		cfg.MaxTrialsPerLevel = *f.MaxTrialsPerLevel
	}
	if f.RepeatPolicy != "" {
		cfg.RepeatPolicy = staircase.RepeatPolicy(f.RepeatPolicy)
	}

	switch {
	case f.StartRank != nil:
		cfg.StartRank = *f.StartRank
	case f.StartLabel != "":
		l, ok := cfg.Ladder.ByLabel(f.StartLabel)
		if !ok {
			return staircase.Config{}, &staircase.ValidationError{
				Field:  "start_label",
				Reason: fmt.Sprintf("%q is not a ladder label", f.StartLabel),
			}
		}
		cfg.StartRank = l.Rank
	}

	if err := cfg.Validate(); err != nil {
		return staircase.Config{}, err
	}
	return cfg, nil
}

// FromEnv resolves the configuration from ACUITY_LADDER and the other
// ACUITY_* overrides.
func FromEnv() (staircase.Config, error) {
	return Resolve("")
}

// Resolve builds the configuration in priority order: defaults, the file at
// path (or ACUITY_LADDER when path is empty), then environment overrides.
func Resolve(path string) (staircase.Config, error) {
	if path == "" {
		path = os.Getenv("ACUITY_LADDER")
	}

	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return staircase.Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return staircase.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return staircase.Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *staircase.Config) error {
	if v := os.Getenv("ACUITY_ANSWERS"); v != "" {
		space, err := staircase.AnswerSpaceByName(v)
		if err != nil {
			return fmt.Errorf("ACUITY_ANSWERS: %w", err)
		}
		cfg.Answers = space
	}
	if v := os.Getenv("ACUITY_FAIL_POLICY"); v != "" {
		cfg.FailPolicy = staircase.FailPolicy(v)
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"ACUITY_PASS_THRESHOLD", &cfg.PassThreshold},
		{"ACUITY_FAIL_THRESHOLD", &cfg.FailThreshold},
		{"ACUITY_MAX_TRIALS", &cfg.MaxTrialsPerLevel},
		{"ACUITY_START_RANK", &cfg.StartRank},
	}
	for _, i := range ints {
		v := os.Getenv(i.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", i.env, v)
		}
		*i.dst = n
	}
	return nil
}
