package quiz

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE []byte

//go:embed bank.cue
var defaultBankCUE []byte

// bankSpec is the decoded file form of a bank.
type bankSpec struct {
	Tiers []tierSpec `json:"tiers" yaml:"tiers"`
}

type tierSpec struct {
	Name      string     `json:"name" yaml:"name"`
	Label     string     `json:"label" yaml:"label"`
	Questions []Question `json:"questions" yaml:"questions"`
}

var defaultBank = sync.OnceValues(func() (*Bank, error) {
	return ParseCUE(defaultBankCUE, "bank.cue")
})

// Default returns the built-in bank. It panics if the embedded bank is
// invalid, which the package tests rule out. The returned Bank is shared.
func Default() *Bank {
	b, err := defaultBank()
	if err != nil {
		panic(fmt.Sprintf("quiz: embedded bank is invalid: %v", err))
	}
	return b
}

// LoadFile reads a bank from path. The format follows the extension:
// .cue, .json, or YAML for anything else.
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return ParseCUE(data, filepath.Base(path))
	case ".json":
		return ParseJSON(data)
	default:
		return ParseYAML(data)
	}
}

// ParseCUE compiles a CUE bank and validates it against #Bank.
func ParseCUE(data []byte, filename string) (*Bank, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	def := schema.LookupPath(cue.ParsePath("#Bank"))

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var spec bankSpec
	if err := unified.Decode(&spec); err != nil {
		return nil, formatCUEError(err)
	}
	return build(spec)
}

// ParseYAML decodes a YAML bank. Unknown fields are rejected.
func ParseYAML(data []byte) (*Bank, error) {
	var spec bankSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return build(spec)
}

// ParseJSON decodes a JSON bank. Unknown fields are rejected.
func ParseJSON(data []byte) (*Bank, error) {
	var spec bankSpec
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return build(spec)
}

// build validates a decoded spec and turns it into a Bank.
func build(spec bankSpec) (*Bank, error) {
	spec = normalizeSpec(spec)
	if err := validateSpec(spec); err != nil {
		return nil, fmt.Errorf("invalid question bank: %w", err)
	}

	b := &Bank{
		labels:    make(map[Tier]string, len(spec.Tiers)),
		questions: make(map[Tier][]Question, len(spec.Tiers)),
	}
	for _, ts := range spec.Tiers {
		t := Tier(ts.Name)
		b.tiers = append(b.tiers, t)
		b.labels[t] = ts.Label
		b.questions[t] = append([]Question(nil), ts.Questions...)
	}
	return b, nil
}

// validateSpec checks the rules #Bank encodes, for formats CUE never sees.
func validateSpec(spec bankSpec) error {
	if len(spec.Tiers) == 0 {
		return fmt.Errorf("tiers list is required and must be non-empty")
	}

	seen := make(map[Tier]bool, len(spec.Tiers))
	for i, ts := range spec.Tiers {
		t, err := ParseTier(ts.Name)
		if err != nil {
			return fmt.Errorf("tiers[%d]: %w", i, err)
		}
		if seen[t] {
			return fmt.Errorf("tiers[%d]: duplicate tier %q", i, t)
		}
		seen[t] = true

		if ts.Label == "" {
			return fmt.Errorf("tiers[%d]: label is required", i)
		}
		if len(ts.Questions) == 0 {
			return fmt.Errorf("tiers[%d]: questions list is required and must be non-empty", i)
		}
		for j, q := range ts.Questions {
			if err := validateQuestion(q); err != nil {
				return fmt.Errorf("tiers[%d].questions[%d]: %w", i, j, err)
			}
		}
	}
	return nil
}

func validateQuestion(q Question) error {
	switch {
	case q.Prompt == "":
		return fmt.Errorf("prompt is required")
	case q.Summary == "":
		return fmt.Errorf("summary is required")
	case q.Solution == "":
		return fmt.Errorf("solution is required")
	case q.Hint == "":
		return fmt.Errorf("hint is required")
	}
	return nil
}

// LoadError is a bank file error with a source position when CUE knows one.
type LoadError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *LoadError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	}
	return e.Message
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := cueerrors.Positions(first)
	if len(positions) > 0 && positions[0].IsValid() {
		pos := positions[0]
		return &LoadError{
			File:    pos.Filename(),
			Line:    pos.Line(),
			Column:  pos.Column(),
			Message: first.Error(),
		}
	}
	return &LoadError{Message: first.Error()}
}
