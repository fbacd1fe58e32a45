package replay

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/datum/action"
	"gopkg.in/yaml.v3"
)

// Step is one lifecycle action in a script. Result is read for "success"
// steps and Error for "failure" steps.
type Step struct {
	Phase  string `yaml:"phase" json:"phase"`
	Key    string `yaml:"key" json:"key"`
	Result string `yaml:"result,omitempty" json:"result,omitempty"`
	Error  string `yaml:"error,omitempty" json:"error,omitempty"`
}

// Script is an ordered list of steps for one request family.
//
//	family: FETCH_REPORT
//	steps:
//	  - phase: start
//	    key: 6f1c1a52-8c1e-4c55-9a53-5d0b8e0f4f11
//	  - phase: success
//	    key: 6f1c1a52-8c1e-4c55-9a53-5d0b8e0f4f11
//	    result: ready
type Script struct {
	Family string `yaml:"family"`
	Steps  []Step `yaml:"steps"`
}

// DefaultFamily is the base action type used when a script names none.
const DefaultFamily = "REQUEST"

func (s *Script) family() string {
	if s.Family == "" {
		return DefaultFamily
	}
	return s.Family
}

// ParseScript decodes a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, ErrEmptyScript
	}
	s.Family = s.family()
	return &s, nil
}

// LoadScript reads and decodes a YAML script file.
func LoadScript(filename string) (*Script, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}
	return ParseScript(data)
}

// Family is the async family scripts drive: requests keyed by UUID that
// succeed with a string or fail with a message.
type Family = action.Async[uuid.UUID, string, string]

// Action converts s into an action of family f.
func (s Step) Action(f Family) (action.Action, error) {
	id, err := uuid.Parse(s.Key)
	if err != nil {
		return action.Action{}, fmt.Errorf("%w %q: %v", ErrInvalidKey, s.Key, err)
	}

	switch s.Phase {
	case "start":
		return f.Start(id), nil
	case "success":
		return f.Succeed(id, s.Result), nil
	case "failure":
		return f.Fail(id, s.Error), nil
	default:
		return action.Action{}, fmt.Errorf("%w %q", ErrUnknownPhase, s.Phase)
	}
}
