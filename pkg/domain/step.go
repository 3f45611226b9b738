package domain

import (
	"context"
	"fmt"
	"strings"
)

// PromptFunc builds the generator prompt of a leaf step from the collected slot values.
type PromptFunc func(ctx context.Context, values Values) (string, error)

// Handoff moves the dialog to another intent once a leaf step is complete.
type Handoff struct {
	Intent string `json:"intent"`
	Slot   string `json:"slot"`
}

// Step is a node of the step tree.
//
// A branch step names an OptionsSlot and selects the child whose Name equals the
// slot value. A leaf step either builds a prompt or hands off to another intent.
// Required slots are gathered, in order, before either happens.
type Step struct {
	Name        string   `json:"name"`
	OptionsSlot string   `json:"options_slot,omitempty"`
	Children    []*Step  `json:"children,omitempty"`
	Required    []string `json:"required,omitempty"`
	Handoff     *Handoff `json:"handoff,omitempty"`

	Prompt PromptFunc `json:"-"`
}

// IsLeaf reports whether the step has no options slot.
func (s *Step) IsLeaf() bool {
	return s.OptionsSlot == ""
}

// Child finds the child selected by value. Exact matches win over case-insensitive ones.
func (s *Step) Child(value string) (*Step, bool) {
	for _, c := range s.Children {
		if c.Name == value {
			return c, true
		}
	}
	for _, c := range s.Children {
		if strings.EqualFold(c.Name, strings.TrimSpace(value)) {
			return c, true
		}
	}
	return nil, false
}

// Options lists the child names in declaration order.
func (s *Step) Options() []string {
	out := make([]string, len(s.Children))
	for i, c := range s.Children {
		out[i] = c.Name
	}
	return out
}

// Validate checks the shape of the subtree rooted at s.
func (s *Step) Validate() error {
	return s.validate(s.Name)
}

func (s *Step) validate(path string) error {
	if s.Name == "" {
		return fmt.Errorf("%w: %s: unnamed step", ErrInvalidStep, path)
	}
	if s.IsLeaf() {
		if len(s.Children) > 0 {
			return fmt.Errorf("%w: %s: children without an options slot", ErrInvalidStep, path)
		}
		if (s.Prompt == nil) == (s.Handoff == nil) {
			return fmt.Errorf("%w: %s: a leaf needs exactly one of prompt or handoff", ErrInvalidStep, path)
		}
		if s.Handoff != nil && (s.Handoff.Intent == "" || s.Handoff.Slot == "") {
			return fmt.Errorf("%w: %s: incomplete handoff", ErrInvalidStep, path)
		}
		return nil
	}
	if s.Prompt != nil || s.Handoff != nil {
		return fmt.Errorf("%w: %s: a branch cannot build a prompt", ErrInvalidStep, path)
	}
	if len(s.Children) == 0 {
		return fmt.Errorf("%w: %s: options slot %s has no children", ErrInvalidStep, path, s.OptionsSlot)
	}
	seen := make(map[string]bool, len(s.Children))
	for _, c := range s.Children {
		if seen[c.Name] {
			return fmt.Errorf("%w: %s: duplicate option %q", ErrInvalidStep, path, c.Name)
		}
		seen[c.Name] = true
		if err := c.validate(path + "/" + c.Name); err != nil {
			return err
		}
	}
	return nil
}

// Walk visits every step depth-first with the path from the root.
func (s *Step) Walk(fn func(path []*Step)) {
	s.walk(nil, fn)
}

func (s *Step) walk(prefix []*Step, fn func(path []*Step)) {
	path := append(append([]*Step(nil), prefix...), s)
	fn(path)
	for _, c := range s.Children {
		c.walk(path, fn)
	}
}

// SlotOptions returns the option values known for slot anywhere in the subtree.
func (s *Step) SlotOptions(slot string) []string {
	var out []string
	s.Walk(func(path []*Step) {
		step := path[len(path)-1]
		if step.OptionsSlot == slot {
			out = append(out, step.Options()...)
		}
	})
	return out
}
