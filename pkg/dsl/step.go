package dsl

import "github.com/bahrain-bp/bqa-insight-ai/pkg/domain"

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	step   *domain.Step
	parent *StepBuilder
}

// Require appends slots that must be filled, in order, before the step proceeds.
func (s *StepBuilder) Require(slots ...string) *StepBuilder {
	s.step.Required = append(s.step.Required, slots...)
	return s
}

// Branch makes the step select a child by the value of slot.
func (s *StepBuilder) Branch(slot string) *StepBuilder {
	s.step.OptionsSlot = slot
	return s
}

// Option returns the child selected by value, creating it on first use.
func (s *StepBuilder) Option(value string) *StepBuilder {
	if child, ok := s.step.Child(value); ok && child.Name == value {
		return &StepBuilder{step: child, parent: s}
	}
	child := &domain.Step{Name: value}
	s.step.Children = append(s.step.Children, child)
	return &StepBuilder{step: child, parent: s}
}

// Prompt marks the step as a leaf that builds a generator prompt.
func (s *StepBuilder) Prompt(fn domain.PromptFunc) *StepBuilder {
	s.step.Prompt = fn
	return s
}

// Handoff marks the step as a leaf that switches the dialog to intent and asks for slot.
func (s *StepBuilder) Handoff(intent, slot string) *StepBuilder {
	s.step.Handoff = &domain.Handoff{Intent: intent, Slot: slot}
	return s
}

// End returns the builder of the parent step. On a root step it returns itself.
func (s *StepBuilder) End() *StepBuilder {
	if s.parent == nil {
		return s
	}
	return s.parent
}

// Step exposes the step under construction.
func (s *StepBuilder) Step() *domain.Step {
	return s.step
}
