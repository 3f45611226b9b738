package dsl

import (
	"fmt"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
)

// Builder manages the construction of one step tree per intent.
type Builder struct {
	intents map[string]*StepBuilder
	order   []string
}

// New creates a new tree builder.
func New() *Builder {
	return &Builder{
		intents: make(map[string]*StepBuilder),
	}
}

// Intent returns the root step of the tree for name.
// If the intent already exists, it returns the existing builder.
func (b *Builder) Intent(name string) *StepBuilder {
	if sb, ok := b.intents[name]; ok {
		return sb
	}
	sb := &StepBuilder{step: &domain.Step{Name: name}}
	b.intents[name] = sb
	b.order = append(b.order, name)
	return sb
}

// Intents lists the declared intents in declaration order.
func (b *Builder) Intents() []string {
	return append([]string(nil), b.order...)
}

// Build validates every tree and returns them keyed by intent name.
func (b *Builder) Build() (map[string]*domain.Step, error) {
	trees := make(map[string]*domain.Step, len(b.intents))
	for _, name := range b.order {
		root := b.intents[name].step
		if err := root.Validate(); err != nil {
			return nil, fmt.Errorf("intent %s: %w", name, err)
		}
		trees[name] = root
	}
	return trees, nil
}
