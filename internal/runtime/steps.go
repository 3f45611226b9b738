package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
)

// processStep descends the tree from step, gathering required slots eagerly and
// in declared order before any branching.
func (e *Engine) processStep(ctx context.Context, s *domain.Session, step *domain.Step) (domain.Action, error) {
	for _, slot := range step.Required {
		if _, ok := s.Slot(slot); !ok {
			return domain.ElicitSlot(slot), nil
		}
	}

	if !step.IsLeaf() {
		value, ok := s.Slot(step.OptionsSlot)
		if !ok {
			return domain.ElicitSlot(step.OptionsSlot), nil
		}
		child, ok := step.Child(value)
		if !ok {
			e.logger.InfoContext(ctx, "unrecognised option",
				"session_id", s.ID, "slot", step.OptionsSlot, "value", value, "err", domain.ErrUnknownOption)
			s.ClearSlot(step.OptionsSlot)
			return domain.ElicitSlot(step.OptionsSlot).WithMessage(notUnderstood(step.Options())), nil
		}
		if child.Name != value {
			s.SetSlot(step.OptionsSlot, child.Name)
		}
		return e.processStep(ctx, s, child)
	}

	if step.Handoff != nil {
		if s.Intent.Name == domain.RootIntent {
			s.Stash = domain.Stash{}
		}
		return domain.ElicitIntent(step.Handoff.Intent, step.Handoff.Slot), nil
	}

	if step.Prompt == nil {
		return domain.Action{}, &FulfillmentError{
			Intent: s.Intent.Name,
			Step:   step.Name,
			Cause:  fmt.Errorf("%w: leaf has neither prompt nor handoff", domain.ErrInvalidStep),
		}
	}

	prompt, err := step.Prompt(ctx, s.Values())
	if err != nil {
		return domain.Action{}, &FulfillmentError{Intent: s.Intent.Name, Step: step.Name, Cause: err}
	}

	answer, ok := e.generate(ctx, s, purposeAnswer, prompt)
	s.ChartData = ""
	if ok && e.chartPrompt != nil {
		s.ChartData = e.chartData(ctx, s, answer)
	}

	return domain.ElicitIntent(domain.FollowUpIntent, domain.FollowUpSlot).WithMessage(answer), nil
}

func notUnderstood(options []string) string {
	return fmt.Sprintf("%s Please choose one of: %s.", domain.MessageNotUnderstood, strings.Join(options, ", "))
}
