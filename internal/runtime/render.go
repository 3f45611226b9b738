package runtime

import "github.com/bahrain-bp/bqa-insight-ai/pkg/domain"

// render applies act to the session and builds the platform response.
// Every elicitation is recorded on the history stack.
func (e *Engine) render(s *domain.Session, act domain.Action) *domain.Response {
	state := domain.SessionState{OriginatingRequestID: s.OriginatingRequestID}

	switch act.Kind {
	case domain.ActionElicitIntent:
		s.SwitchIntent(act.Intent, act.Slots)
		s.History.Push(act.Intent, act.Slot)
		state.DialogAction = &domain.DialogAction{Type: domain.DialogElicitSlot, SlotToElicit: act.Slot}
		state.Intent = s.Intent
		state.Intent.State = domain.IntentInProgress
		state.Intent.ConfirmationState = domain.ConfirmationNone

	case domain.ActionElicitSlot:
		s.History.Push(s.Intent.Name, act.Slot)
		state.DialogAction = &domain.DialogAction{Type: domain.DialogElicitSlot, SlotToElicit: act.Slot}
		state.Intent = s.Intent
		state.Intent.State = domain.IntentInProgress

	default:
		state.DialogAction = &domain.DialogAction{Type: domain.DialogClose}
		state.Intent = s.Intent
		state.Intent.State = domain.IntentFulfilled
	}

	if state.Intent.Slots == nil {
		state.Intent.Slots = map[string]*domain.Slot{}
	}
	state.SessionAttributes = s.EncodeAttributes()

	resp := &domain.Response{
		SessionState:      state,
		SessionID:         s.ID,
		RequestAttributes: s.RequestAttributes,
	}
	if act.Message != "" {
		resp.Messages = []domain.Message{{ContentType: domain.ContentPlainText, Content: act.Message}}
	}
	return resp
}
