package domain

// ActionKind tags the dialog action produced by a turn.
type ActionKind string

const (
	// ActionElicitSlot asks the user for a slot of the current intent.
	ActionElicitSlot ActionKind = "ElicitSlot"

	// ActionElicitIntent switches the dialog to another intent and asks for one of its slots.
	ActionElicitIntent ActionKind = "ElicitIntent"

	// ActionClose ends the turn with a final message.
	ActionClose ActionKind = "Close"
)

// Action is the outcome of a single turn.
type Action struct {
	Kind ActionKind `json:"kind"`

	// Intent is the target intent of an ElicitIntent action.
	Intent string `json:"intent,omitempty"`

	// Slot is the slot to elicit (ElicitSlot and ElicitIntent).
	Slot string `json:"slot,omitempty"`

	// Message is shown to the user along with the action.
	Message string `json:"message,omitempty"`

	// Slots pre-fills the target intent of an ElicitIntent action.
	Slots Values `json:"slots,omitempty"`
}

// ElicitSlot asks for a slot of the current intent.
func ElicitSlot(slot string) Action {
	return Action{Kind: ActionElicitSlot, Slot: slot}
}

// ElicitIntent switches to intent and asks for slot.
func ElicitIntent(intent, slot string) Action {
	return Action{Kind: ActionElicitIntent, Intent: intent, Slot: slot}
}

// Close ends the turn with message.
func Close(message string) Action {
	return Action{Kind: ActionClose, Message: message}
}

// WithMessage returns a copy of the action carrying message.
func (a Action) WithMessage(message string) Action {
	a.Message = message
	return a
}

// WithSlots returns a copy of the action pre-filling the target intent with values.
func (a Action) WithSlots(values Values) Action {
	a.Slots = values
	return a
}
