package domain

// Dialog action types understood by the platform.
const (
	DialogElicitSlot = "ElicitSlot"
	DialogClose      = "Close"
)

// Intent states understood by the platform.
const (
	IntentInProgress = "InProgress"
	IntentFulfilled  = "Fulfilled"
	ConfirmationNone = "None"
)

// ContentPlainText is the only message content type the bot emits.
const ContentPlainText = "PlainText"

// Event is one inbound dialog turn as delivered by the conversational platform.
type Event struct {
	SessionID         string            `json:"sessionId"`
	InputTranscript   string            `json:"inputTranscript,omitempty"`
	InvocationSource  string            `json:"invocationSource,omitempty"`
	SessionState      SessionState      `json:"sessionState"`
	RequestAttributes map[string]string `json:"requestAttributes,omitempty"`
}

// Validate checks the fields the dispatcher cannot work without.
func (e *Event) Validate() error {
	if e == nil {
		return ErrInvalidEvent
	}
	if e.SessionID == "" {
		return errorf(ErrInvalidEvent, "missing sessionId")
	}
	if e.SessionState.Intent.Name == "" {
		return errorf(ErrInvalidEvent, "missing sessionState.intent.name")
	}
	return nil
}

// SessionState is the platform-owned dialog state, echoed back on every response.
type SessionState struct {
	DialogAction         *DialogAction     `json:"dialogAction,omitempty"`
	Intent               Intent            `json:"intent"`
	SessionAttributes    map[string]string `json:"sessionAttributes,omitempty"`
	OriginatingRequestID string            `json:"originatingRequestId,omitempty"`
}

// DialogAction tells the platform what to do next.
type DialogAction struct {
	Type         string `json:"type"`
	SlotToElicit string `json:"slotToElicit,omitempty"`
}

// Intent is the active dialog goal and the slots gathered for it so far.
type Intent struct {
	Name              string           `json:"name"`
	Slots             map[string]*Slot `json:"slots"`
	State             string           `json:"state,omitempty"`
	ConfirmationState string           `json:"confirmationState,omitempty"`
}

// Slot holds one named piece of user input. A nil *Slot means "not filled".
type Slot struct {
	Value *SlotValue `json:"value,omitempty"`
}

// SlotValue carries the raw text and the platform-resolved canonical values.
type SlotValue struct {
	OriginalValue    string   `json:"originalValue"`
	InterpretedValue string   `json:"interpretedValue,omitempty"`
	ResolvedValues   []string `json:"resolvedValues"`
}

// NewSlot builds a filled slot. Resolved values are optional.
func NewSlot(original string, resolved ...string) *Slot {
	if resolved == nil {
		resolved = []string{}
	}
	interpreted := original
	if len(resolved) > 0 {
		interpreted = resolved[0]
	}
	return &Slot{Value: &SlotValue{
		OriginalValue:    original,
		InterpretedValue: interpreted,
		ResolvedValues:   resolved,
	}}
}

// Resolve returns the slot's value: the first resolved value if any, else the raw value.
func (s *Slot) Resolve() (string, bool) {
	if s == nil || s.Value == nil {
		return "", false
	}
	if len(s.Value.ResolvedValues) > 0 {
		return s.Value.ResolvedValues[0], true
	}
	if s.Value.OriginalValue == "" {
		return "", false
	}
	return s.Value.OriginalValue, true
}

// SlotValue reads a slot of the intent. Unset and absent slots both report false.
func (i Intent) SlotValue(name string) (string, bool) {
	if i.Slots == nil {
		return "", false
	}
	return i.Slots[name].Resolve()
}

// Values flattens the filled slots of the intent.
func (i Intent) Values() Values {
	v := make(Values, len(i.Slots))
	for name, slot := range i.Slots {
		if val, ok := slot.Resolve(); ok {
			v[name] = val
		}
	}
	return v
}

// Message is a single bot utterance.
type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Response is the outbound answer to an Event.
type Response struct {
	SessionState      SessionState      `json:"sessionState"`
	Messages          []Message         `json:"messages,omitempty"`
	SessionID         string            `json:"sessionId"`
	RequestAttributes map[string]string `json:"requestAttributes,omitempty"`
}

// SlotToElicit returns the slot the response asks for, if any.
func (r *Response) SlotToElicit() string {
	if r == nil || r.SessionState.DialogAction == nil {
		return ""
	}
	return r.SessionState.DialogAction.SlotToElicit
}

// Closed reports whether the response ends the dialog.
func (r *Response) Closed() bool {
	return r != nil && r.SessionState.DialogAction != nil && r.SessionState.DialogAction.Type == DialogClose
}

// Values is a flat slot name -> value view.
type Values map[string]string

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Slots converts the values back into platform slots.
func (v Values) Slots() map[string]*Slot {
	out := make(map[string]*Slot, len(v))
	for k, val := range v {
		out[k] = NewSlot(val, val)
	}
	return out
}
