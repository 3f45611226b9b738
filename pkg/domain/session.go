package domain

import "fmt"

// Session is the typed view of one dialog turn. The dispatcher mutates it and
// renders it back into a Response; it lives only for the duration of the turn.
type Session struct {
	ID                   string
	InputTranscript      string
	Intent               Intent
	History              History
	Stash                Stash
	ReturnToMenu         bool
	Retry                bool
	ChartData            string
	Attributes           map[string]string
	RequestAttributes    map[string]string
	OriginatingRequestID string

	// Warnings collects recoverable decoding problems (e.g. a corrupt history).
	Warnings []error
}

// NewSession validates ev and decodes its session state.
func NewSession(ev *Event) (*Session, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	attrs, err := DecodeAttributes(ev.SessionState.SessionAttributes)
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:                   ev.SessionID,
		InputTranscript:      ev.InputTranscript,
		Intent:               cloneIntent(ev.SessionState.Intent),
		ReturnToMenu:         attrs.ReturnToMenu,
		Retry:                attrs.Retry,
		ChartData:            attrs.ChartData,
		Attributes:           make(map[string]string, len(ev.SessionState.SessionAttributes)),
		RequestAttributes:    ev.RequestAttributes,
		OriginatingRequestID: ev.SessionState.OriginatingRequestID,
	}
	for k, v := range ev.SessionState.SessionAttributes {
		s.Attributes[k] = v
	}

	s.History, err = DecodeHistory(attrs.History)
	if err != nil {
		s.History = History{}
		s.Warnings = append(s.Warnings, err)
	}
	s.Stash, err = decodeStash(attrs.Stash)
	if err != nil {
		s.Warnings = append(s.Warnings, fmt.Errorf("stashed slots: %w", err))
	}
	return s, nil
}

func cloneIntent(in Intent) Intent {
	out := in
	out.Slots = make(map[string]*Slot, len(in.Slots))
	for k, v := range in.Slots {
		out.Slots[k] = v
	}
	return out
}

// Slot reads a slot of the current intent.
func (s *Session) Slot(name string) (string, bool) {
	return s.Intent.SlotValue(name)
}

// SetSlot fills a slot of the current intent with a resolved value.
func (s *Session) SetSlot(name, value string) {
	if s.Intent.Slots == nil {
		s.Intent.Slots = make(map[string]*Slot)
	}
	s.Intent.Slots[name] = NewSlot(value, value)
}

// ClearSlot empties a slot of the current intent.
func (s *Session) ClearSlot(name string) {
	if s.Intent.Slots == nil {
		return
	}
	if _, ok := s.Intent.Slots[name]; ok {
		s.Intent.Slots[name] = nil
	}
}

// Values returns every known slot value: stashed intents first, the current intent on top.
func (s *Session) Values() Values {
	v := s.Stash.Merged()
	for k, val := range s.Intent.Values() {
		v[k] = val
	}
	return v
}

// SwitchIntent stashes the current intent's slots and makes intent current,
// pre-filled with values.
func (s *Session) SwitchIntent(intent string, values Values) {
	if s.Intent.Name != intent {
		s.Stash.Put(s.Intent.Name, s.Intent.Values())
	}
	s.Intent = Intent{
		Name:              intent,
		Slots:             values.Slots(),
		ConfirmationState: ConfirmationNone,
	}
}

// EncodeAttributes writes the bot-owned attributes back into the flat bag.
// Navigation flags are consumed and therefore cleared.
func (s *Session) EncodeAttributes() map[string]string {
	out := make(map[string]string, len(s.Attributes)+2)
	for k, v := range s.Attributes {
		out[k] = v
	}
	delete(out, AttrRetry)
	delete(out, AttrReturnToMenu)

	out[AttrHistory] = s.History.Encode()
	if stash := s.Stash.encode(); stash != "" {
		out[AttrStash] = stash
	} else {
		delete(out, AttrStash)
	}
	if s.ChartData != "" {
		out[AttrChartData] = s.ChartData
	} else {
		delete(out, AttrChartData)
	}
	return out
}
