package domain

import "time"

// Utterance is one line of a simulated conversation.
type Utterance struct {
	From string    `json:"from"` // "user" or "bot"
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Conversation is the platform-side record kept by the local simulator.
type Conversation struct {
	ID         string       `json:"id"`
	State      SessionState `json:"state"`
	Transcript []Utterance  `json:"transcript,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// NewConversation opens a conversation at the root menu.
func NewConversation(id string, now time.Time) *Conversation {
	return &Conversation{
		ID: id,
		State: SessionState{
			DialogAction: &DialogAction{Type: DialogElicitSlot, SlotToElicit: RootSlot},
			Intent: Intent{
				Name:  RootIntent,
				Slots: map[string]*Slot{},
				State: IntentInProgress,
			},
			SessionAttributes: map[string]string{
				AttrHistory: History{{Intent: RootIntent, Slot: RootSlot}}.Encode(),
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep enough copy for store isolation.
func (c *Conversation) Clone() *Conversation {
	out := *c
	out.State.Intent = cloneIntent(c.State.Intent)
	if c.State.DialogAction != nil {
		da := *c.State.DialogAction
		out.State.DialogAction = &da
	}
	out.State.SessionAttributes = make(map[string]string, len(c.State.SessionAttributes))
	for k, v := range c.State.SessionAttributes {
		out.State.SessionAttributes[k] = v
	}
	out.Transcript = append([]Utterance(nil), c.Transcript...)
	return &out
}
