package domain

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Session attribute keys owned by the bot.
const (
	AttrHistory      = "history"
	AttrStash        = "stashedSlots"
	AttrReturnToMenu = "returnToMenu"
	AttrRetry        = "retry"
	AttrChartData    = "chartData"
)

// Attributes is the typed view over the flat session attribute bag.
type Attributes struct {
	History      string `mapstructure:"history"`
	Stash        string `mapstructure:"stashedSlots"`
	ReturnToMenu bool   `mapstructure:"returnToMenu"`
	Retry        bool   `mapstructure:"retry"`
	ChartData    string `mapstructure:"chartData"`
}

// DecodeAttributes reads the bot-owned keys of a session attribute bag.
// Flags accept the usual truthy spellings ("true", "1", "yes", "on").
func DecodeAttributes(raw map[string]string) (Attributes, error) {
	var attrs Attributes
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       truthyHook,
		WeaklyTypedInput: true,
		Result:           &attrs,
	})
	if err != nil {
		return attrs, err
	}
	if err := dec.Decode(raw); err != nil {
		return attrs, errorf(ErrInvalidEvent, "session attributes: %v", err)
	}
	return attrs, nil
}

func truthyHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
		return data, nil
	}
	return IsTruthy(data.(string)), nil
}

// IsTruthy interprets a flag value sent by a front end.
func IsTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	}
	return false
}

// Stash keeps the slot values of intents the dialog has switched away from.
type Stash map[string]Values

// Put stores the values of intent. Empty values remove the entry.
func (s Stash) Put(intent string, values Values) {
	if len(values) == 0 {
		delete(s, intent)
		return
	}
	s[intent] = values.Clone()
}

// Take removes and returns the values stashed for intent.
func (s Stash) Take(intent string) Values {
	v, ok := s[intent]
	if !ok {
		return Values{}
	}
	delete(s, intent)
	return v
}

// Merged flattens every stashed intent into one view.
func (s Stash) Merged() Values {
	out := Values{}
	for _, values := range s {
		for k, v := range values {
			out[k] = v
		}
	}
	return out
}

func decodeStash(raw string) (Stash, error) {
	st := Stash{}
	if raw == "" {
		return st, nil
	}
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return Stash{}, err
	}
	return st, nil
}

func (s Stash) encode() string {
	if len(s) == 0 {
		return ""
	}
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(data)
}
