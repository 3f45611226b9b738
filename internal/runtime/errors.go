package runtime

import "fmt"

// FulfillmentError is fatal for the turn that raised it.
type FulfillmentError struct {
	Intent string
	Step   string
	Cause  error
}

func (e *FulfillmentError) Error() string {
	if e.Step == "" {
		return fmt.Sprintf("fulfillment of intent '%s' failed: %v", e.Intent, e.Cause)
	}
	return fmt.Sprintf("fulfillment of intent '%s' failed at step '%s': %v", e.Intent, e.Step, e.Cause)
}

func (e *FulfillmentError) Unwrap() error {
	return e.Cause
}
