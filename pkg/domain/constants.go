package domain

// Root menu and follow-up coordinates shared by the dispatcher and the simulator.
const (
	RootIntent = "BQAIntent"
	RootSlot   = "BQASlot"

	FollowUpIntent = "OtherIntent"
	FollowUpSlot   = "OtherQuestionsSlot"
)

// User-facing canned messages.
const (
	MessageThrottled     = "Too many requests. Try again in a few minutes."
	MessageApology       = "Sorry, something went wrong while preparing the analysis. Please try again, or type 'back' to change your answer."
	MessageNotUnderstood = "I'm sorry, I didn't understand that."
	MessageUnknownIntent = "I don't understand it, please type 'back' to return to the main menu."
)
