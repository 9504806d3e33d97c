package messages

// Prompt messages.
const (
	PromptCancelled = "prompt cancelled"
	PromptYes       = "Yes"
	PromptNo        = "No"
)
