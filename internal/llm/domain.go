package llm

import "python-chat/internal/domain"

// Model identifiers a session may pick from.
const (
	ModelGPT4oMini = "gpt-4o-mini"
	ModelGPT4o     = "gpt-4o"

	// DefaultModel is used when a session has not picked one, and is the only
	// model the deployed front end ever uses.
	DefaultModel = ModelGPT4oMini

	// Temperature is the sampling temperature sent with every chat reply.
	Temperature = 0.2
)

// Models is the fixed menu offered by the settings sidebar, default first.
var Models = []string{ModelGPT4oMini, ModelGPT4o}

// IsKnownModel reports whether id is on the Models menu.
func IsKnownModel(id string) bool {
	for _, m := range Models {
		if m == id {
			return true
		}
	}
	return false
}

// CompletionRequest is one call to the remote chat completions endpoint.
type CompletionRequest struct {
	// Model is the provider's model identifier, eg "gpt-4o-mini".
	Model string
	// Turns is the full ordered conversation, hidden system turn included.
	Turns []domain.Turn
	// Temperature is the sampling temperature.
	Temperature float64
}
