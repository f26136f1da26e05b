package conversation

import "context"

// LeadCall is a structured request from the model to execute the declared
// submitLead capability with the arguments it extracted from the dialogue.
type LeadCall struct {
	Args map[string]any
}

// Reply is one model turn: free text, zero or more lead calls, or both.
type Reply struct {
	Text      string
	LeadCalls []LeadCall
}

// ChatModel is one remote conversational context. Implementations hold the
// accumulated dialogue history on the remote side; this process only keeps
// the handle.
type ChatModel interface {
	// Send transmits user text within the session.
	Send(ctx context.Context, text string) (Reply, error)
	// SendLeadResult feeds the outcome of a submitLead execution back into
	// the same session and returns the model's confirmation turn.
	SendLeadResult(ctx context.Context, result string) (Reply, error)
	// Close releases the remote handle.
	Close() error
}
