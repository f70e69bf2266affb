package intent

import "context"

// Intent is the coarse category of a user message. Only Question goes
// through retrieval; the others get a direct conversational reply.
type Intent string

const (
	Greeting  Intent = "greeting"
	Smalltalk Intent = "smalltalk"
	Question  Intent = "question"
	Thanks    Intent = "thanks"
	Feedback  Intent = "feedback"
	OffTopic  Intent = "off-topic"
)

// Detector classifies a user message. Implementations must be safe for
// concurrent use.
type Detector interface {
	Detect(ctx context.Context, text string) (Intent, error)
}
