package classify

import (
	"context"
	"fmt"

	"github.com/xaenox/mailmind/internal/llm"
	"go.uber.org/zap"
)

const explanationSystemPrompt = `You are an expert email classifier. Given an email, explain why it belongs to a specific category.
Here are the list of possible categories:
- Promotions: Marketing emails promoting products, services, or events.
- Spam: Unsolicited bulk emails, often promotional or fraudulent.
- Social Media: Emails between individuals for personal communication.
- Forums: Notifications from online communities or discussion groups.
- Updates: Notifications about account activity, order status, or service changes.
- Verify Code: Emails containing verification codes for account access or security.
- Flight Booking: Emails related to flight reservations, itineraries, or travel updates.
- Concert Promotions: Emails promoting concerts, music events, or ticket sales.

Focus on identifying key phrases, context, and indicators in the email text that justify the classification.

Provide a clear, concise explanation highlighting the main reasons for the category assignment.`

// Explainer produces a human-readable justification for a category label.
type Explainer struct {
	llm    llm.Completer
	logger *zap.Logger
}

func NewExplainer(completer llm.Completer, logger *zap.Logger) *Explainer {
	return &Explainer{llm: completer, logger: logger}
}

func (e *Explainer) Explain(ctx context.Context, emailText, category string) (string, error) {
	user := fmt.Sprintf(`Analyze this email and explain why it belongs to the category '%s':
%s

Provide a detailed explanation with references to specific parts of the email text.`, category, emailText)

	explanation, err := e.llm.Complete(ctx, llm.Request{
		System: explanationSystemPrompt,
		User:   user,
	})
	if err != nil {
		e.logger.Error("category explanation failed",
			zap.Error(err),
			zap.String("category", category))
		return "", fmt.Errorf("explaining category %q: %w", category, err)
	}
	return explanation, nil
}
