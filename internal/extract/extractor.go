// Package extract turns raw email text into EmailFeatures through one
// schema-constrained model call. No retries happen here; callers own retry
// policy.
package extract

import (
	"context"
	"fmt"

	"github.com/xaenox/mailmind/internal/features"
	"github.com/xaenox/mailmind/internal/llm"
	"go.uber.org/zap"
)

// ExtractionError reports model output that could not be turned into
// EmailFeatures. The raw content is kept for diagnosis.
type ExtractionError struct {
	Raw string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract: malformed model output: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

type Extractor struct {
	llm    llm.Completer
	logger *zap.Logger
}

func New(completer llm.Completer, logger *zap.Logger) *Extractor {
	return &Extractor{llm: completer, logger: logger}
}

// Extract runs the single constrained extraction call and constructs the
// features, applying the defaulting rules. The returned struct carries the
// original email text.
func (e *Extractor) Extract(ctx context.Context, emailText string) (*features.EmailFeatures, error) {
	content, err := e.llm.Complete(ctx, llm.Request{
		System:     extractionSystemPrompt,
		User:       extractionUserPrompt(emailText),
		SchemaName: "email_features",
		Schema:     featuresSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	raw := llm.StripFences(content)
	feats, err := features.Parse([]byte(raw))
	if err != nil {
		e.logger.Error("failed to parse extraction response",
			zap.Error(err),
			zap.String("response", raw))
		return nil, &ExtractionError{Raw: raw, Err: err}
	}

	feats.EmailText = emailText
	return feats, nil
}
