package music

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xaenox/mailmind/internal/llm"
)

// Mention is the song reference literally present in the email text. Both
// fields are nil when the text names nothing concrete.
type Mention struct {
	Title  *string `json:"title"`
	Artist *string `json:"artist"`
}

func (m *Mention) title() string {
	if m == nil || m.Title == nil {
		return ""
	}
	return *m.Title
}

func (m *Mention) artist() string {
	if m == nil || m.Artist == nil {
		return ""
	}
	return *m.Artist
}

// parseMention extracts {title, artist} from free text with one constrained
// model call. The prompt forbids inferring songs that are not literally in
// the text; that precision guarantee is what keeps single-step mode strict.
func parseMention(ctx context.Context, completer llm.Completer, text string) (*Mention, error) {
	prompt := fmt.Sprintf(`Extract the song title and artist from this text.
Respond ONLY as JSON with fields "title" and "artist".
Set "title" to null unless a specific song title is literally present in the text.
Set "artist" to null unless a specific artist name is literally present in the text.
Never infer or guess songs that are not explicitly mentioned.

Text: %q`, text)

	content, err := completer.Complete(ctx, llm.Request{User: prompt})
	if err != nil {
		return nil, fmt.Errorf("music: parsing song mention: %w", err)
	}

	var mention Mention
	if err := json.Unmarshal([]byte(llm.StripFences(content)), &mention); err != nil {
		return nil, fmt.Errorf("music: malformed song mention response: %w", err)
	}
	return &mention, nil
}
