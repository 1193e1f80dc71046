package llm

import "strings"

// StripFences removes an optional Markdown code-fence wrapper from model
// output so the remainder can be fed to a JSON parser.
func StripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if idx := strings.Index(content, "\n"); idx >= 0 && len(strings.TrimSpace(content[:idx])) <= len("json") {
		// Drop a language hint such as ```json.
		content = content[idx+1:]
	} else {
		content = strings.TrimPrefix(content, "json")
	}
	if idx := strings.LastIndex(content, "```"); idx >= 0 {
		content = content[:idx]
	}
	return strings.TrimSpace(content)
}
