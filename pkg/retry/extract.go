package retry

import (
	"regexp"
	"strings"

	"github.com/artifix/artifix/pkg/llm"
)

// startOfBlockRegex matches the beginning of a fenced code block, e.g. ``` or
// ```tsx, capturing the language identifier when present.
var startOfBlockRegex = regexp.MustCompile("^\\s*```(\\S*)")

// responseText normalizes the shapes a repair channel may return into a plain
// string. Unknown shapes yield ("", false).
func responseText(resp any) (string, bool) {
	switch r := resp.(type) {
	case string:
		return r, true
	case llm.ChatResponse:
		return chatResponseText(r)
	case *llm.ChatResponse:
		if r == nil {
			return "", false
		}
		return chatResponseText(*r)
	case map[string]any:
		if content, ok := r["content"].(string); ok && content != "" {
			return content, true
		}
		if msg, ok := r["message"].(map[string]any); ok {
			if content, ok := msg["content"].(string); ok && content != "" {
				return content, true
			}
		}
		return "", false
	default:
		return "", false
	}
}

func chatResponseText(r llm.ChatResponse) (string, bool) {
	if r.Content != "" {
		return r.Content, true
	}
	if r.Message != nil && r.Message.Content != "" {
		return r.Message.Content, true
	}
	return "", false
}

// extractCodeBlock pulls the first fenced code block out of a model response.
// Responses without fences are treated as raw code. Blank results mean the
// response carried nothing usable.
func extractCodeBlock(response string) (string, bool) {
	lines := strings.Split(response, "\n")
	var block strings.Builder
	inBlock := false

	for _, line := range lines {
		if !inBlock {
			if startOfBlockRegex.MatchString(line) {
				inBlock = true
			}
			continue
		}
		if strings.TrimSpace(line) == "```" {
			code := strings.TrimSpace(block.String())
			return code, code != ""
		}
		block.WriteString(line)
		block.WriteString("\n")
	}

	if inBlock {
		// Unterminated fence; take what we have.
		code := strings.TrimSpace(block.String())
		return code, code != ""
	}

	code := strings.TrimSpace(response)
	return code, code != ""
}
