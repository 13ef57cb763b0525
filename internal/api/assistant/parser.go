package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractJSONObject unmarshals the first top-level JSON object found in model
// output. Models sometimes wrap JSON in prose or code fences, so everything
// outside the outermost braces is discarded.
func extractJSONObject(content string, dst any) error {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("no JSON object found in model output")
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), dst); err != nil {
		return fmt.Errorf("failed to parse model JSON: %w", err)
	}
	return nil
}

// extractJSONArray is the array counterpart of extractJSONObject.
func extractJSONArray(content string, dst any) error {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("no JSON array found in model output")
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), dst); err != nil {
		return fmt.Errorf("failed to parse model JSON: %w", err)
	}
	return nil
}

// parseFollowUpQuestions splits model output into individual questions,
// dropping numbering artifacts and fragments.
func parseFollowUpQuestions(content string) []string {
	var questions []string
	for _, line := range strings.Split(content, "\n") {
		q := strings.TrimSpace(line)
		if len(q) <= 10 {
			continue
		}
		if strings.HasPrefix(q, "-") || strings.HasPrefix(q, "*") {
			continue
		}
		if len(q) > 2 && q[0] >= '1' && q[0] <= '9' && q[1] == '.' {
			continue
		}
		questions = append(questions, q)
		if len(questions) == 4 {
			break
		}
	}
	return questions
}
