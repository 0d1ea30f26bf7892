package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when no JSON payload can be located in a completion.
var ErrNoJSON = errors.New("no JSON object found in completion")

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSON locates a JSON object inside a model completion and
// unmarshals it into v. Models routinely wrap JSON in markdown fences or
// surround it with prose, so the raw text is never trusted to be clean.
func ExtractJSON(completion string, v any) error {
	text := strings.TrimSpace(completion)

	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		text = m[1]
	} else {
		// Fall back to the outermost brace pair.
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start < 0 || end <= start {
			return ErrNoJSON
		}
		text = text[start : end+1]
	}

	return json.Unmarshal([]byte(text), v)
}
