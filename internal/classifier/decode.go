package classifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var errNoVerdict = errors.New("no verdict object found in response")

// DecodeVerdict turns raw model output into a Verdict. Models routinely wrap
// the requested JSON in markdown fences, prose, or envelope objects, so the
// parse is attempted in decreasing order of strictness:
//
//  1. the text is a verdict object
//  2. the text is a verdict object wrapped in ``` fences
//  3. the text embeds a verdict object somewhere (brace scan)
//  4. the text is a wrapper object; its fields are probed in document order
//     for an object or list holding the verdict
//
// Callers map the returned error to SafeDefault; DecodeVerdict itself never
// fabricates a verdict.
func DecodeVerdict(raw string) (Verdict, error) {
	content := stripFences(strings.TrimSpace(raw))
	if content == "" {
		return Verdict{}, errNoVerdict
	}

	if v, ok := parseStrict(content); ok {
		return v, nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		inner := content[start : end+1]
		if v, ok := parseStrict(inner); ok {
			return v, nil
		}
		if v, ok := parseWrapper(inner); ok {
			return v, nil
		}
	}

	return Verdict{}, errNoVerdict
}

func stripFences(content string) string {
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	} else {
		return content
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// parseStrict accepts the object only when it actually carries the verdict
// shape; json.Unmarshal alone would happily decode any object to zero values.
func parseStrict(content string) (Verdict, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &probe); err != nil {
		return Verdict{}, false
	}
	if _, ok := probe["violates_policy"]; !ok {
		if _, ok := probe["recommended_action"]; !ok {
			return Verdict{}, false
		}
	}
	var v Verdict
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return Verdict{}, false
	}
	v.normalize()
	return v, true
}

// parseWrapper walks the top-level fields of a wrapper object in document
// order and returns the first nested object, or first element of the first
// list, that parses as a verdict.
func parseWrapper(content string) (Verdict, bool) {
	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return Verdict{}, false
	}

	for dec.More() {
		if _, err := dec.Token(); err != nil { // field name
			return Verdict{}, false
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return Verdict{}, false
		}

		trimmed := bytes.TrimSpace(value)
		switch {
		case len(trimmed) > 0 && trimmed[0] == '{':
			if v, ok := parseStrict(string(trimmed)); ok {
				return v, true
			}
		case len(trimmed) > 0 && trimmed[0] == '[':
			var items []json.RawMessage
			if err := json.Unmarshal(trimmed, &items); err == nil && len(items) > 0 {
				if v, ok := parseStrict(string(items[0])); ok {
					return v, true
				}
			}
		}
	}
	return Verdict{}, false
}
