package categorizer

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const responseSchemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id"],
    "properties": {
      "id": {"type": "integer"},
      "categoria": {"type": ["string", "null"]}
    }
  }
}`

var responseSchema = jsonschema.MustCompileString("categorize-response.json", responseSchemaJSON)

// Label is one classification returned by the model. Category is left
// unchecked here so callers can log what the model actually said.
type Label struct {
	ID       int     `json:"id"`
	Category *string `json:"categoria"`
}

// parseResponse turns a raw model answer into labels. Any error means the
// response is malformed and the batch may be retried.
func parseResponse(raw string) ([]Label, error) {
	clean := cleanModelJSON(raw)
	if clean == "" {
		return nil, fmt.Errorf("parseResponse: empty response")
	}

	var doc any
	if err := json.Unmarshal([]byte(clean), &doc); err != nil {
		return nil, fmt.Errorf("parseResponse: unmarshal JSON: %w", err)
	}
	if err := responseSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("parseResponse: json does not match schema: %w", err)
	}

	var decoded []rawLabel
	if err := json.Unmarshal([]byte(clean), &decoded); err != nil {
		return nil, fmt.Errorf("parseResponse: decode labels: %w", err)
	}
	labels := make([]Label, 0, len(decoded))
	for _, r := range decoded {
		id, err := integralID(r.ID)
		if err != nil {
			return nil, fmt.Errorf("parseResponse: %w", err)
		}
		labels = append(labels, Label{ID: id, Category: r.Category})
	}
	return labels, nil
}

type rawLabel struct {
	ID       json.Number `json:"id"`
	Category *string     `json:"categoria"`
}

// integralID accepts integer-valued numbers in any JSON spelling, such as 7,
// 7.0 or 7e0.
func integralID(n json.Number) (int, error) {
	if i, err := n.Int64(); err == nil {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, fmt.Errorf("id %s is not an integer", n)
	}
	return int(f), nil
}

// cleanModelJSON strips Markdown code fences the model may wrap its answer in.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if idx := strings.Index(s, "\n"); idx != -1 {
			// Drop the language tag line, if any.
			if tag := strings.TrimSpace(s[:idx]); tag == "" || !strings.ContainsAny(tag, "[{") {
				s = s[idx+1:]
			}
		} else {
			s = strings.TrimPrefix(s, "json")
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}

	return strings.TrimSpace(s)
}
