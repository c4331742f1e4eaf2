package parser

import (
	"encoding/json"
	"strings"

	"queryd/pkg/types"
)

// Error messages returned inside error-shaped results.
const (
	msgGenerationFailed = "Model generation failed: "
	msgNoJSON           = "No JSON output found."
	msgBadJSON          = "Failed to parse JSON output from model."
)

// ExtractJSON locates the payload between the first start marker and the
// first end marker occurring after it, trims whitespace and parses it as
// a JSON object. Text outside the markers is ignored. The parsed object
// is returned as-is; no schema validation is applied. Failures come back
// as error-shaped results with the full text attached for diagnosis.
func ExtractJSON(text string) types.Result {
	start := strings.Index(text, StartMarker)
	if start >= 0 {
		rest := text[start+len(StartMarker):]
		if end := strings.Index(rest, EndMarker); end >= 0 {
			payload := strings.TrimSpace(rest[:end])
			var obj map[string]any
			// "null" unmarshals into a nil map; treat it as malformed too.
			if err := json.Unmarshal([]byte(payload), &obj); err != nil || obj == nil {
				return types.ErrResultRaw(msgBadJSON, text)
			}
			return types.Result(obj)
		}
	}
	return types.ErrResultRaw(msgNoJSON, text)
}
