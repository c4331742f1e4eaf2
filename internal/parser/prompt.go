package parser

// Sentinel markers delimiting the JSON payload within otherwise
// unstructured generated text.
const (
	StartMarker = "<<<JSON_START>>>"
	EndMarker   = "<<<JSON_END>>>"
)

// promptTemplate is the fixed instruction block. The user query is
// appended verbatim after the "User:" label; no other interpolation.
const promptTemplate = `You are a real estate assistant. Your job is to convert the user's request into a valid JSON object using the exact format below.
Output ONLY the JSON object and no other text.
Your entire output must consist of the following:
` + StartMarker + `
{
  "layer": "<string>",
  "filters": {
    "fire_risk": "<string>",
    "price": { "lt": <number> }
  }
}
` + EndMarker + `
Do not include any extra text, explanations, or characters.
User: `

// BuildPrompt returns the full prompt for a user query. Pure: the same
// query always yields the same prompt string.
func BuildPrompt(query string) string {
	return promptTemplate + query + "\n"
}
