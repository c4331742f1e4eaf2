package types

// ParseRequest is the payload for POST /parse.
type ParseRequest struct {
	// Free-text query to convert into the structured filter schema.
	// example: Find listings under 600000 in wildfire zones
	Query string `json:"query" example:"Find listings under 600000 in wildfire zones"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of locally available models.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload for transport-level
// failures (bad request body, unsupported media type, and so on).
// Parse-level failures are not transport errors; they come back as an
// error-shaped Result with status 200.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
