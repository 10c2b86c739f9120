package gemini

// promptData represents the data passed to the prompt template.
type promptData struct {
	// Count is how many pairs the model is asked for.
	Count int

	// SourceText is the study material, already truncated to the
	// configured character limit.
	SourceText string
}

// pairSchema represents a single concept/meaning pair in the API response.
type pairSchema struct {
	Concept string `json:"concept"`
	Meaning string `json:"meaning"`
}
