package gemini

// cardsResponse is the JSON document the model must return for card
// generation.
type cardsResponse struct {
	Cards []cardRecord `json:"cards"`
}

// cardRecord is one flashcard in the model response. Front and Back are
// required; a record missing either fails the whole call.
type cardRecord struct {
	Front           string   `json:"front"`
	Back            string   `json:"back"`
	Tags            []string `json:"tags,omitempty"`
	SourceReference string   `json:"source_reference,omitempty"`
}

// exercisesResponse is the JSON document the model must return for exercise
// extraction.
type exercisesResponse struct {
	Exercises []exerciseRecord `json:"exercises"`
}

// exerciseRecord is one recognized exercise in the model response.
type exerciseRecord struct {
	Title        string   `json:"title"`
	Instructions string   `json:"instructions"`
	Questions    []string `json:"questions"`
}
