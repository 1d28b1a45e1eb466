package regclient

// AskRequest contains the parameters for one question submitted to a backend.
type AskRequest struct {
	// Question is the regulatory question, in whatever language the user
	// typed it.
	Question string `json:"question"`

	// Filters optionally narrows retrieval to industries, document types,
	// publication dates, or topics. Nil means search the whole corpus.
	Filters *Filters `json:"filters,omitempty"`

	// Params contains tuning parameters (top-k, score floor, locale hint).
	// Backend adapters extract what they support from this unified struct.
	Params *AskParams `json:"-"`
}
