package request_models

type TripSuggestionRequest struct {
	Preferences string `json:"preferences"`
	Budget      string `json:"budget"`
	Interests   string `json:"interests"`
}
