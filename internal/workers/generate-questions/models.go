// internal/workers/generate-questions/models.go
package generatequestions

// questionsPayload is the wire shape the model is instructed to return.
type questionsPayload struct {
	Questions []questionEntry `json:"questions"`
}

type questionEntry struct {
	Question string `json:"question"`
	Category string `json:"category"`
}
