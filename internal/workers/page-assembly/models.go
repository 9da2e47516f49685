// internal/workers/page-assembly/models.go
package pageassembly

// qaPayload is the wire shape of the batched answer response.
type qaPayload struct {
	QAPairs []QAPair `json:"qa_pairs"`
}
