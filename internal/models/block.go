// internal/models/block.go
package models

// ContentBlock is an immutable presentation fragment produced by the content
// block registry and consumed verbatim during page assembly.
type ContentBlock struct {
	Type    string                 `json:"block_type"`
	Content map[string]interface{} `json:"content"`
}
