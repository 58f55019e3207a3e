package processor

// TopicProcessDocument carries requests to (re)convert a document into pages.
const TopicProcessDocument = "documents.process"

// ProcessRequest is the payload published on TopicProcessDocument.
type ProcessRequest struct {
	DocumentID string `json:"document_id"`
}
