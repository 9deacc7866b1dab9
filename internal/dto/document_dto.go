package dto

type DocumentPageDTO struct {
	Page *int   `json:"page,omitempty"`
	Text string `json:"text" validate:"required"`
}

type IngestDocumentRequest struct {
	SourceId string            `json:"source_id" validate:"required,max=255"`
	Pages    []DocumentPageDTO `json:"pages" validate:"required,min=1,dive"`
}

type IngestDocumentResponse struct {
	SourceId string `json:"source_id"`
	Pages    int    `json:"pages"`
	Queued   bool   `json:"queued"`
}

// PublishIngestDocumentMessage is the queue payload for the ingestion consumer.
type PublishIngestDocumentMessage struct {
	SourceId string            `json:"source_id"`
	Pages    []DocumentPageDTO `json:"pages"`
}

type DocumentStatsResponse struct {
	SourceId string `json:"source_id"`
	Chunks   int64  `json:"chunks"`
}
