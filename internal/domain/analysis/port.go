package analysis

import "context"

// SubmitRequest carries the flat form payload plus the generated session id.
type SubmitRequest struct {
	SessionID SessionID
	Fields    map[string]string
}

// Backend port (interface ke analysis service eksternal)
type Backend interface {
	Submit(ctx context.Context, req SubmitRequest) (Document, error)
	Progress(ctx context.Context, id SessionID) (Progress, error)
	RenderPDF(ctx context.Context, doc Document) ([]byte, error)
}
