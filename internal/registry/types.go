package registry

import (
	"context"
	"time"
)

// CaptionRecord is one row of the caption registry. The (VideoID, Language)
// tuple is unique; repeated imports update the existing row.
type CaptionRecord struct {
	VideoID   string    `json:"video_id"`
	Language  string    `json:"language"`
	FilePath  string    `json:"file_path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Video is the externally owned video entity. The pipeline only reads it.
type Video struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// Registry is the narrow access contract to the caption store. The pipeline
// never owns the connection lifecycle; each mutation is a single upsert.
type Registry interface {
	ListAll(ctx context.Context) ([]CaptionRecord, error)
	ListByVideo(ctx context.Context, videoID string) ([]CaptionRecord, error)
	Upsert(ctx context.Context, record CaptionRecord) error
}

// VideoCatalog exposes read-only access to the externally owned video table.
type VideoCatalog interface {
	ListVideoIDs(ctx context.Context) ([]string, error)
	ListVideos(ctx context.Context) ([]Video, error)
}
