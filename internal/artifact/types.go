package artifact

// TempArtifact is a generated-but-not-yet-imported cue file in the temp
// working directory, named {video_id}{ext}.
type TempArtifact struct {
	VideoID string `json:"video_id"`
	Path    string `json:"path"`
}

// PublishedArtifact is an imported, user-facing caption file in the
// published directory, named {video_id}_{language}{ext}.
type PublishedArtifact struct {
	VideoID  string `json:"video_id"`
	Language string `json:"language"`
	Path     string `json:"path"`
}

// Key returns the {video_id}_{language} pair identifying this artifact.
func (a PublishedArtifact) Key() string {
	return a.VideoID + "_" + a.Language
}
