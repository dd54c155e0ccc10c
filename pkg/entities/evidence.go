package entities

// DefaultEvidenceFilename is used when an attachment arrives without a filename.
const DefaultEvidenceFilename = "file"

// Evidence is a single attachment uploaded to a review channel.
type Evidence struct {
	// URL is the CDN URL of the attachment.
	URL string `json:"url" bson:"url"`

	// Filename is the name of the attachment.
	Filename string `json:"filename" bson:"filename"`
}

// NewEvidence creates evidence, defaulting the filename.
func NewEvidence(url, filename string) Evidence {
	if filename == "" {
		filename = DefaultEvidenceFilename
	}
	return Evidence{
		URL:      url,
		Filename: filename,
	}
}
