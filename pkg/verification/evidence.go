package verification

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/verifier/pkg/entities"
	"github.com/Jacobbrewer1/verifier/pkg/logging"
)

const (
	// MaxAttachments is the number of files discord accepts on a single message.
	MaxAttachments = 10

	// MaxAttachmentSize is the largest file re-uploaded to staff. Larger evidence is forwarded as a link.
	MaxAttachmentSize = 25 << 20
)

// forwardedEvidence is collected evidence ready to be sent to staff.
type forwardedEvidence struct {
	files []*discordgo.File

	// links is evidence that could not be attached and is listed in the message content instead.
	links []string
}

// downloadEvidence fetches the evidence so it can be attached to the staff message. At most MaxAttachments files
// are attached; anything over the limit, too large or failing to download is kept as a link.
func (svc *Service) downloadEvidence(ctx context.Context, evidence []entities.Evidence) *forwardedEvidence {
	fwd := new(forwardedEvidence)

	for _, e := range evidence {
		if len(fwd.files) >= MaxAttachments {
			fwd.links = append(fwd.links, e.URL)
			continue
		}

		f, err := svc.download(ctx, e)
		if err != nil {
			svc.l.Warn("Error downloading evidence, forwarding as link",
				slog.String("url", e.URL),
				slog.String(logging.KeyError, err.Error()))
			fwd.links = append(fwd.links, e.URL)
			continue
		}
		fwd.files = append(fwd.files, f)
	}

	return fwd
}

func (svc *Service) download(ctx context.Context, e entities.Evidence) (*discordgo.File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := svc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error requesting evidence: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxAttachmentSize+1))
	if err != nil {
		return nil, fmt.Errorf("error reading evidence: %w", err)
	}

	if len(body) > MaxAttachmentSize {
		return nil, fmt.Errorf("evidence larger than %d bytes", MaxAttachmentSize)
	}

	return &discordgo.File{
		Name:        e.Filename,
		ContentType: resp.Header.Get("Content-Type"),
		Reader:      bytes.NewReader(body),
	}, nil
}
