// Package transfer converts workspaces to and from portable JSON documents.
package transfer

import (
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/rs/zerolog/log"
)

const filenamePrefix = "agent-interactions-"

// Clipboard is a shared clipboard that accepts text
type Clipboard interface {
	WriteAll(text string) error
}

// Export is a serialized workspace ready to download
type Export struct {
	Filename string `json:"filename"`
	Document []byte `json:"-"`
	Copied   bool   `json:"copied"`
}

// Codec exports and imports workspace documents
type Codec struct {
	clipboard Clipboard
	now       func() time.Time
}

// NewCodec creates a codec. A nil clipboard skips the copy step.
func NewCodec(clipboard Clipboard) *Codec {
	return &Codec{
		clipboard: clipboard,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Export pretty-prints ws and tries to copy it to the clipboard
func (c *Codec) Export(ws domain.Workspace) (*Export, error) {
	doc, err := domain.EncodeDocument(ws, true)
	if err != nil {
		return nil, fmt.Errorf("failed to encode workspace: %w", err)
	}

	export := &Export{
		Filename: Filename(c.now()),
		Document: doc,
	}

	if c.clipboard != nil {
		if err := c.clipboard.WriteAll(string(doc)); err != nil {
			log.Debug().Err(err).Msg("Clipboard unavailable, export offered as download only")
		} else {
			export.Copied = true
		}
	}

	return export, nil
}

// Import decodes a document into inputs for normalization. Any element shape is
// accepted; an empty result is reported as domain.ErrEmptyImport.
func (c *Codec) Import(data []byte) ([]domain.InteractionInput, error) {
	inputs, err := domain.DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, &domain.ValidationError{Message: domain.ErrEmptyImport.Error(), Err: domain.ErrEmptyImport}
	}
	return inputs, nil
}

// Filename embeds an ISO-8601 timestamp with ':' and '.' replaced by '-'
func Filename(t time.Time) string {
	stamp := t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return filenamePrefix + stamp + ".json"
}
