package transfer

import (
	"errors"

	"github.com/atotto/clipboard"
)

// SystemClipboard writes to the operating system clipboard
type SystemClipboard struct{}

// WriteAll copies text, failing when no clipboard utility is available
func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard is not supported on this system")
	}
	return clipboard.WriteAll(text)
}
