package cmd

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
)

// openAttachment reads a file and guesses its type from the extension,
// then from the content.
func openAttachment(path string) (mailer.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return mailer.Attachment{}, err
	}

	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return mailer.NewAttachment(filepath.Base(path), ct, data), nil
}
