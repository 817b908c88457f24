package wizard

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/JuanVergara-9/miservicio-api/internal/domain"
	"github.com/JuanVergara-9/miservicio-api/pkg/apperror"
)

// maxUploadBytes is the limit the backend enforces. Oversize files are
// logged here but still accepted; rejection is the remote side's call.
const maxUploadBytes = 2 << 20

// AttachFile captures an uploaded file into the form. The profile picture
// additionally gets a base64 data-URL preview, produced asynchronously:
// the preview field stays empty until the encode completes. Certificate
// and portfolio only echo the original filename back.
func (w *Wizard) AttachFile(field, filename string, content []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(content) == 0 {
		return apperror.BadRequest("el archivo está vacío")
	}
	if len(content) > maxUploadBytes {
		w.log.Warn("attachment exceeds upload limit, backend may reject it",
			"field", field, "filename", filename, "size", len(content))
	}

	att := &domain.FileAttachment{Field: field, Filename: filename, Content: content}

	switch field {
	case "profilePicture":
		w.Form.ProfilePicture = att
		w.Form.ProfilePreview = ""
		w.previewWG.Add(1)
		go w.buildPreview(content)
	case "certificate":
		w.Form.Certificate = att
		w.Form.CertificateFileName = filename
	case "portfolio":
		w.Form.Portfolio = att
		w.Form.PortfolioFileName = filename
	default:
		return apperror.BadRequest(fmt.Sprintf("unknown attachment field: %s", field))
	}
	return nil
}

// buildPreview sniffs the image type and encodes the data-URL preview.
// Runs off the request path; it re-takes the lock to publish the result.
func (w *Wizard) buildPreview(content []byte) {
	defer w.previewWG.Done()

	mime := "application/octet-stream"
	if cfg, format, err := image.DecodeConfig(bytes.NewReader(content)); err == nil {
		mime = "image/" + format
		w.log.Debug("profile picture decoded", "format", format, "width", cfg.Width, "height", cfg.Height)
	} else {
		w.log.Warn("profile picture is not a recognized image", "err", err)
	}

	preview := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(content)

	w.mu.Lock()
	// The upload may have been cleared or replaced while encoding ran.
	if w.Form.ProfilePicture != nil && bytes.Equal(w.Form.ProfilePicture.Content, content) {
		w.Form.ProfilePreview = preview
	}
	w.mu.Unlock()
}

// ClearFile drops an attachment and its derived preview or filename.
func (w *Wizard) ClearFile(field string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch field {
	case "profilePicture":
		w.Form.ProfilePicture = nil
		w.Form.ProfilePreview = ""
	case "certificate":
		w.Form.Certificate = nil
		w.Form.CertificateFileName = ""
	case "portfolio":
		w.Form.Portfolio = nil
		w.Form.PortfolioFileName = ""
	default:
		return apperror.BadRequest(fmt.Sprintf("unknown attachment field: %s", field))
	}
	return nil
}

// WaitForPreviews blocks until every pending preview encode finished.
// Exported for tests.
func (w *Wizard) WaitForPreviews() {
	w.previewWG.Wait()
}
