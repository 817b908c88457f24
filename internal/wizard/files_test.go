package wizard_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAttachProfilePictureBuildsAsyncPreview(t *testing.T) {
	w := newTestWizard(false)
	content := tinyPNG(t)

	require.NoError(t, w.AttachFile("profilePicture", "foto.png", content))
	w.WaitForPreviews()

	snap := w.Snapshot()
	assert.True(t, strings.HasPrefix(snap.Form.ProfilePreview, "data:image/png;base64,"),
		"preview is a typed base64 data URL")
}

func TestAttachCertificateEchoesFilename(t *testing.T) {
	w := newTestWizard(false)

	require.NoError(t, w.AttachFile("certificate", "matricula.pdf", []byte("%PDF-1.4")))
	require.NoError(t, w.AttachFile("portfolio", "trabajos.pdf", []byte("%PDF-1.4")))

	snap := w.Snapshot()
	assert.Equal(t, "matricula.pdf", snap.Form.CertificateFileName)
	assert.Equal(t, "trabajos.pdf", snap.Form.PortfolioFileName)
	assert.Empty(t, snap.Form.ProfilePreview, "non-picture fields produce no preview")
}

func TestOversizeFileAcceptedNotRejected(t *testing.T) {
	w := newTestWizard(false)

	// 3 MiB, over the backend's limit. The wizard logs and keeps it; the
	// rejection, if any, is the backend's.
	big := make([]byte, 3<<20)
	assert.NoError(t, w.AttachFile("certificate", "grande.pdf", big))
	assert.Equal(t, "grande.pdf", w.Snapshot().Form.CertificateFileName)
}

func TestClearFileResetsDerivedState(t *testing.T) {
	w := newTestWizard(false)
	require.NoError(t, w.AttachFile("profilePicture", "foto.png", tinyPNG(t)))
	w.WaitForPreviews()
	require.NotEmpty(t, w.Snapshot().Form.ProfilePreview)

	require.NoError(t, w.ClearFile("profilePicture"))
	assert.Empty(t, w.Snapshot().Form.ProfilePreview)

	require.NoError(t, w.AttachFile("certificate", "m.pdf", []byte("x")))
	require.NoError(t, w.ClearFile("certificate"))
	assert.Empty(t, w.Snapshot().Form.CertificateFileName)
}

func TestAttachFileRejectsUnknownFieldAndEmptyContent(t *testing.T) {
	w := newTestWizard(false)
	assert.Error(t, w.AttachFile("resume", "cv.pdf", []byte("x")))
	assert.Error(t, w.AttachFile("certificate", "vacio.pdf", nil))
}
