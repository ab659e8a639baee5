package products

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/amleal/produtos-manager/internal/api"
)

// Upload is a file destined for a multipart field. ContentType should be the
// image mime type; Name is the original filename.
type Upload struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

var errNoFile = errors.New("upload file is required")

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// buildForm assembles a multipart body from plain fields plus one file part.
// The file part carries its own Content-Type so the server can validate the
// image without sniffing.
func buildForm(fields [][2]string, fileField string, file Upload) (*api.Form, error) {
	if file.Reader == nil {
		return nil, errNoFile
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", f[0], err)
		}
	}

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(fileField), quoteEscaper.Replace(file.Name)))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file.Reader); err != nil {
		return nil, fmt.Errorf("copy file into form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	return &api.Form{ContentType: w.FormDataContentType(), Body: &buf}, nil
}
