package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/docwrangler/internal/errors"
	"github.com/diogo/docwrangler/internal/models"
)

// AllowedDocumentTypes are the extensions the upload picker suggests. The client
// itself does not enforce them; the service decides what it accepts.
func AllowedDocumentTypes() []string {
	return []string{".pdf", ".docx", ".doc", ".txt"}
}

// IsAllowedDocumentType reports whether path has one of the suggested extensions.
func IsAllowedDocumentType(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range AllowedDocumentTypes() {
		if ext == allowed {
			return true
		}
	}
	return false
}

// UploadDocument uploads a file from disk as multipart form field "file".
func (c *Client) UploadDocument(ctx context.Context, path string) (*models.UploadResult, error) {
	if _, err := c.endpoint(EndpointUpload); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return c.UploadReader(ctx, file, filepath.Base(path))
}

// UploadReader uploads the contents of r under fileName. Non-2xx statuses are
// reported as "Upload Failed: <status phrase>".
func (c *Client) UploadReader(ctx context.Context, r io.Reader, fileName string) (*models.UploadResult, error) {
	endpoint, err := c.endpoint(EndpointUpload)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreatePart(filePartHeader(fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	size, err := io.Copy(part, r)
	if err != nil {
		return nil, fmt.Errorf("failed to write file data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	payload := body.Bytes()
	contentType := writer.FormDataContentType()

	var result *models.UploadResult
	err = c.execute(ctx, "upload", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", contentType)
		c.authorize(req)

		data, err := c.roundTrip(req, "upload", apierrors.PrefixUpload)
		if err != nil {
			return err
		}

		if !gjson.ValidBytes(data) {
			return apierrors.NewParseError("upload response is not valid JSON", endpoint)
		}

		parsed := gjson.ParseBytes(data)
		result = &models.UploadResult{
			FileName:   fileName,
			Size:       size,
			DocumentID: stringField(parsed.Get(PathUploadDocument)),
			Message:    stringField(parsed.Get(PathMessage)),
			Raw:        string(data),
		}
		if name := stringField(parsed.Get(PathUploadFileName)); name != "" {
			result.FileName = name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("document uploaded",
		zap.String("file", fileName),
		zap.Int64("size", size),
		zap.String("document_id", result.DocumentID),
	)
	return result, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// filePartHeader mirrors multipart.Writer.CreateFormFile but labels the part with the
// type implied by the file extension.
func filePartHeader(fileName string) textproto.MIMEHeader {
	contentType := mime.TypeByExtension(filepath.Ext(fileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, UploadFieldName, quoteEscaper.Replace(fileName)))
	h.Set("Content-Type", contentType)
	return h
}
