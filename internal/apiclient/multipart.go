package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// FilePart is a binary attachment sent alongside the JSON metadata
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Content     io.Reader
}

// Multipart is a body with a JSON-encoded "data" part and an optional file part
type Multipart struct {
	Data    any
	File    *FilePart
	Headers http.Header
}

// PostMultipart submits form as multipart/form-data and decodes the response into T
func PostMultipart[T any](ctx context.Context, c *Client, endpoint string, form Multipart) (T, error) {
	var out T
	err := c.DoMultipart(ctx, http.MethodPost, endpoint, form, &out)
	return out, err
}

// DoMultipart sends form without the JSON content type; the multipart
// boundary header is derived from the encoded body
func (c *Client) DoMultipart(ctx context.Context, method, endpoint string, form Multipart, out any) error {
	body, contentType, err := encodeMultipart(form)
	if err != nil {
		return err
	}

	headers := http.Header{}
	headers.Set("Accept", "application/json")
	for key, values := range form.Headers {
		if strings.EqualFold(key, "Content-Type") {
			continue
		}
		headers[http.CanonicalHeaderKey(key)] = values
	}
	headers.Set("Content-Type", contentType)

	return c.send(ctx, method, endpoint, nil, body, headers, out)
}

func encodeMultipart(form Multipart) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	data, err := json.Marshal(form.Data)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode multipart data: %w", err)
	}
	dataHeader := make(textproto.MIMEHeader)
	dataHeader.Set("Content-Disposition", `form-data; name="data"`)
	dataHeader.Set("Content-Type", "application/json")
	part, err := w.CreatePart(dataHeader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create data part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("failed to write data part: %w", err)
	}

	if f := form.File; f != nil && f.Content != nil {
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		fileHeader := make(textproto.MIMEHeader)
		fileHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(f.Field), escapeQuotes(f.Filename)))
		fileHeader.Set("Content-Type", contentType)
		part, err := w.CreatePart(fileHeader)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create %s part: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write %s part: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
