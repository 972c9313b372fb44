package courseapi

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Upload sends a media file as multipart form data and returns the URL the server stored it under.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	cl := call{method: http.MethodPost, route: "/files/upload"}
	req := c.request(ctx, cl).SetFileReader("file", filepath.Base(filename), r)
	var out uploadResponse
	if err := c.execute(ctx, cl, req, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.URL) == "" {
		return "", fmt.Errorf("upload response missing url")
	}
	return out.URL, nil
}

// DownloadCertificate streams the certificate for a completed course into w.
// The endpoint takes the token as a query parameter so browsers can open it directly.
func (c *Client) DownloadCertificate(ctx context.Context, courseID uuid.UUID, w io.Writer) (string, error) {
	cl := call{
		method:       http.MethodGet,
		route:        "/certificates/{courseId}/download",
		path:         map[string]string{"courseId": courseID.String()},
		tokenInQuery: true,
		stream:       true,
	}
	name := "certificate-" + courseID.String()
	err := c.send(ctx, cl, c.request(ctx, cl), func(_ context.Context, resp *resty.Response) error {
		if _, err := io.Copy(w, resp.RawBody()); err != nil {
			return fmt.Errorf("write certificate: %w", err)
		}
		if _, params, err := mime.ParseMediaType(resp.Header().Get("Content-Disposition")); err == nil && params["filename"] != "" {
			name = params["filename"]
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return name, nil
}
