// Package drive lists and downloads workout logs from a Google Drive folder
// through the Drive v3 REST API.
package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	wkerrs "github.com/angusgee/workout-tracker/internal/errors"
	"github.com/angusgee/workout-tracker/internal/workout"
)

const (
	defaultEndpoint = "https://www.googleapis.com/drive/v3"
	pageSize        = 100

	// ReadOnlyScope is all the access listing and downloading needs.
	ReadOnlyScope = "https://www.googleapis.com/auth/drive.readonly"
)

var ErrInvalidUTF8 = errors.New("file content is not valid utf-8")

// Ensure Client implements the FileSource interface
var _ workout.FileSource = (*Client)(nil)

// Client talks to the Drive API with an already authorized http client.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// New creates a client. An empty endpoint uses the public Drive API.
func New(httpClient *http.Client, endpoint string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(endpoint, "/"),
	}
}

// NewFromServiceAccount creates a client authorized as the service account
// in the JSON key file at path.
func NewFromServiceAccount(ctx context.Context, path string, timeout time.Duration) (*Client, error) {
	byts, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading credentials file: %w", err)
	}
	cfg, err := google.JWTConfigFromJSON(byts, ReadOnlyScope)
	if err != nil {
		return nil, fmt.Errorf("error parsing credentials file: %w", err)
	}

	// The token source uses the context's client when fetching tokens.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: timeout})
	httpClient := cfg.Client(ctx)
	httpClient.Timeout = timeout

	return New(httpClient, ""), nil
}

type fileList struct {
	NextPageToken string `json:"nextPageToken"`
	Files         []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		MIMEType string `json:"mimeType"`
	} `json:"files"`
}

// ListFolder returns every text file in the folder, following page
// tokens until the listing is exhausted.
func (c *Client) ListFolder(ctx context.Context, folderID string) ([]workout.RemoteFile, error) {
	files := []workout.RemoteFile{}

	pageToken := ""
	for {
		page, err := c.listPage(ctx, folderID, pageToken)
		if err != nil {
			return nil, wkerrs.E(err, wkerrs.KindRemote, wkerrs.Detail{Field: "folder_id", Value: folderID})
		}
		for _, f := range page.Files {
			files = append(files, workout.RemoteFile{
				ID:       f.ID,
				Name:     f.Name,
				MIMEType: f.MIMEType,
			})
		}

		if page.NextPageToken == "" {
			return files, nil
		}
		pageToken = page.NextPageToken
	}
}

func (c *Client) listPage(ctx context.Context, folderID, pageToken string) (fileList, error) {
	q := url.Values{}
	q.Set("q", folderQuery(folderID))
	q.Set("fields", "nextPageToken, files(id, name, mimeType)")
	q.Set("pageSize", fmt.Sprint(pageSize))
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}

	resp, err := c.get(ctx, c.endpoint+"/files?"+q.Encode())
	if err != nil {
		return fileList{}, fmt.Errorf("error listing folder: %w", err)
	}
	defer resp.Body.Close()

	var page fileList
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return fileList{}, fmt.Errorf("error decoding file list: %w", err)
	}

	return page, nil
}

// Only text-like files that are still in the folder.
func folderQuery(folderID string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(folderID)
	return fmt.Sprintf("'%s' in parents and mimeType contains 'text' and trashed = false", escaped)
}

// Download returns the full content of a file as text.
func (c *Client) Download(ctx context.Context, fileID string) (string, error) {
	detail := wkerrs.Detail{Field: "file_id", Value: fileID}

	resp, err := c.get(ctx, fmt.Sprintf("%s/files/%s?alt=media", c.endpoint, url.PathEscape(fileID)))
	if err != nil {
		return "", wkerrs.E(fmt.Errorf("error downloading file: %w", err), wkerrs.KindRemote, detail)
	}
	defer resp.Body.Close()

	byts, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", wkerrs.E(fmt.Errorf("error reading file content: %w", err), wkerrs.KindRemote, detail)
	}
	if !utf8.Valid(byts) {
		return "", wkerrs.E(ErrInvalidUTF8, wkerrs.KindDecode, detail)
	}

	return string(byts), nil
}

// Sends a GET and makes sure it came back okay. The caller closes the body.
func (c *Client) get(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status code: %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return resp, nil
}
