package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/mydrive/internal/client/models"
	"github.com/dmitrijs2005/mydrive/internal/common"
	"github.com/dmitrijs2005/mydrive/internal/logging"
	"github.com/dmitrijs2005/mydrive/internal/netx"
)

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// HTTPClient talks to the MyDrive HTTP API. Every operation is a single
// request; there are no retries and no client-level timeout, so callers
// bound requests with ctx.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	log        logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		log:        logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// do sends one request. Transport failures wrap ErrNoResponse; non-2xx
// responses are consumed and returned as *ServerError. On success the
// caller owns resp.Body.
func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	reqID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, reqID)

	log := c.log.With("method", method, "path", path, "request_id", reqID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug(ctx, "request failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrNoResponse, err)
	}
	log.Debug(ctx, "request done", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, newServerError(resp.StatusCode, b)
	}
	return resp, nil
}

func (c *HTTPClient) encode(v any) (io.Reader, error) {
	if err := c.validate.Struct(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return bytes.NewReader(b), nil
}

func (c *HTTPClient) check(value any, tag, field string) error {
	if err := c.validate.Var(value, tag); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrValidation, field, err)
	}
	return nil
}

// call sends in (if any) as JSON and returns the raw response body.
func (c *HTTPClient) call(ctx context.Context, method, path string, in any) ([]byte, error) {
	var (
		body io.Reader
		ct   string
	)
	if in != nil {
		r, err := c.encode(in)
		if err != nil {
			return nil, err
		}
		body, ct = r, "application/json"
	}

	resp, err := c.do(ctx, method, path, body, ct)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %w", ErrNoResponse, method, path, err)
	}
	return b, nil
}

func (c *HTTPClient) callJSON(ctx context.Context, method, path string, in, out any) error {
	b, err := c.call(ctx, method, path, in)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) callText(ctx context.Context, method, path string, in any) (string, error) {
	b, err := c.call(ctx, method, path, in)
	if err != nil {
		return "", err
	}
	return readText(b), nil
}

// readText unquotes a JSON string body and returns anything else verbatim.
func readText(b []byte) string {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		var out string
		if err := json.Unmarshal(b, &out); err == nil {
			return out
		}
	}
	return s
}

// decodeList treats anything but a JSON array as an empty list.
func decodeList[T any](b []byte) ([]T, error) {
	s := bytes.TrimSpace(b)
	if len(s) == 0 || s[0] != '[' {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(s, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Login authenticates by username, or by email when identifier contains "@".
// The identity is returned as sent by the server; completeness is checked
// by the caller.
func (c *HTTPClient) Login(ctx context.Context, identifier, password string) (models.Identity, error) {
	req := loginRequest{Password: password}
	if strings.Contains(identifier, "@") {
		req.Email = &identifier
	} else {
		req.Username = &identifier
	}

	var id models.Identity
	if err := c.callJSON(ctx, http.MethodPost, "/api/users/login", req, &id); err != nil {
		return models.Identity{}, err
	}
	return id, nil
}

// Register returns the server's confirmation text.
func (c *HTTPClient) Register(ctx context.Context, username, email, password string) (string, error) {
	req := registerRequest{Username: username, Email: email, Password: password}
	return c.callText(ctx, http.MethodPost, "/api/users/add", req)
}

// ListFiles returns the listing behind section. Recent uses the full
// listing; deriving the tail is up to the caller.
func (c *HTTPClient) ListFiles(ctx context.Context, username string, section models.Section) ([]models.FileRecord, error) {
	if err := c.check(username, "required", "username"); err != nil {
		return nil, err
	}

	u := url.PathEscape(username)
	var path string
	switch section {
	case models.SectionFavourites:
		path = "/api/users/file/favourites/" + u
	case models.SectionShared:
		path = "/api/groups/shared-files/" + u
	default:
		path = "/api/file/viewall/" + u
	}

	b, err := c.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	files, err := decodeList[models.FileRecord](b)
	if err != nil {
		return nil, fmt.Errorf("failed to decode file list: %w", err)
	}
	return files, nil
}

// UploadFile streams r as the multipart field "file". Progress is measured
// on the bytes consumed from r.
func (c *HTTPClient) UploadFile(ctx context.Context, ownerID int64, name string, r io.Reader, size int64, onProgress netx.ProgressFunc) (models.FileRecord, error) {
	if err := c.check(ownerID, "gt=0", "owner id"); err != nil {
		return models.FileRecord{}, err
	}
	if err := c.check(name, "required", "file name"); err != nil {
		return models.FileRecord{}, err
	}

	base := filepath.Base(name)
	counter := netx.NewProgressCounter(size, onProgress)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", base)
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, netx.NewProgressReader(r, counter)); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(mw.Close())
	}()

	path := "/api/file/upload/" + strconv.FormatInt(ownerID, 10)
	resp, err := c.do(ctx, http.MethodPost, path, pr, mw.FormDataContentType())
	if err != nil {
		_ = pr.CloseWithError(err)
		return models.FileRecord{}, err
	}
	defer resp.Body.Close()

	counter.Done()

	// A plain text confirmation carries no record; only the name is known.
	rec := models.FileRecord{FileName: base}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.FileRecord{}, fmt.Errorf("failed to read upload response: %w", err)
	}
	if s := bytes.TrimSpace(b); len(s) > 0 && s[0] == '{' {
		if err := json.Unmarshal(s, &rec); err != nil {
			return models.FileRecord{}, fmt.Errorf("failed to decode upload response: %w", err)
		}
	}
	return rec, nil
}

// DownloadFile copies the file body into w and returns the bytes written.
// Without a Content-Length only the final 100% is reported.
func (c *HTTPClient) DownloadFile(ctx context.Context, id int64, w io.Writer, onProgress netx.ProgressFunc) (int64, error) {
	if err := c.check(id, "gt=0", "file id"); err != nil {
		return 0, err
	}

	resp, err := c.do(ctx, http.MethodGet, "/api/file/download/"+strconv.FormatInt(id, 10), nil, "")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	counter := netx.NewProgressCounter(resp.ContentLength, onProgress)
	n, err := io.Copy(netx.NewProgressWriter(w, counter), resp.Body)
	if err != nil {
		return n, fmt.Errorf("%w: download interrupted: %w", ErrNoResponse, err)
	}
	counter.Done()
	return n, nil
}

func (c *HTTPClient) DeleteFile(ctx context.Context, id int64) (string, error) {
	if err := c.check(id, "gt=0", "file id"); err != nil {
		return "", err
	}
	return c.callText(ctx, http.MethodDelete, "/api/file/delete/"+strconv.FormatInt(id, 10), nil)
}

func (c *HTTPClient) SetFavourite(ctx context.Context, id int64, value bool) (string, error) {
	if err := c.check(id, "gt=0", "file id"); err != nil {
		return "", err
	}
	path := fmt.Sprintf("/api/users/file/favourite/%d/%s", id, strconv.FormatBool(value))
	return c.callText(ctx, http.MethodPut, path, nil)
}

func (c *HTTPClient) ListGroups(ctx context.Context, username string) ([]models.Group, error) {
	if err := c.check(username, "required", "username"); err != nil {
		return nil, err
	}
	b, err := c.call(ctx, http.MethodGet, "/api/groups/user/"+url.PathEscape(username), nil)
	if err != nil {
		return nil, err
	}
	groups, err := decodeList[models.Group](b)
	if err != nil {
		return nil, fmt.Errorf("failed to decode group list: %w", err)
	}
	return groups, nil
}

func (c *HTTPClient) CreateGroup(ctx context.Context, name, password, creator string) (models.Group, error) {
	req := createGroupRequest{Name: name, Password: password, CreatorUsername: creator}
	var g models.Group
	if err := c.callJSON(ctx, http.MethodPost, "/api/groups/create", req, &g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

func (c *HTTPClient) JoinGroup(ctx context.Context, id int64, password, username string) (models.Group, error) {
	if err := c.check(id, "gt=0", "group id"); err != nil {
		return models.Group{}, err
	}
	req := joinGroupRequest{Password: password, Username: username}
	var g models.Group
	if err := c.callJSON(ctx, http.MethodPost, "/api/groups/join/"+strconv.FormatInt(id, 10), req, &g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// LeaveGroup returns the server's confirmation text.
func (c *HTTPClient) LeaveGroup(ctx context.Context, id int64, username string) (string, error) {
	if err := c.check(id, "gt=0", "group id"); err != nil {
		return "", err
	}
	req := usernameRequest{Username: username}
	return c.callText(ctx, http.MethodPost, "/api/groups/leave/"+strconv.FormatInt(id, 10), req)
}

func (c *HTTPClient) ListMessages(ctx context.Context, groupID int64) ([]models.Message, error) {
	if err := c.check(groupID, "gt=0", "group id"); err != nil {
		return nil, err
	}
	b, err := c.call(ctx, http.MethodGet, "/api/groups/messages/"+strconv.FormatInt(groupID, 10), nil)
	if err != nil {
		return nil, err
	}
	msgs, err := decodeList[models.Message](b)
	if err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return msgs, nil
}

func (c *HTTPClient) SendMessage(ctx context.Context, groupID int64, sender, content string, typ models.MessageType) (models.Message, error) {
	if err := c.check(groupID, "gt=0", "group id"); err != nil {
		return models.Message{}, err
	}
	req := messageRequest{SenderUsername: sender, Content: content, Type: string(typ)}
	var m models.Message
	if err := c.callJSON(ctx, http.MethodPost, "/api/groups/message/"+strconv.FormatInt(groupID, 10), req, &m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}
