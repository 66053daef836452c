package api

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"

	"github.com/palavraria/palavraria-t/pkg/models"
)

// Messages shown when the backend gives no usable text
const (
	MsgUnknownError = "Erro desconhecido"
	MsgServerDown   = "Não foi possível conectar ao servidor."

	MsgLoginFailed      = "Usuário ou senha inválidos."
	MsgRegisterFailed   = "Erro ao criar conta."
	MsgConnectionFailed = "Erro na conexão com o servidor."
)

const (
	requestIDHeader   = "X-Request-ID"
	maxErrorBodyBytes = 4096
)

// APIError is a non-2xx reply from the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// ConnectionError wraps transport failures (DNS, refused, timeout)
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return MsgServerDown
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Client is the HTTP client for the palavraria backend
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new API client
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// SetToken updates the authentication token
func (c *Client) SetToken(token string) {
	c.token = token
}

// request makes an HTTP request to the API
func (c *Client) request(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, reqID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend unreachable", "method", method, "path", path, "request_id", reqID, "error", err)
		return nil, &ConnectionError{Err: err}
	}
	c.logger.Debug("backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start),
	)
	return resp, nil
}

// parseResponse reads and unmarshals the response body
func parseResponse[T any](resp *http.Response) (T, error) {
	var result T
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, errors.Wrap(err, "read response")
	}

	if resp.StatusCode >= 400 {
		return result, newAPIError(resp.StatusCode, body)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return result, errors.Wrap(err, "decode response")
	}
	return result, nil
}

func newAPIError(status int, body []byte) *APIError {
	var errResp models.ErrorResponse
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		if msg := errResp.Text(); msg != "" {
			return &APIError{StatusCode: status, Message: msg}
		}
	}
	return &APIError{StatusCode: status, Message: MsgUnknownError}
}

// Authentication methods

// Login authenticates a user
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	resp, err := c.request(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email": email,
		"senha": password,
	})
	if err != nil {
		return nil, err
	}
	auth, err := parseResponse[*models.AuthResponse](resp)
	if err != nil {
		return nil, err
	}
	if auth == nil {
		auth = &models.AuthResponse{}
	}
	return auth, nil
}

// Register creates a new user account
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.AuthResponse, error) {
	resp, err := c.request(ctx, http.MethodPost, "/auth/register", map[string]string{
		"nome":  name,
		"email": email,
		"senha": password,
	})
	if err != nil {
		return nil, err
	}
	auth, err := parseResponse[*models.AuthResponse](resp)
	if err != nil {
		return nil, err
	}
	if auth == nil {
		auth = &models.AuthResponse{}
	}
	return auth, nil
}

// Book methods

// CreateBook stores a record in the user's library. The backend confirms by
// echoing the record; a reply without a title is treated as a failure.
func (c *Client) CreateBook(ctx context.Context, book models.BookRecord) (*models.BookRecord, error) {
	resp, err := c.request(ctx, http.MethodPost, "/livros", book)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, body)
	}

	var created models.BookRecord
	if err := json.Unmarshal(body, &created); err != nil || created.Title == "" {
		return nil, newAPIError(resp.StatusCode, body)
	}

	c.logger.Info("book added", "titulo", created.Title, "isbn", created.ISBN)
	return &created, nil
}

// ListBooks returns every record in the user's library
func (c *Client) ListBooks(ctx context.Context) ([]models.BookRecord, error) {
	resp, err := c.request(ctx, http.MethodGet, "/livros", nil)
	if err != nil {
		return nil, err
	}
	books, err := parseResponse[[]models.BookRecord](resp)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []models.BookRecord{}
	}
	return books, nil
}

// Health checks if the server is available
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.request(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return errors.Errorf("server unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// UserMessage turns any client error into the text shown to the user
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return MsgServerDown
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// AuthMessage is the text shown for a failed login or registration. The
// backend's own message wins; fallback covers replies without one.
func AuthMessage(err error, fallback string) string {
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return MsgConnectionFailed
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" && apiErr.Message != MsgUnknownError {
		return apiErr.Message
	}
	return fallback
}
