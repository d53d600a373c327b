package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"taskly/internal/models"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	httpTimeoutEnvKey  = "TASKLY_HTTP_TIMEOUT"
)

// Client is a small HTTP client for the taskly API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeoutFromEnv()},
	}
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var resp HealthResponse
	err := c.do(ctx, http.MethodGet, "/health", nil, nil, &resp)
	return resp, err
}

func (c *Client) CreateTask(ctx context.Context, req TaskCreateRequest) (TaskResponse, error) {
	var resp TaskResponse
	err := c.do(ctx, http.MethodPost, "/tasks", nil, req, &resp)
	return resp, err
}

func (c *Client) GetTask(ctx context.Context, id int64) (TaskResponse, error) {
	var resp TaskResponse
	err := c.do(ctx, http.MethodGet, "/tasks/"+idPath(id), nil, nil, &resp)
	return resp, err
}

func (c *Client) UpdateTask(ctx context.Context, req TaskUpdateRequest) (TaskResponse, error) {
	var resp TaskResponse
	err := c.do(ctx, http.MethodPut, "/tasks", nil, req, &resp)
	return resp, err
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/tasks", idQuery(id), nil, &SuccessResponse{})
}

// ListTasks passes query through to GET /tasks (view, showCompleted and filters).
func (c *Client) ListTasks(ctx context.Context, query url.Values) ([]TaskResponse, error) {
	var resp []TaskResponse
	err := c.do(ctx, http.MethodGet, "/tasks", query, nil, &resp)
	return resp, err
}

func (c *Client) SearchTasks(ctx context.Context, q string) ([]TaskResponse, error) {
	var resp []TaskResponse
	err := c.do(ctx, http.MethodGet, "/tasks/search", url.Values{"q": {q}}, nil, &resp)
	return resp, err
}

func (c *Client) OverdueTasks(ctx context.Context) ([]TaskResponse, error) {
	var resp []TaskResponse
	err := c.do(ctx, http.MethodGet, "/tasks/overdue", nil, nil, &resp)
	return resp, err
}

func (c *Client) TaskDeletions(ctx context.Context, limit int) ([]models.TaskDeletion, error) {
	var resp []models.TaskDeletion
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	err := c.do(ctx, http.MethodGet, "/tasks/deletions", query, nil, &resp)
	return resp, err
}

func (c *Client) ListLists(ctx context.Context) ([]ListResponse, error) {
	var resp []ListResponse
	err := c.do(ctx, http.MethodGet, "/lists", nil, nil, &resp)
	return resp, err
}

func (c *Client) GetList(ctx context.Context, id int64) (ListResponse, error) {
	var resp ListResponse
	err := c.do(ctx, http.MethodGet, "/lists/"+idPath(id), nil, nil, &resp)
	return resp, err
}

func (c *Client) CreateList(ctx context.Context, req ListCreateRequest) (ListResponse, error) {
	var resp ListResponse
	err := c.do(ctx, http.MethodPost, "/lists", nil, req, &resp)
	return resp, err
}

func (c *Client) UpdateList(ctx context.Context, req ListUpdateRequest) (ListResponse, error) {
	var resp ListResponse
	err := c.do(ctx, http.MethodPut, "/lists", nil, req, &resp)
	return resp, err
}

func (c *Client) DeleteList(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/lists", idQuery(id), nil, &SuccessResponse{})
}

func (c *Client) ListLabels(ctx context.Context) ([]LabelResponse, error) {
	var resp []LabelResponse
	err := c.do(ctx, http.MethodGet, "/labels", nil, nil, &resp)
	return resp, err
}

func (c *Client) GetLabel(ctx context.Context, id int64) (LabelResponse, error) {
	var resp LabelResponse
	err := c.do(ctx, http.MethodGet, "/labels/"+idPath(id), nil, nil, &resp)
	return resp, err
}

func (c *Client) GetLabelByName(ctx context.Context, name string) (LabelResponse, error) {
	var resp LabelResponse
	err := c.do(ctx, http.MethodGet, "/labels", url.Values{"name": {name}}, nil, &resp)
	return resp, err
}

func (c *Client) CreateLabel(ctx context.Context, req LabelCreateRequest) (LabelResponse, error) {
	var resp LabelResponse
	err := c.do(ctx, http.MethodPost, "/labels", nil, req, &resp)
	return resp, err
}

func (c *Client) UpdateLabel(ctx context.Context, req LabelUpdateRequest) (LabelResponse, error) {
	var resp LabelResponse
	err := c.do(ctx, http.MethodPut, "/labels", nil, req, &resp)
	return resp, err
}

func (c *Client) DeleteLabel(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/labels", idQuery(id), nil, &SuccessResponse{})
}

func (c *Client) AddReminder(ctx context.Context, taskID int64, req ReminderCreateRequest) (models.Reminder, error) {
	var resp models.Reminder
	err := c.do(ctx, http.MethodPost, "/tasks/"+idPath(taskID)+"/reminders", nil, req, &resp)
	return resp, err
}

func (c *Client) DeleteReminder(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/reminders/"+idPath(id), nil, nil, &SuccessResponse{})
}

func (c *Client) MarkReminderSent(ctx context.Context, id int64) (models.Reminder, error) {
	var resp models.Reminder
	err := c.do(ctx, http.MethodPost, "/reminders/"+idPath(id)+"/sent", nil, nil, &resp)
	return resp, err
}

func (c *Client) DueReminders(ctx context.Context) ([]models.Reminder, error) {
	var resp []models.Reminder
	err := c.do(ctx, http.MethodGet, "/reminders/due", nil, nil, &resp)
	return resp, err
}

// UploadAttachment streams r as a multipart "file" part.
func (c *Client) UploadAttachment(ctx context.Context, taskID int64, filename string, r io.Reader) (models.Attachment, error) {
	var resp models.Attachment

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tasks/"+idPath(taskID)+"/attachments", pr)
	if err != nil {
		_ = pr.Close()
		return resp, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	httpResp, err := c.http.Do(req)
	if err != nil {
		return resp, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode >= 400 {
		return resp, decodeError(httpResp)
	}
	err = json.NewDecoder(httpResp.Body).Decode(&resp)
	return resp, err
}

// DownloadAttachment copies attachment bytes to w.
func (c *Client) DownloadAttachment(ctx context.Context, id int64, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/attachments/"+idPath(id)+"/content", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func (c *Client) DeleteAttachment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/attachments/"+idPath(id), nil, nil, &SuccessResponse{})
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		apiErr.Code = errResp.Code
		apiErr.ErrorCode = errResp.ErrorCode
		apiErr.Message = errResp.Error
		return apiErr
	}
	apiErr.Message = fmt.Sprintf("api error: %s", resp.Status)
	return apiErr
}

func idPath(id int64) string {
	return strconv.FormatInt(id, 10)
}

func idQuery(id int64) url.Values {
	return url.Values{"id": {idPath(id)}}
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
