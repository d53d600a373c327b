package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"taskly/internal/blobstore"
	"taskly/internal/store"
)

const (
	allowRemoteEnvKey      = "TASKLY_ALLOW_REMOTE"
	readHeaderTimeout      = 5 * time.Second
	readTimeout            = 30 * time.Second
	writeTimeout           = 60 * time.Second
	idleTimeout            = 60 * time.Second
	shutdownTimeout        = 10 * time.Second
	searchConcurrencyLimit = 4
	uploadConcurrencyLimit = 2

	defaultAttachmentMaxUpload int64 = 25 << 20
	defaultMultipartMaxMemory  int64 = 8 << 20
)

// Options tunes a Server. Zero values fall back to defaults.
type Options struct {
	// Location defines calendar days for views and overdue checks.
	Location           *time.Location
	Now                func() time.Time
	MaxUploadBytes     int64
	MultipartMaxMemory int64
}

// Server wraps HTTP handlers for the taskly API.
type Server struct {
	addr               string
	store              store.ServiceStore
	service            *TaskService
	lists              *ListService
	labels             *LabelService
	attachmentService  *AttachmentService
	logger             *slog.Logger
	maxUploadBytes     int64
	multipartMaxMemory int64
	searchLimiter      chan struct{}
	uploadLimiter      chan struct{}
}

// New creates a new server instance.
func New(addr string, st store.ServiceStore, blobs blobstore.Store, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultAttachmentMaxUpload
	}
	if opts.MultipartMaxMemory <= 0 {
		opts.MultipartMaxMemory = defaultMultipartMaxMemory
	}

	return &Server{
		addr:               addr,
		store:              st,
		service:            NewTaskService(st, blobs, logger, opts.Location, opts.Now),
		lists:              NewListService(st, opts.Now),
		labels:             NewLabelService(st, opts.Now),
		attachmentService:  NewAttachmentService(st, st, blobs, logger, opts.Now),
		logger:             logger,
		maxUploadBytes:     opts.MaxUploadBytes,
		multipartMaxMemory: opts.MultipartMaxMemory,
		searchLimiter:      make(chan struct{}, searchConcurrencyLimit),
		uploadLimiter:      make(chan struct{}, uploadConcurrencyLimit),
	}
}

// Handler returns the routed handler wrapped in request id and logging middleware.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.withRequestLogging(s.routes()))
}

// ListenAndServe starts the HTTP server and shuts it down gracefully when ctx ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) acquireLimiter(limiter chan struct{}, w http.ResponseWriter, r *http.Request, name string) bool {
	if limiter == nil {
		return true
	}
	select {
	case limiter <- struct{}{}:
		return true
	default:
		err := apiError{
			status:  http.StatusTooManyRequests,
			code:    "resource_exhausted",
			errCode: ErrCodeResourceExhausted,
			err:     fmt.Errorf("too many concurrent %s requests", name),
		}
		s.writeErrorReq(w, r, http.StatusTooManyRequests, err)
		return false
	}
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

func (s *Server) releaseLimiter(limiter chan struct{}) {
	if limiter == nil {
		return
	}
	select {
	case <-limiter:
	default:
	}
}
