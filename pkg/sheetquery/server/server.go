// Package server exposes a sheetquery.Session over HTTP.
package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ukaji3/sheetquery-go/pkg/sheetquery"
	"github.com/ukaji3/sheetquery-go/pkg/sheetquery/models"
	"github.com/ukaji3/sheetquery-go/pkg/sheetquery/output"
)

const (
	// DefaultMaxUploadBytes caps the multipart upload body.
	DefaultMaxUploadBytes = 10 << 20 // 10MB
	// MaxLimit is the largest page size accepted by /get_table_details.
	MaxLimit = 1000
)

// Options configures the HTTP handler.
type Options struct {
	// MaxUploadBytes caps the upload body. Zero means DefaultMaxUploadBytes.
	MaxUploadBytes int64
	// Logger receives request logs. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns default server options.
func DefaultOptions() Options {
	return Options{MaxUploadBytes: DefaultMaxUploadBytes}
}

// Server routes upload and query requests to a session.
type Server struct {
	session *sheetquery.Session
	opts    Options
	logger  *slog.Logger
	mux     *http.ServeMux
}

// New creates a Server for session.
func New(session *sheetquery.Session, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		session: session,
		opts:    opts,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.HandleFunc("POST /upload", s.handleUpload)
	s.mux.HandleFunc("GET /list_tables", s.handleListTables)
	s.mux.HandleFunc("GET /get_table_details", s.handleTableDetails)
	s.mux.HandleFunc("GET /row_sum", s.handleRowSum)
	s.mux.HandleFunc("GET /column_sum", s.handleColumnSum)
	return s
}

// ServeHTTP implements http.Handler and logs each request.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.logger.Info("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start),
	)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the spreadsheet query API. Upload a workbook at /upload and then use the other endpoints.",
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("File too large (limit %d bytes)", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid upload: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Field 'file' is required")
		return
	}
	defer file.Close()

	format, err := sheetquery.FormatFromPath(header.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Only .xls and .xlsx files are supported.")
		return
	}

	path, err := saveTemp(file, filepath.Ext(header.Filename))
	if err != nil {
		s.logger.Error("saving upload failed", "file", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer os.Remove(path)

	tables, err := s.session.Load(path, format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Excel file uploaded successfully",
		"tables":  tables,
	})
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	tables := s.session.ListTables()
	if len(tables) == 0 {
		writeError(w, http.StatusNotFound, "No Excel file uploaded or no tables found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
}

func (s *Server) handleTableDetails(w http.ResponseWriter, r *http.Request) {
	table, ok := requireParam(w, r, "table_name")
	if !ok {
		return
	}
	limit, ok := intParam(w, r, "limit", sheetquery.DefaultLimit, 1, MaxLimit)
	if !ok {
		return
	}
	offset, ok := intParam(w, r, "offset", 0, 0, -1)
	if !ok {
		return
	}

	rows, err := s.session.TableDetails(table, limit, offset)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"table_name": table,
		"row_names":  rows,
	})
}

type rowSumResponse struct {
	TableName string `json:"table_name"`
	RowName   string `json:"row_name"`
	models.Aggregate
}

func (s *Server) handleRowSum(w http.ResponseWriter, r *http.Request) {
	table, ok := requireParam(w, r, "table_name")
	if !ok {
		return
	}
	row, ok := requireParam(w, r, "row_name")
	if !ok {
		return
	}

	agg, err := s.session.RowAggregate(table, row)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rowSumResponse{TableName: table, RowName: row, Aggregate: agg})
}

type columnSumResponse struct {
	TableName  string `json:"table_name"`
	ColumnName string `json:"column_name"`
	models.Aggregate
}

func (s *Server) handleColumnSum(w http.ResponseWriter, r *http.Request) {
	table, ok := requireParam(w, r, "table_name")
	if !ok {
		return
	}
	column, ok := requireParam(w, r, "column_name")
	if !ok {
		return
	}

	agg, err := s.session.ColumnAggregate(table, column)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, columnSumResponse{TableName: table, ColumnName: column, Aggregate: agg})
}

func saveTemp(src io.Reader, ext string) (string, error) {
	tmp, err := os.CreateTemp("", "sheetquery-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func requireParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	q := r.URL.Query()
	if !q.Has(name) {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Query parameter '%s' is required", name))
		return "", false
	}
	return q.Get(name), true
}

// intParam reads an optional integer parameter within [lo, hi]; a
// negative hi means unbounded.
func intParam(w http.ResponseWriter, r *http.Request, name string, def, lo, hi int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || (hi >= 0 && v > hi) {
		msg := fmt.Sprintf("Query parameter '%s' must be an integer >= %d", name, lo)
		if hi >= 0 {
			msg = fmt.Sprintf("Query parameter '%s' must be an integer between %d and %d", name, lo, hi)
		}
		writeError(w, http.StatusUnprocessableEntity, msg)
		return 0, false
	}
	return v, true
}

func writeQueryError(w http.ResponseWriter, err error) {
	var invalid *sheetquery.InvalidArgumentError
	switch {
	case errors.Is(err, sheetquery.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &invalid):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := output.Marshal(v, false)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
