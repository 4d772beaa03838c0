package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/KaramelBytes/listcutter-cli/internal/crosstab"
	"github.com/KaramelBytes/listcutter-cli/internal/dataset"
	"github.com/KaramelBytes/listcutter-cli/internal/filter"
	"github.com/KaramelBytes/listcutter-cli/internal/schema"
)

// Options configures the handlers.
type Options struct {
	DefaultTable   string
	FormatSQL      bool
	MaxUploadBytes int64
	Dataset        dataset.Options
}

type Handler struct {
	opts   Options
	logger *slog.Logger
}

func NewHandler(opts Options, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{opts: opts, logger: logger}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	api := e.Group("/api")
	api.POST("/columns", h.PostColumns)
	api.POST("/query", h.PostQuery)
	api.POST("/crosstab", h.PostCrosstab)
}

// --- REQUESTS ---

type QueryRequest struct {
	Filters   []filter.Descriptor `json:"filters"`
	Columns   schema.Columns      `json:"columns"`
	TableName string              `json:"tableName"`
	Format    *bool               `json:"format"`
}

type QueryResponse struct {
	Query   string              `json:"query"`
	Applied int                 `json:"applied"`
	Skipped []filter.Descriptor `json:"skipped"`
}

type CrosstabRequest struct {
	Records        []schema.Record `json:"records"`
	Columns        schema.Columns  `json:"columns"`
	RowVariable    string          `json:"rowVariable"`
	ColumnVariable string          `json:"columnVariable"`
}

type ColumnsResponse struct {
	Name     string         `json:"name"`
	Columns  schema.Columns `json:"columns"`
	Rows     int            `json:"rows"`
	Warnings []string       `json:"warnings"`
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// --- HANDLERS ---

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// PostColumns reads an uploaded CSV (multipart field "file") and returns
// its inferred columns.
func (h *Handler) PostColumns(c echo.Context) error {
	req := c.Request()
	if h.opts.MaxUploadBytes > 0 {
		req.Body = http.MaxBytesReader(c.Response(), req.Body, h.opts.MaxUploadBytes)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return c.JSON(http.StatusRequestEntityTooLarge, errorBody{Error: fmt.Sprintf("file exceeds %d bytes", h.opts.MaxUploadBytes)})
		}
		return c.JSON(http.StatusBadRequest, errorBody{Error: "multipart field \"file\" is required"})
	}
	if h.opts.MaxUploadBytes > 0 && fh.Size > h.opts.MaxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, errorBody{Error: fmt.Sprintf("file exceeds %d bytes", h.opts.MaxUploadBytes)})
	}
	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".csv", ".tsv", ".txt":
	default:
		return c.JSON(http.StatusBadRequest, errorBody{Error: "only CSV or TSV files are supported"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	}
	defer f.Close()

	ds, err := dataset.Read(f, fh.Filename, h.opts.Dataset)
	if err != nil {
		h.logger.Warn("columns: unreadable upload", "file", fh.Filename, "err", err)
		return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	}
	h.logger.Debug("columns: loaded upload", "file", fh.Filename, "columns", len(ds.Columns), "rows", ds.Rows)
	warnings := ds.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return c.JSON(http.StatusOK, ColumnsResponse{Name: ds.Name, Columns: ds.Columns, Rows: ds.Rows, Warnings: warnings})
}

// PostQuery compiles filters into query text. It always answers with text;
// an internal failure yields the fallback query.
func (h *Handler) PostQuery(c echo.Context) error {
	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
	}
	cols, err := normalizeColumns(req.Columns)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	}
	opt := filter.Options{TableName: h.opts.DefaultTable, Format: h.opts.FormatSQL}
	if req.TableName != "" {
		opt.TableName = req.TableName
	}
	if req.Format != nil {
		opt.Format = *req.Format
	}
	q, err := filter.CompileSafe(req.Filters, cols, opt)
	if err != nil {
		h.logger.Error("query: compile failed", "err", err, "filters", len(req.Filters))
	}
	kept, skipped := filter.Usable(req.Filters, cols)
	if skipped == nil {
		skipped = []filter.Descriptor{}
	}
	return c.JSON(http.StatusOK, QueryResponse{Query: q, Applied: len(kept), Skipped: skipped})
}

// PostCrosstab cross-tabulates the posted records. The format query
// parameter selects json (default), markdown or csv; view applies to csv.
func (h *Handler) PostCrosstab(c echo.Context) error {
	var req CrosstabRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
	}
	cols, err := normalizeColumns(req.Columns)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	}
	res, err := crosstab.Build(req.Records, cols, req.RowVariable, req.ColumnVariable)
	if err != nil {
		var ve *crosstab.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, errorBody{Error: ve.Error(), Kind: string(ve.Kind)})
		}
		return err
	}

	switch strings.ToLower(c.QueryParam("format")) {
	case "", "json":
		return c.JSON(http.StatusOK, res)
	case "markdown", "md":
		return c.String(http.StatusOK, res.Markdown())
	case "csv":
		v, err := crosstab.ParseView(c.QueryParam("view"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
		}
		c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
		c.Response().WriteHeader(http.StatusOK)
		return crosstab.WriteCSV(c.Response(), res, v)
	}
	return c.JSON(http.StatusBadRequest, errorBody{Error: "unknown format (use json|markdown|csv)"})
}

// normalizeColumns accepts loose type names ("number", "int") from clients.
func normalizeColumns(in schema.Columns) (schema.Columns, error) {
	out := make(schema.Columns, len(in))
	for i, col := range in {
		t, err := schema.ParseDataType(string(col.Type))
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
		out[i] = schema.Column{Name: col.Name, Type: t}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
