// Package api serves the persisted catalog over a read-only HTTP API.
//
// Routes:
//
//	GET /healthz            liveness probe
//	GET /packages           all packages, optional ?q= name substring filter
//	GET /packages/{name}    one package by name
//
// Rows are read from the relational table and expanded back into the
// structured [catalog.Package] shape, so responses match index_tmp.json.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/portindex/pkg/catalog"
	"github.com/matzehuels/portindex/pkg/errors"
)

// Reader loads flattened rows. *store.SQLite implements it.
type Reader interface {
	Packages(ctx context.Context) ([]catalog.FlatPackage, error)
	Package(ctx context.Context, name string) (catalog.FlatPackage, error)
}

// ListResponse is the body of GET /packages.
type ListResponse struct {
	Packages []catalog.Package `json:"packages"`
	Total    int               `json:"total"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

type routes struct {
	reader Reader
	logger *log.Logger
}

// NewRouter returns the API handler. If logger is nil, log.Default() is used.
func NewRouter(reader Reader, logger *log.Logger) *chi.Mux {
	if logger == nil {
		logger = log.Default()
	}
	rr := &routes{reader: reader, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(rr.logRequests)

	r.Get("/healthz", rr.health)
	r.Route("/packages", func(r chi.Router) {
		r.Get("/", rr.listPackages)
		r.Get("/{name}", rr.getPackage)
	})
	return r
}

func (rr *routes) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		rr.logger.Debug("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (rr *routes) health(w http.ResponseWriter, _ *http.Request) {
	rr.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rr *routes) listPackages(w http.ResponseWriter, r *http.Request) {
	rows, err := rr.reader.Packages(r.Context())
	if err != nil {
		rr.logger.Error("list packages", "err", err)
		rr.writeError(w, "failed to list packages", http.StatusInternalServerError)
		return
	}

	q := strings.ToLower(r.URL.Query().Get("q"))
	resp := ListResponse{Packages: make([]catalog.Package, 0, len(rows))}
	for _, row := range rows {
		if q != "" && !strings.Contains(strings.ToLower(row.Name), q) {
			continue
		}
		p, err := catalog.Expand(row)
		if err != nil {
			rr.logger.Error("expand package", "name", row.Name, "err", err)
			rr.writeError(w, "corrupt package row", http.StatusInternalServerError)
			return
		}
		resp.Packages = append(resp.Packages, p)
	}
	resp.Total = len(resp.Packages)
	rr.writeJSON(w, http.StatusOK, resp)
}

func (rr *routes) getPackage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidatePackageName(name); err != nil {
		rr.writeError(w, errors.UserMessage(err), http.StatusBadRequest)
		return
	}

	row, err := rr.reader.Package(r.Context(), name)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			rr.writeError(w, "package not found", http.StatusNotFound)
			return
		}
		rr.logger.Error("get package", "name", name, "err", err)
		rr.writeError(w, "failed to get package", http.StatusInternalServerError)
		return
	}

	p, err := catalog.Expand(row)
	if err != nil {
		rr.logger.Error("expand package", "name", name, "err", err)
		rr.writeError(w, "corrupt package row", http.StatusInternalServerError)
		return
	}
	rr.writeJSON(w, http.StatusOK, p)
}

func (rr *routes) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		rr.logger.Error("encode response", "err", err)
	}
}

func (rr *routes) writeError(w http.ResponseWriter, message string, status int) {
	rr.writeJSON(w, status, ErrorResponse{Error: message})
}
