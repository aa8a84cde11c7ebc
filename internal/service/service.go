// Package service exposes the resolution engine over HTTP for the
// installation workflow and the dashboard.
//
// The facade is deliberately thin: every handler validates its inputs,
// delegates to [resolve.Engine], and writes JSON. All domain decisions live
// in pkg/resolve; nothing here inspects graph structure.
//
// # Routes
//
//	GET    /healthz
//	GET    /modules/{id}/resolve?target=   full resolution result
//	GET    /modules/{id}/validate?target=  yes/no plus blocking reasons
//	GET    /modules/{id}/tree?depth=       nested dependency tree
//	GET    /modules/{id}/tree.svg?depth=   rendered tree
//	POST   /install-order                  {"module_ids": [...]}
//	PUT    /dependencies                   dependency edge (guarded upsert)
//	DELETE /dependencies/{from}/{to}
package service

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	apperrors "github.com/dramac-main/dramac-cms-sub010/pkg/errors"
	"github.com/dramac-main/dramac-cms-sub010/pkg/registry"
	"github.com/dramac-main/dramac-cms-sub010/pkg/render"
	"github.com/dramac-main/dramac-cms-sub010/pkg/resolve"
)

// Server is the HTTP facade over a resolution engine.
type Server struct {
	engine *resolve.Engine
	logger *log.Logger
}

// New creates a Server. A nil logger falls back to log.Default().
func New(engine *resolve.Engine, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{engine: engine, logger: logger}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/modules/{id}/resolve", s.handleResolve)
	r.Get("/modules/{id}/validate", s.handleValidate)
	r.Get("/modules/{id}/tree", s.handleTree)
	r.Get("/modules/{id}/tree.svg", s.handleTreeSVG)
	r.Post("/install-order", s.handleInstallOrder)
	r.Put("/dependencies", s.handleUpsertDependency)
	r.Delete("/dependencies/{from}/{to}", s.handleDeleteDependency)
	return r
}

// ListenAndServe serves the router on addr until the server fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("resolver service listening", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// requestLogger tags each request with an ID and logs method, path, and
// duration at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"id", reqID, "method", r.Method, "path", r.URL.Path,
			"took", time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	moduleID := chi.URLParam(r, "id")
	targetID := r.URL.Query().Get("target")
	if err := validateIDs(moduleID, targetID); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res := s.engine.Resolve(r.Context(), moduleID, targetID)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	moduleID := chi.URLParam(r, "id")
	targetID := r.URL.Query().Get("target")
	if err := validateIDs(moduleID, targetID); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	valid, reasons := s.engine.ValidateInstall(r.Context(), moduleID, targetID)
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":  valid,
		"errors": reasons,
	})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.tree(r)
	if err != nil {
		s.writeTreeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleTreeSVG(w http.ResponseWriter, r *http.Request) {
	tree, err := s.tree(r)
	if err != nil {
		s.writeTreeError(w, err)
		return
	}
	svg, err := render.RenderSVG(render.ToDOT(tree, render.Options{Detailed: true}))
	if err != nil {
		writeError(w, http.StatusInternalServerError,
			apperrors.Wrap(apperrors.ErrCodeInternal, err, "render tree"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) tree(r *http.Request) (resolve.TreeNode, error) {
	moduleID := chi.URLParam(r, "id")
	if err := apperrors.ValidateID("module", moduleID); err != nil {
		return resolve.TreeNode{}, err
	}
	depth := 0
	if raw := r.URL.Query().Get("depth"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			return resolve.TreeNode{}, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid depth %q", raw)
		}
		depth = d
	}
	return s.engine.Tree(r.Context(), moduleID, depth)
}

func (s *Server) writeTreeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrModuleNotFound):
		writeError(w, http.StatusNotFound,
			apperrors.Wrap(apperrors.ErrCodeModuleNotFound, err, "module not found"))
	case apperrors.GetCode(err) != "":
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError,
			apperrors.Wrap(apperrors.ErrCodeInternal, err, "build dependency tree"))
	}
}

func (s *Server) handleInstallOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ModuleIDs []string `json:"module_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest,
			apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if len(req.ModuleIDs) == 0 {
		writeError(w, http.StatusBadRequest,
			apperrors.New(apperrors.ErrCodeInvalidInput, "module_ids cannot be empty"))
		return
	}
	for _, id := range req.ModuleIDs {
		if err := apperrors.ValidateID("module", id); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	order, err := s.engine.MultiInstallOrder(r.Context(), req.ModuleIDs)
	if err != nil {
		if errors.Is(err, registry.ErrEdgeCycle) {
			writeError(w, http.StatusConflict,
				apperrors.Wrap(apperrors.ErrCodeDependencyCycle, err, "dependency cycle"))
			return
		}
		writeError(w, http.StatusInternalServerError,
			apperrors.Wrap(apperrors.ErrCodeInternal, err, "compute install order"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"install_order": order})
}

func (s *Server) handleUpsertDependency(w http.ResponseWriter, r *http.Request) {
	var dep registry.Dependency
	if err := json.NewDecoder(r.Body).Decode(&dep); err != nil {
		writeError(w, http.StatusBadRequest,
			apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if err := validateIDs(dep.FromID, ""); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := apperrors.ValidateID("module", dep.ToID); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	err := s.engine.AddDependency(r.Context(), dep)
	switch {
	case errors.Is(err, registry.ErrSelfDependency):
		writeError(w, http.StatusUnprocessableEntity,
			apperrors.Wrap(apperrors.ErrCodeSelfDependency, err, "self dependency rejected"))
	case errors.Is(err, registry.ErrEdgeCycle):
		writeError(w, http.StatusConflict,
			apperrors.Wrap(apperrors.ErrCodeDependencyCycle, err, "dependency cycle rejected"))
	case err != nil:
		writeError(w, http.StatusInternalServerError,
			apperrors.Wrap(apperrors.ErrCodeStore, err, "persist dependency"))
	default:
		writeJSON(w, http.StatusOK, dep)
	}
}

func (s *Server) handleDeleteDependency(w http.ResponseWriter, r *http.Request) {
	fromID := chi.URLParam(r, "from")
	toID := chi.URLParam(r, "to")
	if err := apperrors.ValidateID("module", fromID); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := apperrors.ValidateID("module", toID); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.engine.RemoveDependency(r.Context(), fromID, toID); err != nil {
		writeError(w, http.StatusInternalServerError,
			apperrors.Wrap(apperrors.ErrCodeStore, err, "delete dependency"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateIDs(moduleID, targetID string) error {
	if err := apperrors.ValidateID("module", moduleID); err != nil {
		return err
	}
	if targetID != "" {
		return apperrors.ValidateID("target", targetID)
	}
	return nil
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	writeJSON(w, status, map[string]errorBody{
		"error": {Code: code, Message: apperrors.UserMessage(err)},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
