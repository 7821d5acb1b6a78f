package service

import (
	"access-service/internal/policy"
	"access-service/internal/repository/model"
	"encoding/json"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"net/http"
)

// ActorHeader carries the authenticated member id set by the session layer.
const ActorHeader = "X-Actor-Id"

type evaluateRequest struct {
	Kind       policy.Kind      `json:"kind"`
	ResourceId string           `json:"resourceId"`
	Operation  policy.Operation `json:"operation"`
}

type evaluateResponse struct {
	Allowed bool          `json:"allowed"`
	Reason  policy.Reason `json:"reason"`
}

type updatePermissionsRequest struct {
	Set   []string `json:"set"`
	Unset []string `json:"unset"`
}

type updateCommissionRequest struct {
	Commission map[string]float64 `json:"commission"`
}

type schemesResponse struct {
	Schemes []*model.Scheme `json:"schemes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type httpHandler struct {
	logger *zap.SugaredLogger
	svc    *AccessService
}

func NewRouter(logger *zap.SugaredLogger, svc *AccessService) http.Handler {
	h := &httpHandler{logger: logger, svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/access/evaluate", h.evaluate)
		r.Get("/access/{kind}/{id}/affordances", h.affordances)
		r.Get("/schemes/accessible", h.accessibleSchemes)
		r.Put("/members/{id}/permissions", h.updateMemberPermissions)
		r.Put("/schemes/{id}/commission", h.updateSchemeCommission)
	})

	return r
}

func (h *httpHandler) evaluate(w http.ResponseWriter, r *http.Request) {
	actorId, ok := h.actorId(w, r)
	if !ok {
		return
	}

	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	resourceId, err := uuid.Parse(req.ResourceId)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid resource id"})
		return
	}

	decision, err := h.svc.Evaluate(r.Context(), actorId, req.Kind, resourceId, req.Operation)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, evaluateResponse{Allowed: decision.Allowed, Reason: decision.Reason})
}

func (h *httpHandler) affordances(w http.ResponseWriter, r *http.Request) {
	actorId, ok := h.actorId(w, r)
	if !ok {
		return
	}
	resourceId, ok := h.pathId(w, r)
	if !ok {
		return
	}

	affordances, err := h.svc.Affordances(r.Context(), actorId, policy.Kind(chi.URLParam(r, "kind")), resourceId)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, affordances)
}

func (h *httpHandler) accessibleSchemes(w http.ResponseWriter, r *http.Request) {
	actorId, ok := h.actorId(w, r)
	if !ok {
		return
	}

	schemes, err := h.svc.AccessibleSchemes(r.Context(), actorId)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, schemesResponse{Schemes: schemes})
}

func (h *httpHandler) updateMemberPermissions(w http.ResponseWriter, r *http.Request) {
	actorId, ok := h.actorId(w, r)
	if !ok {
		return
	}
	memberId, ok := h.pathId(w, r)
	if !ok {
		return
	}

	var req updatePermissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	member, err := h.svc.UpdateMemberPermissions(r.Context(), actorId, memberId, req.Set, req.Unset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, member)
}

func (h *httpHandler) updateSchemeCommission(w http.ResponseWriter, r *http.Request) {
	actorId, ok := h.actorId(w, r)
	if !ok {
		return
	}
	schemeId, ok := h.pathId(w, r)
	if !ok {
		return
	}

	var req updateCommissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Commission == nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	scheme, err := h.svc.UpdateSchemeCommission(r.Context(), actorId, schemeId, req.Commission)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, scheme)
}

func (h *httpHandler) actorId(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.Header.Get(ActorHeader))
	if err != nil {
		h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or invalid actor"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *httpHandler) pathId(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// writeError keeps "not permitted" and "could not determine" apart: integrity
// errors are a server fault, never a 403.
func (h *httpHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, ErrForbidden):
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, ErrMemberNotFound), errors.Is(err, ErrSchemeNotFound):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case IsIntegrityError(err):
		h.logger.Errorw("access could not be determined", "path", r.URL.Path,
			"requestId", middleware.GetReqID(r.Context()), "error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "access could not be determined"})
	default:
		h.logger.Errorw("request failed", "path", r.URL.Path,
			"requestId", middleware.GetReqID(r.Context()), "error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (h *httpHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Errorw("failed to write response", "error", err)
	}
}
