package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/munim-lab/munim/pkg/domain/interfaces"
	"github.com/munim-lab/munim/pkg/domain/model"
	"github.com/munim-lab/munim/pkg/domain/types"
	"github.com/munim-lab/munim/pkg/service/auth"
	"github.com/munim-lab/munim/pkg/utils/errutil"
)

type contextKey string

const adminIDKey contextKey = "admin_id"

func withAdminID(ctx context.Context, adminID string) context.Context {
	return context.WithValue(ctx, adminIDKey, adminID)
}

func adminIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(adminIDKey).(string); ok {
		return v
	}
	return ""
}

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

type approvalResponse struct {
	ID            string     `json:"id"`
	RequestID     string     `json:"request_id"`
	ActorID       string     `json:"actor_id"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	Reasons       []string   `json:"reasons"`
	ResolvedBy    string     `json:"resolved_by,omitempty"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	ExecutedAt    *time.Time `json:"executed_at,omitempty"`
	FailureDetail string     `json:"failure_detail,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toApprovalResponse(rec *model.ApprovalRecord) approvalResponse {
	return approvalResponse{
		ID:            rec.ID.String(),
		RequestID:     rec.RequestID.String(),
		ActorID:       rec.ActorID.String(),
		Status:        rec.Status.String(),
		Priority:      rec.Priority.String(),
		Reasons:       rec.Reasons,
		ResolvedBy:    rec.ResolvedBy,
		ResolvedAt:    rec.ResolvedAt,
		ExecutedAt:    rec.ExecutedAt,
		FailureDetail: rec.FailureDetail,
		CreatedAt:     rec.CreatedAt,
	}
}

type auditResponse struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	ActorID   string         `json:"actor_id"`
	Event     string         `json:"event"`
	Detail    map[string]any `json:"detail,omitempty"`
}

func toAuditResponse(entry *model.AuditEntry) auditResponse {
	return auditResponse{
		ID:        entry.ID.String(),
		Timestamp: entry.Timestamp,
		ActorID:   entry.ActorID.String(),
		Event:     entry.Event.String(),
		Detail:    entry.Detail,
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}

func pageParams(r *http.Request) (limit, offset int) {
	limit = defaultPageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = min(n, maxPageLimit)
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

func (s *Server) listApprovalsHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	records, err := s.uc.ListPendingApprovals(r.Context(), limit, offset)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	resp := struct {
		Approvals []approvalResponse `json:"approvals"`
	}{Approvals: make([]approvalResponse, len(records))}
	for i, rec := range records {
		resp.Approvals[i] = toApprovalResponse(rec)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) countApprovalsHandler(w http.ResponseWriter, r *http.Request) {
	count, err := s.uc.CountPendingApprovals(r.Context())
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, struct {
		Count int `json:"count"`
	}{Count: count})
}

func (s *Server) getApprovalHandler(w http.ResponseWriter, r *http.Request) {
	id := types.ApprovalID(chi.URLParam(r, "id"))

	rec, err := s.uc.GetApproval(r.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusNotFound)
			return
		}
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, toApprovalResponse(rec))
}

func (s *Server) decisionHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := types.ApprovalID(chi.URLParam(r, "id"))

	var body struct {
		Decision   string `json:"decision"`
		ResolvedBy string `json:"resolved_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode decision body"), http.StatusBadRequest)
		return
	}

	decision, err := types.ParseDecision(body.Decision)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
		return
	}

	resolvedBy := body.ResolvedBy
	if resolvedBy == "" {
		resolvedBy = adminIDFrom(ctx)
	}
	if resolvedBy == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("resolved_by is required"), http.StatusBadRequest)
		return
	}

	rec, err := s.uc.Resolve(ctx, id, decision, resolvedBy)
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrNotFound):
			errutil.HandleHTTP(ctx, w, err, http.StatusNotFound)
		case errors.Is(err, interfaces.ErrAlreadyResolved):
			errutil.HandleHTTP(ctx, w, err, http.StatusConflict)
		default:
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, r, http.StatusOK, toApprovalResponse(rec))
}

func (s *Server) listAuditHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	entries, err := s.uc.ListAudit(r.Context(), limit, offset)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	resp := struct {
		Entries []auditResponse `json:"entries"`
	}{Entries: make([]auditResponse, len(entries))}
	for i, entry := range entries {
		resp.Entries[i] = toAuditResponse(entry)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) listAuditByActorHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := pageParams(r)
	actorID := types.ActorID(chi.URLParam(r, "actorID"))

	entries, err := s.uc.ListAuditByActor(r.Context(), actorID, limit)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return
	}

	resp := struct {
		Entries []auditResponse `json:"entries"`
	}{Entries: make([]auditResponse, len(entries))}
	for i, entry := range entries {
		resp.Entries[i] = toAuditResponse(entry)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// authLoginHandler exchanges the shared API key for a signed admin token
func authLoginHandler(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			AdminID string `json:"admin_id"`
			APIKey  string `json:"api_key"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to decode login body"), http.StatusBadRequest)
			return
		}

		token, err := svc.Login(body.AdminID, body.APIKey)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		writeJSON(w, r, http.StatusOK, struct {
			Token string `json:"token"`
		}{Token: token})
	}
}
