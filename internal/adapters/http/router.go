package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
	"github.com/kirillkom/tour-inquiry-service/internal/core/ports"
	"github.com/kirillkom/tour-inquiry-service/internal/observability/metrics"
)

type Router struct {
	submitter ports.InquirySubmitter
	triager   ports.InquiryTriager
	reader    ports.InquiryReader
	admin     ports.InquiryAdmin
	responses ports.ResponseRepository
	templates ports.TemplateRepository
	metrics   *metrics.HTTPServerMetrics
	service   string
	limiter   *pathLimiter
}

type RouterOptions struct {
	Metrics      *metrics.HTTPServerMetrics
	Service      string
	RateLimitRPS float64
	RateBurst    int
}

func NewRouter(
	submitter ports.InquirySubmitter,
	triager ports.InquiryTriager,
	reader ports.InquiryReader,
	admin ports.InquiryAdmin,
	responses ports.ResponseRepository,
	templates ports.TemplateRepository,
	options RouterOptions,
) *Router {
	rt := &Router{
		submitter: submitter,
		triager:   triager,
		reader:    reader,
		admin:     admin,
		responses: responses,
		templates: templates,
		metrics:   options.Metrics,
		service:   options.Service,
	}
	if options.RateLimitRPS > 0 {
		rt.limiter = newPathLimiter(options.RateLimitRPS, options.RateBurst)
	}
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/inquiries", rt.submitInquiry)
	mux.HandleFunc("/v1/inquiries/", rt.inquirySubresource)
	mux.HandleFunc("/v1/templates", rt.templateCollection)
	mux.HandleFunc("/v1/templates/", rt.templateItem)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.limiter != nil {
		handler = rt.rateLimitMiddleware(handler)
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) submitInquiry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		UserID  string `json:"user_id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	inq, err := rt.submitter.Submit(r.Context(), domain.Submission{
		UserID:  req.UserID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordSubmission(rt.service)
	}
	writeJSON(w, http.StatusAccepted, inq)
}

// inquirySubresource dispatches /v1/inquiries/{id} and its nested actions.
func (rt *Router) inquirySubresource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/inquiries/")
	if rest == "pending" {
		rt.listPending(w, r)
		return
	}

	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "inquiry id is required"})
		return
	}

	switch action {
	case "":
		rt.getInquiry(w, r, id)
	case "process":
		rt.processInquiry(w, r, id, false)
	case "reprocess":
		rt.processInquiry(w, r, id, true)
	case "responses":
		rt.inquiryResponses(w, r, id)
	case "status":
		rt.transitionStatus(w, r, id)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown resource"})
	}
}

func (rt *Router) getInquiry(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	inq, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inq)
}

func (rt *Router) listPending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	pending, err := rt.reader.ListPending(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"inquiries": pending, "count": len(pending)})
}

func (rt *Router) processInquiry(w http.ResponseWriter, r *http.Request, id string, reprocess bool) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var err error
	if reprocess {
		clearResponses := r.URL.Query().Get("keep_responses") != "true"
		err = rt.triager.ReprocessByID(r.Context(), id, clearResponses)
	} else {
		err = rt.triager.TriageByID(r.Context(), id)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		action := "process"
		if reprocess {
			action = "reprocess"
		}
		rt.metrics.RecordAdminAction(rt.service, action)
	}

	inq, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inq)
}

func (rt *Router) inquiryResponses(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		list, err := rt.responses.ListByInquiry(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"responses": list, "count": len(list)})
	case http.MethodPost:
		var req struct {
			Responder    string `json:"responder"`
			ResponseText string `json:"response_text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}

		resp, err := rt.admin.RespondManually(r.Context(), id, req.Responder, req.ResponseText)
		if err != nil {
			writeError(w, err)
			return
		}
		if rt.metrics != nil {
			rt.metrics.RecordAdminAction(rt.service, "respond")
		}
		writeJSON(w, http.StatusCreated, resp)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) transitionStatus(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPatch {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	if err := rt.admin.TransitionStatus(r.Context(), id, domain.InquiryStatus(req.Status)); err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordAdminAction(rt.service, "transition")
	}

	inq, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inq)
}

func (rt *Router) templateCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		includeInactive := r.URL.Query().Get("include_inactive") == "true"
		templates, err := rt.templates.List(r.Context(), includeInactive)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"templates": templates, "count": len(templates)})
	case http.MethodPost:
		var req templatePayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		if strings.TrimSpace(req.Category) == "" || strings.TrimSpace(req.ResponseText) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category and response_text are required"})
			return
		}

		now := time.Now().UTC()
		active := true
		if req.IsActive != nil {
			active = *req.IsActive
		}
		tpl := &domain.ResponseTemplate{
			ID:                  uuid.NewString(),
			Category:            req.Category,
			TriggerKeywords:     req.TriggerKeywords,
			ResponseText:        req.ResponseText,
			ConfidenceThreshold: req.ConfidenceThreshold,
			IsActive:            active,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := rt.templates.Create(r.Context(), tpl); err != nil {
			writeError(w, err)
			return
		}
		if rt.metrics != nil {
			rt.metrics.RecordTemplateOperation(rt.service, "create")
		}
		writeJSON(w, http.StatusCreated, tpl)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) templateItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/templates/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown resource"})
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req templatePayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
			return
		}
		if strings.TrimSpace(req.Category) == "" || strings.TrimSpace(req.ResponseText) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category and response_text are required"})
			return
		}

		active := true
		if req.IsActive != nil {
			active = *req.IsActive
		}
		tpl := &domain.ResponseTemplate{
			ID:                  id,
			Category:            req.Category,
			TriggerKeywords:     req.TriggerKeywords,
			ResponseText:        req.ResponseText,
			ConfidenceThreshold: req.ConfidenceThreshold,
			IsActive:            active,
		}
		if err := rt.templates.Update(r.Context(), tpl); err != nil {
			writeError(w, err)
			return
		}
		if rt.metrics != nil {
			rt.metrics.RecordTemplateOperation(rt.service, "update")
		}
		writeJSON(w, http.StatusOK, tpl)
	case http.MethodDelete:
		if err := rt.templates.SoftDelete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		if rt.metrics != nil {
			rt.metrics.RecordTemplateOperation(rt.service, "delete")
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

type templatePayload struct {
	Category            string  `json:"category"`
	TriggerKeywords     string  `json:"trigger_keywords"`
	ResponseText        string  `json:"response_text"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	IsActive            *bool   `json:"is_active"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}
