// Package api exposes HTTP handlers for the care service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"example.com/care/internal/auth"
	"example.com/care/internal/domain"
	"example.com/care/internal/observability"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	clock   func() time.Time
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service) *Handler {
	return &Handler{service: service, clock: time.Now}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/residents", h.residents)
	mux.HandleFunc("/v1/residents/", h.residentSubtree)
	mux.HandleFunc("/v1/tasks", h.tasks)
	mux.HandleFunc("/v1/tasks/", h.taskByID)
	mux.HandleFunc("/v1/schedule/ensure", h.ensureSchedule)
	mux.HandleFunc("/v1/schedule/instances", h.listInstances)
	mux.HandleFunc("/v1/schedule/upcoming", h.upcoming)
	mux.HandleFunc("/v1/instances/", h.instanceSubtree)
	mux.HandleFunc("/v1/vitals/", h.vitalByID)
	mux.HandleFunc("/v1/intake-output/", h.intakeOutputByID)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) residents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createResident(w, r)
	case http.MethodGet:
		h.listResidents(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

// residentSubtree dispatches /v1/residents/{id} and the nested care-log
// collections /v1/residents/{id}/vitals and /v1/residents/{id}/intake-output.
func (h *Handler) residentSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/residents/")
	segments := strings.SplitN(rest, "/", 2)
	id := segments[0]
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing resident id")
		return
	}

	if len(segments) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.getResident(w, r, id)
		case http.MethodPut:
			h.updateResident(w, r, id)
		case http.MethodDelete:
			h.deleteResident(w, r, id)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		}
		return
	}

	switch segments[1] {
	case "vitals":
		h.residentVitals(w, r, id)
	case "intake-output":
		h.residentIntakeOutput(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
	}
}

func (h *Handler) tasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createTask(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) taskByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/tasks/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing task id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.updateTask(w, r, id)
	case http.MethodDelete:
		h.deleteTask(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) instanceSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/instances/")
	segments := strings.SplitN(rest, "/", 2)
	id := segments[0]
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing instance id")
		return
	}

	if len(segments) == 2 && segments[1] == "toggle" && r.Method == http.MethodPost {
		h.toggleInstance(w, r, id)
		return
	}
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
}

func (h *Handler) createResident(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeCareWrite)
	if !ok {
		return
	}

	var req ResidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	resident, err := h.service.CreateResident(r.Context(), req.toDomain(claims.Subject, ""))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResidentView(*resident))
}

func (h *Handler) listResidents(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeCareRead)
	if !ok {
		return
	}

	residents, err := h.service.ListResidents(r.Context(), claims.Subject)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]ResidentView, 0, len(residents))
	for _, resident := range residents {
		items = append(items, toResidentView(resident))
	}
	writeJSON(w, http.StatusOK, ResidentListResponse{Items: items})
}

func (h *Handler) getResident(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeCareRead)
	if !ok {
		return
	}

	resident, err := h.service.GetResident(r.Context(), claims.Subject, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toResidentView(*resident))
}

func (h *Handler) updateResident(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeCareWrite)
	if !ok {
		return
	}

	var req ResidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	if err := h.service.UpdateResident(r.Context(), req.toDomain(claims.Subject, id)); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteResident(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeCareWrite)
	if !ok {
		return
	}

	if err := h.service.DeleteResident(r.Context(), claims.Subject, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireScope(w, r, auth.ScopeCareWrite)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	defaultTime, err := domain.ParseTimeOfDay(req.DefaultTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid default_time")
		return
	}

	template, err := h.service.CreateTask(r.Context(), domain.CreateTaskInput{
		OwnerID:     claims.Subject,
		Label:       req.Label,
		Kind:        domain.TaskKind(req.Kind),
		DefaultTime: defaultTime,
		RepeatDays:  req.RepeatDays,
		ResidentID:  req.ResidentID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskView(*template))
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeCareWrite)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	defaultTime, err := domain.ParseTimeOfDay(req.DefaultTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid default_time")
		return
	}

	if err := h.service.UpdateTask(r.Context(), domain.UpdateTaskInput{
		OwnerID:     claims.Subject,
		ActivityID:  id,
		Label:       req.Label,
		DefaultTime: defaultTime,
		RepeatDays:  req.RepeatDays,
	}); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeCareWrite)
	if !ok {
		return
	}

	if err := h.service.DeleteTask(r.Context(), claims.Subject, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ensureSchedule materializes the day's instances explicitly. The list and
// upcoming endpoints do this implicitly; this endpoint exists for warm-up jobs
// and lets callers observe the expansion outcome.
func (h *Handler) ensureSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeCareWrite)
	if !ok {
		return
	}

	var req EnsureScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	date, err := h.resolveDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid date")
		return
	}

	result, err := h.service.EnsureInstancesForDate(r.Context(), claims.Subject, date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	observability.RecordExpansion(result.Planned, result.Inserted, result.Deferred)

	writeJSON(w, http.StatusOK, EnsureScheduleResponse{
		Date:     result.Date.String(),
		Planned:  result.Planned,
		Inserted: result.Inserted,
		Deferred: result.Deferred,
	})
}

func (h *Handler) listInstances(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeCareRead)
	if !ok {
		return
	}

	date, err := h.resolveDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid date")
		return
	}

	var residentID *string
	if raw, present := r.URL.Query()["resident_id"]; present && len(raw) > 0 {
		// resident_id= (empty) selects the facility-wide tasks.
		residentID = &raw[0]
	}

	instances, err := h.service.ListDayInstances(r.Context(), claims.Subject, date, residentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]InstanceView, 0, len(instances))
	for _, instance := range instances {
		items = append(items, toInstanceView(instance))
	}
	writeJSON(w, http.StatusOK, InstanceListResponse{Date: date.String(), Items: items})
}

func (h *Handler) upcoming(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeCareRead)
	if !ok {
		return
	}

	now := h.clock()
	date := domain.DateOf(now)
	clockTime := domain.TimeOfDayOf(now)
	if raw := r.URL.Query().Get("now"); raw != "" {
		parsed, err := domain.ParseTimeOfDay(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "invalid now")
			return
		}
		clockTime = parsed
	}

	instances, err := h.service.UpcomingWorklist(r.Context(), claims.Subject, date, clockTime)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]InstanceView, 0, len(instances))
	for _, instance := range instances {
		items = append(items, toInstanceView(instance))
	}
	writeJSON(w, http.StatusOK, InstanceListResponse{Date: date.String(), Items: items})
}

func (h *Handler) toggleInstance(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireScope(w, r, auth.ScopeCareWrite)
	if !ok {
		return
	}

	instance, err := h.service.ToggleInstanceStatus(r.Context(), claims.Subject, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInstanceView(*instance))
}

func (h *Handler) residentVitals(w http.ResponseWriter, r *http.Request, residentID string) {
	switch r.Method {
	case http.MethodPost:
		h.addVitals(w, r, residentID)
	case http.MethodGet:
		h.listVitals(w, r, residentID)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) addVitals(w http.ResponseWriter, r *http.Request, residentID string) {
	claims, ok := requireScope(w, r, auth.ScopeCareWrite)
	if !ok {
		return
	}

	var req VitalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	date, err := h.resolveDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid date")
		return
	}
	entryTime, err := h.resolveTime(req.Time)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid time")
		return
	}

	entry, err := h.service.AddVitals(r.Context(), domain.VitalsEntry{
		ResidentID: residentID,
		OwnerID:    claims.Subject,
		Date:       date,
		Time:       entryTime,
		BP:         req.BP,
		Temp:       req.Temp,
		Pulse:      req.Pulse,
		Resp:       req.Resp,
		SpO2:       req.SpO2,
		Sugar:      req.Sugar,
		Insulin:    req.Insulin,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVitalsView(*entry))
}

func (h *Handler) listVitals(w http.ResponseWriter, r *http.Request, residentID string) {
	claims, ok := requireScope(w, r, auth.ScopeCareRead)
	if !ok {
		return
	}

	date, err := h.resolveDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid date")
		return
	}

	entries, err := h.service.ListVitals(r.Context(), claims.Subject, residentID, date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]VitalsView, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toVitalsView(entry))
	}
	writeJSON(w, http.StatusOK, VitalsListResponse{Items: items})
}

func (h *Handler) vitalByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/vitals/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing vital id")
		return
	}
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	claims, ok := requireScope(w, r, auth.ScopeCareWrite)
	if !ok {
		return
	}

	if err := h.service.DeleteVitals(r.Context(), claims.Subject, id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) residentIntakeOutput(w http.ResponseWriter, r *http.Request, residentID string) {
	switch r.Method {
	case http.MethodPost:
		h.addIntakeOutput(w, r, residentID)
	case http.MethodGet:
		h.listIntakeOutput(w, r, residentID)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) addIntakeOutput(w http.ResponseWriter, r *http.Request, residentID string) {
	claims, ok := requireScope(w, r, auth.ScopeCareWrite)
	if !ok {
		return
	}

	var req IntakeOutputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	date, err := h.resolveDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid date")
		return
	}
	entryTime, err := h.resolveTime(req.Time)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid time")
		return
	}

	entry, err := h.service.AddIntakeOutput(r.Context(), domain.IntakeOutputEntry{
		ResidentID: residentID,
		OwnerID:    claims.Subject,
		Date:       date,
		Time:       entryTime,
		IntakeML:   req.IntakeML,
		UrineML:    req.UrineML,
		Stool:      req.Stool,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toIntakeOutputView(*entry))
}

func (h *Handler) listIntakeOutput(w http.ResponseWriter, r *http.Request, residentID string) {
	claims, ok := requireScope(w, r, auth.ScopeCareRead)
	if !ok {
		return
	}

	date, err := h.resolveDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid date")
		return
	}

	entries, err := h.service.ListIntakeOutput(r.Context(), claims.Subject, residentID, date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]IntakeOutputView, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toIntakeOutputView(entry))
	}
	writeJSON(w, http.StatusOK, IntakeOutputListResponse{Items: items})
}

func (h *Handler) intakeOutputByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/intake-output/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing entry id")
		return
	}

	claims, ok := requireScope(w, r, auth.ScopeCareWrite)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req IntakeOutputRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
			return
		}
		entryTime, err := h.resolveTime(req.Time)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "invalid time")
			return
		}
		if err := h.service.UpdateIntakeOutput(r.Context(), domain.IntakeOutputEntry{
			ID:       id,
			OwnerID:  claims.Subject,
			Time:     entryTime,
			IntakeML: req.IntakeML,
			UrineML:  req.UrineML,
			Stool:    req.Stool,
		}); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := h.service.DeleteIntakeOutput(r.Context(), claims.Subject, id); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

// resolveDate parses an optional date string, defaulting to today.
func (h *Handler) resolveDate(raw string) (domain.Date, error) {
	if raw == "" {
		return domain.DateOf(h.clock()), nil
	}
	return domain.ParseDate(raw)
}

// resolveTime parses an optional clock time, defaulting to now.
func (h *Handler) resolveTime(raw string) (domain.TimeOfDay, error) {
	if raw == "" {
		return domain.TimeOfDayOf(h.clock()), nil
	}
	return domain.ParseTimeOfDay(raw)
}

// requireScope extracts the caller's claims and enforces the needed scope.
// Read-scoped endpoints also accept write tokens.
func requireScope(w http.ResponseWriter, r *http.Request, scope string) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	if !claims.HasScope(scope) && !(scope == auth.ScopeCareRead && claims.HasScope(auth.ScopeCareWrite)) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+scope+" required")
		return nil, false
	}
	return claims, true
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing caregiver identity")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
