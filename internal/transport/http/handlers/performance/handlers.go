package performancehandler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"talentops/internal/domain/audit"
	"talentops/internal/domain/auth"
	"talentops/internal/domain/notifications"
	"talentops/internal/domain/performance"
	"talentops/internal/transport/http/api"
	"talentops/internal/transport/http/middleware"
	"talentops/internal/transport/http/shared"
)

type Handler struct {
	Service *performance.Service
	Perms   middleware.PermissionStore
	Notify  *notifications.Service
	Audit   *audit.Service
}

func NewHandler(service *performance.Service, perms middleware.PermissionStore, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/performance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTemplatesRead, h.Perms)).Get("/templates", h.handleListTemplates)
		r.With(middleware.RequirePermission(auth.PermTemplatesWrite, h.Perms)).Post("/templates", h.handleCreateTemplate)
		r.With(middleware.RequirePermission(auth.PermTemplatesRead, h.Perms)).Get("/templates/{templateID}", h.handleGetTemplate)
		r.With(middleware.RequirePermission(auth.PermTemplatesWrite, h.Perms)).Patch("/templates/{templateID}", h.handleUpdateTemplate)

		r.With(middleware.RequirePermission(auth.PermCyclesRead, h.Perms)).Get("/cycles", h.handleListCycles)
		r.With(middleware.RequirePermission(auth.PermCyclesWrite, h.Perms)).Post("/cycles", h.handleCreateCycle)
		r.With(middleware.RequirePermission(auth.PermCyclesRead, h.Perms)).Get("/cycles-archived", h.handleListArchivedCycles)
		r.With(middleware.RequirePermission(auth.PermCyclesRead, h.Perms)).Get("/cycles/{cycleID}", h.handleGetCycle)
		r.With(middleware.RequirePermission(auth.PermCyclesWrite, h.Perms)).Patch("/cycles/{cycleID}", h.handleUpdateCycle)
		r.With(middleware.RequirePermission(auth.PermCyclesWrite, h.Perms)).Post("/cycles/{cycleID}/activate", h.handleActivateCycle)
		r.With(middleware.RequirePermission(auth.PermCyclesWrite, h.Perms)).Post("/cycles/{cycleID}/close", h.handleCloseCycle)
		r.With(middleware.RequirePermission(auth.PermCyclesWrite, h.Perms)).Post("/cycles/{cycleID}/archive", h.handleArchiveCycle)

		r.With(middleware.RequirePermission(auth.PermAssignmentsRead, h.Perms)).Get("/assignments", h.handleListAssignments)
		r.With(middleware.RequirePermission(auth.PermAssignmentsWrite, h.Perms)).Post("/assignments", h.handleCreateAssignment)
		r.With(middleware.RequirePermission(auth.PermAssignmentsWrite, h.Perms)).Post("/assignments/bulk", h.handleBulkCreateAssignments)
		r.With(middleware.RequirePermission(auth.PermAssignmentsRead, h.Perms)).Get("/assignments/{assignmentID}", h.handleGetAssignment)
		r.With(middleware.RequirePermission(auth.PermAssignmentsRead, h.Perms)).Get("/assignments/manager/{managerID}", h.handleListManagerAssignments)
		r.With(middleware.RequirePermission(auth.PermAssignmentsRead, h.Perms)).Get("/pending-manager/{managerID}", h.handleListPendingForManager)

		r.With(middleware.RequirePermission(auth.PermRecordsSubmit, h.Perms)).Post("/records", h.handleSubmitRecord)
		r.With(middleware.RequirePermission(auth.PermRecordsRead, h.Perms)).Get("/records/cycle/{cycleID}", h.handleListCycleRecords)
		r.With(middleware.RequirePermission(auth.PermRecordsRead, h.Perms)).Get("/records/{recordID}", h.handleGetRecord)
		r.With(middleware.RequirePermission(auth.PermRecordsPublish, h.Perms)).Post("/records/{recordID}/publish", h.handlePublishRecord)
		r.With(middleware.RequirePermission(auth.PermRecordsAcknowledge, h.Perms)).Post("/records/{recordID}/acknowledge", h.handleAcknowledgeRecord)
		r.With(middleware.RequirePermission(auth.PermRecordsRead, h.Perms)).Get("/records/{recordID}/pdf", h.handleExportRecordPDF)
		r.With(middleware.RequirePermission(auth.PermRecordsRead, h.Perms)).Get("/employee/{employeeID}/history", h.handleEmployeeHistory)

		r.With(middleware.RequirePermission(auth.PermDisputesFile, h.Perms)).Post("/disputes", h.handleFileDispute)
		r.With(middleware.RequirePermission(auth.PermDisputesResolve, h.Perms)).Get("/disputes/cycle/{cycleID}", h.handleListCycleDisputes)
		r.With(middleware.RequirePermission(auth.PermDisputesFile, h.Perms)).Get("/disputes/{disputeID}", h.handleGetDispute)
		r.With(middleware.RequirePermission(auth.PermDisputesResolve, h.Perms)).Patch("/disputes/{disputeID}/resolve", h.handleResolveDispute)

		r.With(middleware.RequirePermission(auth.PermDashboardRead, h.Perms)).Get("/dashboard/{cycleID}", h.handleCompletionDashboard)
	})
}

// failDomain maps the domain error taxonomy onto HTTP statuses. Anything
// that is not a typed domain error is a 500.
func failDomain(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	requestID := middleware.GetRequestID(r.Context())
	switch performance.CodeOf(err) {
	case performance.CodeInvalid:
		api.Fail(w, http.StatusBadRequest, "invalid_request", err.Error(), requestID)
	case performance.CodeNotFound:
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), requestID)
	case performance.CodeConflict:
		api.Fail(w, http.StatusConflict, "conflict", err.Error(), requestID)
	default:
		slog.Error("performance operation failed", "err", err, "path", r.URL.Path)
		api.Fail(w, http.StatusInternalServerError, "internal_error", fallback, requestID)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return false
	}
	return true
}

func (h *Handler) audit(r *http.Request, action, entityType, entityID string, before, after any) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.EmployeeID, action, entityType, entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	filter := performance.TemplateFilter{Type: r.URL.Query().Get("type")}
	if raw := r.URL.Query().Get("active"); raw != "" {
		active := raw == "true"
		filter.Active = &active
	}
	templates, err := h.Service.ListTemplates(r.Context(), filter)
	if err != nil {
		failDomain(w, r, err, "failed to list templates")
		return
	}
	api.Success(w, templates, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var input performance.CreateTemplateInput
	if !decodeJSON(w, r, &input) {
		return
	}
	tmpl, err := h.Service.CreateTemplate(r.Context(), input)
	if err != nil {
		failDomain(w, r, err, "failed to create template")
		return
	}
	h.audit(r, "performance.template.create", "appraisal_template", tmpl.ID, nil, tmpl)
	api.Created(w, tmpl, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.Service.GetTemplate(r.Context(), chi.URLParam(r, "templateID"))
	if err != nil {
		failDomain(w, r, err, "failed to load template")
		return
	}
	api.Success(w, tmpl, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name                    *string   `json:"name"`
		Type                    *string   `json:"type"`
		RatingScales            *[]string `json:"ratingScales"`
		EvaluationCriteria      *[]string `json:"evaluationCriteria"`
		ApplicableDepartmentIDs *[]string `json:"applicableDepartmentIds"`
		ApplicablePositionIDs   *[]string `json:"applicablePositionIds"`
		Active                  *bool     `json:"active"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	templateID := chi.URLParam(r, "templateID")
	tmpl, err := h.Service.UpdateTemplate(r.Context(), templateID, performance.TemplatePatch{
		Name:                    payload.Name,
		Type:                    payload.Type,
		RatingScales:            payload.RatingScales,
		EvaluationCriteria:      payload.EvaluationCriteria,
		ApplicableDepartmentIDs: payload.ApplicableDepartmentIDs,
		ApplicablePositionIDs:   payload.ApplicablePositionIDs,
		Active:                  payload.Active,
	})
	if err != nil {
		failDomain(w, r, err, "failed to update template")
		return
	}
	h.audit(r, "performance.template.update", "appraisal_template", templateID, nil, tmpl)
	api.Success(w, tmpl, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := h.Service.ListCycles(r.Context(), performance.CycleFilter{
		Status: r.URL.Query().Get("status"),
		Type:   r.URL.Query().Get("type"),
	})
	if err != nil {
		failDomain(w, r, err, "failed to list cycles")
		return
	}
	api.Success(w, cycles, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListArchivedCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := h.Service.ListArchivedCycles(r.Context())
	if err != nil {
		failDomain(w, r, err, "failed to list archived cycles")
		return
	}
	api.Success(w, cycles, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateCycle(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name                string   `json:"name"`
		Type                string   `json:"type"`
		StartDate           string   `json:"startDate"`
		EndDate             string   `json:"endDate"`
		TemplateIDs         []string `json:"templateIds"`
		ObjectionWindowDays *int     `json:"objectionWindowDays"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "cycle name is required")
	startDate, _ := v.Date("startDate", payload.StartDate)
	endDate, _ := v.Date("endDate", payload.EndDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	cycle, err := h.Service.CreateCycle(r.Context(), performance.CreateCycleInput{
		Name:                payload.Name,
		Type:                payload.Type,
		StartDate:           startDate,
		EndDate:             endDate,
		TemplateIDs:         payload.TemplateIDs,
		ObjectionWindowDays: payload.ObjectionWindowDays,
	})
	if err != nil {
		failDomain(w, r, err, "failed to create cycle")
		return
	}
	h.audit(r, "performance.cycle.create", "appraisal_cycle", cycle.ID, nil, cycle)
	api.Created(w, cycle, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetCycle(w http.ResponseWriter, r *http.Request) {
	cycle, err := h.Service.GetCycle(r.Context(), chi.URLParam(r, "cycleID"))
	if err != nil {
		failDomain(w, r, err, "failed to load cycle")
		return
	}
	api.Success(w, cycle, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateCycle(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name                *string   `json:"name"`
		Type                *string   `json:"type"`
		StartDate           *string   `json:"startDate"`
		EndDate             *string   `json:"endDate"`
		TemplateIDs         *[]string `json:"templateIds"`
		ObjectionWindowDays *int      `json:"objectionWindowDays"`
		Status              *string   `json:"status"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	patch := performance.CyclePatch{
		Name:                payload.Name,
		Type:                payload.Type,
		TemplateIDs:         payload.TemplateIDs,
		ObjectionWindowDays: payload.ObjectionWindowDays,
		Status:              payload.Status,
	}
	v := shared.NewValidator()
	if payload.StartDate != nil {
		if parsed, ok := v.Date("startDate", *payload.StartDate); ok {
			patch.StartDate = &parsed
		}
	}
	if payload.EndDate != nil {
		if parsed, ok := v.Date("endDate", *payload.EndDate); ok {
			patch.EndDate = &parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	cycleID := chi.URLParam(r, "cycleID")
	cycle, err := h.Service.UpdateCycle(r.Context(), cycleID, patch)
	if err != nil {
		failDomain(w, r, err, "failed to update cycle")
		return
	}
	h.audit(r, "performance.cycle.update", "appraisal_cycle", cycleID, nil, cycle)
	api.Success(w, cycle, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleActivateCycle(w http.ResponseWriter, r *http.Request) {
	h.handleCycleTransition(w, r, "performance.cycle.activate", h.Service.ActivateCycle)
}

func (h *Handler) handleCloseCycle(w http.ResponseWriter, r *http.Request) {
	h.handleCycleTransition(w, r, "performance.cycle.close", h.Service.CloseCycle)
}

func (h *Handler) handleArchiveCycle(w http.ResponseWriter, r *http.Request) {
	h.handleCycleTransition(w, r, "performance.cycle.archive", h.Service.ArchiveCycle)
}

func (h *Handler) handleCycleTransition(w http.ResponseWriter, r *http.Request, action string, apply func(ctx context.Context, cycleID string) (performance.Cycle, error)) {
	cycleID := chi.URLParam(r, "cycleID")
	cycle, err := apply(r.Context(), cycleID)
	if err != nil {
		failDomain(w, r, err, "cycle transition failed")
		return
	}
	h.audit(r, action, "appraisal_cycle", cycleID, nil, cycle)
	api.Success(w, cycle, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListCycleRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.ListRecordsByCycle(r.Context(), chi.URLParam(r, "cycleID"))
	if err != nil {
		failDomain(w, r, err, "failed to list records")
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListCycleDisputes(w http.ResponseWriter, r *http.Request) {
	disputes, err := h.Service.ListDisputesByCycle(r.Context(), chi.URLParam(r, "cycleID"))
	if err != nil {
		failDomain(w, r, err, "failed to list disputes")
		return
	}
	api.Success(w, disputes, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := performance.AssignmentFilter{
		CycleID:    q.Get("cycleId"),
		TemplateID: q.Get("templateId"),
		EmployeeID: q.Get("employeeId"),
		ManagerID:  q.Get("managerId"),
	}
	if status := q.Get("status"); status != "" {
		filter.Statuses = []string{status}
	}
	assignments, err := h.Service.ListAssignments(r.Context(), filter)
	if err != nil {
		failDomain(w, r, err, "failed to list assignments")
		return
	}
	api.Success(w, assignments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CycleID      string `json:"cycleId"`
		TemplateID   string `json:"templateId"`
		EmployeeID   string `json:"employeeId"`
		ManagerID    string `json:"managerId"`
		DepartmentID string `json:"departmentId"`
		PositionID   string `json:"positionId"`
		DueDate      string `json:"dueDate"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	input := performance.CreateAssignmentInput{
		CycleID:      payload.CycleID,
		TemplateID:   payload.TemplateID,
		EmployeeID:   payload.EmployeeID,
		ManagerID:    payload.ManagerID,
		DepartmentID: payload.DepartmentID,
		PositionID:   payload.PositionID,
	}
	if payload.DueDate != "" {
		parsed, err := shared.ParseDate(payload.DueDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid due date", middleware.GetRequestID(r.Context()))
			return
		}
		input.DueDate = &parsed
	}

	assignment, err := h.Service.CreateAssignment(r.Context(), input)
	if err != nil {
		failDomain(w, r, err, "failed to create assignment")
		return
	}
	h.audit(r, "performance.assignment.create", "appraisal_assignment", assignment.ID, nil, assignment)
	h.Notify.Notify(r.Context(), assignment.ManagerID, notifications.TypeAssignmentCreated,
		"New appraisal assignment",
		fmt.Sprintf("You have been assigned an appraisal for employee %s.", assignment.EmployeeID))
	api.Created(w, assignment, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBulkCreateAssignments(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CycleID      string   `json:"cycleId"`
		TemplateID   string   `json:"templateId"`
		EmployeeIDs  []string `json:"employeeIds"`
		DepartmentID string   `json:"departmentId"`
		DueDate      string   `json:"dueDate"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}

	input := performance.BulkCreateAssignmentsInput{
		CycleID:      payload.CycleID,
		TemplateID:   payload.TemplateID,
		EmployeeIDs:  payload.EmployeeIDs,
		DepartmentID: payload.DepartmentID,
	}
	if payload.DueDate != "" {
		parsed, err := shared.ParseDate(payload.DueDate)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid due date", middleware.GetRequestID(r.Context()))
			return
		}
		input.DueDate = &parsed
	}

	result, err := h.Service.BulkCreateAssignments(r.Context(), input)
	if err != nil {
		failDomain(w, r, err, "failed to create assignments")
		return
	}
	h.audit(r, "performance.assignment.bulk_create", "appraisal_cycle", payload.CycleID, nil, result)
	for _, assignment := range result.Items {
		h.Notify.Notify(r.Context(), assignment.ManagerID, notifications.TypeAssignmentCreated,
			"New appraisal assignment",
			fmt.Sprintf("You have been assigned an appraisal for employee %s.", assignment.EmployeeID))
	}
	api.Created(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetAssignment(w http.ResponseWriter, r *http.Request) {
	assignment, err := h.Service.GetAssignment(r.Context(), chi.URLParam(r, "assignmentID"))
	if err != nil {
		failDomain(w, r, err, "failed to load assignment")
		return
	}
	api.Success(w, assignment, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListManagerAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.Service.ListAssignmentsForManager(r.Context(), chi.URLParam(r, "managerID"))
	if err != nil {
		failDomain(w, r, err, "failed to list manager assignments")
		return
	}
	api.Success(w, assignments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPendingForManager(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.Service.ListPendingForManager(r.Context(), chi.URLParam(r, "managerID"))
	if err != nil {
		failDomain(w, r, err, "failed to list pending assignments")
		return
	}
	api.Success(w, assignments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmitRecord(w http.ResponseWriter, r *http.Request) {
	var input performance.SubmitRecordInput
	if !decodeJSON(w, r, &input) {
		return
	}
	record, err := h.Service.SubmitRecord(r.Context(), input)
	if err != nil {
		failDomain(w, r, err, "failed to submit record")
		return
	}
	h.audit(r, "performance.record.submit", "appraisal_record", record.ID, nil, record)
	h.Notify.Notify(r.Context(), record.ManagerID, notifications.TypeRecordSubmitted,
		"Appraisal submitted",
		fmt.Sprintf("Appraisal for employee %s is submitted and awaiting HR review.", record.EmployeeID))
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	record, err := h.Service.GetRecord(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		failDomain(w, r, err, "failed to load record")
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePublishRecord(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	recordID := chi.URLParam(r, "recordID")
	record, err := h.Service.PublishRecord(r.Context(), recordID, user.EmployeeID)
	if err != nil {
		failDomain(w, r, err, "failed to publish record")
		return
	}
	h.audit(r, "performance.record.publish", "appraisal_record", recordID, nil, record)
	h.Notify.Notify(r.Context(), record.EmployeeID, notifications.TypeRecordPublished,
		"Your appraisal has been published",
		"Your appraisal result is now available. Please review and acknowledge it.")
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAcknowledgeRecord(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Comment string `json:"comment"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	recordID := chi.URLParam(r, "recordID")
	record, err := h.Service.AcknowledgeRecord(r.Context(), recordID, payload.Comment)
	if err != nil {
		failDomain(w, r, err, "failed to acknowledge record")
		return
	}
	h.audit(r, "performance.record.acknowledge", "appraisal_record", recordID, nil, record)
	h.Notify.Notify(r.Context(), record.ManagerID, notifications.TypeRecordAcknowledged,
		"Appraisal acknowledged",
		fmt.Sprintf("Employee %s acknowledged their published appraisal.", record.EmployeeID))
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportRecordPDF(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")
	payload, err := h.Service.ExportRecordPDF(r.Context(), recordID)
	if err != nil {
		failDomain(w, r, err, "failed to export record")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=appraisal-%s.pdf", recordID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (h *Handler) handleEmployeeHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.EmployeeHistory(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		failDomain(w, r, err, "failed to load history")
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleFileDispute(w http.ResponseWriter, r *http.Request) {
	var input performance.FileDisputeInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.RaisedByEmployeeID == "" {
		if user, ok := middleware.GetUser(r.Context()); ok {
			input.RaisedByEmployeeID = user.EmployeeID
		}
	}
	dispute, err := h.Service.FileDispute(r.Context(), input)
	if err != nil {
		failDomain(w, r, err, "failed to file dispute")
		return
	}
	h.audit(r, "performance.dispute.file", "appraisal_dispute", dispute.ID, nil, dispute)
	if record, err := h.Service.GetRecord(r.Context(), dispute.AppraisalID); err == nil {
		h.Notify.Notify(r.Context(), record.ManagerID, notifications.TypeDisputeFiled,
			"Appraisal dispute filed",
			fmt.Sprintf("Employee %s disputed their published appraisal.", dispute.RaisedByEmployeeID))
	}
	api.Created(w, dispute, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetDispute(w http.ResponseWriter, r *http.Request) {
	dispute, err := h.Service.GetDispute(r.Context(), chi.URLParam(r, "disputeID"))
	if err != nil {
		failDomain(w, r, err, "failed to load dispute")
		return
	}
	api.Success(w, dispute, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleResolveDispute(w http.ResponseWriter, r *http.Request) {
	var input performance.ResolveDisputeInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.ResolvedByEmployeeID == "" {
		if user, ok := middleware.GetUser(r.Context()); ok {
			input.ResolvedByEmployeeID = user.EmployeeID
		}
	}
	disputeID := chi.URLParam(r, "disputeID")
	dispute, err := h.Service.ResolveDispute(r.Context(), disputeID, input)
	if err != nil {
		failDomain(w, r, err, "failed to resolve dispute")
		return
	}
	h.audit(r, "performance.dispute.resolve", "appraisal_dispute", disputeID, nil, dispute)
	h.Notify.Notify(r.Context(), dispute.RaisedByEmployeeID, notifications.TypeDisputeResolved,
		"Your appraisal dispute was reviewed",
		fmt.Sprintf("Your dispute has been updated to %s.", dispute.Status))
	api.Success(w, dispute, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCompletionDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Service.GetCompletionDashboard(r.Context(), chi.URLParam(r, "cycleID"))
	if err != nil {
		failDomain(w, r, err, "failed to build dashboard")
		return
	}
	api.Success(w, dashboard, middleware.GetRequestID(r.Context()))
}
