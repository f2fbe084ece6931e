package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/service"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
	"github.com/aussiebroadwan/opsdesk/pkg/httpx"
)

type DepartmentsHandler struct {
	DepartmentService *service.DepartmentService
}

type departmentResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedBy string    `json:"createdBy,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toDepartmentResponse(d domain.Department) departmentResponse {
	return departmentResponse{
		ID:        d.ID,
		Code:      d.Code,
		Name:      d.Name,
		Active:    d.Active,
		CreatedBy: d.CreatedBy,
		UpdatedBy: d.UpdatedBy,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type createDepartmentRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type updateDepartmentRequest struct {
	Name *string `json:"name"`
}

// HandleCreate creates a department.
//
//	@Summary	Create department
//	@Tags		Departments
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		createDepartmentRequest	true	"Department"
//	@Success	201		{object}	departmentResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	409		{object}	httpx.ErrorResponse	"Code already in use"
//	@Router		/v1/departments [post]
func (h *DepartmentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	d, err := h.DepartmentService.Create(r.Context(), req.Code, req.Name, httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toDepartmentResponse(d))
}

// HandleList lists departments. Retired departments are hidden unless
// includeInactive is set.
//
//	@Summary	List departments
//	@Tags		Departments
//	@Produce	json
//	@Param		includeInactive	query		bool	false	"Include retired departments"
//	@Param		page			query		int		false	"Page (default 1)"
//	@Param		pageSize		query		int		false	"Page size (default 20, max 200)"
//	@Param		sortBy			query		string	false	"Sort field"
//	@Param		order			query		string	false	"asc or desc (default desc)"
//	@Success	200				{object}	domain.Page[departmentResponse]
//	@Router		/v1/departments [get]
func (h *DepartmentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	includeInactive, err := parseBoolParam(q.Get("includeInactive"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_query_parameter", err.Error())
		return
	}
	activeOnly := includeInactive == nil || !*includeInactive

	page, err := h.DepartmentService.List(r.Context(), activeOnly, pageSpecFromQuery(q, store.DepartmentSortFields))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]departmentResponse, len(page.Items))
	for i, d := range page.Items {
		items[i] = toDepartmentResponse(d)
	}
	httpx.WriteJSON(w, http.StatusOK, domain.Page[departmentResponse]{
		Items:     items,
		Total:     page.Total,
		Page:      page.Page,
		PageSize:  page.PageSize,
		TotalPage: page.TotalPage,
	})
}

// HandleGet fetches one department.
//
//	@Summary	Get department
//	@Tags		Departments
//	@Produce	json
//	@Param		id	path		string	true	"Department id"
//	@Success	200	{object}	departmentResponse
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/v1/departments/{id} [get]
func (h *DepartmentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	d, err := h.DepartmentService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDepartmentResponse(d))
}

// HandleUpdate renames a department.
//
//	@Summary	Update department
//	@Tags		Departments
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Department id"
//	@Param		request	body		updateDepartmentRequest	true	"Fields to change"
//	@Success	200		{object}	departmentResponse
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Router		/v1/departments/{id} [patch]
func (h *DepartmentsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	d, err := h.DepartmentService.Update(r.Context(), r.PathValue("id"),
		service.UpdateDepartmentParams{Name: req.Name}, httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDepartmentResponse(d))
}

// HandleDelete retires a department.
//
//	@Summary	Retire department
//	@Tags		Departments
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Department id"
//	@Success	200	{object}	departmentResponse
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/v1/departments/{id} [delete]
func (h *DepartmentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	d, err := h.DepartmentService.Retire(r.Context(), r.PathValue("id"), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toDepartmentResponse(d))
}
