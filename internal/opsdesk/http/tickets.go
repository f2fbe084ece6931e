package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/domain"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/service"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
	"github.com/aussiebroadwan/opsdesk/pkg/httpx"
)

type TicketsHandler struct {
	TicketService *service.TicketService
}

type ticketResponse struct {
	ID           string     `json:"id"`
	Code         string     `json:"code"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Type         string     `json:"type"`
	AssetItemIDs []string   `json:"assetItemIds"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	Cause        string     `json:"cause,omitempty"`
	Note         string     `json:"note,omitempty"`
	LocationID   string     `json:"locationId,omitempty"`
	AssigneeID   string     `json:"assigneeId,omitempty"`
	ImageURLs    []string   `json:"imageUrls"`
	DueAt        *time.Time `json:"dueAt,omitempty"`
	ClosedAt     *time.Time `json:"closedAt,omitempty"`
	CreatedBy    string     `json:"createdBy,omitempty"`
	UpdatedBy    string     `json:"updatedBy,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func toTicketResponse(t domain.Ticket) ticketResponse {
	images := t.ImageURLs
	if images == nil {
		images = []string{}
	}
	itemIDs := t.AssetItemIDs
	if itemIDs == nil {
		itemIDs = []string{}
	}
	return ticketResponse{
		ID:           t.ID,
		Code:         t.Code,
		Title:        t.Title,
		Description:  t.Description,
		Type:         string(t.Type),
		AssetItemIDs: itemIDs,
		Priority:     string(t.Priority),
		Status:       string(t.Status),
		Cause:        t.Cause,
		Note:         t.Note,
		LocationID:   t.LocationID,
		AssigneeID:   t.AssigneeID,
		ImageURLs:    images,
		DueAt:        t.DueAt,
		ClosedAt:     t.ClosedAt,
		CreatedBy:    t.CreatedBy,
		UpdatedBy:    t.UpdatedBy,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func toTicketPage(p domain.Page[domain.Ticket]) domain.Page[ticketResponse] {
	items := make([]ticketResponse, len(p.Items))
	for i, t := range p.Items {
		items[i] = toTicketResponse(t)
	}
	return domain.Page[ticketResponse]{
		Items:     items,
		Total:     p.Total,
		Page:      p.Page,
		PageSize:  p.PageSize,
		TotalPage: p.TotalPage,
	}
}

type createTicketRequest struct {
	Code         string   `json:"code"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Type         string   `json:"type"`
	AssetItemIDs []string `json:"assetItemIds"`
	Priority     string   `json:"priority"`
	Cause        string   `json:"cause"`
	Note         string   `json:"note"`
	LocationID   string   `json:"locationId"`
	AssigneeID   string   `json:"assigneeId"`
	DueAt        string   `json:"dueAt"`
}

type updateTicketRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	Cause       *string `json:"cause"`
	Note        *string `json:"note"`
	LocationID  *string `json:"locationId"`
	AssigneeID  *string `json:"assigneeId"`
	DueAt       *string `json:"dueAt"`
}

// HandleCreate opens a ticket. A multipart body may carry initial
// images under "files"; assetItemIds then arrives comma separated.
//
//	@Summary	Create ticket
//	@Tags		Tickets
//	@Security	BearerAuth
//	@Accept		json
//	@Accept		mpfd
//	@Produce	json
//	@Param		request	body		createTicketRequest	true	"Ticket"
//	@Success	201		{object}	ticketResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	404		{object}	httpx.ErrorResponse	"Referenced item missing"
//	@Failure	409		{object}	httpx.ErrorResponse	"Code already in use"
//	@Failure	502		{object}	httpx.ErrorResponse	"Image upload failed"
//	@Router		/v1/tickets [post]
func (h *TicketsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var (
		req    createTicketRequest
		images []service.ImageFile
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed multipart body")
			return
		}
		req = createTicketRequest{
			Code:         r.FormValue("code"),
			Title:        r.FormValue("title"),
			Description:  r.FormValue("description"),
			Type:         r.FormValue("type"),
			AssetItemIDs: splitCommaList(r.FormValue("assetItemIds")),
			Priority:     r.FormValue("priority"),
			Cause:        r.FormValue("cause"),
			Note:         r.FormValue("note"),
			LocationID:   r.FormValue("locationId"),
			AssigneeID:   r.FormValue("assigneeId"),
			DueAt:        r.FormValue("dueAt"),
		}
		if len(r.MultipartForm.File["files"]) > 0 {
			var err error
			images, err = imageFilesFromRequest(r)
			if err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
				return
			}
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	typ, err := domain.ParseTicketType(req.Type)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	params := service.CreateTicketParams{
		Code:         req.Code,
		Title:        req.Title,
		Description:  req.Description,
		Type:         typ,
		AssetItemIDs: req.AssetItemIDs,
		Cause:        req.Cause,
		Note:         req.Note,
		LocationID:   req.LocationID,
		AssigneeID:   req.AssigneeID,
		Images:       images,
	}
	if req.Priority != "" {
		priority, err := domain.ParseTicketPriority(req.Priority)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		params.Priority = priority
	}
	if req.DueAt != "" {
		due, err := parseTimeParam(req.DueAt)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "dueAt must be RFC 3339 or YYYY-MM-DD")
			return
		}
		params.DueAt = due
	}

	t, err := h.TicketService.Create(r.Context(), params, httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTicketResponse(t))
}

// HandleList lists tickets with filtering, sorting and pagination.
// assetItemIds matches tickets that reference every listed item.
//
//	@Summary	List tickets
//	@Tags		Tickets
//	@Produce	json
//	@Param		code			query		string	false	"Partial code match"
//	@Param		title			query		string	false	"Partial title match"
//	@Param		type			query		string	false	"Exact type"		Enums(Repair, Maintenance, Request, Incident)
//	@Param		priority		query		string	false	"Exact priority"	Enums(Low, Medium, High, Urgent)
//	@Param		status			query		string	false	"Exact status"		Enums(New, Assigned, Doing, Waiting, Done, Cancelled)
//	@Param		assetItemIds	query		string	false	"Comma separated item ids, all must match"
//	@Param		locationId		query		string	false	"Exact location id"
//	@Param		assigneeId		query		string	false	"Exact assignee id"
//	@Param		createdBy		query		string	false	"Creator user id"
//	@Param		startDueAt		query		string	false	"Due at lower bound"
//	@Param		endDueAt		query		string	false	"Due at upper bound"
//	@Param		page			query		int		false	"Page (default 1)"
//	@Param		pageSize		query		int		false	"Page size (default 20, max 200)"
//	@Param		sortBy			query		string	false	"Sort field"
//	@Param		order			query		string	false	"asc or desc (default desc)"
//	@Success	200				{object}	domain.Page[ticketResponse]
//	@Failure	400				{object}	httpx.ErrorResponse	"Unknown enum value or bad date"
//	@Router		/v1/tickets [get]
func (h *TicketsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := domain.TicketFilter{
		Code:         q.Get("code"),
		Title:        q.Get("title"),
		LocationID:   q.Get("locationId"),
		AssigneeID:   q.Get("assigneeId"),
		CreatedBy:    q.Get("createdBy"),
		AssetItemIDs: splitCommaList(q.Get("assetItemIds")),
	}
	if raw := q.Get("type"); raw != "" {
		typ, err := domain.ParseTicketType(raw)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		f.Type = &typ
	}
	if raw := q.Get("priority"); raw != "" {
		priority, err := domain.ParseTicketPriority(raw)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		f.Priority = &priority
	}
	if raw := q.Get("status"); raw != "" {
		status, err := domain.ParseTicketStatus(raw)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		f.Status = &status
	}
	for _, bound := range []struct {
		key  string
		dest **time.Time
	}{
		{"startDueAt", &f.StartDueAt},
		{"endDueAt", &f.EndDueAt},
	} {
		if raw := q.Get(bound.key); raw != "" {
			ts, err := parseTimeParam(raw)
			if err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "invalid_query_parameter",
					bound.key+" must be RFC 3339 or YYYY-MM-DD")
				return
			}
			*bound.dest = ts
		}
	}

	page, err := h.TicketService.List(r.Context(), f, pageSpecFromQuery(q, store.TicketSortFields))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTicketPage(page))
}

// HandleGet fetches one ticket.
//
//	@Summary	Get ticket
//	@Tags		Tickets
//	@Produce	json
//	@Param		id	path		string	true	"Ticket id"
//	@Success	200	{object}	ticketResponse
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/v1/tickets/{id} [get]
func (h *TicketsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	t, err := h.TicketService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTicketResponse(t))
}

// HandleUpdate patches a ticket. Moving the status to Done or
// Cancelled stamps closedAt; reopening clears it.
//
//	@Summary	Update ticket
//	@Tags		Tickets
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Ticket id"
//	@Param		request	body		updateTicketRequest	true	"Fields to change"
//	@Success	200		{object}	ticketResponse
//	@Failure	400		{object}	httpx.ErrorResponse	"Unknown enum value"
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Router		/v1/tickets/{id} [patch]
func (h *TicketsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	params := service.UpdateTicketParams{
		Title:       req.Title,
		Description: req.Description,
		Cause:       req.Cause,
		Note:        req.Note,
		LocationID:  req.LocationID,
		AssigneeID:  req.AssigneeID,
	}
	if req.Type != nil {
		typ, err := domain.ParseTicketType(*req.Type)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		params.Type = &typ
	}
	if req.Priority != nil {
		priority, err := domain.ParseTicketPriority(*req.Priority)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		params.Priority = &priority
	}
	if req.Status != nil {
		status, err := domain.ParseTicketStatus(*req.Status)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		params.Status = &status
	}
	if req.DueAt != nil {
		due, err := parseTimeParam(*req.DueAt)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "dueAt must be RFC 3339 or YYYY-MM-DD")
			return
		}
		params.DueAt = due
	}

	t, err := h.TicketService.Update(r.Context(), r.PathValue("id"), params, httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTicketResponse(t))
}

// HandleAddImages appends uploaded images to a ticket.
//
//	@Summary	Add ticket images
//	@Tags		Tickets
//	@Security	BearerAuth
//	@Accept		mpfd
//	@Produce	json
//	@Param		id		path		string	true	"Ticket id"
//	@Param		files	formData	file	true	"Image files"
//	@Success	200		{object}	ticketResponse
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Failure	409		{object}	httpx.ErrorResponse	"Concurrent image change"
//	@Failure	502		{object}	httpx.ErrorResponse	"Upload failed"
//	@Router		/v1/tickets/{id}/images [post]
func (h *TicketsHandler) HandleAddImages(w http.ResponseWriter, r *http.Request) {
	files, err := imageFilesFromRequest(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	t, err := h.TicketService.AddImages(r.Context(), r.PathValue("id"), files, httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTicketResponse(t))
}

// HandleRemoveImage removes the image at an index.
//
//	@Summary	Remove ticket image
//	@Tags		Tickets
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id			path		string	true	"Ticket id"
//	@Param		imgIndex	path		int		true	"Image index"
//	@Success	200			{object}	ticketResponse
//	@Failure	400			{object}	httpx.ErrorResponse	"Index out of range"
//	@Failure	404			{object}	httpx.ErrorResponse
//	@Failure	409			{object}	httpx.ErrorResponse	"Concurrent image change"
//	@Failure	502			{object}	httpx.ErrorResponse	"Blob delete failed"
//	@Router		/v1/tickets/{id}/images/{imgIndex} [delete]
func (h *TicketsHandler) HandleRemoveImage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("imgIndex"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_index", "Image index must be an integer")
		return
	}

	t, err := h.TicketService.RemoveImage(r.Context(), r.PathValue("id"), index, httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTicketResponse(t))
}

// splitCommaList splits a comma separated query value, dropping empty
// segments. An empty input yields nil.
func splitCommaList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
