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

type ItemsHandler struct {
	ItemService *service.ItemService
}

type itemResponse struct {
	ID           string    `json:"id"`
	AssetID      string    `json:"assetId"`
	Code         string    `json:"code"`
	SerialNumber string    `json:"serialNumber"`
	Status       string    `json:"status"`
	LocationID   string    `json:"locationId,omitempty"`
	OwnerDeptID  string    `json:"ownerDeptId,omitempty"`
	Note         string    `json:"note,omitempty"`
	CreatedBy    string    `json:"createdBy,omitempty"`
	UpdatedBy    string    `json:"updatedBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toItemResponse(it domain.Item) itemResponse {
	return itemResponse{
		ID:           it.ID,
		AssetID:      it.AssetID,
		Code:         it.Code,
		SerialNumber: it.SerialNumber,
		Status:       string(it.Status),
		LocationID:   it.LocationID,
		OwnerDeptID:  it.OwnerDeptID,
		Note:         it.Note,
		CreatedBy:    it.CreatedBy,
		UpdatedBy:    it.UpdatedBy,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

func toItemPage(p domain.Page[domain.Item]) domain.Page[itemResponse] {
	items := make([]itemResponse, len(p.Items))
	for i, it := range p.Items {
		items[i] = toItemResponse(it)
	}
	return domain.Page[itemResponse]{
		Items:     items,
		Total:     p.Total,
		Page:      p.Page,
		PageSize:  p.PageSize,
		TotalPage: p.TotalPage,
	}
}

type updateItemRequest struct {
	Status      *string `json:"status"`
	LocationID  *string `json:"locationId"`
	OwnerDeptID *string `json:"ownerDeptId"`
	Note        *string `json:"note"`
}

// HandleListByAsset lists the items deployed under an asset.
//
//	@Summary	List asset items
//	@Tags		Items
//	@Produce	json
//	@Param		id			path		string	true	"Asset id"
//	@Param		page		query		int		false	"Page (default 1)"
//	@Param		pageSize	query		int		false	"Page size (default 20, max 200)"
//	@Param		sortBy		query		string	false	"Sort field"
//	@Param		order		query		string	false	"asc or desc (default desc)"
//	@Success	200			{object}	domain.Page[itemResponse]
//	@Failure	404			{object}	httpx.ErrorResponse	"Asset not found"
//	@Router		/v1/assets/{id}/items [get]
func (h *ItemsHandler) HandleListByAsset(w http.ResponseWriter, r *http.Request) {
	page, err := h.ItemService.ListByAsset(r.Context(), r.PathValue("id"),
		pageSpecFromQuery(r.URL.Query(), store.ItemSortFields))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toItemPage(page))
}

// HandleGet fetches one item.
//
//	@Summary	Get item
//	@Tags		Items
//	@Produce	json
//	@Param		id	path		string	true	"Item id"
//	@Success	200	{object}	itemResponse
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/v1/items/{id} [get]
func (h *ItemsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	it, err := h.ItemService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toItemResponse(it))
}

// HandleUpdate patches an item.
//
//	@Summary	Update item
//	@Tags		Items
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Item id"
//	@Param		request	body		updateItemRequest	true	"Fields to change"
//	@Success	200		{object}	itemResponse
//	@Failure	400		{object}	httpx.ErrorResponse	"Unknown status"
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Router		/v1/items/{id} [patch]
func (h *ItemsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	params := service.UpdateItemParams{
		LocationID:  req.LocationID,
		OwnerDeptID: req.OwnerDeptID,
		Note:        req.Note,
	}
	if req.Status != nil {
		status, err := domain.ParseItemStatus(*req.Status)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		params.Status = &status
	}

	it, err := h.ItemService.Update(r.Context(), r.PathValue("id"), params, httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toItemResponse(it))
}

// HandleDelete retires an item.
//
//	@Summary	Retire item
//	@Tags		Items
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Item id"
//	@Success	200	{object}	itemResponse
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/v1/items/{id} [delete]
func (h *ItemsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	it, err := h.ItemService.Retire(r.Context(), r.PathValue("id"), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toItemResponse(it))
}
