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

type AssetsHandler struct {
	AssetService *service.AssetService
}

type assetResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Vendor      string    `json:"vendor,omitempty"`
	Model       string    `json:"model,omitempty"`
	PurchaseURL string    `json:"purchaseUrl,omitempty"`
	ImageURLs   []string  `json:"imageUrls"`
	Active      bool      `json:"active"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	UpdatedBy   string    `json:"updatedBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toAssetResponse(a domain.Asset) assetResponse {
	images := a.ImageURLs
	if images == nil {
		images = []string{}
	}
	return assetResponse{
		ID:          a.ID,
		Code:        a.Code,
		Name:        a.Name,
		Type:        string(a.Type),
		Description: a.Description,
		Vendor:      a.Vendor,
		Model:       a.Model,
		PurchaseURL: a.PurchaseURL,
		ImageURLs:   images,
		Active:      a.Active,
		CreatedBy:   a.CreatedBy,
		UpdatedBy:   a.UpdatedBy,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toAssetPage(p domain.Page[domain.Asset]) domain.Page[assetResponse] {
	items := make([]assetResponse, len(p.Items))
	for i, a := range p.Items {
		items[i] = toAssetResponse(a)
	}
	return domain.Page[assetResponse]{
		Items:     items,
		Total:     p.Total,
		Page:      p.Page,
		PageSize:  p.PageSize,
		TotalPage: p.TotalPage,
	}
}

type createAssetRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Vendor      string `json:"vendor"`
	Model       string `json:"model"`
	PurchaseURL string `json:"purchaseUrl"`
}

type updateAssetRequest struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	Vendor      *string `json:"vendor"`
	Model       *string `json:"model"`
	PurchaseURL *string `json:"purchaseUrl"`
}

// HandleCreate creates an asset. A multipart body may carry initial
// images under "files"; a JSON body creates the asset bare.
//
//	@Summary	Create asset
//	@Tags		Assets
//	@Security	BearerAuth
//	@Accept		json
//	@Accept		mpfd
//	@Produce	json
//	@Param		request	body		createAssetRequest	true	"Asset"
//	@Success	201		{object}	assetResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	409		{object}	httpx.ErrorResponse	"Code already in use"
//	@Failure	502		{object}	httpx.ErrorResponse	"Image upload failed"
//	@Router		/v1/assets [post]
func (h *AssetsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var (
		req    createAssetRequest
		images []service.ImageFile
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed multipart body")
			return
		}
		req = createAssetRequest{
			Code:        r.FormValue("code"),
			Name:        r.FormValue("name"),
			Type:        r.FormValue("type"),
			Description: r.FormValue("description"),
			Vendor:      r.FormValue("vendor"),
			Model:       r.FormValue("model"),
			PurchaseURL: r.FormValue("purchaseUrl"),
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

	typ, err := domain.ParseAssetType(req.Type)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	a, err := h.AssetService.Create(r.Context(), service.CreateAssetParams{
		Code:        req.Code,
		Name:        req.Name,
		Type:        typ,
		Description: req.Description,
		Vendor:      req.Vendor,
		Model:       req.Model,
		PurchaseURL: req.PurchaseURL,
		Images:      images,
	}, httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAssetResponse(a))
}

// HandleList lists assets with filtering, sorting and pagination.
//
//	@Summary	List assets
//	@Tags		Assets
//	@Produce	json
//	@Param		code		query		string	false	"Partial code match"
//	@Param		name		query		string	false	"Partial name match"
//	@Param		vendor		query		string	false	"Partial vendor match"
//	@Param		model		query		string	false	"Partial model match"
//	@Param		type		query		string	false	"Exact type"	Enums(Device, Appliance, Furniture, IT, Facility)
//	@Param		active		query		bool	false	"Soft delete flag"
//	@Param		createdBy	query		string	false	"Creator user id"
//	@Param		page		query		int		false	"Page (default 1)"
//	@Param		pageSize	query		int		false	"Page size (default 20, max 200)"
//	@Param		sortBy		query		string	false	"Sort field"
//	@Param		order		query		string	false	"asc or desc (default desc)"
//	@Success	200			{object}	domain.Page[assetResponse]
//	@Failure	400			{object}	httpx.ErrorResponse	"Unknown enum value"
//	@Router		/v1/assets [get]
func (h *AssetsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := domain.AssetFilter{
		Code:      q.Get("code"),
		Name:      q.Get("name"),
		Vendor:    q.Get("vendor"),
		Model:     q.Get("model"),
		CreatedBy: q.Get("createdBy"),
	}
	if raw := q.Get("type"); raw != "" {
		typ, err := domain.ParseAssetType(raw)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		f.Type = &typ
	}
	active, err := parseBoolParam(q.Get("active"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_query_parameter", err.Error())
		return
	}
	f.Active = active

	page, err := h.AssetService.List(r.Context(), f, pageSpecFromQuery(q, store.AssetSortFields))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAssetPage(page))
}

// HandleGet fetches one asset.
//
//	@Summary	Get asset
//	@Tags		Assets
//	@Produce	json
//	@Param		id	path		string	true	"Asset id"
//	@Success	200	{object}	assetResponse
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/v1/assets/{id} [get]
func (h *AssetsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	a, err := h.AssetService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAssetResponse(a))
}

// HandleUpdate patches an asset.
//
//	@Summary	Update asset
//	@Tags		Assets
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Asset id"
//	@Param		request	body		updateAssetRequest	true	"Fields to change"
//	@Success	200		{object}	assetResponse
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Router		/v1/assets/{id} [patch]
func (h *AssetsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	params := service.UpdateAssetParams{
		Name:        req.Name,
		Description: req.Description,
		Vendor:      req.Vendor,
		Model:       req.Model,
		PurchaseURL: req.PurchaseURL,
	}
	if req.Type != nil {
		typ, err := domain.ParseAssetType(*req.Type)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		params.Type = &typ
	}

	a, err := h.AssetService.Update(r.Context(), r.PathValue("id"), params, httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAssetResponse(a))
}

// HandleDelete retires an asset. The record stays; active flips off.
//
//	@Summary	Retire asset
//	@Tags		Assets
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Asset id"
//	@Success	200	{object}	assetResponse
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/v1/assets/{id} [delete]
func (h *AssetsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	a, err := h.AssetService.Retire(r.Context(), r.PathValue("id"), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAssetResponse(a))
}

type createItemsRequest struct {
	Quantity      int      `json:"quantity"`
	SerialNumbers []string `json:"serialNumbers"`
	LocationID    string   `json:"locationId"`
	OwnerDeptID   string   `json:"ownerDeptId"`
	Note          string   `json:"note"`
}

// HandleCreateItems mints deployable items under an asset.
//
//	@Summary	Create asset items
//	@Tags		Assets
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"Asset id"
//	@Param		request	body		createItemsRequest	true	"Batch"
//	@Success	201		{array}		itemResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Router		/v1/assets/{id}/items [post]
func (h *AssetsHandler) HandleCreateItems(w http.ResponseWriter, r *http.Request) {
	var req createItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	items, err := h.AssetService.CreateItems(r.Context(), r.PathValue("id"), service.CreateItemsParams{
		Quantity:      req.Quantity,
		SerialNumbers: req.SerialNumbers,
		LocationID:    req.LocationID,
		OwnerDeptID:   req.OwnerDeptID,
		Note:          req.Note,
	}, httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]itemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	httpx.WriteJSON(w, http.StatusCreated, out)
}

// HandleAddImages appends uploaded images to an asset.
//
//	@Summary	Add asset images
//	@Tags		Assets
//	@Security	BearerAuth
//	@Accept		mpfd
//	@Produce	json
//	@Param		id		path		string	true	"Asset id"
//	@Param		files	formData	file	true	"Image files"
//	@Success	200		{object}	assetResponse
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Failure	409		{object}	httpx.ErrorResponse	"Concurrent image change"
//	@Failure	502		{object}	httpx.ErrorResponse	"Upload failed"
//	@Router		/v1/assets/{id}/images [post]
func (h *AssetsHandler) HandleAddImages(w http.ResponseWriter, r *http.Request) {
	files, err := imageFilesFromRequest(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	a, err := h.AssetService.AddImages(r.Context(), r.PathValue("id"), files, httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAssetResponse(a))
}

// HandleRemoveImage removes the image at an index.
//
//	@Summary	Remove asset image
//	@Tags		Assets
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id			path		string	true	"Asset id"
//	@Param		imgIndex	path		int		true	"Image index"
//	@Success	200			{object}	assetResponse
//	@Failure	400			{object}	httpx.ErrorResponse	"Index out of range"
//	@Failure	404			{object}	httpx.ErrorResponse
//	@Failure	409			{object}	httpx.ErrorResponse	"Concurrent image change"
//	@Failure	502			{object}	httpx.ErrorResponse	"Blob delete failed"
//	@Router		/v1/assets/{id}/images/{imgIndex} [delete]
func (h *AssetsHandler) HandleRemoveImage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("imgIndex"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_index", "Image index must be an integer")
		return
	}

	a, err := h.AssetService.RemoveImage(r.Context(), r.PathValue("id"), index, httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAssetResponse(a))
}
