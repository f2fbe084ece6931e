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

type UsersHandler struct {
	UserService *service.UserService
}

// userResponse never carries the password hash.
type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	DeptID    string    `json:"deptId,omitempty"`
	CreatedBy string    `json:"createdBy,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Status:    string(u.Status),
		DeptID:    u.DeptID,
		CreatedBy: u.CreatedBy,
		UpdatedBy: u.UpdatedBy,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserPage(p domain.Page[domain.User]) domain.Page[userResponse] {
	items := make([]userResponse, len(p.Items))
	for i, u := range p.Items {
		items[i] = toUserResponse(u)
	}
	return domain.Page[userResponse]{
		Items:     items,
		Total:     p.Total,
		Page:      p.Page,
		PageSize:  p.PageSize,
		TotalPage: p.TotalPage,
	}
}

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	DeptID   string `json:"deptId"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Status   *string `json:"status"`
	DeptID   *string `json:"deptId"`
	Password *string `json:"password"`
}

// HandleCreate creates a user.
//
//	@Summary	Create user
//	@Tags		Users
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		createUserRequest	true	"User"
//	@Success	201		{object}	userResponse
//	@Failure	400		{object}	httpx.ErrorResponse
//	@Failure	409		{object}	httpx.ErrorResponse	"Username or email taken"
//	@Router		/v1/users [post]
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	params := service.CreateUserParams{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		DeptID:   req.DeptID,
	}
	if req.Role != "" {
		role, err := domain.ParseRole(req.Role)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		params.Role = role
	}
	if req.Status != "" {
		status, err := domain.ParseUserStatus(req.Status)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		params.Status = status
	}

	u, err := h.UserService.Create(r.Context(), params, httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(u))
}

// HandleList lists users.
//
//	@Summary	List users
//	@Tags		Users
//	@Produce	json
//	@Param		username	query		string	false	"Partial username match"
//	@Param		email		query		string	false	"Partial email match"
//	@Param		name		query		string	false	"Partial name match"
//	@Param		role		query		string	false	"Exact role"	Enums(admin, manager, user)
//	@Param		status		query		string	false	"Exact status"	Enums(active, blocked)
//	@Param		deptId		query		string	false	"Department id"
//	@Param		page		query		int		false	"Page (default 1)"
//	@Param		pageSize	query		int		false	"Page size (default 20, max 200)"
//	@Param		sortBy		query		string	false	"Sort field"
//	@Param		order		query		string	false	"asc or desc (default desc)"
//	@Success	200			{object}	domain.Page[userResponse]
//	@Failure	400			{object}	httpx.ErrorResponse	"Unknown enum value"
//	@Router		/v1/users [get]
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := domain.UserFilter{
		Username: q.Get("username"),
		Email:    q.Get("email"),
		Name:     q.Get("name"),
		DeptID:   q.Get("deptId"),
	}
	if raw := q.Get("role"); raw != "" {
		role, err := domain.ParseRole(raw)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		f.Role = &role
	}
	if raw := q.Get("status"); raw != "" {
		status, err := domain.ParseUserStatus(raw)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		f.Status = &status
	}

	page, err := h.UserService.List(r.Context(), f, pageSpecFromQuery(q, store.UserSortFields))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserPage(page))
}

// HandleGet fetches one user.
//
//	@Summary	Get user
//	@Tags		Users
//	@Produce	json
//	@Param		id	path		string	true	"User id"
//	@Success	200	{object}	userResponse
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/v1/users/{id} [get]
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.UserService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

// HandleUpdate patches a user.
//
//	@Summary	Update user
//	@Tags		Users
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"User id"
//	@Param		request	body		updateUserRequest	true	"Fields to change"
//	@Success	200		{object}	userResponse
//	@Failure	404		{object}	httpx.ErrorResponse
//	@Router		/v1/users/{id} [patch]
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}

	params := service.UpdateUserParams{
		Name:     req.Name,
		DeptID:   req.DeptID,
		Password: req.Password,
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		params.Role = &role
	}
	if req.Status != nil {
		status, err := domain.ParseUserStatus(*req.Status)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		params.Status = &status
	}

	u, err := h.UserService.Update(r.Context(), r.PathValue("id"), params, httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

// HandleDelete removes a user outright.
//
//	@Summary	Delete user
//	@Tags		Users
//	@Security	BearerAuth
//	@Param		id	path	string	true	"User id"
//	@Success	204
//	@Failure	404	{object}	httpx.ErrorResponse
//	@Router		/v1/users/{id} [delete]
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.UserService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
