package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

// SessionManager is the session side of the API.
type SessionManager interface {
	SignIn(ctx context.Context, email, password string) (*services.Session, error)
	SignUp(ctx context.Context, name, email, password string) (*services.Session, error)
	SignOut(ctx context.Context, userID, refreshToken string) error
}

// UserManager serves the user endpoints.
type UserManager interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, page, limit int) (*services.Page, error)
	Create(ctx context.Context, name, email, password string) (*models.User, error)
}

type handlers struct {
	sessions SessionManager
	users    UserManager
	cookies  *CookieManager
}

func (h *handlers) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	s, err := h.sessions.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	h.cookies.SetSession(c, s.AccessToken, s.RefreshToken)
	respond(c, http.StatusOK, "signed in", toUserResponse(s.User), nil)
}

func (h *handlers) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	s, err := h.sessions.SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	h.cookies.SetSession(c, s.AccessToken, s.RefreshToken)
	respond(c, http.StatusCreated, "signed up", toUserResponse(s.User), nil)
}

func (h *handlers) signOut(c *gin.Context) {
	_, refresh := tokens(c)

	if err := h.sessions.SignOut(c.Request.Context(), c.GetString(ctxKeyUserID), refresh); err != nil {
		fail(c, err)
		return
	}

	h.cookies.Clear(c)
	respond(c, http.StatusOK, "signed out", nil, nil)
}

func (h *handlers) me(c *gin.Context) {
	h.writeUser(c, c.GetString(ctxKeyUserID))
}

func (h *handlers) getUser(c *gin.Context) {
	var p userIDParam
	if err := c.ShouldBindUri(&p); err != nil {
		failBinding(c, err)
		return
	}
	h.writeUser(c, p.ID)
}

func (h *handlers) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	u, err := h.users.Create(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "user created", toUserResponse(u), nil)
}

func (h *handlers) writeUser(c *gin.Context, id string) {
	u, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "user", toUserResponse(u), nil)
}

func (h *handlers) listUsers(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		failBinding(c, err)
		return
	}

	p, err := h.users.List(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]userResponse, 0, len(p.Users))
	for _, u := range p.Users {
		out = append(out, toUserResponse(u))
	}
	respond(c, http.StatusOK, "users", out, pageMeta{Page: p.Page, Limit: p.Limit, Total: p.Total, PageCount: p.PageCount})
}

func healthz(c *gin.Context) {
	respond(c, http.StatusOK, "ok", nil, nil)
}
