package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/auth"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/validation"
)

type sessionResponse struct {
	Token string    `json:"token"`
	User  auth.User `json:"user"`
}

func (h *handler) signUp(c *gin.Context) {
	var req validation.SignUpRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	p, err := h.Sessions.Register(c.Request.Context(), auth.Registration{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
		Role:     auth.Role(req.Role),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{Token: p.Session.Token, User: p.User})
}

func (h *handler) signIn(c *gin.Context) {
	var req validation.SignInRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	p, err := h.Sessions.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Token: p.Session.Token, User: p.User})
}

func (h *handler) signOut(c *gin.Context) {
	p := principal(c)
	if err := h.Sessions.SignOut(c.Request.Context(), p.Session.Token); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	// carts do not outlive the session
	h.Carts.Drop(p.User.ID)
	c.Status(http.StatusNoContent)
}

func (h *handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, principal(c).User)
}
