package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JuanVergara-9/miservicio-api/internal/delivery/http/middleware"
	"github.com/JuanVergara-9/miservicio-api/internal/delivery/http/response"
	"github.com/JuanVergara-9/miservicio-api/internal/domain"
	"github.com/JuanVergara-9/miservicio-api/internal/gateway"
	"github.com/JuanVergara-9/miservicio-api/pkg/apperror"
)

type AuthHandler struct {
	gateway gateway.Client
}

func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, gw gateway.Client, loginLimiter gin.HandlerFunc) {
	handler := &AuthHandler{gateway: gw}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/login", loginLimiter, handler.Login)
		publicAuth.POST("/register", loginLimiter, handler.Register)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.GET("/me", handler.Me)
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary      User Registration
// @Description  Register a new client account with name, email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      domain.RegisterInput  true  "Registration Details"
// @Success      201    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      409    {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	sess, err := h.gateway.Register(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Cuenta creada", sess)
}

// Login godoc
// @Summary      User Login
// @Description  Authenticate with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Credentials"
// @Success      200    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	sess, err := h.gateway.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Sesión iniciada", sess)
}

// Me godoc
// @Summary      Current account
// @Description  Returns the account behind the bearer token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	token := c.GetString(middleware.TokenKey)
	user, err := h.gateway.Me(c.Request.Context(), token)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", user)
}
