package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JuanVergara-9/miservicio-api/internal/delivery/http/middleware"
	"github.com/JuanVergara-9/miservicio-api/internal/delivery/http/response"
	"github.com/JuanVergara-9/miservicio-api/internal/domain"
	"github.com/JuanVergara-9/miservicio-api/pkg/apperror"
)

type ProviderHandler struct {
	providerUC domain.ProviderUsecase
}

func NewProviderHandler(public *gin.RouterGroup, protected *gin.RouterGroup, providerUC domain.ProviderUsecase) {
	handler := &ProviderHandler{providerUC: providerUC}

	providers := public.Group("/providers")
	{
		providers.GET("", handler.Search)
		providers.GET("/featured", handler.Featured)
		providers.GET("/:id", handler.Get)
	}

	mine := protected.Group("/providers")
	{
		mine.GET("/me/profile", handler.MyProfile)
		mine.PUT("/me/profile", handler.UpdateProfile)
	}
}

// Search godoc
// @Summary      Search providers
// @Description  Filter by category, subcategory, province, city, free text and minimum rating. Street address, national id and birthdate are never included.
// @Tags         providers
// @Produce      json
// @Param        category     query  int     false  "Category id"
// @Param        subcategory  query  int     false  "Subcategory id"
// @Param        province     query  string  false  "Province name"
// @Param        city         query  string  false  "City substring"
// @Param        q            query  string  false  "Free-text query"
// @Param        minRating    query  number  false  "Minimum average rating"
// @Param        sortBy       query  string  false  "rating | reviews | newest"
// @Param        page         query  int     false  "Page, starting at 1"
// @Param        limit        query  int     false  "Page size"
// @Success      200    {object}  response.Response
// @Router       /providers [get]
func (h *ProviderHandler) Search(c *gin.Context) {
	filters := domain.ProviderSearchFilters{
		Province: c.Query("province"),
		City:     c.Query("city"),
		Query:    c.Query("q"),
		SortBy:   c.Query("sortBy"),
	}
	filters.Category, _ = strconv.Atoi(c.Query("category"))
	filters.Subcategory, _ = strconv.Atoi(c.Query("subcategory"))
	filters.MinRating, _ = strconv.ParseFloat(c.Query("minRating"), 64)
	filters.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	providers, err := h.providerUC.Search(c.Request.Context(), filters)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", providers)
}

// Featured godoc
// @Summary      Featured providers
// @Tags         providers
// @Produce      json
// @Success      200    {object}  response.Response
// @Router       /providers/featured [get]
func (h *ProviderHandler) Featured(c *gin.Context) {
	providers, err := h.providerUC.Featured(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", providers)
}

// Get godoc
// @Summary      Provider detail
// @Tags         providers
// @Produce      json
// @Param        id   path      int  true  "Provider id"
// @Success      200    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /providers/{id} [get]
func (h *ProviderHandler) Get(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	provider, err := h.providerUC.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", provider)
}

// MyProfile godoc
// @Summary      Own provider profile
// @Tags         providers
// @Produce      json
// @Security     BearerAuth
// @Success      200    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /providers/me/profile [get]
func (h *ProviderHandler) MyProfile(c *gin.Context) {
	token := c.GetString(middleware.TokenKey)
	provider, err := h.providerUC.MyProfile(c.Request.Context(), token)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", provider)
}

// UpdateProfile godoc
// @Summary      Edit own provider profile
// @Description  Profile editing has its own validation rules, independent from the onboarding wizard's.
// @Tags         providers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        profile  body      domain.ProviderProfileUpdate  true  "Profile fields"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /providers/me/profile [put]
func (h *ProviderHandler) UpdateProfile(c *gin.Context) {
	var upd domain.ProviderProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	token := c.GetString(middleware.TokenKey)
	provider, err := h.providerUC.UpdateProfile(c.Request.Context(), token, &upd)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Perfil actualizado", provider)
}
