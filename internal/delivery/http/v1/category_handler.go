package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JuanVergara-9/miservicio-api/internal/delivery/http/response"
	"github.com/JuanVergara-9/miservicio-api/internal/domain"
)

type CategoryHandler struct {
	categoryUC domain.CategoryUsecase
}

func NewCategoryHandler(public *gin.RouterGroup, categoryUC domain.CategoryUsecase) {
	handler := &CategoryHandler{categoryUC: categoryUC}

	categories := public.Group("/categories")
	{
		categories.GET("", handler.List)
		categories.GET("/:id", handler.Get)
		categories.GET("/:id/subcategories", handler.Subcategories)
	}
}

// List godoc
// @Summary      List categories
// @Description  All service categories with their nested subcategories
// @Tags         categories
// @Produce      json
// @Success      200    {object}  response.Response
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryUC.ListCategories(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", categories)
}

// Get godoc
// @Summary      Category detail
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "Category id"
// @Success      200    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	category, err := h.categoryUC.GetCategory(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", category)
}

func (h *CategoryHandler) Subcategories(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	subs, err := h.categoryUC.ListSubcategories(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", subs)
}
