package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JuanVergara-9/miservicio-api/internal/delivery/http/middleware"
	"github.com/JuanVergara-9/miservicio-api/internal/delivery/http/response"
	"github.com/JuanVergara-9/miservicio-api/internal/domain"
	"github.com/JuanVergara-9/miservicio-api/pkg/apperror"
)

type ReviewHandler struct {
	reviewUC domain.ReviewUsecase
}

func NewReviewHandler(public *gin.RouterGroup, protected *gin.RouterGroup, reviewUC domain.ReviewUsecase) {
	handler := &ReviewHandler{reviewUC: reviewUC}

	public.GET("/providers/:id/reviews", handler.ListByProvider)
	public.GET("/providers/:id/reviews/summary", handler.Summary)

	reviews := protected.Group("/reviews")
	{
		reviews.POST("", handler.Create)
		reviews.GET("/check/:providerId", handler.Check)
		reviews.GET("/me", handler.MyReviews)
	}
}

// ListByProvider godoc
// @Summary      Provider reviews
// @Tags         reviews
// @Produce      json
// @Param        id   path      int  true  "Provider id"
// @Success      200    {object}  response.Response
// @Router       /providers/{id}/reviews [get]
func (h *ReviewHandler) ListByProvider(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	reviews, err := h.reviewUC.ListByProvider(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", reviews)
}

// Summary godoc
// @Summary      Rating summary
// @Description  Average rating plus the 1..5 star distribution.
// @Tags         reviews
// @Produce      json
// @Param        id   path      int  true  "Provider id"
// @Success      200    {object}  response.Response
// @Router       /providers/{id}/reviews/summary [get]
func (h *ReviewHandler) Summary(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	summary, err := h.reviewUC.Summary(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", summary)
}

// Create godoc
// @Summary      Create a review
// @Description  One review per user per provider; rating must be between 1 and 5.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        review  body      domain.ReviewInput  true  "Review"
// @Success      201    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      409    {object}  response.Response
// @Router       /reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	var in domain.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	token := c.GetString(middleware.TokenKey)
	review, err := h.reviewUC.Create(c.Request.Context(), token, in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Reseña publicada", review)
}

func (h *ReviewHandler) Check(c *gin.Context) {
	providerID, ok := intParam(c, "providerId")
	if !ok {
		return
	}
	token := c.GetString(middleware.TokenKey)
	check, err := h.reviewUC.HasReviewed(c.Request.Context(), token, providerID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", check)
}

func (h *ReviewHandler) MyReviews(c *gin.Context) {
	token := c.GetString(middleware.TokenKey)
	reviews, err := h.reviewUC.MyReviews(c.Request.Context(), token)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", reviews)
}
