package v1

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JuanVergara-9/miservicio-api/internal/delivery/http/middleware"
	"github.com/JuanVergara-9/miservicio-api/internal/delivery/http/response"
	"github.com/JuanVergara-9/miservicio-api/internal/domain"
	"github.com/JuanVergara-9/miservicio-api/internal/gateway"
	"github.com/JuanVergara-9/miservicio-api/internal/session"
	"github.com/JuanVergara-9/miservicio-api/internal/wizard"
	"github.com/JuanVergara-9/miservicio-api/pkg/apperror"
	"github.com/JuanVergara-9/miservicio-api/pkg/logger"
)

// OnboardingHandler drives the multi-step become-a-provider flow over
// HTTP. Each client works against one wizard session addressed by id.
type OnboardingHandler struct {
	store      *wizard.Store
	gateway    gateway.Client
	categoryUC domain.CategoryUsecase
}

func NewOnboardingHandler(public *gin.RouterGroup, gw gateway.Client, store *wizard.Store, categoryUC domain.CategoryUsecase, optionalAuth gin.HandlerFunc) {
	handler := &OnboardingHandler{store: store, gateway: gw, categoryUC: categoryUC}

	onboarding := public.Group("/onboarding")
	onboarding.Use(optionalAuth)
	{
		onboarding.POST("", handler.Start)
		onboarding.GET("/:id", handler.Get)
		onboarding.PUT("/:id/fields", handler.SetFields)
		onboarding.POST("/:id/categories/:categoryId", handler.SelectCategory)
		onboarding.DELETE("/:id/categories/:categoryId", handler.DeselectCategory)
		onboarding.POST("/:id/subcategories/:subcategoryId", handler.SelectSubcategory)
		onboarding.DELETE("/:id/subcategories/:subcategoryId", handler.DeselectSubcategory)
		onboarding.POST("/:id/files/:field", handler.UploadFile)
		onboarding.DELETE("/:id/files/:field", handler.ClearFile)
		onboarding.POST("/:id/next", handler.Next)
		onboarding.POST("/:id/prev", handler.Prev)
		onboarding.POST("/:id/goto", handler.GoTo)
		onboarding.POST("/:id/submit", handler.Submit)
	}
}

// Start godoc
// @Summary      Open a provider-onboarding session
// @Description  Starts the five-step wizard. With a valid bearer token the existing-account variant opens, pre-filled and skipping the credentials step.
// @Tags         onboarding
// @Produce      json
// @Success      201    {object}  response.Response
// @Router       /onboarding [post]
func (h *OnboardingHandler) Start(c *gin.Context) {
	sess := session.NewManager(h.gateway, logger.Log)

	var user *domain.User
	if token := c.GetString(middleware.TokenKey); token != "" {
		resumed, err := sess.Resume(c.Request.Context(), token)
		if err != nil {
			c.Error(err)
			return
		}
		user = resumed
	}

	w := h.store.Create(user, sess)
	response.Success(c, http.StatusCreated, "Formulario iniciado", w.Snapshot())
}

// Get godoc
// @Summary      Wizard state
// @Tags         onboarding
// @Produce      json
// @Param        id   path      string  true  "Wizard session id"
// @Success      200    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /onboarding/{id} [get]
func (h *OnboardingHandler) Get(c *gin.Context) {
	w, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", w.Snapshot())
}

// SetFields godoc
// @Summary      Apply field changes
// @Description  Applies one or more field-change events to the form. Keys are form field names, values their new content.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id      path      string             true  "Wizard session id"
// @Param        fields  body      map[string]string  true  "Field updates"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /onboarding/{id}/fields [put]
func (h *OnboardingHandler) SetFields(c *gin.Context) {
	w, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	for field, value := range fields {
		if err := w.SetField(field, value); err != nil {
			c.Error(err)
			return
		}
	}
	response.Success(c, http.StatusOK, "OK", w.Snapshot())
}

func (h *OnboardingHandler) SelectCategory(c *gin.Context) {
	w, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	categoryID, ok := intParam(c, "categoryId")
	if !ok {
		return
	}
	w.SelectCategory(categoryID)
	response.Success(c, http.StatusOK, "OK", w.Snapshot())
}

func (h *OnboardingHandler) DeselectCategory(c *gin.Context) {
	w, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	categoryID, ok := intParam(c, "categoryId")
	if !ok {
		return
	}
	catalog, err := h.subcategoryCatalog(c)
	if err != nil {
		c.Error(err)
		return
	}
	w.DeselectCategory(categoryID, catalog)
	response.Success(c, http.StatusOK, "OK", w.Snapshot())
}

// SelectSubcategory godoc
// @Summary      Select a subcategory
// @Description  Selecting a subcategory also selects its parent category.
// @Tags         onboarding
// @Produce      json
// @Param        id             path      string  true  "Wizard session id"
// @Param        subcategoryId  path      int     true  "Subcategory id"
// @Success      200    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Router       /onboarding/{id}/subcategories/{subcategoryId} [post]
func (h *OnboardingHandler) SelectSubcategory(c *gin.Context) {
	w, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	sub, _, err := h.resolveSubcategory(c)
	if err != nil {
		c.Error(err)
		return
	}
	w.SelectSubcategory(*sub)
	response.Success(c, http.StatusOK, "OK", w.Snapshot())
}

func (h *OnboardingHandler) DeselectSubcategory(c *gin.Context) {
	w, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	sub, catalog, err := h.resolveSubcategory(c)
	if err != nil {
		c.Error(err)
		return
	}
	w.DeselectSubcategory(*sub, catalog)
	response.Success(c, http.StatusOK, "OK", w.Snapshot())
}

// UploadFile godoc
// @Summary      Attach a file
// @Description  Attaches the uploaded file to the given form field (profilePicture, certificate or portfolio).
// @Tags         onboarding
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      string  true  "Wizard session id"
// @Param        field  path      string  true  "Attachment field"
// @Param        file   formData  file    true  "File content"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Router       /onboarding/{id}/files/{field} [post]
func (h *OnboardingHandler) UploadFile(c *gin.Context) {
	w, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("falta el archivo en el campo 'file'"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	if err := w.AttachFile(c.Param("field"), fileHeader.Filename, content); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Archivo adjuntado", w.Snapshot())
}

func (h *OnboardingHandler) ClearFile(c *gin.Context) {
	w, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	if err := w.ClearFile(c.Param("field")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Archivo eliminado", w.Snapshot())
}

// Next godoc
// @Summary      Advance one step
// @Description  Validates the current step; on success the wizard moves forward, otherwise the field errors are returned with the unchanged step.
// @Tags         onboarding
// @Produce      json
// @Param        id   path      string  true  "Wizard session id"
// @Success      200    {object}  response.Response
// @Router       /onboarding/{id}/next [post]
func (h *OnboardingHandler) Next(c *gin.Context) {
	w, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	w.Next()
	response.Success(c, http.StatusOK, "OK", w.Snapshot())
}

func (h *OnboardingHandler) Prev(c *gin.Context) {
	w, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	w.Prev()
	response.Success(c, http.StatusOK, "OK", w.Snapshot())
}

type goToRequest struct {
	Step int `json:"step" binding:"required,min=1,max=5"`
}

// GoTo godoc
// @Summary      Jump to a step
// @Description  Backward jumps are unconditional; forward jumps validate the current step only.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Wizard session id"
// @Param        body  body      goToRequest  true  "Target step"
// @Success      200    {object}  response.Response
// @Router       /onboarding/{id}/goto [post]
func (h *OnboardingHandler) GoTo(c *gin.Context) {
	w, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	var req goToRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}
	w.GoTo(req.Step)
	response.Success(c, http.StatusOK, "OK", w.Snapshot())
}

// Submit godoc
// @Summary      Submit the wizard
// @Description  Runs the full submission flow at the final step. On success the wizard session is discarded.
// @Tags         onboarding
// @Produce      json
// @Param        id   path      string  true  "Wizard session id"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      409    {object}  response.Response
// @Router       /onboarding/{id}/submit [post]
func (h *OnboardingHandler) Submit(c *gin.Context) {
	w, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	result, err := w.Submit(c.Request.Context())
	if err != nil {
		snapshot := w.Snapshot()
		code := apperror.StatusCode(err)
		if code == 0 {
			code = http.StatusBadGateway
		}
		response.Error(c, code, err.Error(), gin.H{"errors": snapshot.Errors, "errorSummary": snapshot.ErrorSummary})
		return
	}

	h.store.Delete(w.ID)
	response.Success(c, http.StatusOK, result.Message, result)
}

func (h *OnboardingHandler) subcategoryCatalog(c *gin.Context) ([]domain.Subcategory, error) {
	categories, err := h.categoryUC.ListCategories(c.Request.Context())
	if err != nil {
		return nil, err
	}
	var catalog []domain.Subcategory
	for _, cat := range categories {
		catalog = append(catalog, cat.Subcategories...)
	}
	return catalog, nil
}

func (h *OnboardingHandler) resolveSubcategory(c *gin.Context) (*domain.Subcategory, []domain.Subcategory, error) {
	id, err := strconv.Atoi(c.Param("subcategoryId"))
	if err != nil {
		return nil, nil, apperror.BadRequest("subcategoryId inválido")
	}
	catalog, err := h.subcategoryCatalog(c)
	if err != nil {
		return nil, nil, err
	}
	for _, sub := range catalog {
		if sub.ID == id {
			return &sub, catalog, nil
		}
	}
	return nil, nil, apperror.NotFound("Subcategoría no encontrada")
}
