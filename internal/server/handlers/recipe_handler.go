package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
	"github.com/mamadbah2/dyecalc/internal/service/printing"
	"github.com/mamadbah2/dyecalc/internal/service/recipes"
)

// RecipeHandler exposes the saved recipe history.
type RecipeHandler struct {
	svc     *recipes.Service
	printer *printing.Service
	logger  *zap.Logger
}

// NewRecipeHandler constructs the HTTP handler adapter.
func NewRecipeHandler(svc *recipes.Service, printer *printing.Service, logger *zap.Logger) *RecipeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeHandler{svc: svc, printer: printer, logger: logger}
}

// Save stores the posted requisition as a recipe. When the store fails the
// recipe is still returned with 503 so the client can keep it.
func (h *RecipeHandler) Save(c *gin.Context) {
	var req models.Requisition
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	recipe, err := h.svc.Save(c.Request.Context(), req)
	if errors.Is(err, recipes.ErrPersistence) {
		h.logger.Error("recipe not persisted", zap.String("recipe_id", recipe.ID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "recipe": recipe})
		return
	}
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// List returns recipes newest-first, filtered by ?q=.
func (h *RecipeHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	if list == nil {
		list = []models.Recipe{}
	}
	c.JSON(http.StatusOK, list)
}

// Get returns one recipe.
func (h *RecipeHandler) Get(c *gin.Context) {
	recipe, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// PDF prints a stored recipe.
func (h *RecipeHandler) PDF(c *gin.Context) {
	recipe, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	writeRequisitionPDF(c, h.printer, h.logger, models.Requisition{Form: recipe.FormData, Items: recipe.ChemicalItems})
}

// Delete removes one recipe.
func (h *RecipeHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
