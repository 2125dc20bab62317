package controller

import (
	"dentsim_backend/internal/service"
	"dentsim_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

// ListCases is instructor-only; learners never see case names before a
// settlement reveals them.
func (c *CatalogController) ListCases(ctx *gin.Context) {
	cases, err := c.CatalogService.List()
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, cases)
}
