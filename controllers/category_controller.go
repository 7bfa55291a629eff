package controllers

import (
	"net/http"

	"github.com/Danibruno18/credix/services"
	"github.com/gin-gonic/gin"
)

const defaultPageSize = 50

// CategoryController обрабатывает запросы к категориям
type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

func (c *CategoryController) List(ctx *gin.Context) {
	page, err := queryInt(ctx, "page", 1)
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}
	pageSize, err := queryInt(ctx, "page_size", defaultPageSize)
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}
	active, err := optionalQueryBool(ctx, "is_active", true)
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	categories, err := c.categories.List(ctx.Request.Context(), userID(ctx), services.ListCategoriesRequest{
		Page:     page,
		PageSize: pageSize,
		IsActive: active,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, categories)
}

func (c *CategoryController) Create(ctx *gin.Context) {
	var req services.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	category, err := c.categories.Create(ctx.Request.Context(), userID(ctx), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, category)
}

func (c *CategoryController) Get(ctx *gin.Context) {
	category, err := c.categories.Get(ctx.Request.Context(), userID(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, category)
}

func (c *CategoryController) Update(ctx *gin.Context) {
	var req services.UpdateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	category, err := c.categories.Update(ctx.Request.Context(), userID(ctx), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, category)
}

func (c *CategoryController) Delete(ctx *gin.Context) {
	if err := c.categories.Delete(ctx.Request.Context(), userID(ctx), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
