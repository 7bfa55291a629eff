package controllers

import (
	"errors"
	"net/http"

	"github.com/Danibruno18/credix/models"
	"github.com/Danibruno18/credix/services"
	"github.com/gin-gonic/gin"
)

// TransactionController обрабатывает запросы к транзакциям
type TransactionController struct {
	transactions *services.TransactionService
}

func NewTransactionController(transactions *services.TransactionService) *TransactionController {
	return &TransactionController{transactions: transactions}
}

// respondMutationError: ссылка на несуществующую категорию в теле запроса это 400, а не 404
func respondMutationError(ctx *gin.Context, err error) {
	if errors.Is(err, services.ErrCategoryNotFound) {
		badRequest(ctx, err.Error())
		return
	}
	respondError(ctx, err)
}

func (c *TransactionController) List(ctx *gin.Context) {
	req := services.ListTransactionsRequest{
		CategoryID: optionalQueryString(ctx, "category_id"),
	}
	if raw := optionalQueryString(ctx, "transaction_type"); raw != nil {
		txType := models.TransactionType(*raw)
		req.Type = &txType
	}

	var err error
	if req.StartDate, err = optionalQueryTime(ctx, "start_date"); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	if req.EndDate, err = optionalQueryTime(ctx, "end_date"); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	if req.Page, err = queryInt(ctx, "page", 1); err != nil {
		badRequest(ctx, err.Error())
		return
	}
	if req.PageSize, err = queryInt(ctx, "page_size", defaultPageSize); err != nil {
		badRequest(ctx, err.Error())
		return
	}

	transactions, err := c.transactions.List(ctx.Request.Context(), userID(ctx), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, transactions)
}

func (c *TransactionController) Create(ctx *gin.Context) {
	var req services.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	transaction, err := c.transactions.Create(ctx.Request.Context(), userID(ctx), req)
	if err != nil {
		respondMutationError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, transaction)
}

func (c *TransactionController) Update(ctx *gin.Context) {
	var req services.UpdateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	transaction, err := c.transactions.Update(ctx.Request.Context(), userID(ctx), ctx.Param("id"), req)
	if err != nil {
		respondMutationError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, transaction)
}

func (c *TransactionController) Delete(ctx *gin.Context) {
	if err := c.transactions.Delete(ctx.Request.Context(), userID(ctx), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
