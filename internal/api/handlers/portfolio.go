package handlers

import (
	"errors"
	"net/http"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/service"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/validation"
)

// PortfolioHandler handles HTTP requests for portfolio endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the portfolioService.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Summary handles GET requests to retrieve the open holdings and aggregate metrics.
//
// Endpoint: GET /api/portfolio/summary
// Response: 200 OK with PortfolioSummary
// Error: 500 Internal Server Error if the portfolio cannot be loaded
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioService.Summary(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetPortfolioSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// Transactions handles GET requests to retrieve the transaction log in the order it was recorded.
//
// Endpoint: GET /api/portfolio/transactions
// Response: 200 OK with array of Transaction
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.portfolioService.Transactions(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// Prices handles GET requests to retrieve the current price of every fund in the log.
//
// Endpoint: GET /api/prices
// Response: 200 OK with an object mapping symbol to price
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Prices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.portfolioService.Prices(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePrices.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, prices)
}

// CreateTransaction handles POST requests to record a new transaction.
// Validates the request body, appends the transaction and returns the recomputed portfolio.
//
// Endpoint: POST /api/portfolio/transactions
// Request Body: CreateTransactionRequest (symbol, type, quantity, date, optional price)
// Response: 201 Created with the ingestion result
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if no price is given and the fund has no published price
// Error: 500 Internal Server Error if creation fails
func (h *PortfolioHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := validation.ValidateCreateTransaction(req)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
			return
		}
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.portfolioService.AddTransaction(r.Context(), entry, req.Price)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrFundNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrDuplicateEntry):
			response.RespondError(w, http.StatusConflict, apperrors.ErrDuplicateEntry.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreateTransaction.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, result)
}
