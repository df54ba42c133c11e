package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/service"
)

// FundHandler handles HTTP requests for fund endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the fundService.
type FundHandler struct {
	fundService    *service.FundService
	refreshService *service.RefreshService
}

// NewFundHandler creates a new FundHandler. refreshService is nil when the dashboard
// serves mock data, in which case refresh requests are rejected.
func NewFundHandler(fundService *service.FundService, refreshService *service.RefreshService) *FundHandler {
	return &FundHandler{
		fundService:    fundService,
		refreshService: refreshService,
	}
}

// Funds handles GET requests to retrieve the fund directory.
//
// Endpoint: GET /api/funds
// Response: 200 OK with an object mapping symbol to display name
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) Funds(w http.ResponseWriter, r *http.Request) {
	funds, err := h.fundService.Funds(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveFunds.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, funds)
}

// History handles GET requests to retrieve the price history of a fund,
// most recent first, narrowed to the requested window.
//
// Endpoint: GET /api/funds/{symbol}/historical?window=month
// Response: 200 OK with array of HistoricalDataPoint
// Error: 400 Bad Request if symbol is invalid (validated by middleware) or window is unknown
// Error: 404 Not Found if the fund does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) History(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	window, err := request.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid window", err.Error())
		return
	}

	history, err := h.fundService.History(r.Context(), symbol, window)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveFundHistory.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, history)
}

// Price handles GET requests to retrieve the latest price of a fund.
//
// Endpoint: GET /api/funds/{symbol}/price
// Response: 200 OK with FundPrice
// Error: 400 Bad Request if symbol is invalid (validated by middleware)
// Error: 404 Not Found if the fund has no published price
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) Price(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	price, err := h.fundService.LatestPrice(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveFundPrice.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, price)
}

// Refresh handles POST requests to pull new historical data from TEFAS for every fund.
//
// Endpoint: POST /api/funds/refresh
// Response: 200 OK with RefreshResult
// Error: 409 Conflict if a refresh is already running
// Error: 503 Service Unavailable when serving mock data
// Error: 500 Internal Server Error if the refresh could not start
func (h *FundHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.refreshService == nil {
		response.RespondError(w, http.StatusServiceUnavailable, apperrors.ErrRefreshUnavailable.Error(), nil)
		return
	}

	result, err := h.refreshService.Refresh(r.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrRefreshInProgress) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrRefreshInProgress.Error(), nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshFunds.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
