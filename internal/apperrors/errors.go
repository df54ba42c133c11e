package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrFundNotFound indicates that a fund with the given symbol is not in the directory.
	ErrFundNotFound = errors.New("fund not found")

	// ErrFundHistoryNotFound indicates that a fund exists but has no published history.
	ErrFundHistoryNotFound = errors.New("fund history not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrRefreshUnavailable indicates that the configured data source cannot be refreshed
	// from TEFAS (mock data files are read-only snapshots).
	ErrRefreshUnavailable = errors.New("refresh is not available for this data source")

	// ErrRefreshInProgress indicates that a refresh is already running.
	ErrRefreshInProgress = errors.New("refresh already in progress")

	// Validation errors for required fields
	ErrInvalidSymbol = errors.New("symbol is required")
	ErrInvalidDate   = errors.New("date parameter is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Fund operation errors
	ErrFailedToRetrieveFunds       = errors.New("failed to retrieve funds")
	ErrFailedToRetrieveFundHistory = errors.New("failed to retrieve fund history")
	ErrFailedToRetrieveFundPrice   = errors.New("failed to retrieve fund price")
	ErrFailedToRefreshFunds        = errors.New("failed to refresh funds")
	ErrFailedToSyncFunds           = errors.New("failed to sync fund list")

	// Portfolio operation errors
	ErrFailedToGetPortfolioSummary = errors.New("failed to get portfolio summary")
	ErrFailedToRetrievePrices      = errors.New("failed to retrieve prices")

	// Transaction operation errors
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToCreateTransaction    = errors.New("failed to create transaction")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")

	// Import errors
	ErrFailedToImportFunds        = errors.New("failed to import funds")
	ErrFailedToImportTransactions = errors.New("failed to import transactions")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a history file is listed in the directory but cannot be decoded).
	ErrDataInconsistency = errors.New("data inconsistency detected")
)
