package searchconsole

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// Configuration errors. These surface synchronously while a query is being
// built, before any network I/O, and indicate caller misuse.
var (
	// ErrInvalidDate indicates a date string could not be parsed, or an
	// explicit stop date was combined with a day/month offset.
	ErrInvalidDate = errors.New("searchconsole: invalid date")

	// ErrInvalidDimension indicates an unknown dimension name.
	ErrInvalidDimension = errors.New("searchconsole: invalid dimension")

	// ErrInvalidFilter indicates a filter with an unknown dimension or operator.
	ErrInvalidFilter = errors.New("searchconsole: invalid filter")

	// ErrInvalidSearchType indicates an unknown search type.
	ErrInvalidSearchType = errors.New("searchconsole: invalid search type")

	// ErrInvalidDataState indicates an unknown data state.
	ErrInvalidDataState = errors.New("searchconsole: invalid data state")

	// ErrInvalidRowLimit indicates a negative row limit or start offset.
	ErrInvalidRowLimit = errors.New("searchconsole: invalid row limit")
)

// Transport errors. These originate from the Search Console API during
// Execute or Get and are propagated to the caller without internal retries.
var (
	// ErrUnauthorized indicates invalid or expired credentials.
	ErrUnauthorized = errors.New("searchconsole: unauthorised (invalid credentials)")

	// ErrForbidden indicates insufficient permissions on the property.
	ErrForbidden = errors.New("searchconsole: forbidden (insufficient permissions)")

	// ErrNotFound indicates the property is not registered for this account.
	ErrNotFound = errors.New("searchconsole: property not found")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("searchconsole: rate limit exceeded")

	// ErrQuotaExceeded indicates the daily API quota was exhausted.
	ErrQuotaExceeded = errors.New("searchconsole: quota exceeded")
)

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusUnauthorized
	}
	return false
}

// IsForbidden returns true if the error indicates insufficient permissions.
func IsForbidden(err error) bool {
	if errors.Is(err, ErrForbidden) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusForbidden
	}
	return false
}

// IsNotFound returns true if the error indicates an unknown property.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusNotFound
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests
	}
	return false
}

// wrapAPIError converts a Search Console API error to a sentinel error,
// keeping the original error in the chain for errors.As inspection.
func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch gerr.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case http.StatusForbidden:
		if isQuotaReason(gerr) {
			return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
		}
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	default:
		return err
	}
}

// isQuotaReason checks whether a 403 carries a quota reason rather than a
// permission problem. The API reports daily quota exhaustion as 403.
func isQuotaReason(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		if strings.Contains(strings.ToLower(item.Reason), "quota") {
			return true
		}
	}
	return false
}
