package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest int64) bool

func newComparisonValidator(valueInClosure int64, compareFn func(argValue, closedValue int64) bool) ParamValidator {
	return func(argValue int64) bool {
		return compareFn(argValue, valueInClosure)
	}
}

// gte returns a ParamValidator that checks if the argument is greater than or equal to the value captured in the closure.
func gte(valToCompareAgainst int64) ParamValidator {
	return newComparisonValidator(valToCompareAgainst, func(argValue, closedValue int64) bool {
		return argValue >= closedValue
	})
}

// gt returns a ParamValidator that checks if the argument is greater than the value captured in the closure.
func gt(valToCompareAgainst int64) ParamValidator {
	return newComparisonValidator(valToCompareAgainst, func(argValue, closedValue int64) bool {
		return argValue > closedValue
	})
}

// ParseValidateGte parses a required int32 query parameter that must be >= value.
func ParseValidateGte(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, value int64) (int32, bool) {
	return parseValidate(r, w, logger, key, gte(value))
}

// ParseValidateGt parses a required int32 query parameter that must be > value.
func ParseValidateGt(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, value int64) (int32, bool) {
	return parseValidate(r, w, logger, key, gt(value))
}

func parseValidate(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, pValidator ParamValidator) (int32, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("%s url parameter is required", key))
		return 0, false
	}
	return parseInt32(w, logger, key, value, pValidator)
}

// ParseOptionalInt parses an int32 query parameter, returning def when it is absent.
// Values lower than minValue are rejected.
func ParseOptionalInt(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, minValue, def int32) (int32, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return def, true
	}
	return parseInt32(w, logger, key, value, gte(int64(minValue)))
}

func parseInt32(w http.ResponseWriter, logger *slog.Logger, key, value string, pValidator ParamValidator) (int32, bool) {
	intValue, err := strconv.ParseInt(value, 10, 32)
	if err != nil || !pValidator(intValue) {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, value))
		return 0, false
	}
	return int32(intValue), true
}

// ParseDecimal parses a required decimal query parameter.
func ParseDecimal(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string) (decimal.Decimal, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("%s url parameter is required", key))
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, value))
		return decimal.Zero, false
	}
	return d, true
}

// ParseOptionalDecimal parses a decimal query parameter; nil means absent.
func ParseOptionalDecimal(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string) (*decimal.Decimal, bool) {
	if r.URL.Query().Get(key) == "" {
		return nil, true
	}
	d, ok := ParseDecimal(r, w, logger, key)
	if !ok {
		return nil, false
	}
	return &d, true
}

// ParseOptionalBool parses a boolean query parameter; absent means false.
func ParseOptionalBool(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string) (bool, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return false, true
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s flag: %s", key, value))
		return false, false
	}
	return b, true
}

// ParseOptionalUUID parses a UUID query parameter; nil means absent.
func ParseOptionalUUID(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string) (*uuid.UUID, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, true
	}
	id, err := uuid.Parse(value)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %s", key, value))
		return nil, false
	}
	return &id, true
}
