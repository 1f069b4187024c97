package contract

import "errors"

var (
	ErrValidation           = errors.New("validation failed")
	ErrModelInvoke          = errors.New("model invoke failed")
	ErrSchemaViolation      = errors.New("model response violates schema")
	ErrAuth                 = errors.New("provider authentication failed")
	ErrRateLimited          = errors.New("provider rate limit exceeded")
	ErrNotFound             = errors.New("record not found")
	ErrUnsupportedChartKind = errors.New("unsupported chart kind")
	ErrUnsupportedPlaceType = errors.New("unsupported place type")
)
