package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

type PaginationParams struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit/offset query parameters, clamping the limit to
// [1, MaxLimit] and the offset to non-negative.
func ParsePagination(c *gin.Context) PaginationParams {
	p := PaginationParams{Limit: DefaultLimit}

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			p.Limit = l
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			p.Offset = o
		}
	}

	return p
}

// intQuery parses an integer query parameter with a default, rejecting
// values outside [min, max].
func intQuery(c *gin.Context, name string, def, min, max int) (int, error) {
	raw := c.DefaultQuery(name, strconv.Itoa(def))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", name)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("invalid %s: must be between %d and %d", name, min, max)
	}
	return v, nil
}

// floatQuery parses a float query parameter with a default, rejecting values
// outside [min, max].
func floatQuery(c *gin.Context, name string, def, min, max float64) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be a number", name)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("invalid %s: must be between %g and %g", name, min, max)
	}
	return v, nil
}

// requiredFloatQuery is floatQuery without a default.
func requiredFloatQuery(c *gin.Context, name string, min, max float64) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, fmt.Errorf("missing required parameter %s", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be a number", name)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("invalid %s: must be between %g and %g", name, min, max)
	}
	return v, nil
}
