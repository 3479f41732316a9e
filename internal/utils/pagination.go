package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/solunkeprithwiraj/todo-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// GetPaginationParams extracts pagination parameters from the request.
// Invalid or out-of-range values are coerced to the defaults.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if page < constants.MinPage {
		page = constants.MinPage
	}
	if limit < 1 || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return NewPaginationParams(page, limit)
}

// NewPaginationParams builds params from already-validated page and limit.
func NewPaginationParams(page, limit int) PaginationParams {
	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// TotalPages computes the page count for a result set.
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit > 0 {
		pages++
	}
	return pages
}
