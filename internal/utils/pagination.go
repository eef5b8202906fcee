package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tumbluv/tumbluv-api/internal/constants"
)

// PaginationParams holds the offset/limit window requested by the client.
type PaginationParams struct {
	Offset int
	Limit  int
}

// GetPaginationParams extracts offset and limit from the query string.
// Missing or malformed values fall back to the defaults.
func GetPaginationParams(c *gin.Context) PaginationParams {
	return ParsePagination(c.Query("offset"), c.Query("limit"))
}

func ParsePagination(rawOffset, rawLimit string) PaginationParams {
	offset, err := strconv.Atoi(rawOffset)
	if err != nil || offset < 0 {
		offset = constants.DefaultOffset
	}
	limit, err := strconv.Atoi(rawLimit)
	if err != nil || limit < 0 {
		limit = constants.DefaultPageSize
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}

	return PaginationParams{
		Offset: offset,
		Limit:  limit,
	}
}
