package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/re-admin/core/internal/pkg/response"
	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Query holds parsed pagination parameters.
type Query struct {
	Page  int
	Limit int
}

// FromContext extracts and clamps pagination params from the request. maxLimit
// bounds the response size per entity (projects allow up to 150 rows,
// developers 100).
func FromContext(c *gin.Context, maxLimit int) Query {
	page := parseIntOr(c.DefaultQuery("page", "1"), DefaultPage)
	limit := parseIntOr(c.DefaultQuery("limit", "20"), DefaultLimit)
	return Clamp(Query{Page: page, Limit: limit}, maxLimit)
}

// Clamp enforces page >= 1 and 1 <= limit <= maxLimit.
func Clamp(q Query, maxLimit int) Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	return q
}

// Paginate applies limit/offset to a GORM query and returns the pagination
// metadata. The total counts all rows matching the filters, independent of
// the requested window.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}

	offset := (q.Page - 1) * q.Limit
	if err := db.Offset(offset).Limit(q.Limit).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}

	totalPage := int((total + int64(q.Limit) - 1) / int64(q.Limit))

	return response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Limit:       q.Limit,
		HasNextPage: q.Page < totalPage,
	}, nil
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
