package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/citytwin/internal/core/domain"
)

// Pagination contains offset-based pagination info over a layer's features.
type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

const maxFeaturePage = 1000

// paginateFeatures pages fc when the request carries a limit. Without one the
// collection is returned whole and ok is false.
func paginateFeatures(c *fiber.Ctx, fc *domain.FeatureCollection) (page *domain.FeatureCollection, p Pagination, ok bool) {
	if c.Query("limit") == "" {
		return fc, p, false
	}
	p = Pagination{Offset: c.QueryInt("offset", 0), Limit: c.QueryInt("limit", 100), Total: fc.Len()}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 || p.Limit > maxFeaturePage {
		p.Limit = 100
	}

	page = &domain.FeatureCollection{Type: fc.Type, Features: []domain.Feature{}}
	if p.Offset < p.Total {
		end := min(p.Offset+p.Limit, p.Total)
		page.Features = fc.Features[p.Offset:end]
	}
	return page, p, true
}

// SetLinkHeaders adds RFC 8288 Link headers and X-Total-Count for a paged response.
func SetLinkHeaders(c *fiber.Ctx, p Pagination) {
	base := c.Path()
	link := func(offset int, rel string) string {
		return fmt.Sprintf(`<%s?offset=%d&limit=%d>; rel="%s"`, base, offset, p.Limit, rel)
	}

	links := []string{link(0, "first")}
	if p.Offset > 0 {
		links = append(links, link(max(p.Offset-p.Limit, 0), "prev"))
	}
	if p.Offset+p.Limit < p.Total {
		links = append(links, link(p.Offset+p.Limit, "next"))
	}
	links = append(links, link(max(p.Total-p.Limit, 0), "last"))

	c.Set("Link", strings.Join(links, ", "))
	c.Set("X-Total-Count", strconv.Itoa(p.Total))
}
