package courseapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/yungbote/apprende-client/internal/domain/catalog"
)

// Categories lists root categories, or the children of parentID when it is set.
func (c *Client) Categories(ctx context.Context, parentID *int) ([]catalog.Category, error) {
	cl := call{method: http.MethodGet, route: "/categories/"}
	if parentID != nil {
		cl.query = map[string]string{"parent_id": strconv.Itoa(*parentID)}
	}
	var out []catalog.Category
	err := c.do(ctx, cl, &out)
	return out, err
}

func (c *Client) AllCategories(ctx context.Context) ([]catalog.Category, error) {
	var out []catalog.Category
	err := c.do(ctx, call{method: http.MethodGet, route: "/categories/all"}, &out)
	return out, err
}

func (c *Client) Category(ctx context.Context, id int) (*catalog.Category, error) {
	var out catalog.Category
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/categories/{categoryId}",
		path:   map[string]string{"categoryId": strconv.Itoa(id)},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
