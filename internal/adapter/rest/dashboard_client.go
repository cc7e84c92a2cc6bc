package rest

import (
	"context"
	"io"
	"net/http"

	"github.com/simaogato/stocktracker/internal/adapter/wire"
	"github.com/simaogato/stocktracker/internal/domain"
)

// DashboardClient implements domain.DashboardAPI against a fixed URL such as http://host/api/dashboard
type DashboardClient struct {
	client *Client
	url    string
}

var _ domain.DashboardAPI = (*DashboardClient)(nil)

// NewDashboardClient creates a new dashboard resource client
func NewDashboardClient(client *Client, url string) *DashboardClient {
	return &DashboardClient{client: client, url: url}
}

// Read handles GET {url}
func (c *DashboardClient) Read(ctx context.Context) (*domain.DashboardAggregate, error) {
	var body wire.Dashboard
	err := c.client.do(ctx, "read dashboard", http.MethodGet, c.url, nil, func(r io.Reader) error {
		var err error
		body, err = wire.DecodeDashboard(r)
		return err
	})
	if err != nil {
		return nil, err
	}

	agg := body.ToAggregate()
	return &agg, nil
}
