package api

import (
	"context"
	"net/http"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/docwrangler/internal/errors"
	"github.com/diogo/docwrangler/internal/models"
)

// Health checks that the service is reachable and reports itself healthy.
func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	endpoint, err := c.endpoint(EndpointHealth)
	if err != nil {
		return nil, err
	}

	var status *models.HealthStatus
	err = c.execute(ctx, "health", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		c.authorize(req)

		data, err := c.roundTrip(req, "health", apierrors.PrefixQuery)
		if err != nil {
			return err
		}
		if !gjson.ValidBytes(data) {
			return apierrors.NewParseError("health response is not valid JSON", endpoint)
		}

		root := gjson.ParseBytes(data)
		status = &models.HealthStatus{
			Status:    stringField(root.Get(PathStatus)),
			Service:   stringField(root.Get(PathHealthService)),
			Timestamp: stringField(root.Get(PathHealthTimestamp)),
			Endpoints: stringList(root.Get(PathHealthEndpoints)),
			Raw:       string(data),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}
