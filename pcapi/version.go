package pcapi

import (
	"context"
	"pcluster/pcui/pcluster"
)

// GetVersion reports the API versions this console is configured for.
func (c *Client) GetVersion(ctx context.Context) (*pcluster.Version, error) {
	return &pcluster.Version{Full: c.urls.Versions()}, nil
}

// Version makes Client a pcluster.VersionRepository.
func (c *Client) Version(ctx context.Context) (*pcluster.Version, error) {
	return c.GetVersion(ctx)
}
