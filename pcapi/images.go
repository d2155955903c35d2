package pcapi

import (
	"context"
	"net/http"
	"net/url"
	"pcluster/pcui/pcluster"
	"strconv"
)

type officialImagesResponse struct {
	Images []*pcluster.OfficialImage `json:"images"`
}

func (c *Client) ListOfficialImages(ctx context.Context, region, os, architecture string) ([]*pcluster.OfficialImage, error) {
	query := regionQuery(region)
	if os != "" {
		query.Set("os", os)
	}
	if architecture != "" {
		query.Set("architecture", architecture)
	}
	resp := &officialImagesResponse{}
	if err := c.call(ctx, http.MethodGet, "/v3/images/official", query, nil, resp); err != nil {
		return nil, err
	}
	return resp.Images, nil
}

type customImagesResponse struct {
	Images    []*pcluster.ImageInfoSummary `json:"images"`
	NextToken string                       `json:"nextToken"`
}

func (c *Client) ListImages(ctx context.Context, region string, status pcluster.ImageStatusFilter) ([]*pcluster.ImageInfoSummary, error) {
	images := []*pcluster.ImageInfoSummary{}
	token := ""
	for {
		query := regionQuery(region)
		query.Set("imageStatus", string(status))
		if token != "" {
			query.Set("nextToken", token)
		}
		page := &customImagesResponse{}
		if err := c.call(ctx, http.MethodGet, "/v3/images/custom", query, nil, page); err != nil {
			return nil, err
		}
		images = append(images, page.Images...)
		if page.NextToken == "" || page.NextToken == token {
			return images, nil
		}
		token = page.NextToken
	}
}

func imagePath(id string) string {
	return "/v3/images/custom/" + url.PathEscape(id)
}

func (c *Client) DescribeImage(ctx context.Context, id, region string) (*pcluster.ImageDescription, error) {
	image := &pcluster.ImageDescription{}
	if err := c.call(ctx, http.MethodGet, imagePath(id), regionQuery(region), nil, image); err != nil {
		return nil, err
	}
	return image, nil
}

type buildImageRequest struct {
	ImageId            string `json:"imageId"`
	ImageConfiguration string `json:"imageConfiguration"`
}

type imageResponse struct {
	Image *pcluster.ImageInfoSummary `json:"image"`
}

func (c *Client) BuildImage(ctx context.Context, params pcluster.ImageBuildParams) (*pcluster.ImageInfoSummary, error) {
	body := buildImageRequest{ImageId: params.ImageId, ImageConfiguration: params.Configuration}
	resp := &imageResponse{}
	if err := c.call(ctx, http.MethodPost, "/v3/images/custom", regionQuery(params.Region), body, resp); err != nil {
		return nil, err
	}
	return resp.Image, nil
}

func (c *Client) DeleteImage(ctx context.Context, id, region string, force bool) (*pcluster.ImageInfoSummary, error) {
	query := regionQuery(region)
	if force {
		query.Set("force", strconv.FormatBool(force))
	}
	resp := &imageResponse{}
	if err := c.call(ctx, http.MethodDelete, imagePath(id), query, nil, resp); err != nil {
		return nil, err
	}
	return resp.Image, nil
}

// ImageRepository exposes the image calls as a pcluster.ImageRepository.
type ImageRepository struct {
	client *Client
}

func NewImageRepository(client *Client) *ImageRepository {
	return &ImageRepository{client: client}
}

func (repo *ImageRepository) ListOfficial(ctx context.Context, region, os, architecture string) ([]*pcluster.OfficialImage, error) {
	return repo.client.ListOfficialImages(ctx, region, os, architecture)
}

func (repo *ImageRepository) List(ctx context.Context, region string, status pcluster.ImageStatusFilter) ([]*pcluster.ImageInfoSummary, error) {
	return repo.client.ListImages(ctx, region, status)
}

func (repo *ImageRepository) Get(ctx context.Context, id, region string) (*pcluster.ImageDescription, error) {
	image, err := repo.client.DescribeImage(ctx, id, region)
	if isNotFound(err) {
		return nil, pcluster.ErrImageNotFound
	}
	return image, err
}

func (repo *ImageRepository) Build(ctx context.Context, params pcluster.ImageBuildParams) (*pcluster.ImageInfoSummary, error) {
	if params.Version != "" {
		ctx = WithVersion(ctx, params.Version)
	}
	return repo.client.BuildImage(ctx, params)
}

func (repo *ImageRepository) Delete(ctx context.Context, id, region string, force bool) (*pcluster.ImageInfoSummary, error) {
	image, err := repo.client.DeleteImage(ctx, id, region, force)
	if isNotFound(err) {
		return nil, pcluster.ErrImageNotFound
	}
	return image, err
}
