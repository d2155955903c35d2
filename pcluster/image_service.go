package pcluster

import (
	"context"
	"pcluster/pcui/wizard"
)

type ImageRepository interface {
	ListOfficial(ctx context.Context, region, os, architecture string) ([]*OfficialImage, error)
	List(ctx context.Context, region string, status ImageStatusFilter) ([]*ImageInfoSummary, error)
	Get(ctx context.Context, id, region string) (*ImageDescription, error)
	Build(ctx context.Context, params ImageBuildParams) (*ImageInfoSummary, error)
	Delete(ctx context.Context, id, region string, force bool) (*ImageInfoSummary, error)
}

type ImageService struct {
	ImageRepository
}

func NewImageService(repo ImageRepository) *ImageService {
	return &ImageService{repo}
}

func (service *ImageService) Build(ctx context.Context, params ImageBuildParams) (*ImageInfoSummary, error) {
	if params.ImageId == "" {
		return nil, ValidationError{Field: "imageId", Kind: wizard.ErrImageIdRequired}
	}
	return service.ImageRepository.Build(ctx, params)
}

// ListAll lists custom images in every state.
func (service *ImageService) ListAll(ctx context.Context, region string) ([]*ImageInfoSummary, error) {
	images := []*ImageInfoSummary{}
	for _, status := range ImageStatusFilters {
		page, err := service.ImageRepository.List(ctx, region, status)
		if err != nil {
			return nil, err
		}
		images = append(images, page...)
	}
	return images, nil
}
