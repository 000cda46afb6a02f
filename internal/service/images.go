package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/filestore"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/google/uuid"
)

// AddImage links an image to an active product. A new main image demotes the current one.
func (s *Service) AddImage(ctx context.Context, productID uuid.UUID, input ImageInputDto) (*ImageDto, error) {
	url := strings.TrimSpace(input.ImageURL)
	if url == "" {
		return nil, fmt.Errorf("%w: image url is required", perrors.ErrInvalidInput)
	}
	if _, err := filestore.KeyFromURL(url); err != nil {
		return nil, fmt.Errorf("%w: %w", perrors.ErrInvalidInput, err)
	}

	var added *store.Image
	err := s.store.WithTx(ctx, func(q store.Queries) error {
		product, err := q.LockProduct(ctx, productID)
		if err != nil {
			return err
		}
		if !product.IsActive {
			return perrors.ErrProductInactive
		}
		now := s.now()
		if input.IsMainImage {
			if err := q.ClearMainImage(ctx, productID, now); err != nil {
				return err
			}
		}
		added, err = q.InsertImage(ctx, store.Image{
			ProductID:   productID,
			ImageURL:    url,
			AltText:     input.AltText,
			IsMainImage: input.IsMainImage,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add image to product %s: %w", productID, err)
	}
	s.invalidateCache(ctx)
	return toImageDto(added), nil
}

// RemoveImage deletes an image record and its backing file.
// The record is kept when the file cannot be removed. A URL that names no file has nothing to remove.
func (s *Service) RemoveImage(ctx context.Context, id uuid.UUID) error {
	err := s.store.WithTx(ctx, func(q store.Queries) error {
		img, err := q.GetImage(ctx, id)
		if err != nil {
			return err
		}
		if err := q.DeleteImage(ctx, id); err != nil {
			return err
		}
		err = s.files.Delete(ctx, img.ImageURL)
		switch {
		case errors.Is(err, filestore.ErrInvalidKey):
			s.logger.WarnContext(ctx, "Image has no backing file", "image_id", id, "url", img.ImageURL, "error", err)
		case err != nil:
			return fmt.Errorf("%w: %w", perrors.ErrFileStore, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove image %s: %w", id, err)
	}
	s.invalidateCache(ctx)
	return nil
}

// SetMainImage makes an image the only main image of its product.
func (s *Service) SetMainImage(ctx context.Context, id uuid.UUID) (*ImageDto, error) {
	var main *store.Image
	err := s.store.WithTx(ctx, func(q store.Queries) error {
		img, err := q.GetImage(ctx, id)
		if err != nil {
			return err
		}
		if _, err := q.LockProduct(ctx, img.ProductID); err != nil {
			return err
		}
		now := s.now()
		if err := q.ClearMainImage(ctx, img.ProductID, now); err != nil {
			return err
		}
		main, err = q.SetMainImage(ctx, id, now)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set main image %s: %w", id, err)
	}
	s.invalidateCache(ctx)
	return toImageDto(main), nil
}

func (s *Service) ListImages(ctx context.Context, productID uuid.UUID) ([]ImageDto, error) {
	var images []store.Image
	err := s.store.WithReadTx(ctx, func(q store.Queries) error {
		if _, err := q.GetProduct(ctx, productID); err != nil {
			return err
		}
		var err error
		images, err = q.ListImages(ctx, productID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list images of product %s: %w", productID, err)
	}
	return toImageDtos(images), nil
}
