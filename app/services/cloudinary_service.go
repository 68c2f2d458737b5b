package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/tokobulan/catalog-admin/app/configs"
)

// deliveryTransformation diterapkan ke semua URL tampilan produk.
const deliveryTransformation = "q_auto,f_auto"

type CloudinaryService struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryService(env configs.ENV) (*CloudinaryService, error) {
	cld, err := cloudinary.NewFromParams(env.CLOUDINARY_CLOUD_NAME, env.CLOUDINARY_API_KEY, env.CLOUDINARY_API_SECRET)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary client: %w", err)
	}

	cld.Config.URL.Secure = true

	return &CloudinaryService{
		cld:    cld,
		folder: env.CLOUDINARY_FOLDER,
	}, nil
}

func (s *CloudinaryService) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	uploadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := s.cld.Upload.Upload(uploadCtx, file, uploader.UploadParams{
		Folder: s.folder,
	})
	if err != nil {
		log.Printf("CloudinaryService: Error uploading %s: %v", filename, err)
		return "", fmt.Errorf("failed to upload image to cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		log.Printf("CloudinaryService: Cloudinary rejected upload %s: %s", filename, resp.Error.Message)
		return "", fmt.Errorf("cloudinary rejected upload: %s", resp.Error.Message)
	}

	return resp.PublicID, nil
}

func (s *CloudinaryService) Delete(ctx context.Context, publicID string) error {
	deleteCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := s.cld.Upload.Destroy(deleteCtx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete image %s from cloudinary: %w", publicID, err)
	}

	// "not found" dianggap sukses supaya pemanggil bisa mengulang delete dengan aman.
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy %s returned %q", publicID, resp.Result)
	}

	return nil
}

func (s *CloudinaryService) URL(publicID string) string {
	if publicID == "" {
		return ""
	}

	img, err := s.cld.Image(publicID)
	if err != nil {
		log.Printf("CloudinaryService: Error building image asset for %s: %v", publicID, err)
		return ""
	}
	img.Transformation = deliveryTransformation

	url, err := img.String()
	if err != nil {
		log.Printf("CloudinaryService: Error building URL for %s: %v", publicID, err)
		return ""
	}
	return url
}
