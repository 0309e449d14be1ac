// Package storage holds the object-storage boundary. Handlers depend on the
// Uploader interface; the Cloudinary implementation is wired in main when a
// CLOUDINARY_URL is configured.
package storage

import (
	"bytes"
	"context"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type Uploader interface {
	// UploadBytes stores the file under folder/fileName and returns the
	// retrieval URL.
	UploadBytes(ctx context.Context, folder, fileName string, b []byte) (string, error)
}

type CloudinaryUploader struct {
	cld *cld.Cloudinary
}

// NewCloudinary reads the connection string (CLOUDINARY_URL form).
func NewCloudinary(url string) (*CloudinaryUploader, error) {
	c, err := cld.NewFromURL(url)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: c}, nil
}

func (u *CloudinaryUploader) UploadBytes(ctx context.Context, folder, fileName string, b []byte) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, bytes.NewReader(b), uploader.UploadParams{
		Folder:   folder,
		PublicID: fileName,
	})
	if err != nil {
		return "", err
	}
	return res.SecureURL, nil
}
