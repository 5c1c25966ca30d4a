package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	maxImageBytes = 10 << 20
	maxImageWidth = 1920
	thumbWidth    = 400
)

// UploadRoot is the directory served under /uploads.
func UploadRoot() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

// ProcessBillImage validates an uploaded bill photo, normalizes it to a
// bounded JPEG and writes a thumbnail next to it. Returns the public URLs of
// both files.
func ProcessBillImage(file *multipart.FileHeader) (imageURL, thumbnailURL string, err error) {
	if file.Size > maxImageBytes {
		return "", "", errors.New("Image exceeds the 10MB size limit")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", "", errors.New("Only JPEG and PNG images are accepted")
	}

	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", "", errors.New("Could not decode image")
	}

	// Phone photos come in at full sensor resolution; cap width and let the
	// height follow
	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}
	thumb := imaging.Fit(img, thumbWidth, thumbWidth, imaging.Lanczos)

	name := uuid.New().String() + ".jpg"
	root := UploadRoot()
	billDir := filepath.Join(root, "bills")
	thumbDir := filepath.Join(root, "thumbnails")
	for _, dir := range []string{billDir, thumbDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", "", fmt.Errorf("creating upload directory: %w", err)
		}
	}

	imagePath := filepath.Join(billDir, name)
	if err := imaging.Save(img, imagePath, imaging.JPEGQuality(85)); err != nil {
		return "", "", fmt.Errorf("saving image: %w", err)
	}
	thumbPath := filepath.Join(thumbDir, "thumb_"+name)
	if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(80)); err != nil {
		os.Remove(imagePath)
		return "", "", fmt.Errorf("saving thumbnail: %w", err)
	}

	return "/uploads/bills/" + name, "/uploads/thumbnails/thumb_" + name, nil
}
