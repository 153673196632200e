package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"newsloom/internal/config"
	"newsloom/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultUploadDir     = "uploads"
	maxAvatarUploadBytes = 5 * 1024 * 1024
	avatarSize           = 256
	avatarJPEGQuality    = 82
	avatarWebPQuality    = 70
	avatarURLFormat      = "/media/avatars/%s.webp"
)

type UploadAvatarInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

// ImageService processes avatar uploads: validate, center-crop to square,
// downscale, and store a webp plus a jpeg fallback on disk.
type ImageService struct {
	uploadDir string
}

func NewImageService(cfg *config.Config) *ImageService {
	uploadDir := DefaultUploadDir
	if cfg != nil && cfg.UploadDir != "" {
		uploadDir = cfg.UploadDir
	}
	return &ImageService{uploadDir: uploadDir}
}

// UploadAvatar stores a processed avatar and returns its public URL.
func (s *ImageService) UploadAvatar(in UploadAvatarInput) (string, error) {
	if in.UserID == 0 {
		return "", models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if len(in.Content) > maxAvatarUploadBytes {
		return "", models.NewValidationError("File too large (max 5MB)")
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return "", models.NewValidationError("Invalid image type")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return "", models.NewValidationError("Unsupported image format")
	}

	avatar := resizeToFill(cropToSquare(decoded), avatarSize)

	webpBytes, err := encodeWebP(avatar, avatarWebPQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	jpgBytes, err := encodeJPEG(avatar, avatarJPEGQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	hash := avatarHash(in.UserID, webpBytes)
	webpPath := filepath.Join(s.uploadDir, "avatars", hash+".webp")
	jpgPath := filepath.Join(s.uploadDir, "avatars", hash+".jpg")

	if err := writeBytesToFile(webpPath, webpBytes); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := writeBytesToFile(jpgPath, jpgBytes); err != nil {
		_ = os.Remove(webpPath)
		return "", models.NewInternalError(err)
	}

	return fmt.Sprintf(avatarURLFormat, hash), nil
}

// ResolveAvatarPath maps an avatar filename from the public URL back to its
// on-disk location. Only plain hash filenames are accepted.
func (s *ImageService) ResolveAvatarPath(filename string) (string, error) {
	base := strings.TrimSuffix(strings.TrimSuffix(filename, ".webp"), ".jpg")
	if !isHexHash(base) {
		return "", models.NewValidationError("Invalid avatar name")
	}
	fullPath := filepath.Join(s.uploadDir, "avatars", filename)
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return "", models.NewNotFoundError("Avatar", filename)
		}
		return "", models.NewInternalError(err)
	}
	return fullPath, nil
}

// isHexHash checks that a value is strictly lowercase hex. This prevents
// path traversal via crafted avatar names.
func isHexHash(v string) bool {
	if len(v) == 0 || len(v) > 128 {
		return false
	}
	for _, c := range v {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func cropToSquare(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h {
		return src
	}

	side := w
	if h < side {
		side = h
	}
	x := (w - side) / 2
	y := (h - side) / 2

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), src, image.Point{X: b.Min.X + x, Y: b.Min.Y + y}, draw.Src)
	return dst
}

func resizeToFill(src image.Image, size int) image.Image {
	b := src.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func avatarHash(userID uint, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%d:", userID)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
