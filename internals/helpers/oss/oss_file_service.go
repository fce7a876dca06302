// internals/helpers/oss/oss_file_service.go
package helper

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/*
BlobService adalah facade upload/hapus yang seragam untuk controller.

- UploadImage: khusus gambar, selalu re-encode ke WebP (foto profil).
- UploadAny: gambar → WebP, selain itu (pdf/dok) upload mentah
  (foto laporan & materi pelatihan).
- MoveToSpam: soft-delete object (dipindah ke folder spam/,
  dibersihkan reaper setelah masa retensi).
*/

type BlobService interface {
	UploadImage(ctx context.Context, ownerID uuid.UUID, slot string, fh *multipart.FileHeader) (publicURL string, err error)
	UploadAny(ctx context.Context, ownerID uuid.UUID, slot string, fh *multipart.FileHeader) (publicURL string, err error)
	MoveToSpam(ctx context.Context, publicURL string) (spamURL string, err error)
}

// --------------------------------------------------
// Implementasi berbasis Aliyun OSS (OSSService)
// --------------------------------------------------

type OSSBlobService struct {
	svc *OSSService
}

// Buat instance dari ENV. prefix opsional (contoh: "uploads/")
func NewOSSBlobServiceFromEnv(prefix string) (*OSSBlobService, error) {
	s, err := NewOSSServiceFromEnv(prefix)
	if err != nil {
		return nil, err
	}
	return &OSSBlobService{svc: s}, nil
}

func (b *OSSBlobService) UploadImage(ctx context.Context, ownerID uuid.UUID, slot string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
	}
	if ownerID == uuid.Nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "owner_id tidak valid")
	}
	url, err := UploadImageToOSS(ctx, b.svc, ownerID, slot, fh) // re-encode → WebP
	if err != nil {
		return "", err
	}
	return url, nil
}

func (b *OSSBlobService) UploadAny(ctx context.Context, ownerID uuid.UUID, slot string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
	}
	if ownerID == uuid.Nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "owner_id tidak valid")
	}
	url, err := UploadAnyToOSS(ctx, b.svc, ownerID, slot, fh) // image→WebP, non-image→raw
	if err != nil {
		return "", err
	}
	return url, nil
}

func (b *OSSBlobService) MoveToSpam(ctx context.Context, publicURL string) (string, error) {
	if strings.TrimSpace(publicURL) == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "URL kosong")
	}
	spamURL, err := MoveToSpamByPublicURLENV(publicURL, 0)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("Gagal memindahkan ke spam: %v", err))
	}
	return spamURL, nil
}

// --------------------------------------------------
// Helper kecil untuk controller
// --------------------------------------------------

// IsMultipart menilai request multipart/form-data
func IsMultipart(c *fiber.Ctx) bool {
	ct := strings.ToLower(strings.TrimSpace(c.Get(fiber.HeaderContentType)))
	return strings.HasPrefix(ct, "multipart/form-data")
}

// --------------------------------------------------
// Mock untuk unit test
// --------------------------------------------------

type MockBlobService struct {
	UploadImageFn func(ctx context.Context, ownerID uuid.UUID, slot string, fh *multipart.FileHeader) (string, error)
	UploadAnyFn   func(ctx context.Context, ownerID uuid.UUID, slot string, fh *multipart.FileHeader) (string, error)
	MoveToSpamFn  func(ctx context.Context, publicURL string) (string, error)
}

func (m *MockBlobService) UploadImage(ctx context.Context, ownerID uuid.UUID, slot string, fh *multipart.FileHeader) (string, error) {
	if m.UploadImageFn == nil {
		return "", errors.New("not implemented")
	}
	return m.UploadImageFn(ctx, ownerID, slot, fh)
}

func (m *MockBlobService) UploadAny(ctx context.Context, ownerID uuid.UUID, slot string, fh *multipart.FileHeader) (string, error) {
	if m.UploadAnyFn == nil {
		return "", errors.New("not implemented")
	}
	return m.UploadAnyFn(ctx, ownerID, slot, fh)
}

func (m *MockBlobService) MoveToSpam(ctx context.Context, publicURL string) (string, error) {
	if m.MoveToSpamFn == nil {
		return "", errors.New("not implemented")
	}
	return m.MoveToSpamFn(ctx, publicURL)
}

// --------------------------------------------------
// Retensi trash
// --------------------------------------------------

func TrashRetention() time.Duration {
	days := getEnvInt("RETENTION_DAYS", 30)
	return time.Duration(days) * 24 * time.Hour
}

func (b *OSSBlobService) Retention() time.Duration {
	return TrashRetention()
}
