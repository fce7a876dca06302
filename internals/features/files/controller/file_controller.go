// internals/features/files/controller/file_controller.go
package controller

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"siagabencana_backend/internals/constants"
	auditService "siagabencana_backend/internals/features/audit/service"
	helper "siagabencana_backend/internals/helpers"
	helperOSS "siagabencana_backend/internals/helpers/oss"
)

// Batas wajar satu request upload (foto laporan / materi pelatihan)
const maxUploadFiles = 10

// Slot menentukan folder tujuan di bucket.
var allowedSlots = map[string]bool{
	"reports":   true,
	"trainings": true,
	"profiles":  true,
}

type FileController struct {
	DB *gorm.DB
	// Blob bisa diisi mock di test; nil berarti pakai OSS dari ENV.
	Blob helperOSS.BlobService
}

func NewFileController(db *gorm.DB) *FileController {
	return &FileController{DB: db}
}

func (fc *FileController) blobService() (helperOSS.BlobService, error) {
	if fc.Blob != nil {
		return fc.Blob, nil
	}
	return helperOSS.NewOSSBlobServiceFromEnv("")
}

type uploadedFile struct {
	Filename string `json:"filename"`
	Kind     string `json:"kind"`
	URL      string `json:"url"`
}

type failedFile struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

/* =======================================================
   POST /api/files/upload  (multipart)
   Field file: files[]/file/photos[]/... ; field "slot"
   memilih folder (reports|trainings|profiles).
======================================================= */

func (fc *FileController) UploadFiles(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	if !helperOSS.IsMultipart(c) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Gunakan multipart/form-data")
	}
	form, err := c.MultipartForm()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Form multipart tidak valid")
	}

	slot := strings.ToLower(strings.TrimSpace(c.FormValue("slot", "reports")))
	if !allowedSlots[slot] {
		return helper.JsonError(c, fiber.StatusBadRequest, "slot harus salah satu dari: reports, trainings, profiles")
	}

	files, _ := helperOSS.CollectUploadFiles(form, nil)
	if len(files) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak ada file yang dikirim")
	}
	if len(files) > maxUploadFiles {
		return helper.JsonError(c, fiber.StatusBadRequest, "Maksimal 10 file per request")
	}

	blob, err := fc.blobService()
	if err != nil {
		log.Printf("[FILES] OSS belum terkonfigurasi: %v", err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Penyimpanan file belum dikonfigurasi")
	}

	uploaded := make([]uploadedFile, 0, len(files))
	failed := make([]failedFile, 0)
	for _, fh := range files {
		kind := constants.DetectFileKindFromExt(fh.Filename)
		if kind == constants.FileKindUnknown {
			failed = append(failed, failedFile{Filename: fh.Filename, Reason: "jenis file tidak didukung"})
			continue
		}

		// Foto profil wajib gambar dan selalu lewat pipeline WebP.
		var (
			url  string
			uerr error
		)
		if slot == "profiles" {
			if kind != constants.FileKindImage {
				failed = append(failed, failedFile{Filename: fh.Filename, Reason: "slot profiles hanya menerima gambar"})
				continue
			}
			url, uerr = blob.UploadImage(c.Context(), userID, slot, fh)
		} else {
			url, uerr = blob.UploadAny(c.Context(), userID, slot, fh)
		}
		if uerr != nil {
			log.Printf("[FILES] upload %q gagal: %v", fh.Filename, uerr)
			failed = append(failed, failedFile{Filename: fh.Filename, Reason: "gagal upload"})
			continue
		}
		uploaded = append(uploaded, uploadedFile{Filename: fh.Filename, Kind: kind, URL: url})
	}

	if len(uploaded) == 0 {
		return helper.JsonError(c, fiber.StatusBadGateway, "Semua file gagal diupload")
	}

	auditService.Record(fc.DB, c, auditService.ActionFileUpload,
		"file", "", "",
		map[string]any{"slot": slot, "uploaded": len(uploaded), "failed": len(failed)})

	return helper.JsonCreated(c, "Upload selesai", fiber.Map{
		"uploaded": uploaded,
		"failed":   failed,
	})
}

/* =======================================================
   DELETE /api/files  (body: {"url": "..."})
   Object dipindah ke folder spam/, dibersihkan reaper
   setelah masa retensi.
======================================================= */

type deleteFileRequest struct {
	URL string `json:"url"`
}

func (fc *FileController) DeleteFile(c *fiber.Ctx) error {
	var req deleteFileRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "url wajib diisi")
	}

	blob, err := fc.blobService()
	if err != nil {
		log.Printf("[FILES] OSS belum terkonfigurasi: %v", err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Penyimpanan file belum dikonfigurasi")
	}

	spamURL, err := blob.MoveToSpam(c.Context(), req.URL)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusBadGateway, "Gagal menghapus file")
	}

	auditService.Record(fc.DB, c, auditService.ActionFileDelete,
		"file", "", "", map[string]any{"url": req.URL})

	return helper.JsonDeleted(c, "File dipindahkan ke spam", fiber.Map{"spam_url": spamURL})
}
