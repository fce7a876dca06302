// internals/features/files/controller/file_controller_test.go
package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	helperOSS "siagabencana_backend/internals/helpers/oss"
)

type uploadEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Uploaded []uploadedFile `json:"uploaded"`
		Failed   []failedFile   `json:"failed"`
	} `json:"data"`
}

// newUploadApp merakit app kecil dengan user_id sudah ada di Locals,
// seperti yang dilakukan AuthMiddleware setelah verifikasi token.
func newUploadApp(fc *FileController, uid uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Post("/upload", func(c *fiber.Ctx) error {
		c.Locals("user_id", uid.String())
		return fc.UploadFiles(c)
	})
	app.Delete("/files", func(c *fiber.Ctx) error {
		c.Locals("user_id", uid.String())
		return fc.DeleteFile(c)
	})
	return app
}

func multipartBody(t *testing.T, slot string, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, name := range filenames {
		fw, err := w.CreateFormFile("files[]", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte("isi-dummy")); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if slot != "" {
		_ = w.WriteField("slot", slot)
	}
	_ = w.Close()
	return buf, w.FormDataContentType()
}

func TestUploadFilesMixedResult(t *testing.T) {
	uid := uuid.New()
	var gotSlot string
	var gotOwner uuid.UUID

	fc := NewFileController(nil)
	fc.Blob = &helperOSS.MockBlobService{
		UploadAnyFn: func(_ context.Context, ownerID uuid.UUID, slot string, fh *multipart.FileHeader) (string, error) {
			gotSlot, gotOwner = slot, ownerID
			return "https://cdn.example.com/" + fh.Filename, nil
		},
	}
	app := newUploadApp(fc, uid)

	body, ct := multipartBody(t, "reports", "foto.jpg", "virus.exe")
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want 201 (%s)", resp.StatusCode, raw)
	}

	var env uploadEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data.Uploaded) != 1 || len(env.Data.Failed) != 1 {
		t.Fatalf("uploaded/failed = %d/%d, want 1/1 (%+v)", len(env.Data.Uploaded), len(env.Data.Failed), env.Data)
	}
	up := env.Data.Uploaded[0]
	if up.Filename != "foto.jpg" || up.Kind != "image" || !strings.HasSuffix(up.URL, "foto.jpg") {
		t.Errorf("uploaded = %+v", up)
	}
	if env.Data.Failed[0].Filename != "virus.exe" {
		t.Errorf("failed = %+v", env.Data.Failed[0])
	}
	if gotSlot != "reports" || gotOwner != uid {
		t.Errorf("blob dipanggil dengan slot=%q owner=%v", gotSlot, gotOwner)
	}
}

func TestUploadFilesProfilesSlotImageOnly(t *testing.T) {
	uid := uuid.New()
	imageCalls := 0

	fc := NewFileController(nil)
	fc.Blob = &helperOSS.MockBlobService{
		UploadImageFn: func(_ context.Context, _ uuid.UUID, slot string, fh *multipart.FileHeader) (string, error) {
			imageCalls++
			if slot != "profiles" {
				t.Errorf("slot = %q, want profiles", slot)
			}
			return "https://cdn.example.com/webp/" + fh.Filename, nil
		},
		UploadAnyFn: func(_ context.Context, _ uuid.UUID, _ string, _ *multipart.FileHeader) (string, error) {
			t.Errorf("slot profiles tidak boleh lewat UploadAny")
			return "", nil
		},
	}
	app := newUploadApp(fc, uid)

	body, ct := multipartBody(t, "profiles", "avatar.png", "cv.pdf")
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var env uploadEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if imageCalls != 1 {
		t.Errorf("UploadImage dipanggil %d kali, want 1", imageCalls)
	}
	if len(env.Data.Uploaded) != 1 || len(env.Data.Failed) != 1 {
		t.Fatalf("uploaded/failed = %d/%d, want 1/1", len(env.Data.Uploaded), len(env.Data.Failed))
	}
	if env.Data.Failed[0].Filename != "cv.pdf" {
		t.Errorf("failed = %+v", env.Data.Failed[0])
	}
}

func TestUploadFilesRejectsNonMultipart(t *testing.T) {
	fc := NewFileController(nil)
	fc.Blob = &helperOSS.MockBlobService{}
	app := newUploadApp(fc, uuid.New())

	req := httptest.NewRequest("POST", "/upload", strings.NewReader(`{"slot":"reports"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUploadFilesAllFailed(t *testing.T) {
	fc := NewFileController(nil)
	fc.Blob = &helperOSS.MockBlobService{
		UploadAnyFn: func(_ context.Context, _ uuid.UUID, _ string, _ *multipart.FileHeader) (string, error) {
			return "", errors.New("bucket down")
		},
	}
	app := newUploadApp(fc, uuid.New())

	body, ct := multipartBody(t, "reports", "foto.jpg")
	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestDeleteFileMovesToSpam(t *testing.T) {
	fc := NewFileController(nil)
	fc.Blob = &helperOSS.MockBlobService{
		MoveToSpamFn: func(_ context.Context, publicURL string) (string, error) {
			return strings.Replace(publicURL, "/reports/", "/spam/", 1), nil
		},
	}
	app := newUploadApp(fc, uuid.New())

	req := httptest.NewRequest("DELETE", "/files",
		strings.NewReader(`{"url":"https://cdn.example.com/reports/foto.jpg"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var env struct {
		Data struct {
			SpamURL string `json:"spam_url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(env.Data.SpamURL, "/spam/") {
		t.Errorf("spam_url = %q", env.Data.SpamURL)
	}
}

func TestDeleteFileRequiresURL(t *testing.T) {
	fc := NewFileController(nil)
	fc.Blob = &helperOSS.MockBlobService{}
	app := newUploadApp(fc, uuid.New())

	req := httptest.NewRequest("DELETE", "/files", strings.NewReader(`{"url":"  "}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
