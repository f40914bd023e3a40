package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hujuying/ComfyUI-ModelScope-API-test/tensor"
)

// UploadImage persists the image to a transient JPEG file and uploads it
// via a single multipart POST, returning the hosted URL.  The transient
// file is removed on every path.  Callers treat any error as a cue to fall
// back to an inline payload.
func (c *ScopeClient) UploadImage(img *tensor.Image) (string, error) {
	data, err := img.EncodeJPEG(tensor.InlineJPEGQuality)
	if err != nil {
		return "", err
	}

	path := filepath.Join(os.TempDir(), fmt.Sprintf("scope_edit_%s.jpg", uuid.New().String()))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	defer os.Remove(path)

	return c.UploadFileFromPath(path)
}

// UploadFileFromPath uploads a file as the multipart form field "file" and
// returns the hosted URL from a recognized success response.
func (c *ScopeClient) UploadFileFromPath(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	return c.uploadFromReader(file, filepath.Base(filePath))
}

func (c *ScopeClient) uploadFromReader(r io.Reader, filename string) (string, error) {
	// Create a buffer to store the request body
	var requestBody bytes.Buffer

	// Create a multipart writer to wrap the file (like FormData)
	writer := multipart.NewWriter(&requestBody)

	formFile, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	_, err = io.Copy(formFile, r)
	if err != nil {
		return "", err
	}

	// Close the writer to finalize the body content
	writer.Close()

	req, err := http.NewRequest("POST", c.cfg.UploadURL, &requestBody)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.uploader.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload failed: %d - %s", resp.StatusCode, string(body))
	}

	var upload UploadResponse
	if err := json.Unmarshal(body, &upload); err != nil {
		return "", err
	}
	if !upload.Success || upload.Data == "" {
		slog.Warn("upload response missing success marker", "body", string(body))
		return "", fmt.Errorf("upload response not recognized: %s", string(body))
	}

	return upload.Data, nil
}
