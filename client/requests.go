package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/hujuying/ComfyUI-ModelScope-API-test/tensor"
)

/*
POST {base}/images/generations   submission (X-ModelScope-Async-Mode: true)
GET  {base}/tasks/{task_id}      task status (X-ModelScope-Task-Type: image_generation)
POST {upload}                    multipart image upload
GET  {image url}                 raw result bytes, no auth
*/

// SubmitGeneration serializes the request and posts it in asynchronous
// mode.  A 400 response triggers exactly one retry with the minimal
// {model, prompt} payload; any non-200 after that is a terminal
// SubmissionError.
func (c *ScopeClient) SubmitGeneration(req *GenerationRequest) (*SubmissionResponse, error) {
	status, body, err := c.postGeneration(req)
	if err != nil {
		return nil, err
	}

	if status == http.StatusBadRequest {
		slog.Warn("submission rejected, retrying with minimal payload", "model", req.Model)
		status, body, err = c.postGeneration(req.minimal())
		if err != nil {
			return nil, err
		}
	}

	if status != http.StatusOK {
		return nil, &SubmissionError{StatusCode: status, Body: string(body)}
	}

	retv := &SubmissionResponse{}
	if err := json.Unmarshal(body, retv); err != nil {
		return nil, fmt.Errorf("unrecognized response format: %w", err)
	}
	return retv, nil
}

func (c *ScopeClient) postGeneration(req *GenerationRequest) (int, []byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return 0, nil, err
	}

	hreq, err := http.NewRequest("POST", c.cfg.APIBaseURL+"/images/generations", bytes.NewReader(data))
	if err != nil {
		return 0, nil, err
	}
	hreq.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("X-ModelScope-Async-Mode", "true")

	resp, err := c.httpclient.Do(hreq)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body, nil
}

// resolveImageURL turns a submission response into the URL of the final
// image, polling the task when the service answered asynchronously.
func (c *ScopeClient) resolveImageURL(resp *SubmissionResponse) (string, error) {
	if resp.TaskID != "" {
		if c.callbacks != nil && c.callbacks.TaskSubmitted != nil {
			c.callbacks.TaskSubmitted(c, resp.TaskID)
		}
		return c.WaitForTask(resp.TaskID)
	}
	if len(resp.Images) > 0 {
		return resp.Images[0].URL, nil
	}
	return "", &TaskError{Message: "unrecognized response format"}
}

// DownloadImage fetches the result bytes and decodes them into a
// normalized, batched image buffer.
func (c *ScopeClient) DownloadImage(url string) (*tensor.Image, error) {
	if c.callbacks != nil && c.callbacks.DownloadStarted != nil {
		c.callbacks.DownloadStarted(c, url)
	}

	resp, err := c.downloader.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &DownloadError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	img, err := tensor.Decode(body)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return img.WithBatch(), nil
}

// GenerateImage runs a request end to end: submit, poll when the service
// answers with a task, and download the final image.
func (c *ScopeClient) GenerateImage(req *GenerationRequest) (*tensor.Image, error) {
	resp, err := c.SubmitGeneration(req)
	if err != nil {
		return nil, err
	}

	url, err := c.resolveImageURL(resp)
	if err != nil {
		return nil, err
	}

	return c.DownloadImage(url)
}

// EditImage attaches the source image to the request, preferring a hosted
// URL and falling back to an inline data URI, then runs the generation
// pipeline.
func (c *ScopeClient) EditImage(req *GenerationRequest, source *tensor.Image) (*tensor.Image, error) {
	url, err := c.UploadImage(source)
	if err != nil {
		slog.Warn("image upload failed, falling back to inline payload", "error", err)
		inline, derr := source.DataURI()
		if derr != nil {
			return nil, &DecodeError{Err: derr}
		}
		req.Image = inline
		req.ImageURL = ""
	} else {
		req.ImageURL = url
		req.Image = ""
	}

	return c.GenerateImage(req)
}
