package client

import "time"

// GenerationRequest is the JSON body of an image generation or edit
// submission.  At most one of Image/ImageURL is set; the hosted URL is
// preferred and the inline data URI is the fallback.
type GenerationRequest struct {
	Model          string  `json:"model"`
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	Size           string  `json:"size,omitempty"`
	Steps          int     `json:"steps,omitempty"`
	Guidance       float64 `json:"guidance,omitempty"`
	Seed           *int64  `json:"seed,omitempty"`
	Image          string  `json:"image,omitempty"`
	ImageURL       string  `json:"image_url,omitempty"`
}

// minimal returns the degraded payload used for the single retry after an
// HTTP 400: only model and prompt survive.
func (r *GenerationRequest) minimal() *GenerationRequest {
	return &GenerationRequest{
		Model:  r.Model,
		Prompt: r.Prompt,
	}
}

// SubmissionResponse covers both response variants of the generations
// endpoint: a task to poll, or inline results.
type SubmissionResponse struct {
	TaskID string            `json:"task_id"`
	Images []SubmissionImage `json:"images"`
}

type SubmissionImage struct {
	URL string `json:"url"`
}

type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskSucceeded TaskStatus = "SUCCEED"
	TaskFailed    TaskStatus = "FAILED"
)

// TaskStatusResponse is the body of a task status query.
type TaskStatusResponse struct {
	TaskStatus   TaskStatus  `json:"task_status"`
	OutputImages []string    `json:"output_images"`
	Errors       *TaskErrors `json:"errors"`
}

type TaskErrors struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TaskHandle identifies an in-flight asynchronous job.  It is created when
// a submission returns a task_id, updated on every poll, and discarded once
// a terminal status is reached or the wait budget is exhausted.
type TaskHandle struct {
	TaskID      string
	SubmittedAt time.Time
	Status      TaskStatus
	MaxWait     time.Duration
}

// Elapsed is the wall time since the task was first seen.
func (t *TaskHandle) Elapsed() time.Duration {
	return time.Since(t.SubmittedAt)
}

// UploadResponse is the body returned by the image upload endpoint.
type UploadResponse struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`
}
