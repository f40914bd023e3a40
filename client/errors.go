package client

import (
	"fmt"
	"time"
)

// The failure modes of a generation call are modeled as typed error values
// rather than a catch-all, so callers can inspect them with errors.As.
// The node adapters map any of these to their degraded results.

// ValidationError reports a missing or out-of-range request field.  It is
// returned before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SubmissionError reports a non-200 response to the initial submission,
// after the single minimal-payload retry.
type SubmissionError struct {
	StatusCode int
	Body       string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed: %d, %s", e.StatusCode, e.Body)
}

// PollError reports a non-200 response to a task status query.  Status
// queries are not retried.
type PollError struct {
	StatusCode int
	Body       string
}

func (e *PollError) Error() string {
	return fmt.Sprintf("task query failed: %d, %s", e.StatusCode, e.Body)
}

// TaskError reports a remote task that terminated without a usable result,
// either FAILED or SUCCEED with no output images.
type TaskError struct {
	Code    string
	Message string
}

func (e *TaskError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("task failed: code %s, %s", e.Code, e.Message)
	}
	return fmt.Sprintf("task failed: %s", e.Message)
}

// TimeoutError reports an exhausted poll wait budget.
type TimeoutError struct {
	MaxWait time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("task polling timed out after %s", e.MaxWait)
}

// DownloadError reports a non-200 response while fetching the result image.
type DownloadError struct {
	StatusCode int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("image download failed: %d", e.StatusCode)
}

// DecodeError reports a payload that could not be interpreted as an image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("image decode failed: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
