package client

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// minPollWait is the floor of the aggregate poll budget.  Package tests
// lower it to exercise the timeout path quickly.
var minPollWait = 60 * time.Second

// WaitForTask polls the task status endpoint until the task reaches a
// terminal state or the wait budget is exhausted, and returns the URL of
// the first output image.  The first query is issued immediately; between
// queries the poller blocks for a fixed interval, with no backoff.
func (c *ScopeClient) WaitForTask(taskID string) (string, error) {
	handle := &TaskHandle{
		TaskID:      taskID,
		SubmittedAt: time.Now(),
		Status:      TaskPending,
		MaxWait:     c.maxWait(),
	}

	for {
		task, err := c.queryTask(taskID)
		if err != nil {
			return "", err
		}
		handle.Status = task.TaskStatus

		if c.callbacks != nil && c.callbacks.TaskPolled != nil {
			c.callbacks.TaskPolled(c, handle)
		}

		switch task.TaskStatus {
		case TaskSucceeded:
			if len(task.OutputImages) == 0 {
				return "", &TaskError{Message: "task succeeded but returned no image URL"}
			}
			return task.OutputImages[0], nil
		case TaskFailed:
			terr := &TaskError{Message: "unknown error"}
			if task.Errors != nil {
				terr.Code = task.Errors.Code
				terr.Message = task.Errors.Message
			}
			return "", terr
		}

		if handle.Elapsed() > handle.MaxWait {
			slog.Error("task polling exceeded wait budget", "task_id", taskID, "max_wait", handle.MaxWait)
			return "", &TimeoutError{MaxWait: handle.MaxWait}
		}

		time.Sleep(c.pollInterval)
	}
}

func (c *ScopeClient) queryTask(taskID string) (*TaskStatusResponse, error) {
	req, err := http.NewRequest("GET", c.cfg.APIBaseURL+"/tasks/"+taskID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("X-ModelScope-Task-Type", "image_generation")

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &PollError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	retv := &TaskStatusResponse{}
	if err := json.Unmarshal(body, retv); err != nil {
		return nil, err
	}
	return retv, nil
}
