package simulation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/qsketch/qsketch/internal/circuit"
	"github.com/qsketch/qsketch/internal/codegen"
)

// AerConfig holds the configuration for a remote Aer-style simulation
// service that accepts QASM jobs over HTTP.
type AerConfig struct {
	// Base URL of the service, e.g. "http://localhost:9090"
	BaseURL string

	// Optional bearer token
	APIKey string

	// Device name on the service (e.g. "aer_statevector")
	DeviceName string

	// Widest circuit the device accepts
	MaxQubits int

	// Polling interval while waiting for a job; defaults to 2s
	PollInterval time.Duration

	// HTTP client; a 60s-timeout client is used when nil
	HTTPClient *http.Client
}

// AerClient submits QASM jobs to a remote simulation service and polls for
// their results.
type AerClient struct {
	config *AerConfig
}

// AerJob represents a submitted job.
type AerJob struct {
	ID        string    `json:"id"`
	Device    string    `json:"device"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created"`
	Error     string    `json:"error,omitempty"`
}

// AerResult represents the counts of a completed job.
type AerResult struct {
	Counts        map[string]int `json:"counts"`
	Success       bool           `json:"success"`
	StatusMsg     string         `json:"status"`
	JobID         string         `json:"job_id"`
	ExecutionTime float64        `json:"execution_time"`
}

// Service endpoints
const (
	JobsEndpoint    = "/api/v1/jobs"
	DevicesEndpoint = "/api/v1/devices"
)

// Job status constants
const (
	JobStatusQueued    = "QUEUED"
	JobStatusRunning   = "RUNNING"
	JobStatusCompleted = "COMPLETED"
	JobStatusFailed    = "FAILED"
	JobStatusCancelled = "CANCELLED"
)

// NewAerClient creates a client for a remote simulation service.
func NewAerClient(config *AerConfig) (*AerClient, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("service base URL is required")
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 2 * time.Second
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &AerClient{config: config}, nil
}

func (c *AerClient) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
	return c.config.HTTPClient.Do(req)
}

// SubmitJob submits a QASM circuit for execution.
func (c *AerClient) SubmitJob(ctx context.Context, qasm string, shots int) (*AerJob, error) {
	payload := map[string]interface{}{
		"qasm":   qasm,
		"shots":  shots,
		"device": c.config.DeviceName,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+JobsEndpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("job submission failed: %s (status: %d)", string(body), resp.StatusCode)
	}

	var job AerJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJobStatus retrieves the current status of a job.
func (c *AerClient) GetJobStatus(ctx context.Context, jobID string) (*AerJob, error) {
	url := fmt.Sprintf("%s%s/%s", c.config.BaseURL, JobsEndpoint, jobID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get job status failed: %s (status: %d)", string(body), resp.StatusCode)
	}

	var job AerJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, err
	}
	return &job, nil
}

// WaitForJob polls until the job reaches a terminal state or ctx is done.
func (c *AerClient) WaitForJob(ctx context.Context, jobID string) (*AerJob, error) {
	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-ticker.C:
			job, err := c.GetJobStatus(ctx, jobID)
			if err != nil {
				return nil, err
			}

			switch job.Status {
			case JobStatusCompleted:
				return job, nil
			case JobStatusFailed:
				return job, fmt.Errorf("job %s failed: %s", jobID, job.Error)
			case JobStatusCancelled:
				return job, fmt.Errorf("job %s was cancelled", jobID)
				// Keep polling for QUEUED and RUNNING
			}
		}
	}
}

// GetJobResult retrieves the counts of a completed job.
func (c *AerClient) GetJobResult(ctx context.Context, jobID string) (*AerResult, error) {
	url := fmt.Sprintf("%s%s/%s/result", c.config.BaseURL, JobsEndpoint, jobID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get job result failed: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result AerResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelJob cancels a queued or running job. It intentionally takes no ctx:
// cancellation is issued when the caller's context is already done.
func (c *AerClient) CancelJob(jobID string) error {
	url := fmt.Sprintf("%s%s/%s/cancel", c.config.BaseURL, JobsEndpoint, jobID)

	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("cancel job failed: %s (status: %d)", string(body), resp.StatusCode)
	}
	return nil
}

// RemoteBackend adapts an AerClient to the Backend interface: it generates
// QASM for the circuit, submits a job, waits for completion, and fetches the
// counts.
type RemoteBackend struct {
	client *AerClient
	name   string
}

// NewRemoteBackend creates a backend for a remote simulation service.
func NewRemoteBackend(config *AerConfig) (*RemoteBackend, error) {
	client, err := NewAerClient(config)
	if err != nil {
		return nil, err
	}
	name := "remote"
	if config.DeviceName != "" {
		name = "remote_" + config.DeviceName
	}
	return &RemoteBackend{client: client, name: name}, nil
}

func (b *RemoteBackend) Name() string { return b.name }

func (b *RemoteBackend) MaxQubits() int {
	if b.client.config.MaxQubits > 0 {
		return b.client.config.MaxQubits
	}
	return DefaultMaxQubits
}

func (b *RemoteBackend) IsSimulator() bool { return true }

func (b *RemoteBackend) Execute(ctx context.Context, c *circuit.Circuit, shots int) (Counts, error) {
	qasm, err := codegen.QASM(c)
	if err != nil {
		return nil, err
	}

	job, err := b.client.SubmitJob(ctx, qasm, shots)
	if err != nil {
		return nil, fmt.Errorf("job submission failed: %w", err)
	}

	completed, err := b.client.WaitForJob(ctx, job.ID)
	if err != nil {
		// Best effort: don't leave an abandoned job running on the service.
		if ctx.Err() != nil {
			_ = b.client.CancelJob(job.ID)
		}
		return nil, fmt.Errorf("job execution failed: %w", err)
	}

	result, err := b.client.GetJobResult(ctx, completed.ID)
	if err != nil {
		return nil, fmt.Errorf("result retrieval failed: %w", err)
	}

	return Counts(result.Counts), nil
}
