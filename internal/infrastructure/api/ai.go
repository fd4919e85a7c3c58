package api

import (
	"context"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
	"github.com/notimetolie/nttl-cli/internal/core/ports"
	"github.com/notimetolie/nttl-cli/internal/metrics"
)

func (c *Client) ListConfigurations(ctx context.Context) ([]domain.AIConfiguration, error) {
	var out []domain.AIConfiguration
	if err := c.get(ctx, "/v1/ai/configurations", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateConfiguration(ctx context.Context, input ports.CreateAIConfigInput) (domain.AIConfiguration, error) {
	if err := checkInput(input); err != nil {
		return domain.AIConfiguration{}, err
	}
	var out domain.AIConfiguration
	if err := c.post(ctx, "/v1/ai/configurations", input, &out); err != nil {
		return domain.AIConfiguration{}, err
	}
	return out, nil
}

func (c *Client) DeleteConfiguration(ctx context.Context, id string) error {
	return c.delete(ctx, "/v1/ai/configurations/"+id)
}

// SubmitJob queues an agent job. The backend answers 202 with the pending
// job; completion is observed by polling GetJob.
func (c *Client) SubmitJob(ctx context.Context, input ports.SubmitAIJobInput) (domain.AIJob, error) {
	if err := checkInput(input); err != nil {
		return domain.AIJob{}, err
	}
	var out domain.AIJob
	if err := c.post(ctx, "/v1/ai/jobs", input, &out); err != nil {
		return domain.AIJob{}, err
	}
	return out, nil
}

func (c *Client) GetJob(ctx context.Context, id string) (domain.AIJob, error) {
	var out domain.AIJob
	if err := c.get(ctx, "/v1/ai/jobs/"+id, &out); err != nil {
		return domain.AIJob{}, err
	}
	metrics.AIJobPollsTotal.WithLabelValues(string(out.Status)).Inc()
	return out, nil
}

func (c *Client) ListJobs(ctx context.Context, skip, limit int) ([]domain.AIJob, error) {
	var out []domain.AIJob
	if err := c.get(ctx, withQuery("/v1/ai/jobs", pageQuery(skip, limit)), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CancelJob(ctx context.Context, id string) (domain.AIJob, error) {
	var out domain.AIJob
	if err := c.post(ctx, "/v1/ai/jobs/"+id+"/cancel", nil, &out); err != nil {
		return domain.AIJob{}, err
	}
	return out, nil
}

func (c *Client) ListJobSuggestions(ctx context.Context, jobID string) ([]domain.AIBlockSuggestion, error) {
	var out []domain.AIBlockSuggestion
	if err := c.get(ctx, "/v1/ai/jobs/"+jobID+"/suggestions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveJobSuggestion publishes a drafted block. The backend answers
// with a confirmation message only; observe the result by re-listing.
func (c *Client) ApproveJobSuggestion(ctx context.Context, suggestionID string) error {
	return c.post(ctx, "/v1/ai/suggestions/"+suggestionID+"/approve", nil, nil)
}

func (c *Client) RejectJobSuggestion(ctx context.Context, suggestionID string) error {
	return c.post(ctx, "/v1/ai/suggestions/"+suggestionID+"/reject", nil, nil)
}
