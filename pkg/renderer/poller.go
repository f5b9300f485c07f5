package renderer

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultPollAttempts = 10
	DefaultPollInterval = 2 * time.Second
)

// PollResult is the outcome of waiting for post-processing. Exhausting the
// attempt budget is not an error; Ready stays false and the caller shows a
// "still processing" message.
type PollResult struct {
	Ready       bool
	DocumentURL string
	Attempts    int
}

// DocumentPoller polls the submission collaborator for the generated
// document with a bounded attempt count and fixed backoff.
type DocumentPoller struct {
	client   SubmissionClient
	attempts int
	interval time.Duration
}

func NewDocumentPoller(client SubmissionClient) *DocumentPoller {
	return &DocumentPoller{
		client:   client,
		attempts: DefaultPollAttempts,
		interval: DefaultPollInterval,
	}
}

// WithBudget overrides the attempt count and interval. Non-positive values
// keep the defaults.
func (p *DocumentPoller) WithBudget(attempts int, interval time.Duration) *DocumentPoller {
	if attempts > 0 {
		p.attempts = attempts
	}

	if interval > 0 {
		p.interval = interval
	}

	return p
}

// Wait polls until the document is ready, the attempt budget runs out, or
// the context is cancelled. Tearing down the confirmation view cancels the
// context and stops further attempts.
func (p *DocumentPoller) Wait(ctx context.Context, tenantSlug, submissionID string) (*PollResult, error) {
	result := &PollResult{}

	for attempt := 1; attempt <= p.attempts; attempt++ {
		result.Attempts = attempt

		status, err := p.client.PollStatus(ctx, tenantSlug, submissionID)
		if err != nil {
			return nil, fmt.Errorf("failed to poll submission %s: %w", submissionID, err)
		}

		if status.Ready {
			result.Ready = true
			result.DocumentURL = status.DocumentURL

			return result, nil
		}

		if attempt == p.attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.interval):
		}
	}

	return result, nil
}
