package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/veracitylab/veracity/internal/model"
)

// Verifier is the subset of the verification engine the batch runner needs.
type Verifier interface {
	Verify(ctx context.Context, sessionID, responseText string, claimedSources []string, contextBlob map[string]interface{}) (*model.VerificationVerdict, error)
}

// BatchRequest is one response to verify, as read from a JSONL file.
type BatchRequest struct {
	SessionID      string                 `json:"session_id,omitempty"`
	ResponseText   string                 `json:"response_text"`
	ClaimedSources []string               `json:"claimed_sources,omitempty"`
	Context        map[string]interface{} `json:"context,omitempty"`
}

// VerifyJob runs one verification request.
type VerifyJob struct {
	Request  BatchRequest
	Verifier Verifier
}

// Execute runs the verification.
func (j *VerifyJob) Execute(ctx context.Context) Result {
	verdict, err := j.Verifier.Verify(ctx, j.Request.SessionID, j.Request.ResponseText, j.Request.ClaimedSources, j.Request.Context)
	return &VerifyResult{
		Request: j.Request,
		Verdict: verdict,
		Error:   err,
	}
}

// VerifyResult pairs a request with its verdict or failure.
type VerifyResult struct {
	Request BatchRequest
	Verdict *model.VerificationVerdict
	Error   error
}

// GetError returns the error from the verification, if any.
func (r *VerifyResult) GetError() error {
	return r.Error
}

// BatchProcessor verifies multiple responses concurrently.
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
}

// NewBatchProcessor creates a batch processor.
func NewBatchProcessor(verifier Verifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// ProcessRequests verifies all requests concurrently.
func (b *BatchProcessor) ProcessRequests(ctx context.Context, requests []BatchRequest) []*VerifyResult {
	if len(requests) == 0 {
		return []*VerifyResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, req := range requests {
		pool.Submit(&VerifyJob{
			Request:  req,
			Verifier: b.verifier,
		})
	}

	results := pool.Wait()

	verifyResults := make([]*VerifyResult, len(results))
	for i, result := range results {
		verifyResults[i] = result.(*VerifyResult)
	}

	return verifyResults
}

// ProcessFile reads requests from a JSONL file and verifies them concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*VerifyResult, error) {
	requests, err := ReadRequestsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read requests: %w", err)
	}

	return b.ProcessRequests(ctx, requests), nil
}

// ReadRequestsFromFile reads verification requests from a file, one JSON
// object per line. A line holding a bare string is treated as response
// text with no sources or context.
func ReadRequestsFromFile(filePath string) ([]BatchRequest, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var requests []BatchRequest

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "{") {
			var req BatchRequest
			if err := json.Unmarshal([]byte(line), &req); err != nil {
				return nil, fmt.Errorf("parse request line: %w", err)
			}
			requests = append(requests, req)
			continue
		}

		requests = append(requests, BatchRequest{ResponseText: line})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return requests, nil
}
