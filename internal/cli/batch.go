package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/veracitylab/veracity/internal/model"
	"github.com/veracitylab/veracity/internal/verify"
	"github.com/veracitylab/veracity/internal/worker"
)

var (
	batchConcurrency int
	batchTimeout     time.Duration
	batchJSONOutput  bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify multiple responses from a file in parallel",
	Long: `Batch verifies responses concurrently:
- Read requests from the input file, one per line
- A line holding a JSON object sets response_text, claimed_sources,
  context, and session_id; a bare line is treated as response text
- Requests run in parallel with a configurable worker count

Example:
  veracity batch responses.jsonl
  veracity batch responses.jsonl --concurrency 10
  veracity batch responses.jsonl --timeout 5m --json`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&batchJSONOutput, "json", false, "print each verdict as JSON")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := loadConfig()
	engine := newVerifyEngine(cfg)

	processor := worker.NewBatchProcessor(engineVerifier{engine}, batchConcurrency)

	if verbose {
		fmt.Fprintf(os.Stderr, "Reading requests from %s...\n", file)
	}

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0
	verifiedCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %.60q: %v\n", result.Request.ResponseText, result.Error)
			continue
		}
		successCount++
		if result.Verdict.Verified {
			verifiedCount++
		}

		if batchJSONOutput {
			if err := printJSON(result.Verdict); err != nil {
				return err
			}
			continue
		}

		mark := "✗"
		if result.Verdict.Verified {
			mark = "✓"
		}
		fmt.Printf("%s %.2f  %.60q\n", mark, result.Verdict.Confidence, result.Request.ResponseText)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d requests\n", len(results))
	fmt.Fprintf(os.Stderr, "  Verified:  %d\n", verifiedCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// engineVerifier adapts the verification engine to the batch runner's
// interface; the session id is a caller label the engine ignores.
type engineVerifier struct {
	engine *verify.Engine
}

func (e engineVerifier) Verify(ctx context.Context, sessionID, responseText string, claimedSources []string, contextBlob map[string]interface{}) (*model.VerificationVerdict, error) {
	return e.engine.Verify(ctx, responseText, claimedSources, contextBlob)
}
