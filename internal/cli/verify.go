package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veracitylab/veracity/internal/cache"
	"github.com/veracitylab/veracity/internal/model"
	"github.com/veracitylab/veracity/internal/verify"
)

var (
	verifySources     []string
	verifyContextFile string
	verifySessionID   string
	verifyJSONOutput  bool
	verifyTimeout     time.Duration
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <text|file>",
	Short: "Verify a response text against sources and context",
	Long: `Verify extracts checkable facts and uncertainty signals from a text,
checks each fact against reachable URLs or supplied context, and
prints the verdict with confidence and citations.

The argument is the response text itself, or a path to a file holding
it. Claimed sources are checked alongside extracted facts.

Example:
  veracity verify "Revenue grew 15% last quarter."
  veracity verify response.txt --context context.json
  veracity verify response.txt --sources https://example.com --json`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringSliceVar(&verifySources, "sources", nil, "claimed sources to check (repeatable)")
	verifyCmd.Flags().StringVar(&verifyContextFile, "context", "", "JSON file with context to verify facts against")
	verifyCmd.Flags().StringVar(&verifySessionID, "session", "", "session id label for this request")
	verifyCmd.Flags().BoolVar(&verifyJSONOutput, "json", false, "print the verdict as JSON")
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 60*time.Second, "total timeout for the verification")
}

func runVerify(cmd *cobra.Command, args []string) error {
	text := args[0]
	if data, err := os.ReadFile(text); err == nil {
		text = string(data)
	}

	var contextBlob map[string]interface{}
	if verifyContextFile != "" {
		data, err := os.ReadFile(verifyContextFile)
		if err != nil {
			return fmt.Errorf("read context file: %w", err)
		}
		if err := json.Unmarshal(data, &contextBlob); err != nil {
			return fmt.Errorf("parse context file: %w", err)
		}
	}

	cfg := loadConfig()
	engine := newVerifyEngine(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	verdict, err := engine.Verify(ctx, text, verifySources, contextBlob)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	if verifyJSONOutput {
		return printJSON(verdict)
	}

	printVerdict(verdict)
	return nil
}

// newVerifyEngine builds a standalone verification engine. Verification
// needs no embedder or store, so offline use works with no credentials.
func newVerifyEngine(cfg *model.Config) *verify.Engine {
	urls := verify.NewURLChecker(cfg.HTTP, cfg.Verify.URLTimeout)
	return verify.NewEngine(
		verify.NewVerifier(urls),
		verify.NewScorer(cfg.Verify.AllowVacuous, cfg.Verify.Disclaimer),
		cache.NewVerdictCache(cfg.Verify.CacheTTL),
		cfg.Concurrency.VerifyWorkers,
	)
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printVerdict(verdict *model.VerificationVerdict) {
	status := "✗ NOT VERIFIED"
	if verdict.Verified {
		status = "✓ VERIFIED"
	}
	fmt.Printf("%s  (confidence %.2f)\n\n", status, verdict.Confidence)

	if len(verdict.Citations) > 0 {
		fmt.Println("Citations:")
		for _, c := range verdict.Citations {
			mark := "✗"
			if c.Verified {
				mark = "✓"
			}
			fmt.Printf("  %s [%s] %s", mark, c.Kind, c.Source)
			if c.Snippet != "" {
				fmt.Printf("  (%s)", c.Snippet)
			}
			fmt.Println()
		}
		fmt.Println()
	}

	if len(verdict.Warnings) > 0 {
		fmt.Println("Warnings:")
		for _, w := range verdict.Warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	if verdict.ModifiedText != "" {
		fmt.Println("Modified text:")
		fmt.Println(verdict.ModifiedText)
	}
}
