package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Muqadas1234/compliance-policy-ai/internal/audit"
	"github.com/Muqadas1234/compliance-policy-ai/internal/decision"
	"github.com/Muqadas1234/compliance-policy-ai/internal/model"
)

var (
	evalDocument   string
	evalCandidates string
	evalFormat     string
	evalLLM        bool
)

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().StringVarP(&evalDocument, "document", "d", "", "Path to document text file, or - for stdin (required)")
	evaluateCmd.Flags().StringVar(&evalCandidates, "candidates", "", "Path to candidate policies (YAML or JSON list)")
	evaluateCmd.Flags().StringVarP(&evalFormat, "format", "f", "text", "Output format (text|json)")
	evaluateCmd.Flags().BoolVar(&evalLLM, "llm", false, "Enable the model summarizer (same as USE_LLM=1)")
	evaluateCmd.MarkFlagRequired("document")
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a document against candidate policies",
	Long: "Runs policy matching, risk scoring and workflow classification on a\n" +
		"document and prints the decision bundle.\n\n" +
		"With --format json the output is the full bundle, including the\n" +
		"hash-chained audit trail that 'compliance audit verify' checks.",
	RunE: runEvaluate,
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd.ErrOrStderr(), logLevel, logFormat, "text")
	if err != nil {
		return err
	}

	text, err := readDocument(evalDocument, cmd.InOrStdin())
	if err != nil {
		return err
	}

	candidates := []model.PolicyCandidate{}
	if evalCandidates != "" {
		candidates, err = model.LoadCandidates(evalCandidates)
		if err != nil {
			return err
		}
	}

	engine, err := buildEngine(configPath, evalLLM, logger, nil)
	if err != nil {
		return err
	}

	bundle, err := engine.Run(cmd.Context(), text, candidates)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch evalFormat {
	case "json":
		data, err := json.MarshalIndent(bundle, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal bundle: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "text":
		fmt.Fprint(out, formatBundle(bundle))
	default:
		return fmt.Errorf("unknown format %q (want text or json)", evalFormat)
	}
	return nil
}

func readDocument(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(data), nil
}

func formatBundle(b *decision.Bundle) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Decision:   %s\n", b.Decision)
	fmt.Fprintf(&sb, "Risk score: %d/100\n\n", b.Score)
	sb.WriteString(b.Explanation)
	sb.WriteString("\n\n")

	if len(b.PolicyFindings) == 0 {
		sb.WriteString("Findings: none\n\n")
	} else {
		sb.WriteString("Findings:\n")
		for _, f := range b.PolicyFindings {
			tag := "relevant "
			if f.PossibleViolation {
				tag = "VIOLATION"
			}
			fmt.Fprintf(&sb, "  [%s] %s %s (%s)\n", tag, f.PolicyID, f.Title, f.Category)
			for _, n := range f.Notes {
				fmt.Fprintf(&sb, "      - %s\n", n)
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString(audit.FormatTrail(b.AuditTrail))
	return sb.String()
}
