package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Muqadas1234/compliance-policy-ai/internal/audit"
	"github.com/Muqadas1234/compliance-policy-ai/internal/decision"
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditShowCmd)
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Decision bundle audit trail operations",
	Long:  "Commands for verifying and inspecting the hash-chained audit trail of a decision bundle.",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <bundle.json>",
	Short: "Verify the audit trail of a decision bundle",
	Long: "Checks that every step's prev_hash matches the SHA-256 of the previous\n" +
		"step and that the bundle's decision and score agree with the trail.\n" +
		"Exits 0 if valid, 1 if tampered.",
	Args: cobra.ExactArgs(1),
	RunE: runAuditVerify,
}

var auditShowCmd = &cobra.Command{
	Use:   "show <bundle.json>",
	Short: "Print the audit trail of a decision bundle",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditShow,
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}

	result := decision.VerifyBundleJSON(data)
	if result.Valid {
		fmt.Fprintf(cmd.OutOrStdout(), "OK: %d steps verified\n", result.Steps)
		return nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "FAILED at step %d: %s\n", result.ErrorStep, result.Error)
	return errFailed
}

func runAuditShow(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}

	var b decision.Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("parse bundle: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), audit.FormatTrail(b.AuditTrail))
	return nil
}
