package policy

// DefaultTaxonomy maps each known policy id to the keywords that make it
// relevant to a document. Matching is a case-insensitive substring test.
func DefaultTaxonomy() map[string][]string {
	return map[string][]string{
		"FIN-001":   {"expense", "reimbursement", "meal", "hotel", "flight", "travel", "receipt"},
		"SEC-002":   {"personal data", "customer data", "unencrypted", "password", "breach", "third party"},
		"PROC-003":  {"vendor", "supplier", "contract", "procurement", "invoice", "po number", "w9", "w8"},
		"FIN-004":   {"wire", "transfer", "check", "payment", "credit card", "international", "sanction"},
		"HR-005":    {"gift", "harassment", "discrimination", "conflict of interest", "insider"},
		"LEGAL-006": {"retain", "retention", "destroy", "records", "audit", "legal hold"},
		"COMP-007":  {"cash", "money laundering", "sar", "sanction", "high-risk country"},
		"IT-008":    {"vpn", "software", "download", "credential", "password", "mfa", "cloud storage"},
		"ETH-009":   {"conflict", "disclose", "family member", "vendor", "board position"},
		"SAFE-010":  {"injury", "accident", "ppe", "safety", "hazard"},
	}
}
