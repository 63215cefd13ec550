package policy

import (
	"strings"
	"testing"

	"github.com/Muqadas1234/compliance-policy-ai/internal/model"
)

func BenchmarkMatch(b *testing.B) {
	doc := strings.Repeat("Flight in business class for $3,500 with unencrypted customer data. ", 50)
	candidates := []model.PolicyCandidate{
		{PolicyID: "FIN-001"}, {PolicyID: "SEC-002"}, {PolicyID: "COMP-007"}, {PolicyID: "HR-005"},
	}
	cfg := DefaultConfig()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Aggregate(Match(doc, candidates, cfg))
	}
}
