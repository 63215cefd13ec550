// compliance evaluates business documents against retrieved policy
// candidates and returns an Approve, Flag, or Escalate decision with a
// hash-chained audit trail.
package main

import "github.com/Muqadas1234/compliance-policy-ai/internal/cli"

func main() {
	cli.Execute()
}
