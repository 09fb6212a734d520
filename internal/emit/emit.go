// Package emit writes the terminal GateResult in the two machine
// contracts the CI orchestrator consumes: an indented JSON object, and a
// flat line-oriented key/value encoding with one multi-line block
// carrying the full record. Emission is side-effect-only and derives
// everything from the result on every call, so repeating it with the
// same result writes the same bytes.
package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sprite-ai/riskgate/internal/model"
)

// blockKey is the flat-encoding key that carries the full JSON record.
const blockKey = "result"

// JSON writes the result as an indented JSON object.
func JSON(w io.Writer, res *model.GateResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// Flat writes the result in the line-delimited key=value encoding
// understood by consumers that can only read simple text output (the
// GitHub Actions output-file format). Scalar fields come first, then
// the full record as a heredoc-style multi-line block.
func Flat(w io.Writer, res *model.GateResult) error {
	var b strings.Builder

	fmt.Fprintf(&b, "sha=%s\n", res.SHA)
	fmt.Fprintf(&b, "tier=%d\n", int(res.Tier))
	fmt.Fprintf(&b, "tier_name=%s\n", res.TierName)
	fmt.Fprintf(&b, "required_checks=%s\n", strings.Join(res.RequiredChecks, ","))
	fmt.Fprintf(&b, "docs_drift=%t\n", res.DocsDrift.Detected)
	fmt.Fprintf(&b, "review_agent_status=%s\n", res.ReviewAgentStatus)

	record, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding gate result: %w", err)
	}

	delim := heredocDelimiter(string(record))
	fmt.Fprintf(&b, "%s<<%s\n%s\n%s\n", blockKey, delim, record, delim)

	_, err = io.WriteString(w, b.String())
	return err
}

// heredocDelimiter picks a delimiter that does not occur in the body.
func heredocDelimiter(body string) string {
	delim := "RISKGATE_RESULT"
	for strings.Contains(body, delim) {
		delim += "_"
	}
	return delim
}
