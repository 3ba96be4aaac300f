// Package chat holds the conversation state behind the chat pane and the one-shot
// query command.
package chat

import (
	"math"
	"strconv"
	"strings"

	apierrors "github.com/diogo/docwrangler/internal/errors"
	"github.com/diogo/docwrangler/internal/models"
)

// Greeting is the bot message every session starts with.
const Greeting = "Hello! I can help you answer questions about your insurance documents. " +
	"Upload a policy or claim document to get started."

// UnknownDecision is shown when the payload carries no usable decision.
const UnknownDecision = "UNKNOWN"

// FormatDecision renders a decision as the markdown shown in a bot bubble.
func FormatDecision(d *models.Decision) string {
	if d == nil {
		d = &models.Decision{}
	}

	var sb strings.Builder

	decision := strings.ToUpper(d.Decision)
	if decision == "" {
		decision = UnknownDecision
	}
	sb.WriteString("**Decision:** ")
	sb.WriteString(decision)
	sb.WriteString("\n\n")

	if d.Confidence != 0 {
		sb.WriteString("*Confidence: ")
		sb.WriteString(FormatPercent(d.Confidence))
		sb.WriteString("%*\n\n")
	}

	if d.Amount != "" {
		sb.WriteString("**Approved Amount:** $")
		sb.WriteString(d.Amount)
		sb.WriteString("\n\n")
	}

	if d.Justification != "" {
		sb.WriteString(d.Justification)
		sb.WriteString("\n\n")
	}

	if len(d.SourceClauses) > 0 {
		sb.WriteString("**Sources:**")
		for _, clause := range d.SourceClauses {
			sb.WriteString("\n- ")
			sb.WriteString(clause)
		}
	}

	return sb.String()
}

// FormatError renders a failed query as a bot bubble.
func FormatError(err error) string {
	return "Error: " + apierrors.Message(err, "Something went wrong.")
}

// FormatPercent renders a fraction as a percentage with one decimal place.
// Exact halves round away from zero.
func FormatPercent(fraction float64) string {
	return toFixed1(fraction * 100)
}

func toFixed1(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}

	// The only binary values sitting exactly between two tenths are odd quarters
	// (x.25, x.75). FormatFloat rounds those to even, so handle them here.
	x := math.Abs(v)
	q := x * 4
	if q == math.Trunc(q) && math.Mod(q, 2) == 1 {
		r := math.Trunc(x*10+0.5) / 10
		if v < 0 {
			r = -r
		}
		return strconv.FormatFloat(r, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
