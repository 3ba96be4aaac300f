package api

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/docwrangler/internal/errors"
	"github.com/diogo/docwrangler/internal/models"
)

type queryRequest struct {
	Query string `json:"query"`
}

// SendQuery submits a natural-language question. It returns the decision on success,
// a *errors.LogicalError when the payload reports "status": "error", and a
// *errors.RequestError for non-2xx statuses ("API Error: <status phrase>").
func (c *Client) SendQuery(ctx context.Context, query string) (*models.Decision, error) {
	endpoint, err := c.endpoint(EndpointQuery)
	if err != nil {
		return nil, err
	}

	body, err := encodeQuery(query)
	if err != nil {
		return nil, err
	}

	var decision *models.Decision
	err = c.execute(ctx, "query", func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		c.authorize(req)

		data, err := c.roundTrip(req, "query", apierrors.PrefixQuery)
		if err != nil {
			return err
		}

		decision, err = c.decodeDecision(data, endpoint)
		return err
	})
	if err != nil {
		return nil, err
	}
	return decision, nil
}

// encodeQuery produces {"query": "..."} without HTML escaping, so the text is sent
// exactly as typed.
func encodeQuery(query string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(queryRequest{Query: query}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (c *Client) decodeDecision(data []byte, endpoint string) (*models.Decision, error) {
	if !gjson.ValidBytes(data) {
		return nil, apierrors.NewParseError("response is not valid JSON", endpoint)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, apierrors.NewParseError("expected a JSON object", endpoint)
	}

	if status := root.Get(PathStatus); status.Type == gjson.String && status.Str == StatusError {
		return nil, apierrors.NewLogicalError(stringField(root.Get(PathMessage)))
	}

	decision := &models.Decision{
		Query:         stringField(root.Get(PathQuery)),
		Confidence:    numberField(root.Get(PathConfidence)),
		Amount:        amountField(root.Get(PathAmount)),
		Justification: stringField(root.Get(PathJustification)),
		SourceClauses: stringList(root.Get(PathSourceClauses)),
		Raw:           string(data),
	}

	switch d := root.Get(PathDecision); d.Type {
	case gjson.String:
		decision.Decision = d.Str
	case gjson.Null:
	default:
		if d.Exists() {
			c.logger.Warn("ignoring non-string decision field",
				zap.String("endpoint", endpoint),
				zap.String("decision", d.Raw),
			)
		}
	}

	return decision, nil
}

func stringField(r gjson.Result) string {
	if r.Type == gjson.String {
		return r.Str
	}
	return ""
}

// numberField accepts numbers and numeric strings; anything else reads as absent.
func numberField(r gjson.Result) float64 {
	switch r.Type {
	case gjson.Number:
		return r.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// amountField returns the display text for the amount. Zero and empty read as absent.
func amountField(r gjson.Result) string {
	switch r.Type {
	case gjson.Number:
		if r.Num == 0 {
			return ""
		}
		return formatNumber(r.Num)
	case gjson.String:
		return r.Str
	default:
		return ""
	}
}

// formatNumber prints a number the way JavaScript's Number#toString does: plain
// decimal notation, switching to exponent form outside [1e-6, 1e21).
func formatNumber(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stringList(r gjson.Result) []string {
	if !r.IsArray() {
		return nil
	}
	var out []string
	r.ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.String {
			out = append(out, v.Str)
		} else {
			out = append(out, v.Raw)
		}
		return true
	})
	return out
}
