package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
)

// limit on how much of an error body is kept
const maxErrorBody = 64 * 1024

// errorFromResponse turns a non-2xx response into an HTTPError.
// The detail comes from a JSON "detail" field when present, else the raw text.
func errorFromResponse(resp *http.Response) *domain.HTTPError {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return &domain.HTTPError{Status: resp.StatusCode, Detail: http.StatusText(resp.StatusCode)}
	}

	if detail, ok := parseErrorDetail(body); ok {
		return &domain.HTTPError{Status: resp.StatusCode, Detail: detail}
	}

	// a JSON body without a usable detail says nothing the status does not
	text := strings.TrimSpace(string(body))
	if text == "" || json.Valid(body) {
		text = http.StatusText(resp.StatusCode)
	}
	return &domain.HTTPError{Status: resp.StatusCode, Detail: text}
}

// parseErrorDetail understands {"detail": "..."} and the validation shape
// {"detail": [{"loc": [...], "msg": "..."}]}
func parseErrorDetail(body []byte) (string, bool) {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return "", false
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		text = strings.TrimSpace(text)
		return text, text != ""
	}

	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg == "" {
				continue
			}
			if field := lastLocation(item.Loc); field != "" {
				msgs = append(msgs, field+": "+item.Msg)
			} else {
				msgs = append(msgs, item.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; "), true
		}
	}

	return string(envelope.Detail), true
}

func lastLocation(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok {
		return s
	}
	return ""
}
