package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Kind tags the result of one generation attempt.
type Kind int

const (
	// KindSuccess carries the generated text.
	KindSuccess Kind = iota
	// KindTransient means the service is loading or overloaded; the call may be retried.
	KindTransient
	// KindAuth means the credential was rejected.
	KindAuth
	// KindOther is any other failure, including a transport error (Status 0).
	KindOther
	// KindNotConfigured means no credential is set, so nothing was sent.
	KindNotConfigured
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindTransient:
		return "transient"
	case KindAuth:
		return "auth"
	case KindOther:
		return "other"
	case KindNotConfigured:
		return "not_configured"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Status codes the service uses while a model is loading or overloaded.
const statusOverloaded = 529

// Display messages. The chat surface shows these instead of an error.
const (
	msgNotConfigured = "LLM not configured: missing GEMINI_API_KEY."
	msgBusy          = "LLM is busy/loading. Please try again."
)

// Outcome is the typed result of a generation attempt.
type Outcome struct {
	Kind   Kind
	Text   string // KindSuccess
	Status int    // HTTP status for KindAuth and KindOther
	Body   string // response body (or transport error) for KindOther
}

// Message converts the outcome into the string shown to the user.
func (o Outcome) Message() string {
	switch o.Kind {
	case KindSuccess:
		return o.Text
	case KindTransient:
		return msgBusy
	case KindAuth:
		return fmt.Sprintf("Auth error from Gemini API (%d). Check your API key.", o.Status)
	case KindNotConfigured:
		return msgNotConfigured
	default:
		return fmt.Sprintf("LLM error %d: %s", o.Status, o.Body)
	}
}

// classifyStatus maps a non-success HTTP status to an outcome.
func classifyStatus(status int, body string) Outcome {
	switch status {
	case http.StatusServiceUnavailable, statusOverloaded:
		return Outcome{Kind: KindTransient, Status: status, Body: body}
	case http.StatusUnauthorized, http.StatusForbidden:
		return Outcome{Kind: KindAuth, Status: status, Body: body}
	default:
		return Outcome{Kind: KindOther, Status: status, Body: body}
	}
}

// classifyResponse maps a raw HTTP response to an outcome. A 200 body that does
// not carry candidates[0].content.parts[0].text is returned verbatim as the text.
// A present but empty text is a successful empty answer.
func classifyResponse(status int, body []byte) Outcome {
	if status != http.StatusOK {
		return classifyStatus(status, string(body))
	}
	var resp restResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Outcome{Kind: KindSuccess, Text: string(body)}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 || resp.Candidates[0].Content.Parts[0].Text == nil {
		return Outcome{Kind: KindSuccess, Text: string(body)}
	}
	return Outcome{Kind: KindSuccess, Text: strings.TrimSpace(*resp.Candidates[0].Content.Parts[0].Text)}
}

// restResponse is the part of the generateContent response the answer is read
// from. Text is a pointer so a missing field differs from an empty one.
type restResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// firstText extracts the trimmed text of the first part of the first candidate.
// ok is false only when no first part exists.
func firstText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0] == nil {
		return "", false
	}
	return strings.TrimSpace(c.Content.Parts[0].Text), true
}

// transportFailure wraps an error that produced no HTTP response.
func transportFailure(err error) Outcome {
	return Outcome{Kind: KindOther, Body: err.Error()}
}
