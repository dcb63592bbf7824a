// Package ocrclient is the adapter to the external text-extraction service. It
// never fails: every transport, status, or shape problem degrades to an empty
// string so the pipeline always has a defined next step.
package ocrclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ecodao-network/attester-node/common/logs"
	"github.com/ecodao-network/attester-node/config"
	"github.com/ecodao-network/attester-node/types"
)

const requestTimeout = 15 * time.Second
const previewRunes = 200

type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func New(settings *config.Settings) *Client {
	return &Client{
		endpoint: settings.OcrAPIEndpoint,
		apiKey:   settings.OcrAPIKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// ExtractText sends the image to the OCR service and returns the recognized text.
// Returns "" when the service is not configured, the call fails, the status is
// non-2xx, or the response carries no recognizable text field.
func (c *Client) ExtractText(ctx context.Context, image []byte, contentType string) string {
	if c.endpoint == "" || c.apiKey == "" {
		logs.Log.Debug("OCR service not configured, skipping text extraction")
		return ""
	}

	if contentType == "" {
		contentType = "image/png"
	}

	form := url.Values{}
	form.Set("base64Image", fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(image)))
	form.Set("language", "jpn")
	form.Set("isOverlayRequired", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		logs.Log.Warn(fmt.Sprintf("Error creating OCR request : %s", err.Error()))
		return ""
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logs.Log.Warn(fmt.Sprintf("Error calling OCR service : %s", err.Error()))
		return ""
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logs.Log.Warn(fmt.Sprintf("Error reading OCR response : %s", err.Error()))
		return ""
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logs.Log.Warn(fmt.Sprintf("OCR service returned status %d", resp.StatusCode))
		return ""
	}

	logs.Log.Debug(fmt.Sprintf("OCR raw response: %s", preview(string(body))))

	var parsed types.OcrResponseStruct
	if err := json.Unmarshal(body, &parsed); err != nil {
		logs.Log.Warn(fmt.Sprintf("Error unmarshalling OCR response : %s", err.Error()))
		return ""
	}

	text := ""
	if len(parsed.ParsedResults) > 0 && parsed.ParsedResults[0].ParsedText != "" {
		text = parsed.ParsedResults[0].ParsedText
	} else if parsed.Text != "" {
		text = parsed.Text
	}

	if text == "" {
		logs.Log.Debug("No text found in OCR response")
		return ""
	}

	logs.Log.Debug(fmt.Sprintf("OCR extracted text: %s", preview(text)))
	return text
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= previewRunes {
		return s
	}
	return string(runes[:previewRunes]) + "..."
}
