// Package ipfs pins DAO card images to IPFS through Pinata. Consumed by the
// DAO-creation UI; evidence images are hashed, not stored.
package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/ecodao-network/attester-node/common"
	"github.com/ecodao-network/attester-node/config"
	"github.com/ecodao-network/attester-node/types"
)

type PinataClient struct {
	apiKey     string
	secretKey  string
	gateway    string
	endpoint   string
	httpClient *http.Client
}

func NewPinataClient(settings *config.Settings) *PinataClient {
	return &PinataClient{
		apiKey:    settings.PinataAPIKey,
		secretKey: settings.PinataSecretKey,
		gateway:   settings.PinataGateway,
		endpoint:  common.PinataPinFileRPC,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// IsConfigured reports whether both Pinata keys are present.
func (p *PinataClient) IsConfigured() bool {
	return p.apiKey != "" && p.secretKey != ""
}

// PinFile uploads a file to Pinata and returns its ipfs:// URI (CIDv1).
func (p *PinataClient) PinFile(ctx context.Context, filename string, data []byte) (string, error) {
	if !p.IsConfigured() {
		return "", fmt.Errorf("Pinata API キーが設定されていません。環境変数を確認してください。")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}

	metadata, err := json.Marshal(map[string]string{"name": filename})
	if err != nil {
		return "", fmt.Errorf("failed to marshal pinata metadata: %w", err)
	}
	if err := writer.WriteField("pinataMetadata", string(metadata)); err != nil {
		return "", fmt.Errorf("failed to write pinata metadata: %w", err)
	}
	if err := writer.WriteField("pinataOptions", `{"cidVersion":1}`); err != nil {
		return "", fmt.Errorf("failed to write pinata options: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create pinata request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("pinata_api_key", p.apiKey)
	req.Header.Set("pinata_secret_api_key", p.secretKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pinata upload failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read pinata response: %w", err)
	}

	var parsed types.PinataResponseStruct
	if err := json.Unmarshal(respBody, &parsed); err != nil && resp.StatusCode == http.StatusOK {
		return "", fmt.Errorf("failed to decode pinata response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		message := parsed.Message
		if message == "" {
			message = parsed.Error
		}
		if message == "" {
			message = resp.Status
		}
		return "", fmt.Errorf("Pinata アップロードエラー: %s", message)
	}

	return "ipfs://" + parsed.IpfsHash, nil
}

// GatewayURL converts an ipfs:// URI (or bare CID) to an HTTP gateway URL.
func (p *PinataClient) GatewayURL(uri string) string {
	if uri == "" {
		return ""
	}
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return uri
	}
	return p.gateway + strings.TrimPrefix(uri, "ipfs://")
}
