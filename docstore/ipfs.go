package docstore

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

	"github.com/deedchain/registry/common"
)

// IPFSProvider pins documents via the IPFS HTTP API and resolves them through
// a public or self-hosted gateway
type IPFSProvider struct {
	apiURL     string
	gatewayURL string
	client     *http.Client
}

// InitIPFSProvider initializes an IPFS document storage provider against the
// given API and gateway endpoints
func InitIPFSProvider(apiURL, gatewayURL string) *IPFSProvider {
	return &IPFSProvider{
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		gatewayURL: strings.TrimSuffix(gatewayURL, "/"),
		client: &http.Client{
			Timeout: time.Second * 60,
		},
	}
}

// Upload adds and pins a document, returning its content identifier
func (p *IPFSProvider) Upload(ctx context.Context, filename string, document io.Reader) (string, error) {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to construct document upload request; %s", err.Error())
	}
	if _, err := io.Copy(part, document); err != nil {
		return "", fmt.Errorf("failed to buffer document %s; %s", filename, err.Error())
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	uri := fmt.Sprintf("%s/api/v0/add?pin=true", p.apiURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload document %s; %s", filename, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		buf, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("document upload failed with status %d; %s", resp.StatusCode, string(buf))
	}

	result := &struct {
		Hash string `json:"Hash"`
		Name string `json:"Name"`
		Size string `json:"Size"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return "", fmt.Errorf("failed to parse document upload response; %s", err.Error())
	}
	if result.Hash == "" {
		return "", fmt.Errorf("document upload response contained no content identifier")
	}

	common.Log.Debugf("pinned document %s; cid: %s", filename, result.Hash)
	return result.Hash, nil
}

// GatewayURL resolves a content identifier to a fetchable gateway link
func (p *IPFSProvider) GatewayURL(cid string) string {
	return fmt.Sprintf("%s/%s", p.gatewayURL, cid)
}
