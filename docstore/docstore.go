package docstore

import (
	"context"
	"fmt"
	"io"

	"github.com/deedchain/registry/common"
)

// DocStoreProviderIPFS is the IPFS document storage provider
const DocStoreProviderIPFS = "ipfs"

// Provider pins deed and agreement documents in content-addressed storage.
// Documents are referenced on-chain only by digest; the returned content
// identifier is the caller's handle for later retrieval.
type Provider interface {
	Upload(ctx context.Context, filename string, document io.Reader) (string, error)
	GatewayURL(cid string) string
}

// InitDocStoreProvider initializes the named document storage provider
func InitDocStoreProvider(provider string) (Provider, error) {
	switch provider {
	case DocStoreProviderIPFS:
		return InitIPFSProvider(common.IPFSAPIURL, common.IPFSGatewayURL), nil
	}
	return nil, fmt.Errorf("document storage provider not supported: %s", provider)
}
