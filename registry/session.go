package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/deedchain/registry/common"
)

// Session is the explicit wallet/network context threaded through every
// registry call. It carries the RPC connection, the verified chain id and,
// when a signing key is configured, the transacting wallet. A session without
// a signer supports queries only.
type Session struct {
	RPC     *ethclient.Client
	ChainID *string
	Wallet  *string

	signer *bind.TransactOpts
}

// DialSession connects to the configured network, verifies the chain id
// matches the network the registry contract is deployed to, and derives the
// transacting wallet from the configured signing key when present. A chain
// mismatch blocks all subsequent operations until the environment is pointed
// at the right network.
func DialSession(ctx context.Context) (*Session, error) {
	if common.RegistryRPCURL == "" {
		return nil, fmt.Errorf("no registry RPC endpoint configured; set REGISTRY_RPC_URL")
	}

	client, err := ethclient.DialContext(ctx, common.RegistryRPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial registry RPC endpoint; %s", err.Error())
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve connected chain id; %s", err.Error())
	}

	if chainID.Cmp(common.RegistryChainID) != 0 {
		return nil, fmt.Errorf("connected to chain %s but the registry is deployed to chain %s; switch networks and reconnect", chainID.String(), common.RegistryChainID.String())
	}

	session := &Session{
		RPC:     client,
		ChainID: common.StringOrNil(chainID.String()),
	}

	if common.WalletPrivateKey != "" {
		key, err := gethcrypto.HexToECDSA(strings.TrimPrefix(common.WalletPrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("failed to parse wallet signing key; %s", err.Error())
		}

		signer, err := bind.NewKeyedTransactorWithChainID(key, chainID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize transactor for chain %s; %s", chainID.String(), err.Error())
		}

		session.signer = signer
		session.Wallet = common.StringOrNil(gethcrypto.PubkeyToAddress(key.PublicKey).Hex())
	}

	if session.Wallet != nil {
		common.Log.Debugf("dialed registry session; chain: %s; wallet: %s", chainID.String(), *session.Wallet)
	} else {
		common.Log.Debugf("dialed read-only registry session; chain: %s", chainID.String())
	}

	return session, nil
}

// ReadOnly returns true when the session has no signing capability
func (s *Session) ReadOnly() bool {
	return s.signer == nil
}
