package common

import (
	"math/big"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	logger "github.com/kthomas/go-logger"
)

var (
	// Log is the configured logger
	Log *logger.Logger

	// ListenPort is the port the API binds to
	ListenPort string

	// RegistryRPCURL is the JSON-RPC endpoint of the network hosting the registry contract
	RegistryRPCURL string

	// RegistryContractAddress is the deployed registry contract address
	RegistryContractAddress string

	// RegistryChainID is the chain id the registry contract is deployed to;
	// sessions refuse to transact against any other network
	RegistryChainID *big.Int

	// WalletPrivateKey is the hex-encoded signing key for the active wallet;
	// when empty the gateway runs read-only
	WalletPrivateKey string

	// IPFSAPIURL is the document storage node API endpoint
	IPFSAPIURL string

	// IPFSGatewayURL is the base URL used to template document retrieval links
	IPFSGatewayURL string

	// DispatchNotifications toggles NATS event dispatch for confirmed commands
	DispatchNotifications bool
)

func init() {
	godotenv.Load()

	requireLogger()
	requireRegistryEnvironment()
}

func requireLogger() {
	lvl := os.Getenv("LOG_LEVEL")
	if lvl == "" {
		lvl = "INFO"
	}

	var endpoint *string
	if os.Getenv("SYSLOG_ENDPOINT") != "" {
		endpt := os.Getenv("SYSLOG_ENDPOINT")
		endpoint = &endpt
	}

	Log = logger.NewLogger("deedregistry", lvl, endpoint)
}

func requireRegistryEnvironment() {
	ListenPort = os.Getenv("LISTEN_PORT")
	if ListenPort == "" {
		ListenPort = "8080"
	}

	RegistryRPCURL = os.Getenv("REGISTRY_RPC_URL")
	RegistryContractAddress = os.Getenv("REGISTRY_CONTRACT_ADDRESS")
	WalletPrivateKey = os.Getenv("WALLET_PRIVATE_KEY")

	chainID := os.Getenv("REGISTRY_CHAIN_ID")
	if chainID == "" {
		chainID = "11155111" // sepolia
	}
	id, err := strconv.ParseInt(chainID, 10, 64)
	if err != nil {
		Log.Panicf("failed to parse REGISTRY_CHAIN_ID; %s", err.Error())
	}
	RegistryChainID = big.NewInt(id)

	IPFSAPIURL = os.Getenv("IPFS_API_URL")
	if IPFSAPIURL == "" {
		IPFSAPIURL = "http://127.0.0.1:5001"
	}

	IPFSGatewayURL = os.Getenv("IPFS_GATEWAY_URL")
	if IPFSGatewayURL == "" {
		IPFSGatewayURL = "http://127.0.0.1:8080/ipfs"
	}

	DispatchNotifications = os.Getenv("DISPATCH_NOTIFICATIONS") == "true"
}
