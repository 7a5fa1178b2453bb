package registry

import (
	"strings"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

// registryABI is the interface of the external registry contract. The
// contract itself is an external collaborator; only the operations consumed
// by this gateway are declared here.
var registryABI gethabi.ABI

const registryABIJSON = `[
	{"type":"function","name":"registerUser","stateMutability":"nonpayable","inputs":[{"name":"username","type":"bytes32"},{"name":"panHash","type":"bytes32"}],"outputs":[]},
	{"type":"function","name":"isUserRegistered","stateMutability":"view","inputs":[{"name":"wallet","type":"address"}],"outputs":[{"name":"registered","type":"bool"}]},
	{"type":"function","name":"fetchUserDetail","stateMutability":"view","inputs":[{"name":"wallet","type":"address"}],"outputs":[{"name":"username","type":"bytes32"},{"name":"panHash","type":"bytes32"},{"name":"wallet","type":"address"},{"name":"exists","type":"bool"}]},
	{"type":"function","name":"fetchAllUsers","stateMutability":"view","inputs":[],"outputs":[{"name":"users","type":"tuple[]","components":[{"name":"username","type":"bytes32"},{"name":"panHash","type":"bytes32"},{"name":"wallet","type":"address"},{"name":"exists","type":"bool"}]}]},
	{"type":"function","name":"addToMyContacts","stateMutability":"nonpayable","inputs":[{"name":"contact","type":"address"}],"outputs":[]},
	{"type":"function","name":"fetchMyContacts","stateMutability":"view","inputs":[{"name":"wallet","type":"address"}],"outputs":[{"name":"contacts","type":"tuple[]","components":[{"name":"username","type":"bytes32"},{"name":"panHash","type":"bytes32"},{"name":"wallet","type":"address"},{"name":"exists","type":"bool"}]}]},
	{"type":"function","name":"registerProperty","stateMutability":"nonpayable","inputs":[{"name":"cid","type":"bytes32"}],"outputs":[]},
	{"type":"function","name":"retrieveUserProperties","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"properties","type":"tuple[]","components":[{"name":"id","type":"uint256"},{"name":"cid","type":"bytes32"},{"name":"owner","type":"address"},{"name":"registeredAt","type":"uint256"},{"name":"dateOfLastTransfer","type":"uint256"},{"name":"dateOfOwnershipChange","type":"uint256"},{"name":"exists","type":"bool"}]}]},
	{"type":"function","name":"retrievePropertyInfo","stateMutability":"view","inputs":[{"name":"propertyId","type":"uint256"}],"outputs":[{"name":"id","type":"uint256"},{"name":"cid","type":"bytes32"},{"name":"owner","type":"address"},{"name":"registeredAt","type":"uint256"},{"name":"dateOfLastTransfer","type":"uint256"},{"name":"dateOfOwnershipChange","type":"uint256"},{"name":"exists","type":"bool"}]},
	{"type":"function","name":"transferOwnership","stateMutability":"nonpayable","inputs":[{"name":"propertyId","type":"uint256"},{"name":"newOwner","type":"address"}],"outputs":[]},
	{"type":"function","name":"getPropertyOwnershipHistory","stateMutability":"view","inputs":[{"name":"propertyId","type":"uint256"}],"outputs":[{"name":"history","type":"tuple[]","components":[{"name":"previousOwner","type":"address"},{"name":"newOwner","type":"address"},{"name":"transferDate","type":"uint256"}]}]},
	{"type":"function","name":"getPreviousOwner","stateMutability":"view","inputs":[{"name":"propertyId","type":"uint256"}],"outputs":[{"name":"previousOwner","type":"address"},{"name":"transferDate","type":"uint256"}]},
	{"type":"function","name":"proposePropertySale","stateMutability":"nonpayable","inputs":[{"name":"propertyId","type":"uint256"},{"name":"price","type":"uint256"},{"name":"buyer","type":"address"}],"outputs":[]},
	{"type":"function","name":"buyerAcceptSale","stateMutability":"nonpayable","inputs":[{"name":"propertyId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"buyerDeclineSale","stateMutability":"nonpayable","inputs":[{"name":"propertyId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"buyerPay","stateMutability":"payable","inputs":[{"name":"propertyId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"sellerCancelSale","stateMutability":"nonpayable","inputs":[{"name":"propertyId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"finalizeSale","stateMutability":"nonpayable","inputs":[{"name":"propertyId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"getSaleDetails","stateMutability":"view","inputs":[{"name":"propertyId","type":"uint256"}],"outputs":[{"name":"propertyId","type":"uint256"},{"name":"seller","type":"address"},{"name":"buyer","type":"address"},{"name":"price","type":"uint256"},{"name":"status","type":"uint8"},{"name":"initiatedAt","type":"uint256"}]},
	{"type":"function","name":"getIncomingSaleRequests","stateMutability":"view","inputs":[{"name":"wallet","type":"address"}],"outputs":[{"name":"propertyIds","type":"uint256[]"}]},
	{"type":"function","name":"getOutgoingSaleRequests","stateMutability":"view","inputs":[{"name":"wallet","type":"address"}],"outputs":[{"name":"propertyIds","type":"uint256[]"}]},
	{"type":"function","name":"createContract","stateMutability":"nonpayable","inputs":[{"name":"cid","type":"bytes32"},{"name":"signers","type":"address[]"}],"outputs":[]},
	{"type":"function","name":"signContract","stateMutability":"nonpayable","inputs":[{"name":"contractId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"denyContract","stateMutability":"nonpayable","inputs":[{"name":"contractId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"cancelContract","stateMutability":"nonpayable","inputs":[{"name":"contractId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"retrieveContractInfo","stateMutability":"view","inputs":[{"name":"contractId","type":"uint256"}],"outputs":[{"name":"id","type":"uint256"},{"name":"cid","type":"bytes32"},{"name":"creator","type":"address"},{"name":"signers","type":"address[]"},{"name":"status","type":"uint8"},{"name":"signedCount","type":"uint256"}]},
	{"type":"function","name":"getContractsWhereUserIsParty","stateMutability":"view","inputs":[{"name":"wallet","type":"address"}],"outputs":[{"name":"contractIds","type":"uint256[]"}]},
	{"type":"function","name":"hasUserSigned","stateMutability":"view","inputs":[{"name":"contractId","type":"uint256"},{"name":"wallet","type":"address"}],"outputs":[{"name":"signed","type":"bool"}]},
	{"type":"function","name":"hasUserDenied","stateMutability":"view","inputs":[{"name":"contractId","type":"uint256"},{"name":"wallet","type":"address"}],"outputs":[{"name":"denied","type":"bool"}]}
]`

func init() {
	parsed, err := gethabi.JSON(strings.NewReader(registryABIJSON))
	if err != nil {
		panic(err)
	}
	registryABI = parsed
}
