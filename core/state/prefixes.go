package state

import ethcrypto "github.com/ethereum/go-ethereum/crypto"

var (
	accountPrefix    = []byte("account:")
	allowancePrefix  = []byte("allowance:")
	claimablePrefix  = []byte("claimable:")
	delegationPrefix = []byte("delegation:")
	permissionPrefix = []byte("permission:")
	discountPrefix   = []byte("discount:")
	quotaPrefix      = []byte("quota:")

	claimantListKey = ethcrypto.Keccak256([]byte("claimable-index"))
	ownerPoolKey    = ethcrypto.Keccak256([]byte("owner-pool"))
	feeConfigKey    = ethcrypto.Keccak256([]byte("fee-config"))
	pausedKey       = ethcrypto.Keccak256([]byte("paused"))
	ownerKey        = ethcrypto.Keccak256([]byte("owner"))
)

func prefixedKey(prefix, suffix []byte) []byte {
	buf := make([]byte, len(prefix)+len(suffix))
	copy(buf, prefix)
	copy(buf[len(prefix):], suffix)
	return ethcrypto.Keccak256(buf)
}

func accountKey(addr []byte) []byte {
	return prefixedKey(accountPrefix, addr)
}

func allowanceKey(owner, spender [20]byte) []byte {
	buf := make([]byte, len(owner)+1+len(spender))
	copy(buf, owner[:])
	buf[len(owner)] = ':'
	copy(buf[len(owner)+1:], spender[:])
	return prefixedKey(allowancePrefix, buf)
}

func claimableKey(recipient [20]byte) []byte {
	return prefixedKey(claimablePrefix, recipient[:])
}

func delegationKey(delegator [20]byte) []byte {
	return prefixedKey(delegationPrefix, delegator[:])
}

func permissionKey(contract [20]byte) []byte {
	return prefixedKey(permissionPrefix, contract[:])
}

func discountKey(addr [20]byte) []byte {
	return prefixedKey(discountPrefix, addr[:])
}

func quotaKey(key []byte) []byte {
	return prefixedKey(quotaPrefix, key)
}
