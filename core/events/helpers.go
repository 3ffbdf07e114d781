package events

import (
	"math/big"
	"strconv"

	"relaychain/crypto"
)

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func intToString(v int64) string {
	return strconv.FormatInt(v, 10)
}

func uintToString(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func zeroBytes(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

func addrString(addr [20]byte) string {
	return crypto.MustNewAddress(crypto.RelayPrefix, addr[:]).String()
}
