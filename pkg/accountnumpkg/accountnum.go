// Package accountnumpkg generates external display account numbers.
package accountnumpkg

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	// Length is the total number of digits in an account number.
	Length = 10

	savingsPrefix = "30"
	currentPrefix = "20"
)

// Generate returns a new account number for the given account type.
//
// The first two digits encode the account type, the rest are random.
func Generate(accountType string) string {
	var sb strings.Builder

	if accountType == "current" {
		sb.WriteString(currentPrefix)
	} else {
		sb.WriteString(savingsPrefix)
	}

	for i := sb.Len(); i < Length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			panic(err)
		}

		sb.WriteByte(byte('0' + n.Int64()))
	}

	return sb.String()
}
