package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateState returns a random OAuth state string of 32 hex characters.
func GenerateState() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		panic(fmt.Sprintf("generate oauth state: %v", err))
	}
	return hex.EncodeToString(bytes)
}
