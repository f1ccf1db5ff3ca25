package utils

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

// workspaceCodeAlphabet deliberately omits 0/O and 1/I to keep codes easy
// to read out loud.
const workspaceCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateWorkspaceCode returns a random 6-character join code. Uniqueness
// is enforced by the caller against the workspaces table.
func GenerateWorkspaceCode() (string, error) {
	code := make([]byte, 6)
	max := big.NewInt(int64(len(workspaceCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = workspaceCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// GenerateInvitationToken returns 32 random bytes hex-encoded.
func GenerateInvitationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
