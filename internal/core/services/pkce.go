package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net"
	"strconv"
)

// PKCE code verifier length (RFC 7636 recommends 43-128 characters).
const codeVerifierLength = 64

// randomToken returns n random bytes encoded as unpadded base64url.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// generateCodeVerifier creates a cryptographically random code verifier for PKCE.
func generateCodeVerifier() (string, error) {
	return randomToken(codeVerifierLength)
}

// generateCodeChallenge creates a S256 code challenge from the verifier.
func generateCodeChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// generateState creates a random state parameter for CSRF protection.
func generateState() (string, error) {
	return randomToken(32)
}

// FindCallbackPort returns the first loopback port in [startPort, endPort]
// that can be bound. Google desktop clients accept any loopback port, so a
// fixed range keeps firewall prompts predictable.
func FindCallbackPort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		listener, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		if err == nil {
			_ = listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}
