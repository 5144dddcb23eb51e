package commands

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/remoteprov/rkp-go/pkg/cert"
)

// RunKeygen generates an Ed25519 signing key, writes it to path as PEM and
// prints the public key in hex.
func RunKeygen(path string, w io.Writer) (ed25519.PublicKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	if err := cert.WriteKeyFile(path, priv); err != nil {
		return nil, fmt.Errorf("failed to write key: %w", err)
	}
	fmt.Fprintf(w, "Wrote %s\n", path)
	fmt.Fprintf(w, "Public key: %s\n", hex.EncodeToString(pub))
	return pub, nil
}
