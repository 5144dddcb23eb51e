package commands

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/remoteprov/rkp-go/pkg/bcc"
	"github.com/remoteprov/rkp-go/pkg/cert"
)

// RunBuildChain signs devicePub (hex) with the root key at rootKeyPath and
// writes the encoded chain to output, or as hex to w if output is empty.
func RunBuildChain(env *Env, rootKeyPath, devicePub, output string, w io.Writer) error {
	root, err := cert.ReadKeyFile(rootKeyPath)
	if err != nil {
		return fmt.Errorf("failed to read root key: %w", err)
	}
	raw, err := hex.DecodeString(strings.TrimSpace(devicePub))
	if err != nil {
		return fmt.Errorf("invalid device key: %w", err)
	}

	chain, err := bcc.Build(env.Suite(), root, ed25519.PublicKey(raw))
	if err != nil {
		return err
	}

	if output == "" {
		fmt.Fprintln(w, hex.EncodeToString(chain))
		return nil
	}
	if err := os.WriteFile(output, chain, 0644); err != nil {
		return fmt.Errorf("failed to write chain: %w", err)
	}
	fmt.Fprintf(w, "Wrote %d-byte chain to %s\n", len(chain), output)
	return nil
}

// RunValidateChain validates the chain stored at path and prints VALID or
// INVALID. Structural errors are returned.
func RunValidateChain(env *Env, path string, w io.Writer) (bool, error) {
	chain, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read chain: %w", err)
	}

	ok, err := bcc.NewValidator(env.Suite()).Validate(chain)
	if err != nil {
		return false, err
	}

	if ok {
		fmt.Fprintln(w, "VALID")
		if root, err := bcc.Root(chain); err == nil {
			fmt.Fprintf(w, "Root: %s\n", root)
		}
	} else {
		fmt.Fprintln(w, "INVALID: signature does not match root key")
	}
	return ok, nil
}
