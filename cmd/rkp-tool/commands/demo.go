package commands

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/remoteprov/rkp-go/pkg/aead"
	"github.com/remoteprov/rkp-go/pkg/agreement"
	"github.com/remoteprov/rkp-go/pkg/bcc"
	"github.com/remoteprov/rkp-go/pkg/wire"
)

// RunDemo runs a complete provisioning exchange in-process: the device
// presents a boot certificate chain and a certified X25519 key, the server
// checks both, and the two sides derive directional keys and exchange an
// encrypted payload.
func RunDemo(env *Env, w io.Writer) error {
	suite := env.Suite()
	deriver := env.Config.Deriver()
	deriver.Logger = env.Events

	step := func(format string, args ...any) {
		fmt.Fprintf(w, "- "+format+"\n", args...)
	}

	// Device side: root and identity keys, chain, certified agreement key.
	_, rootPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}
	identityPub, identityPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}
	chain, err := bcc.Build(suite, rootPriv, identityPub)
	if err != nil {
		return fmt.Errorf("build chain: %w", err)
	}
	step("device built %d-byte boot certificate chain", len(chain))

	device, err := agreement.GenerateKeyPair()
	if err != nil {
		return err
	}
	defer device.Wipe()
	deviceCert, err := suite.SignX25519Key(identityPriv, device.Public)
	if err != nil {
		return fmt.Errorf("certify device key: %w", err)
	}
	deviceCertData, err := deviceCert.Marshal()
	if err != nil {
		return err
	}
	step("device certified X25519 key %s", device.Public)

	// Server side: validate the chain, then the device key against the
	// identity certificate at the end of the chain.
	ok, err := bcc.NewValidator(suite).Validate(chain)
	if err != nil {
		return fmt.Errorf("validate chain: %w", err)
	}
	if !ok {
		return fmt.Errorf("chain signature does not verify")
	}
	step("server validated chain")

	var entries []cbor.RawMessage
	if err := wire.Unmarshal(chain, &entries); err != nil {
		return err
	}
	ok, err = suite.Verify(entries[1], deviceCertData, nil)
	if err != nil {
		return fmt.Errorf("verify device key: %w", err)
	}
	if !ok {
		return fmt.Errorf("device key certificate does not verify")
	}
	devicePub, err := suite.ExtractX25519Public(deviceCertData)
	if err != nil {
		return fmt.Errorf("extract device key: %w", err)
	}
	step("server verified and extracted device key")

	server, err := agreement.GenerateKeyPair()
	if err != nil {
		return err
	}
	defer server.Wipe()

	sendKey, err := deriver.SendKey(server, devicePub)
	if err != nil {
		return err
	}
	recvKey, err := deriver.ReceiveKey(device, server.Public)
	if err != nil {
		return err
	}
	step("derived %d-byte directional keys", len(sendKey))

	iv := make([]byte, aead.IVSize)
	if _, err := rand.Read(iv); err != nil {
		return err
	}
	payload := []byte("provisioned certificate batch")
	aad := []byte("rkp-demo")
	ciphertext, err := aead.Encrypt(payload, aad, sendKey, iv)
	if err != nil {
		return err
	}
	plaintext, err := aead.Decrypt(ciphertext, aad, recvKey, iv)
	if err != nil {
		return fmt.Errorf("device could not decrypt: %w", err)
	}
	if !bytes.Equal(plaintext, payload) {
		return fmt.Errorf("decrypted payload differs")
	}
	step("server -> device payload decrypted (%d bytes)", len(plaintext))

	// The device must not be able to open its own traffic with the key it
	// would use to send.
	ownSend, err := deriver.SendKey(device, server.Public)
	if err != nil {
		return err
	}
	if _, err := aead.Decrypt(ciphertext, aad, ownSend, iv); err == nil {
		return fmt.Errorf("payload opened with the wrong directional key")
	}
	step("reflected payload rejected")

	fmt.Fprintln(w, "OK")
	return nil
}
