package agreement

import (
	"crypto/sha256"
	"fmt"

	"github.com/remoteprov/rkp-go/pkg/kdf"
	"github.com/remoteprov/rkp-go/pkg/log"
	"github.com/remoteprov/rkp-go/pkg/rkperr"
	"github.com/remoteprov/rkp-go/pkg/wire"
)

// Role labels placed in the derivation context.
const (
	LabelDevice = "device"
	LabelServer = "server"
)

// Derived key lengths.
const (
	// DefaultKeyLength matches what deployed peers derive today.
	DefaultKeyLength = 16

	// MaxKeyLength is the largest supported AES key.
	MaxKeyLength = 32
)

// Party encodes one half of the derivation context as the CBOR array
// [label, pub].
func Party(label string, pub PublicKey) ([]byte, error) {
	data, err := wire.Marshal([]any{label, pub[:]})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s party: %w", label, err)
	}
	return data, nil
}

// Context returns the HKDF info for a key flowing between the party that
// holds devicePub and the party that holds serverPub:
//
//	Party("device", devicePub) || Party("server", serverPub)
func Context(devicePub, serverPub PublicKey) ([]byte, error) {
	device, err := Party(LabelDevice, devicePub)
	if err != nil {
		return nil, err
	}
	server, err := Party(LabelServer, serverPub)
	if err != nil {
		return nil, err
	}
	return append(device, server...), nil
}

// Deriver derives directional AES keys from an X25519 exchange.
//
// The send key puts the caller's public key under "device" and the peer's
// under "server"; the receive key swaps them. What one side derives as its
// send key the other side derives as its receive key, so a message can only
// be opened by the party it was meant for and never replayed back at its
// sender.
type Deriver struct {
	// KeyLength is the derived key size in bytes (16, 24 or 32).
	// Zero means DefaultKeyLength.
	KeyLength int

	// Logger receives derivation events. Nil disables logging.
	Logger log.Logger
}

// DefaultDeriver derives DefaultKeyLength keys and does not log.
var DefaultDeriver = Deriver{KeyLength: DefaultKeyLength}

// SendKey derives the key own uses to encrypt messages to peer.
func (d Deriver) SendKey(own *KeyPair, peer PublicKey) ([]byte, error) {
	return d.derive(log.OpDeriveSend, own, own.Public, peer, peer)
}

// ReceiveKey derives the key own uses to decrypt messages from peer.
func (d Deriver) ReceiveKey(own *KeyPair, peer PublicKey) ([]byte, error) {
	return d.derive(log.OpDeriveReceive, own, peer, own.Public, peer)
}

func (d Deriver) derive(op log.Operation, own *KeyPair, devicePub, serverPub, peer PublicKey) ([]byte, error) {
	size := d.KeyLength
	if size == 0 {
		size = DefaultKeyLength
	}
	if size != 16 && size != 24 && size != 32 {
		err := rkperr.Crypto(rkperr.MalformedKey, "derive", fmt.Errorf("unsupported key length %d", size))
		d.logFailure(op, peer, err)
		return nil, err
	}

	info, err := Context(devicePub, serverPub)
	if err != nil {
		d.logFailure(op, peer, err)
		return nil, err
	}

	secret, err := SharedSecret(own.Private, peer)
	if err != nil {
		d.logFailure(op, peer, err)
		return nil, err
	}
	defer wipe(secret)

	key, err := kdf.Compute(sha256.New, secret, nil, info, size)
	if err != nil {
		err = rkperr.Crypto(rkperr.MalformedKey, "derive", err)
		d.logFailure(op, peer, err)
		return nil, err
	}

	if d.Logger != nil {
		d.Logger.Log(log.NewEvent(op, log.OutcomeSuccess).WithKey(peer[:]))
	}
	return key, nil
}

func (d Deriver) logFailure(op log.Operation, peer PublicKey, err error) {
	if d.Logger != nil {
		d.Logger.Log(log.NewEvent(op, log.OutcomeError).WithKey(peer[:]).WithError(err))
	}
}

// DeriveSendKey derives a send key with DefaultDeriver.
func DeriveSendKey(own *KeyPair, peer PublicKey) ([]byte, error) {
	return DefaultDeriver.SendKey(own, peer)
}

// DeriveReceiveKey derives a receive key with DefaultDeriver.
func DeriveReceiveKey(own *KeyPair, peer PublicKey) ([]byte, error) {
	return DefaultDeriver.ReceiveKey(own, peer)
}
