package cert_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remoteprov/rkp-go/pkg/agreement"
	"github.com/remoteprov/rkp-go/pkg/cert"
	"github.com/remoteprov/rkp-go/pkg/cose"
	"github.com/remoteprov/rkp-go/pkg/log"
	"github.com/remoteprov/rkp-go/pkg/rkperr"
	"github.com/remoteprov/rkp-go/pkg/wire"
)

type recordingLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *recordingLogger) Log(e log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingLogger) last() log.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

// fixture is an issuer with a self-signed certificate and a device X25519
// key certified by it.
type fixture struct {
	suite      *cert.Suite
	root       ed25519.PrivateKey
	issuerCert []byte
	device     *agreement.KeyPair
	deviceCert []byte
}

func newFixture(t *testing.T, suite *cert.Suite) *fixture {
	t.Helper()
	rootPub, root, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	rootKey, err := cose.EncodeEd25519Public(rootPub)
	require.NoError(t, err)
	issuer, err := suite.SignKey(root, rootKey)
	require.NoError(t, err)
	issuerCert, err := issuer.Marshal()
	require.NoError(t, err)

	device, err := agreement.GenerateKeyPair()
	require.NoError(t, err)
	msg, err := suite.SignX25519Key(root, device.Public)
	require.NoError(t, err)
	deviceCert, err := msg.Marshal()
	require.NoError(t, err)

	return &fixture{
		suite:      suite,
		root:       root,
		issuerCert: issuerCert,
		device:     device,
		deviceCert: deviceCert,
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	f := newFixture(t, cert.DefaultSuite())

	expected, err := f.device.Public.COSEKey()
	require.NoError(t, err)

	ok, err := f.suite.Verify(f.issuerCert, f.deviceCert, expected)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.suite.Verify(f.issuerCert, f.deviceCert, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSignedObjectShape(t *testing.T) {
	f := newFixture(t, cert.DefaultSuite())

	msg, err := cert.Decode(f.deviceCert)
	require.NoError(t, err)

	alg, err := msg.Algorithm()
	require.NoError(t, err)
	assert.Equal(t, cose.AlgorithmEdDSA, alg)

	// Protected header holds exactly the algorithm.
	var hdr map[int64]int64
	require.NoError(t, wire.Unmarshal(msg.Protected, &hdr))
	assert.Equal(t, map[int64]int64{cose.HeaderAlgorithm: int64(cose.AlgorithmEdDSA)}, hdr)

	key, err := msg.Key()
	require.NoError(t, err)
	assert.Equal(t, f.device.Public[:], key.X)
	assert.Len(t, msg.Signature, ed25519.SignatureSize)
}

func TestVerifyAlteredSignatureReturnsFalse(t *testing.T) {
	f := newFixture(t, cert.DefaultSuite())

	msg, err := cert.Decode(f.deviceCert)
	require.NoError(t, err)
	msg.Signature[0] ^= 0x01
	tampered, err := msg.Marshal()
	require.NoError(t, err)

	ok, err := f.suite.Verify(f.issuerCert, tampered, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyAlteredPayloadReturnsFalse(t *testing.T) {
	f := newFixture(t, cert.DefaultSuite())

	msg, err := cert.Decode(f.deviceCert)
	require.NoError(t, err)
	other, err := agreement.GenerateKeyPair()
	require.NoError(t, err)
	key, err := other.Public.COSEKey()
	require.NoError(t, err)
	msg.Payload, err = key.Marshal()
	require.NoError(t, err)
	swapped, err := msg.Marshal()
	require.NoError(t, err)

	ok, err := f.suite.Verify(f.issuerCert, swapped, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyWrongIssuerReturnsFalse(t *testing.T) {
	f := newFixture(t, cert.DefaultSuite())
	other := newFixture(t, cert.DefaultSuite())

	ok, err := f.suite.Verify(other.issuerCert, f.deviceCert, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyExpectedKeyMismatch(t *testing.T) {
	f := newFixture(t, cert.DefaultSuite())

	other, err := agreement.GenerateKeyPair()
	require.NoError(t, err)
	expected, err := other.Public.COSEKey()
	require.NoError(t, err)

	ok, err := f.suite.Verify(f.issuerCert, f.deviceCert, expected)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, rkperr.ErrVerificationFailure))
	assert.True(t, errors.Is(err, cert.ErrKeyMismatch))
}

func TestVerifyDecodeFailures(t *testing.T) {
	f := newFixture(t, cert.DefaultSuite())

	tests := []struct {
		name      string
		verifying []byte
		target    []byte
	}{
		{"garbage verifying cert", []byte{0xFF}, f.deviceCert},
		{"garbage target cert", f.issuerCert, []byte{0x01, 0x02}},
		{"target is a map", f.issuerCert, []byte{0xA0}},
		{"wrong tag", mustTag(t, 17, f.issuerCert), f.deviceCert},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := f.suite.Verify(tc.verifying, tc.target, nil)
			require.Error(t, err)
			assert.False(t, ok)
			assert.True(t, errors.Is(err, rkperr.ErrDeserialization), "got %v", err)
			assert.False(t, errors.Is(err, rkperr.ErrVerificationFailure))
		})
	}
}

func TestVerifyPayloadNotAKey(t *testing.T) {
	f := newFixture(t, cert.DefaultSuite())

	msg, err := cose.NewSign1(cose.AlgorithmEdDSA, []byte("not a key"))
	require.NoError(t, err)
	msg.Signature = make([]byte, ed25519.SignatureSize)
	bogusIssuer, err := msg.Marshal()
	require.NoError(t, err)

	_, err = f.suite.Verify(bogusIssuer, f.deviceCert, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, rkperr.ErrDeserialization))
}

func TestVerifyChecksSignatureBeforePayload(t *testing.T) {
	f := newFixture(t, cert.DefaultSuite())

	msg, err := cose.NewSign1(cose.AlgorithmEdDSA, []byte{0x01})
	require.NoError(t, err)
	msg.Signature = make([]byte, ed25519.SignatureSize)
	data, err := msg.Marshal()
	require.NoError(t, err)

	expected, err := f.device.Public.COSEKey()
	require.NoError(t, err)

	ok, err := f.suite.Verify(f.issuerCert, data, expected)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyExpectedRequiresKeyPayload(t *testing.T) {
	f := newFixture(t, cert.DefaultSuite())

	msg, err := cose.NewSign1(cose.AlgorithmEdDSA, []byte{0x01})
	require.NoError(t, err)
	tbs, err := msg.SigStructure()
	require.NoError(t, err)
	msg.Signature = ed25519.Sign(f.root, tbs)
	data, err := msg.Marshal()
	require.NoError(t, err)

	expected, err := f.device.Public.COSEKey()
	require.NoError(t, err)

	ok, err := f.suite.Verify(f.issuerCert, data, expected)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, rkperr.ErrDeserialization))

	// Without an expected key the payload is never needed.
	ok, err = f.suite.Verify(f.issuerCert, data, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyWithKeyRejectsExtraProtectedHeaders(t *testing.T) {
	f := newFixture(t, cert.DefaultSuite())
	rootKey, err := cose.EncodeEd25519Public(f.root.Public().(ed25519.PublicKey))
	require.NoError(t, err)

	headers := map[string]map[int]any{
		"crit":      {cose.HeaderAlgorithm: int(cose.AlgorithmEdDSA), cose.HeaderCritical: []int{99}, 4: []byte("kid")},
		"extra kid": {cose.HeaderAlgorithm: int(cose.AlgorithmEdDSA), 4: []byte("kid")},
	}
	for name, hdr := range headers {
		t.Run(name, func(t *testing.T) {
			protected, err := wire.Marshal(hdr)
			require.NoError(t, err)
			msg := &cose.Sign1{Protected: protected, Payload: []byte{0x01}}
			tbs, err := msg.SigStructure()
			require.NoError(t, err)
			msg.Signature = ed25519.Sign(f.root, tbs)

			ok, err := f.suite.VerifyWithKey(rootKey, msg)
			require.Error(t, err)
			assert.False(t, ok)
			assert.True(t, errors.Is(err, rkperr.ErrVerificationFailure))
			assert.True(t, errors.Is(err, rkperr.ErrTypeMismatch))
		})
	}
}

func TestVerifyRejectsUnexpectedAlgorithm(t *testing.T) {
	f := newFixture(t, cert.DefaultSuite())

	key, err := f.device.Public.COSEKey()
	require.NoError(t, err)
	payload, err := key.Marshal()
	require.NoError(t, err)

	msg, err := cose.NewSign1(cose.AlgorithmES256, payload)
	require.NoError(t, err)
	tbs, err := msg.SigStructure()
	require.NoError(t, err)
	msg.Signature = ed25519.Sign(f.root, tbs)
	data, err := msg.Marshal()
	require.NoError(t, err)

	ok, err := f.suite.Verify(f.issuerCert, data, nil)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, rkperr.ErrVerificationFailure))
	assert.True(t, errors.Is(err, cert.ErrAlgorithmMismatch))
}

func TestVerifyWithKeyRejectsNonEd25519Key(t *testing.T) {
	f := newFixture(t, cert.DefaultSuite())
	msg, err := cert.Decode(f.deviceCert)
	require.NoError(t, err)

	// An X25519 key cannot verify EdDSA signatures.
	xKey, err := f.device.Public.COSEKey()
	require.NoError(t, err)

	ok, err := f.suite.VerifyWithKey(xKey, msg)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, rkperr.ErrVerificationFailure))
}

func TestVerifyWithKeyAcceptsKeyWithoutAlg(t *testing.T) {
	f := newFixture(t, cert.DefaultSuite())
	msg, err := cert.Decode(f.deviceCert)
	require.NoError(t, err)

	key := &cose.Key{
		Type:  cose.KeyTypeOKP,
		Curve: cose.CurveEd25519,
		X:     f.root.Public().(ed25519.PublicKey),
	}
	ok, err := f.suite.VerifyWithKey(key, msg)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExtractX25519Public(t *testing.T) {
	f := newFixture(t, cert.DefaultSuite())

	pub, err := f.suite.ExtractX25519Public(f.deviceCert)
	require.NoError(t, err)
	assert.Equal(t, f.device.Public, pub)
}

func TestExtractEd25519Public(t *testing.T) {
	f := newFixture(t, cert.DefaultSuite())

	pub, err := f.suite.ExtractEd25519Public(f.issuerCert)
	require.NoError(t, err)
	assert.Equal(t, f.root.Public(), pub)
}

func TestExtractFieldErrors(t *testing.T) {
	suite := cert.DefaultSuite()
	x := make([]byte, 32)
	x[0] = 9

	tests := []struct {
		name    string
		payload map[int]any
		ed25519 bool
		reason  rkperr.DecodeReason
		field   string
	}{
		{
			name:    "X25519 from Ed25519 key",
			payload: map[int]any{1: 1, 3: -8, -1: 6, -2: x},
			reason:  rkperr.IncorrectKeyType,
			field:   "crv",
		},
		{
			name:    "Ed25519 from X25519 key",
			payload: map[int]any{1: 1, 3: -25, -1: 4, -2: x},
			ed25519: true,
			reason:  rkperr.IncorrectKeyType,
			field:   "crv",
		},
		{
			name:    "right curve wrong algorithm",
			payload: map[int]any{1: 1, 3: -8, -1: 4, -2: x},
			reason:  rkperr.IncorrectKeyType,
			field:   "alg",
		},
		{
			name:    "EC2 key type",
			payload: map[int]any{1: 2, 3: -25, -1: 4, -2: x},
			reason:  rkperr.IncorrectKeyType,
			field:   "kty",
		},
		{
			name:    "curve as byte string",
			payload: map[int]any{1: 1, 3: -25, -1: []byte{4}, -2: x},
			reason:  rkperr.TypeMismatch,
			field:   "crv",
		},
		{
			name:    "key type as text",
			payload: map[int]any{1: "OKP", 3: -25, -1: 4, -2: x},
			reason:  rkperr.TypeMismatch,
			field:   "kty",
		},
		{
			name:    "algorithm as byte string",
			payload: map[int]any{1: 1, 3: []byte{0x38, 0x18}, -1: 4, -2: x},
			reason:  rkperr.TypeMismatch,
			field:   "alg",
		},
		{
			name:    "x as integer",
			payload: map[int]any{1: 1, 3: -25, -1: 4, -2: 9},
			reason:  rkperr.TypeMismatch,
			field:   "x",
		},
		{
			name:    "x missing",
			payload: map[int]any{1: 1, 3: -25, -1: 4},
			reason:  rkperr.TypeMismatch,
			field:   "x",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := unsignedCert(t, tc.payload)

			var err error
			if tc.ed25519 {
				_, err = suite.ExtractEd25519Public(data)
			} else {
				_, err = suite.ExtractX25519Public(data)
			}
			require.Error(t, err)

			var de *rkperr.DecodeError
			require.True(t, errors.As(err, &de), "got %T: %v", err, err)
			assert.Equal(t, tc.reason, de.Reason)
			assert.Equal(t, tc.field, de.Field)
		})
	}
}

func TestExtractCurveMismatchReportsValues(t *testing.T) {
	f := newFixture(t, cert.DefaultSuite())

	_, err := f.suite.ExtractX25519Public(f.issuerCert)
	require.Error(t, err)

	var de *rkperr.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, int64(cose.CurveX25519), de.Expected)
	assert.Equal(t, int64(cose.CurveEd25519), de.Actual)
}

func TestExtractX25519WrongLength(t *testing.T) {
	data := unsignedCert(t, map[int]any{1: 1, 3: -25, -1: 4, -2: make([]byte, 31)})

	_, err := cert.DefaultSuite().ExtractX25519Public(data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, rkperr.ErrMalformedKey))
}

func TestSuiteLogsEvents(t *testing.T) {
	rec := &recordingLogger{}
	f := newFixture(t, cert.NewSuite(cert.SuiteConfig{Logger: rec}))

	require.Len(t, rec.events, 2)
	assert.Equal(t, log.OpSign, rec.events[0].Operation)
	assert.Equal(t, log.OutcomeSuccess, rec.events[1].Outcome)

	_, err := f.suite.Verify(f.issuerCert, f.deviceCert, nil)
	require.NoError(t, err)
	assert.Equal(t, log.OpVerify, rec.last().Operation)
	assert.Equal(t, log.OutcomeSuccess, rec.last().Outcome)
	assert.NotEmpty(t, rec.last().KeyID)

	other := newFixture(t, cert.DefaultSuite())
	_, err = f.suite.Verify(other.issuerCert, f.deviceCert, nil)
	require.NoError(t, err)
	assert.Equal(t, log.OutcomeRejected, rec.last().Outcome)

	_, err = f.suite.ExtractX25519Public(f.issuerCert)
	require.Error(t, err)
	assert.Equal(t, log.OpExtract, rec.last().Operation)
	assert.Equal(t, log.OutcomeError, rec.last().Outcome)
	require.NotNil(t, rec.last().Error)
	assert.Equal(t, "crv", rec.last().Error.Field)
}

func TestSuiteAlgorithm(t *testing.T) {
	assert.Equal(t, cose.AlgorithmEdDSA, cert.DefaultSuite().Algorithm())
	assert.NotNil(t, cert.DefaultSuite().Logger())
}

func unsignedCert(t *testing.T, payload map[int]any) []byte {
	t.Helper()
	p, err := wire.Marshal(payload)
	require.NoError(t, err)
	msg, err := cose.NewSign1(cose.AlgorithmEdDSA, p)
	require.NoError(t, err)
	msg.Signature = make([]byte, ed25519.SignatureSize)
	data, err := msg.Marshal()
	require.NoError(t, err)
	return data
}

func mustTag(t *testing.T, number uint64, tagged []byte) []byte {
	t.Helper()
	inner, err := wire.Untag(tagged, cose.TagSign1)
	require.NoError(t, err)
	var raw []any
	require.NoError(t, wire.Unmarshal(inner, &raw))
	data, err := wire.MarshalTagged(number, raw)
	require.NoError(t, err)
	return data
}
