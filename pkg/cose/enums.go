package cose

import "strconv"

// COSE_Key common and curve-specific parameter labels (RFC 9052 section 7,
// RFC 9053 section 7).
const (
	LabelKeyType   = 1
	LabelKeyID     = 2
	LabelAlgorithm = 3
	LabelCurve     = -1
	LabelX         = -2
	LabelY         = -3
)

// HeaderAlgorithm is the protected header label for the signature algorithm.
const HeaderAlgorithm = 1

// HeaderCritical is the protected header label listing parameters a
// verifier must understand.
const HeaderCritical = 2

// TagSign1 is the CBOR tag for COSE_Sign1 messages.
const TagSign1 = 18

// KeyType is the COSE kty value.
type KeyType int64

const (
	KeyTypeOKP KeyType = 1
	KeyTypeEC2 KeyType = 2
)

// String returns the key type name.
func (kt KeyType) String() string {
	switch kt {
	case KeyTypeOKP:
		return "OKP"
	case KeyTypeEC2:
		return "EC2"
	default:
		return "kty(" + strconv.FormatInt(int64(kt), 10) + ")"
	}
}

// Algorithm is a COSE algorithm identifier.
type Algorithm int64

const (
	AlgorithmES256         Algorithm = -7
	AlgorithmEdDSA         Algorithm = -8
	AlgorithmECDHESHKDF256 Algorithm = -25
)

// String returns the algorithm name.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmES256:
		return "ES256"
	case AlgorithmEdDSA:
		return "EdDSA"
	case AlgorithmECDHESHKDF256:
		return "ECDH-ES+HKDF-256"
	default:
		return "alg(" + strconv.FormatInt(int64(a), 10) + ")"
	}
}

// Curve is a COSE elliptic curve identifier (RFC 9053 table 18).
type Curve int64

const (
	CurveP256    Curve = 1
	CurveX25519  Curve = 4
	CurveEd25519 Curve = 6
)

// String returns the curve name.
func (c Curve) String() string {
	switch c {
	case CurveP256:
		return "P-256"
	case CurveX25519:
		return "X25519"
	case CurveEd25519:
		return "Ed25519"
	default:
		return "crv(" + strconv.FormatInt(int64(c), 10) + ")"
	}
}
