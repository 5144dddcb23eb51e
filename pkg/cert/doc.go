// Package cert issues and checks certificates for provisioning keys.
//
// A certificate is a COSE_Sign1 whose payload is an encoded COSE_Key and
// whose protected header names the signature algorithm. A Suite holds the
// algorithm, the random source and the event logger:
//
//	suite := cert.NewSuite(cert.SuiteConfig{Logger: logger})
//
//	msg, err := suite.SignX25519Key(rootKey, deviceKeys.Public)
//	data, err := msg.Marshal()
//
//	ok, err := suite.Verify(issuerCert, data, nil)
//	pub, err := suite.ExtractX25519Public(data)
//
// Verify returns false for a signature that does not match and an error
// for anything structurally wrong, so callers can tell forged input from
// garbage. Extraction checks kty, crv and alg one by one and reports the
// first that disagrees.
package cert
