// Package agreement derives directional AES keys from an X25519 exchange.
//
// Both parties compute the same raw shared secret and run it through
// HKDF-SHA256 with a context naming who is "device" and who is "server".
// The sender places itself under "device"; the receiver places the sender
// there. A key derived for sending is therefore only useful to the intended
// recipient for receiving.
package agreement
