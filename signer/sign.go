// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signer

import (
	"crypto/rand"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// SigType is the signature algorithm used to sign a digest.
type SigType uint8

const (
	// SigTypeECDSA produces a DER encoded ECDSA signature with an RFC6979
	// nonce.
	SigTypeECDSA SigType = iota

	// SigTypeSchnorr produces a 64-byte BIP340 signature.
	SigTypeSchnorr
)

// String returns the name of the signature type.
func (s SigType) String() string {
	switch s {
	case SigTypeECDSA:
		return "ecdsa"

	case SigTypeSchnorr:
		return "schnorr"

	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// NonceMode selects how Schnorr nonces are generated.
type NonceMode uint8

const (
	// NonceDeterministic derives the BIP340 nonce with all-zero
	// auxiliary data, so signing the same digest twice yields the same
	// signature.
	NonceDeterministic NonceMode = iota

	// NonceRandomized mixes 32 bytes of fresh randomness into the nonce
	// as BIP340 auxiliary data.
	NonceRandomized
)

// String returns the name of the nonce mode.
func (n NonceMode) String() string {
	switch n {
	case NonceDeterministic:
		return "deterministic"

	case NonceRandomized:
		return "randomized"

	default:
		return fmt.Sprintf("unknown(%d)", uint8(n))
	}
}

// Signature is a signature over a sighash digest.
type Signature interface {
	// Serialize returns the wire encoding of the signature, without a
	// sighash type suffix.
	Serialize() []byte

	// Verify reports whether the signature is valid for the digest and
	// public key.
	Verify(digest []byte, pubKey *btcec.PublicKey) bool
}

// ECDSASignature is a DER encoded secp256k1 ECDSA signature.
type ECDSASignature struct {
	*ecdsa.Signature
}

// SchnorrSignature is a 64-byte BIP340 signature.
type SchnorrSignature struct {
	*schnorr.Signature
}

// A compile time check to ensure both signature kinds implement Signature.
var (
	_ Signature = ECDSASignature{}
	_ Signature = SchnorrSignature{}
)

// SignDigestIntent describes a request to sign a raw digest.
type SignDigestIntent struct {
	// Digest is the 32-byte digest to sign.
	Digest []byte

	// SigType selects the signature algorithm.
	SigType SigType

	// NonceMode selects the Schnorr nonce generation. It must be left at
	// NonceDeterministic for ECDSA, which always uses RFC6979.
	NonceMode NonceMode
}

// validateSignDigestIntent checks that the intent is well formed.
func validateSignDigestIntent(intent *SignDigestIntent) error {
	if intent == nil {
		return fmt.Errorf("%w: nil intent", ErrInvalidSignParam)
	}
	if len(intent.Digest) != chainhash.HashSize {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidDigestLength,
			len(intent.Digest))
	}

	switch intent.SigType {
	case SigTypeECDSA:
		if intent.NonceMode != NonceDeterministic {
			return fmt.Errorf("%w: ecdsa does not support nonce "+
				"mode %v", ErrInvalidSignParam, intent.NonceMode)
		}

	case SigTypeSchnorr:
		if intent.NonceMode > NonceRandomized {
			return fmt.Errorf("%w: unknown nonce mode %v",
				ErrInvalidSignParam, intent.NonceMode)
		}

	default:
		return fmt.Errorf("%w: unknown signature type %v",
			ErrInvalidSignParam, intent.SigType)
	}

	return nil
}

// SignDigest signs the digest of the intent with the algorithm it requests.
func SignDigest(intent *SignDigestIntent,
	privKey *btcec.PrivateKey) (Signature, error) {

	if err := validateSignDigestIntent(intent); err != nil {
		return nil, err
	}

	if intent.SigType == SigTypeSchnorr {
		sig, err := SignSchnorr(intent.Digest, privKey, intent.NonceMode)
		if err != nil {
			return nil, err
		}

		return sig, nil
	}

	sig, err := SignECDSA(intent.Digest, privKey)
	if err != nil {
		return nil, err
	}

	return sig, nil
}

// SignECDSA signs a 32-byte digest with ECDSA using an RFC6979 deterministic
// nonce.
func SignECDSA(digest []byte, privKey *btcec.PrivateKey) (ECDSASignature,
	error) {

	if len(digest) != chainhash.HashSize {
		return ECDSASignature{}, fmt.Errorf("%w: got %d bytes",
			ErrInvalidDigestLength, len(digest))
	}
	if err := checkPrivKey(privKey); err != nil {
		return ECDSASignature{}, err
	}

	return ECDSASignature{ecdsa.Sign(privKey, digest)}, nil
}

// SignSchnorr signs a 32-byte digest with a BIP340 Schnorr signature.
func SignSchnorr(digest []byte, privKey *btcec.PrivateKey,
	mode NonceMode) (SchnorrSignature, error) {

	if len(digest) != chainhash.HashSize {
		return SchnorrSignature{}, fmt.Errorf("%w: got %d bytes",
			ErrInvalidDigestLength, len(digest))
	}
	if err := checkPrivKey(privKey); err != nil {
		return SchnorrSignature{}, err
	}

	if mode > NonceRandomized {
		return SchnorrSignature{}, fmt.Errorf("%w: unknown nonce "+
			"mode %v", ErrInvalidSignParam, mode)
	}

	// BIP340 nonce derivation with all-zero auxiliary data unless fresh
	// randomness is requested. Without any aux data btcec would fall
	// back to an RFC6979 nonce.
	var aux [32]byte
	if mode == NonceRandomized {
		if _, err := rand.Read(aux[:]); err != nil {
			return SchnorrSignature{}, fmt.Errorf("unable to read "+
				"nonce randomness: %w", err)
		}
	}

	sig, err := schnorr.Sign(privKey, digest, schnorr.CustomNonce(aux))
	if err != nil {
		return SchnorrSignature{}, fmt.Errorf("schnorr sign: %w", err)
	}

	return SchnorrSignature{sig}, nil
}

// ParsePrivKey parses a raw 32-byte secp256k1 private key, rejecting zero and
// out of range scalars.
func ParsePrivKey(keyBytes []byte) (*btcec.PrivateKey, error) {
	if len(keyBytes) != btcec.PrivKeyBytesLen {
		return nil, fmt.Errorf("%w: got %d bytes, want %d",
			ErrInvalidKey, len(keyBytes), btcec.PrivKeyBytesLen)
	}

	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(keyBytes); overflow {
		return nil, fmt.Errorf("%w: scalar exceeds curve order",
			ErrInvalidKey)
	}
	if scalar.IsZero() {
		return nil, fmt.Errorf("%w: zero scalar", ErrInvalidKey)
	}

	privKey, _ := btcec.PrivKeyFromBytes(keyBytes)

	return privKey, nil
}

// DecodeWIF decodes a private key in wallet import format.
func DecodeWIF(wif string) (*btcutil.WIF, error) {
	decoded, err := btcutil.DecodeWIF(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if err := checkPrivKey(decoded.PrivKey); err != nil {
		return nil, err
	}

	return decoded, nil
}

// checkPrivKey makes sure a private key is usable for signing.
func checkPrivKey(privKey *btcec.PrivateKey) error {
	if privKey == nil {
		return fmt.Errorf("%w: nil key", ErrInvalidKey)
	}
	if privKey.Key.IsZero() {
		return fmt.Errorf("%w: zero scalar", ErrInvalidKey)
	}

	return nil
}
