// Copyright (c) 2026 The dsdnexus Authors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of dsdnexus/core.
//
// dsdnexus/core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// dsdnexus/core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with dsdnexus/core.  If not, see <https://www.gnu.org/licenses/>.

// Authentication implements the six-command SAC (Secure Authenticated
// Channel) key exchange used by the proprietary optical drive protocol:
// a mutual RSA-1024 certificate exchange followed by session-key
// derivation from two random nonces, giving an AES-128-CBC key for all
// subsequent sector reads. None of the pack's third-party dependencies
// provide RSA/SHA-1/AES primitives, so this file is the one place in the
// module that reaches directly into the standard library's crypto
// packages.
package disc

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // protocol-mandated primitive, not our choice
	"encoding/binary"
	"math/big"

	"github.com/dsdnexus/core/xerr"
)

const (
	hostCertIDConst   = 0x00000001
	driveCertMarker   = 0x95
	rsaPaddingMarker  = 0x6a
	iso9796TrailerTag = 0xBC
	driveCertLen      = 197
	sessionBlobLen    = 174
	discKeyBlobLen    = 48
	rsaModulusBytes   = 128
)

// sessionIV is the fixed initialization vector used to decrypt the CMD6
// response and recover the per-disc key; it is a protocol constant, not
// derived from any session material.
var sessionIV = [16]byte{0x00, 0x00, 0x00, 0x10, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

// discIV is the fixed initialization vector for all subsequent AES-CBC
// sector decryption once a disc key has been derived.
var discIV = [16]byte{}

// HostIdentity is the host side's half of the certificate exchange: its
// embedded public-key blob (sent to the drive in CMD2) and the matching
// private key (used to sign CMD4 and decrypt CMD5).
type HostIdentity struct {
	CertID        uint32
	PublicKeyBlob [175]byte
	PrivateKey    *rsa.PrivateKey
}

// CARoot is the certificate authority's public modulus used to verify the
// drive's certificate in CMD3. The exponent is fixed at 65537 per the
// protocol.
type CARoot struct {
	Modulus *big.Int
}

const caExponent = 65537

// Authenticator drives the six-command SAC handshake against a Transport
// and holds the derived key material until Close zeroises it.
type Authenticator struct {
	host HostIdentity
	ca   CARoot

	hostRandom        [16]byte
	hostSessionRandom [16]byte
	driveSessionRand  [16]byte
	sessionKey        [16]byte
	discKey           [16]byte
}

// NewAuthenticator constructs an Authenticator for one handshake attempt.
func NewAuthenticator(host HostIdentity, ca CARoot) *Authenticator {
	return &Authenticator{host: host, ca: ca}
}

// Authenticate runs CMD0 through CMD6 against t and returns the AES-128
// key to use for decrypting all subsequent sector reads. Any non-zero
// drive status aborts with SacFailed; a marker mismatch (certificate
// tamper) also returns SacFailed; RSA/AES/SHA failures return
// CryptoFailed.
func (a *Authenticator) Authenticate(t Transport) (key [16]byte, err error) {
	if _, err := a.cmd0(t); err != nil {
		return key, err
	}

	if _, err := rand.Read(a.hostRandom[:]); err != nil {
		return key, xerr.Wrap(xerr.CryptoFailed, "generate host random", err)
	}
	if err := a.cmd2(t); err != nil {
		return key, err
	}

	driveResponse, driveCertID, drivePubKey, err := a.cmd3(t)
	if err != nil {
		return key, err
	}
	drivePub := &rsa.PublicKey{N: new(big.Int).SetBytes(drivePubKey), E: caExponent}

	if err := a.cmd4(t, driveResponse, driveCertID, drivePub); err != nil {
		return key, err
	}

	if err := a.cmd5(t, drivePub); err != nil {
		return key, err
	}

	h := sha1.New() //nolint:gosec // protocol-mandated digest
	h.Write(a.hostSessionRandom[:])
	h.Write(a.driveSessionRand[:])
	copy(a.sessionKey[:], h.Sum(nil)[:16])

	if err := a.cmd6(t); err != nil {
		return key, err
	}

	return a.discKey, nil
}

// Close zeroises all session key material. Callers must call it once the
// SectorReader built from the derived key is no longer needed.
func (a *Authenticator) Close() {
	zero(a.hostRandom[:])
	zero(a.hostSessionRandom[:])
	zero(a.driveSessionRand[:])
	zero(a.sessionKey[:])
	zero(a.discKey[:])
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func (a *Authenticator) cmd0(t Transport) ([8]byte, error) {
	var out [8]byte
	resp, status, err := t.Command([]byte{cmdFormat}, nil, 8)
	if err != nil {
		return out, xerr.Wrap(xerr.DriveNotReady, "CMD0 transport failure", err)
	}
	if status != 0 {
		return out, xerr.New(xerr.SacFailed, "CMD0 returned non-zero status")
	}
	if len(resp) < 8 {
		return out, xerr.New(xerr.UnexpectedEOF, "CMD0 short response")
	}
	copy(out[:], resp)
	return out, nil
}

// cmd2 sends the 201-byte host certificate payload, padded to a 4-byte
// boundary for transport.
func (a *Authenticator) cmd2(t Transport) error {
	payload := make([]byte, 0, 204)
	payload = append(payload, a.hostRandom[:]...)
	payload = append(payload, make([]byte, 4)...)
	certID := make([]byte, 4)
	binary.BigEndian.PutUint32(certID, a.host.CertID)
	payload = append(payload, certID...)
	payload = append(payload, 0x00, 0x99)
	payload = append(payload, a.host.PublicKeyBlob[:]...)
	for len(payload)%4 != 0 {
		payload = append(payload, 0)
	}

	_, status, err := t.Command([]byte{cmdSendCert}, payload, 0)
	if err != nil {
		return xerr.Wrap(xerr.DriveNotReady, "CMD2 transport failure", err)
	}
	if status != 0 {
		return xerr.New(xerr.SacFailed, "CMD2 returned non-zero status")
	}
	return nil
}

// cmd3 retrieves and verifies the drive's certificate, recovering its
// embedded RSA public key.
//
// The certificate fields (16 + 8 + 1 + 128 + 39 = 192 bytes) are 5 bytes
// short of the declared 197-byte total; those 5 bytes are a
// transport-level response header that precedes the certificate fields
// proper.
func (a *Authenticator) cmd3(t Transport) (driveResponse [16]byte, driveCertID [8]byte, drivePubKey []byte, err error) {
	resp, status, ierr := t.Command([]byte{cmdGetCert}, nil, driveCertLen)
	if ierr != nil {
		return driveResponse, driveCertID, nil, xerr.Wrap(xerr.DriveNotReady, "CMD3 transport failure", ierr)
	}
	if status != 0 {
		return driveResponse, driveCertID, nil, xerr.New(xerr.SacFailed, "CMD3 returned non-zero status")
	}
	if len(resp) < driveCertLen {
		return driveResponse, driveCertID, nil, xerr.New(xerr.UnexpectedEOF, "CMD3 short response")
	}

	body := resp[len(resp)-192:]
	copy(driveResponse[:], body[0:16])
	copy(driveCertID[:], body[16:24])
	marker := body[24]
	if marker != driveCertMarker {
		return driveResponse, driveCertID, nil, xerr.New(xerr.SacFailed, "CMD3 certificate marker mismatch")
	}
	certBody := body[25:153]
	tail := body[153:192]

	plain := rsaPublicRaw(certBody, a.ca.Modulus, caExponent)
	if plain[0] != rsaPaddingMarker {
		return driveResponse, driveCertID, nil, xerr.New(xerr.SacFailed, "CMD3 certificate tamper detected")
	}

	drivePubKey = append(append([]byte{}, plain[18:107]...), tail[0:39]...)
	return driveResponse, driveCertID, drivePubKey, nil
}

// cmd4 generates the host session random, RSA-encrypts it under the
// drive's public key, builds the ISO-9796-2-style signed message, and
// sends the signature plus the tail of the encrypted session block.
func (a *Authenticator) cmd4(t Transport, driveResponse [16]byte, driveCertID [8]byte, drivePub *rsa.PublicKey) error {
	if _, err := rand.Read(a.hostSessionRandom[:]); err != nil {
		return xerr.Wrap(xerr.CryptoFailed, "generate host session random", err)
	}

	certIDBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(certIDBytes, a.host.CertID)
	msg := append(append([]byte{}, certIDBytes...), a.hostSessionRandom[:]...)

	encSession, err := rsa.EncryptPKCS1v15(rand.Reader, drivePub, msg)
	if err != nil {
		return xerr.Wrap(xerr.CryptoFailed, "encrypt session random under drive key", err)
	}
	if len(encSession) != rsaModulusBytes {
		return xerr.New(xerr.CryptoFailed, "unexpected encrypted session length")
	}

	h := sha1.New() //nolint:gosec // protocol-mandated digest
	h.Write(driveResponse[:])
	h.Write(driveCertID[:])
	h.Write(encSession)
	digest := h.Sum(nil)

	signed := make([]byte, 0, rsaModulusBytes)
	signed = append(signed, rsaPaddingMarker)
	signed = append(signed, driveResponse[:]...)
	signed = append(signed, driveCertID[:]...)
	signed = append(signed, encSession[0:82]...)
	signed = append(signed, digest...)
	signed = append(signed, iso9796Trailer())

	sig := rsaPrivateRaw(signed, a.host.PrivateKey)

	out := append(append([]byte{}, sig...), encSession[82:128]...)
	_, status, ierr := t.Command([]byte{cmdSendSession}, out, 0)
	if ierr != nil {
		return xerr.Wrap(xerr.DriveNotReady, "CMD4 transport failure", ierr)
	}
	if status != 0 {
		return xerr.New(xerr.SacFailed, "CMD4 returned non-zero status")
	}
	return nil
}

func iso9796Trailer() byte { return iso9796TrailerTag }

// cmd5 recovers the drive's session random from the nested RSA blob.
func (a *Authenticator) cmd5(t Transport, drivePub *rsa.PublicKey) error {
	resp, status, ierr := t.Command([]byte{cmdGetSession}, nil, sessionBlobLen)
	if ierr != nil {
		return xerr.Wrap(xerr.DriveNotReady, "CMD5 transport failure", ierr)
	}
	if status != 0 {
		return xerr.New(xerr.SacFailed, "CMD5 returned non-zero status")
	}
	if len(resp) < sessionBlobLen {
		return xerr.New(xerr.UnexpectedEOF, "CMD5 short response")
	}

	outer := resp[0:rsaModulusBytes]
	trailing := resp[rsaModulusBytes:sessionBlobLen]

	plainOuter := rsaPublicRaw(outer, drivePub.N, int64(drivePub.E))
	if plainOuter[0] != rsaPaddingMarker {
		return xerr.New(xerr.SacFailed, "CMD5 response marker mismatch")
	}
	if !bytesEqual(plainOuter[1:17], a.hostRandom[:]) {
		return xerr.New(xerr.SacFailed, "CMD5 echoed host random mismatch")
	}

	inner := make([]byte, 0, rsaModulusBytes)
	inner = append(inner, plainOuter[25:89]...)
	inner = append(inner, plainOuter[89:107]...)
	inner = append(inner, trailing...)

	plainInner, err := rsa.DecryptPKCS1v15(rand.Reader, a.host.PrivateKey, inner)
	if err != nil {
		return xerr.Wrap(xerr.CryptoFailed, "decrypt nested session blob", err)
	}
	if len(plainInner) < 16 {
		return xerr.New(xerr.UnexpectedEOF, "CMD5 decrypted session too short")
	}
	copy(a.driveSessionRand[:], plainInner[0:16])
	return nil
}

// cmd6 retrieves the final 48-byte blob and decrypts it under the session
// key to recover the per-disc AES key.
func (a *Authenticator) cmd6(t Transport) error {
	resp, status, err := t.Command([]byte{cmdGetDiscKey}, nil, discKeyBlobLen)
	if err != nil {
		return xerr.Wrap(xerr.DriveNotReady, "CMD6 transport failure", err)
	}
	if status != 0 {
		return xerr.New(xerr.SacFailed, "CMD6 returned non-zero status")
	}
	if len(resp) < discKeyBlobLen {
		return xerr.New(xerr.UnexpectedEOF, "CMD6 short response")
	}

	block, err := aes.NewCipher(a.sessionKey[:])
	if err != nil {
		return xerr.Wrap(xerr.CryptoFailed, "build session cipher", err)
	}
	plain := make([]byte, discKeyBlobLen)
	cipher.NewCBCDecrypter(block, sessionIV[:]).CryptBlocks(plain, resp[:discKeyBlobLen])
	copy(a.discKey[:], plain[0x20:0x30])
	return nil
}

// rsaPublicRaw computes data^exponent mod modulus without any padding
// scheme, the raw RSAEP primitive the certificate verification step uses.
func rsaPublicRaw(data []byte, modulus *big.Int, exponent int64) []byte {
	c := new(big.Int).SetBytes(data)
	m := new(big.Int).Exp(c, big.NewInt(exponent), modulus)
	out := make([]byte, (modulus.BitLen()+7)/8)
	b := m.Bytes()
	copy(out[len(out)-len(b):], b)
	return out
}

// rsaPrivateRaw computes data^d mod n without any padding scheme, the raw
// RSADP primitive the ISO-9796-2-style signature uses.
func rsaPrivateRaw(data []byte, key *rsa.PrivateKey) []byte {
	c := new(big.Int).SetBytes(data)
	m := new(big.Int).Exp(c, key.D, key.N)
	out := make([]byte, (key.N.BitLen()+7)/8)
	b := m.Bytes()
	copy(out[len(out)-len(b):], b)
	return out
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
