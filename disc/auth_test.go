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

package disc

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // protocol-mandated digest, matches the code under test
	"fmt"
	"testing"
)

// mockDrive plays the drive side of the SAC handshake using freshly
// generated RSA keys, so the round trip exercises the real crypto
// primitives without any vendor-specific key material.
type mockDrive struct {
	caPriv    *rsa.PrivateKey
	drivePriv *rsa.PrivateKey
	hostPub   *rsa.PublicKey

	discKey            [16]byte
	capturedHostRandom [16]byte
	hostSessionRandom  [16]byte
	driveSessionRandom [16]byte
}

func newMockDrive(t *testing.T, hostPub *rsa.PublicKey) *mockDrive {
	t.Helper()
	caPriv, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("generate CA key: %v", err)
	}
	drivePriv, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("generate drive key: %v", err)
	}
	m := &mockDrive{caPriv: caPriv, drivePriv: drivePriv, hostPub: hostPub}
	if _, err := rand.Read(m.discKey[:]); err != nil {
		t.Fatalf("generate disc key: %v", err)
	}
	if _, err := rand.Read(m.driveSessionRandom[:]); err != nil {
		t.Fatalf("generate drive session random: %v", err)
	}
	return m
}

func padTo(b []byte, n int) []byte {
	if len(b) == n {
		return b
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}

func (m *mockDrive) Command(cdb []byte, dataOut []byte, _ int) ([]byte, int, error) {
	switch cdb[0] {
	case cmdFormat:
		return make([]byte, 8), 0, nil
	case cmdSendCert:
		copy(m.capturedHostRandom[:], dataOut[0:16])
		return nil, 0, nil
	case cmdGetCert:
		return m.buildCert(), 0, nil
	case cmdSendSession:
		if err := m.consumeSession(dataOut); err != nil {
			return nil, 0, err
		}
		return nil, 0, nil
	case cmdGetSession:
		return m.buildSessionBlob()
	case cmdGetDiscKey:
		return m.buildDiscKeyBlob()
	default:
		return nil, 0, fmt.Errorf("unexpected command %#x", cdb[0])
	}
}

func (m *mockDrive) buildCert() []byte {
	drivePub := padTo(m.drivePriv.PublicKey.N.Bytes(), rsaModulusBytes)

	plain := make([]byte, rsaModulusBytes)
	plain[0] = rsaPaddingMarker
	copy(plain[18:107], drivePub[0:89])

	certBody := rsaPrivateRaw(plain, m.caPriv)

	out := make([]byte, driveCertLen)
	// 5-byte transport header, left zero.
	copy(out[5+16:5+24], []byte{1, 2, 3, 4, 5, 6, 7, 8})
	out[5+24] = driveCertMarker
	copy(out[5+25:5+25+128], certBody)
	copy(out[5+153:5+192], drivePub[89:128])
	return out
}

func (m *mockDrive) consumeSession(dataOut []byte) error {
	sig := dataOut[0:128]
	encTail := dataOut[128:174]

	signed := rsaPublicRaw(sig, m.hostPub.N, int64(m.hostPub.E))
	encHead := signed[25:107]
	fullEncSession := append(append([]byte{}, encHead...), encTail...)

	msg, err := rsa.DecryptPKCS1v15(rand.Reader, m.drivePriv, fullEncSession)
	if err != nil {
		return fmt.Errorf("drive decrypt session: %w", err)
	}
	if len(msg) != 20 {
		return fmt.Errorf("unexpected session message length %d", len(msg))
	}
	copy(m.hostSessionRandom[:], msg[4:20])
	return nil
}

func (m *mockDrive) buildSessionBlob() ([]byte, int, error) {
	inner, err := rsa.EncryptPKCS1v15(rand.Reader, m.hostPub, m.driveSessionRandom[:])
	if err != nil {
		return nil, 0, err
	}

	plainOuter := make([]byte, rsaModulusBytes)
	plainOuter[0] = rsaPaddingMarker
	copy(plainOuter[1:17], m.capturedHostRandom[:])
	copy(plainOuter[25:89], inner[0:64])
	copy(plainOuter[89:107], inner[64:82])

	outer := rsaPrivateRaw(plainOuter, m.drivePriv)
	trailing := inner[82:128]

	return append(append([]byte{}, outer...), trailing...), 0, nil
}

func (m *mockDrive) buildDiscKeyBlob() ([]byte, int, error) {
	sessionKey := sha1Sum16(m.hostSessionRandom, m.driveSessionRandom)

	block, err := aes.NewCipher(sessionKey[:])
	if err != nil {
		return nil, 0, err
	}
	plain := make([]byte, discKeyBlobLen)
	copy(plain[0x20:0x30], m.discKey[:])

	out := make([]byte, discKeyBlobLen)
	cipher.NewCBCEncrypter(block, sessionIV[:]).CryptBlocks(out, plain)
	return out, 0, nil
}

func TestAuthenticateDerivesDiscKey(t *testing.T) {
	hostPriv, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("generate host key: %v", err)
	}
	host := HostIdentity{CertID: hostCertIDConst, PrivateKey: hostPriv}

	drive := newMockDrive(t, &hostPriv.PublicKey)
	ca := CARoot{Modulus: drive.caPriv.PublicKey.N}

	auth := NewAuthenticator(host, ca)
	key, err := auth.Authenticate(drive)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if !bytes.Equal(key[:], drive.discKey[:]) {
		t.Errorf("derived key = %x, want %x", key, drive.discKey)
	}

	auth.Close()
	if !bytes.Equal(auth.sessionKey[:], make([]byte, 16)) {
		t.Error("session key not zeroised after Close")
	}
}

func TestAuthenticateRejectsBadCertificateMarker(t *testing.T) {
	hostPriv, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("generate host key: %v", err)
	}
	host := HostIdentity{CertID: hostCertIDConst, PrivateKey: hostPriv}

	drive := newMockDrive(t, &hostPriv.PublicKey)
	ca := CARoot{Modulus: drive.caPriv.PublicKey.N}

	tamperingTransport := &tamperingDrive{mockDrive: drive}

	auth := NewAuthenticator(host, ca)
	if _, err := auth.Authenticate(tamperingTransport); err == nil {
		t.Fatal("expected SacFailed for tampered certificate marker")
	}
}

// tamperingDrive corrupts the certificate marker byte to exercise the
// tamper-detection path.
type tamperingDrive struct {
	*mockDrive
}

func (d *tamperingDrive) Command(cdb []byte, dataOut []byte, wantLen int) ([]byte, int, error) {
	resp, status, err := d.mockDrive.Command(cdb, dataOut, wantLen)
	if cdb[0] == cmdGetCert && err == nil {
		resp[5+24] = 0x00
	}
	return resp, status, err
}

func sha1Sum16(a, b [16]byte) [16]byte {
	h := sha1.New() //nolint:gosec // protocol-mandated digest, matches the code under test
	h.Write(a[:])
	h.Write(b[:])
	var out [16]byte
	copy(out[:], h.Sum(nil)[:16])
	return out
}
