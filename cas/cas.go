// Package cas implements the content-addressed artifact store: atomic,
// hash-named asset persistence with automatic deduplication (spec §4.A).
//
// Hashing uses BLAKE3 (github.com/zeebo/blake3), the same primitive the
// corpus uses for content addressing elsewhere (bureau-foundation-bureau's
// lib/artifact package hashes chunks, containers, and files with keyed
// BLAKE3). sitegraph hashes are unkeyed — artifacts are addressed purely
// by content, with no domain-separation requirement, since a single CAS
// directory only ever stores one kind of thing: build output bytes.
package cas

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// Hash is a 32-byte BLAKE3 digest.
type Hash [32]byte

// FormatHash returns the canonical lowercase hex encoding of a hash, used
// both as the CAS filename stem and as the public URL path segment.
func FormatHash(h Hash) string {
	return hex.EncodeToString(h[:])
}

// ParseHash parses a 64-character hex string into a Hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("cas: parsing hash: %w", err)
	}
	if len(decoded) != len(h) {
		return h, fmt.Errorf("cas: hash is %d bytes, want %d", len(decoded), len(h))
	}
	copy(h[:], decoded)
	return h, nil
}

// Fingerprint computes the BLAKE3 digest of data. It is used both as the
// CAS content key and, independently, as the per-key fingerprint the
// incremental tracker (package tracker) compares across builds (spec §9).
func Fingerprint(data []byte) Hash {
	sum := blake3.Sum256(data)
	return Hash(sum)
}

// Store is the on-disk content-addressed store rooted at Dir
// (conventionally "<cache>/hash"). It is safe for concurrent use: every
// write lands in a unique temp file and is published with a single atomic
// rename, so concurrent Store calls for identical bytes converge on the
// same file without ever exposing a partial write (spec §4.A guarantee,
// §8 properties 5–6).
type Store struct {
	Dir string
	// URLPrefix is prepended to the hash-named filename to produce the
	// public URL returned by Store. Defaults to "/hash" if empty.
	URLPrefix string
}

// New returns a Store rooted at dir. The directory is created lazily on
// first write, not here.
func New(dir string) *Store {
	return &Store{Dir: dir, URLPrefix: "/hash"}
}

// Store writes bytes to the content-addressed store under the given
// extension (without a leading dot) and returns the public URL for the
// resulting artifact. Calling Store twice with identical bytes and
// extension is idempotent: both calls return the same URL, and exactly
// one file exists on disk afterward (spec §8 property 5).
func (s *Store) Store(data []byte, ext string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("cas: creating store directory: %w", err)
	}

	h := Fingerprint(data)
	name := FormatHash(h)
	if ext != "" {
		name += "." + ext
	}
	target := filepath.Join(s.Dir, name)

	if _, err := os.Stat(target); err == nil {
		return s.url(name), nil
	}

	tmp, err := os.CreateTemp(s.Dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("cas: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("cas: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("cas: closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		// A concurrent writer may have already published the same
		// content under the same name; that is not an error.
		if _, statErr := os.Stat(target); statErr == nil {
			return s.url(name), nil
		}
		return "", fmt.Errorf("cas: publishing artifact: %w", err)
	}

	return s.url(name), nil
}

func (s *Store) url(name string) string {
	prefix := s.URLPrefix
	if prefix == "" {
		prefix = "/hash"
	}
	return prefix + "/" + name
}
