// Package extcrypto provides digest functions for binding expressions, for
// example to derive avatar URLs from e-mail addresses:
//
//	@{user.email | trim | toLowerCase | hash('md5')}
//
// MD5 and SHA-1 are provided for fingerprinting only.
package extcrypto

import (
	"crypto/hmac"
	"crypto/md5"  //nolint:gosec // fingerprinting only
	"crypto/sha1" //nolint:gosec // fingerprinting only
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/sandrolain/bindtree/pkg/ext/extutil"
	"github.com/sandrolain/bindtree/pkg/functions"
	"github.com/sandrolain/bindtree/pkg/value"
)

// All returns all digest functions.
func All() []functions.Function {
	return []functions.Function{
		Hash(),
		HMAC(),
	}
}

// Hash returns the function s | hash([algorithm]). The algorithm is one of
// md5, sha1, sha256 (default), sha384, sha512, blake2b-256 or blake2b-512;
// the digest is lowercase hex.
func Hash() functions.Function {
	return extutil.OnText("hash", func(s string, args []value.Value) value.Value {
		algorithm := "sha256"
		if len(args) > 0 {
			algorithm, _ = extutil.TextArg(args, 0)
		}
		newHash, ok := hasher(algorithm)
		if !ok {
			return nil
		}
		h := newHash()
		h.Write([]byte(s))
		return value.String(hex.EncodeToString(h.Sum(nil)))
	})
}

// HMAC returns the function s | hmac(key [, algorithm]).
func HMAC() functions.Function {
	return extutil.OnText("hmac", func(s string, args []value.Value) value.Value {
		key, ok := extutil.TextArg(args, 0)
		if !ok {
			return nil
		}
		algorithm := "sha256"
		if len(args) > 1 {
			algorithm, _ = extutil.TextArg(args, 1)
		}
		newHash, ok := hasher(algorithm)
		if !ok {
			return nil
		}
		mac := hmac.New(newHash, []byte(key))
		mac.Write([]byte(s))
		return value.String(hex.EncodeToString(mac.Sum(nil)))
	})
}

func hasher(algorithm string) (func() hash.Hash, bool) {
	switch strings.ToLower(algorithm) {
	case "md5":
		return md5.New, true
	case "sha1":
		return sha1.New, true
	case "sha256":
		return sha256.New, true
	case "sha384":
		return sha512.New384, true
	case "sha512":
		return sha512.New, true
	case "blake2b-256":
		return unkeyed(blake2b.New256), true
	case "blake2b-512":
		return unkeyed(blake2b.New512), true
	default:
		return nil, false
	}
}

// unkeyed adapts a BLAKE2b constructor; with a nil key it cannot fail.
func unkeyed(newKeyed func(key []byte) (hash.Hash, error)) func() hash.Hash {
	return func() hash.Hash {
		h, _ := newKeyed(nil)
		return h
	}
}
