// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package python has helpers for talking about a Python installation and its conventions, that
// don't belong to any one PEP.
package python

import (
	"crypto/md5"  //nolint:gosec // package indexes still publish md5 digests
	"crypto/sha1" //nolint:gosec // package indexes still publish sha1 digests
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"net/url"
	"sort"
	"strings"
)

// HashlibAlgorithmsGuaranteed is Python `hashlib.algorithms_guaranteed`, minus the algorithms that
// Go doesn't have in the standard library.
//
//nolint:gochecknoglobals // Would be 'const'.
var HashlibAlgorithmsGuaranteed = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha224": sha256.New224,
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// Digest is a "{algorithm}={hexdigest}" pair, as used in the fragment of a package index URL.
type Digest struct {
	Algorithm string
	Hex       string
}

func (d Digest) String() string {
	return d.Algorithm + "=" + d.Hex
}

// ParseDigest parses an "{algorithm}={hexdigest}" string.
func ParseDigest(str string) (Digest, error) {
	parts := strings.SplitN(str, "=", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Digest{}, fmt.Errorf("invalid digest %q: expected ALGORITHM=HEXDIGEST", str)
	}
	return Digest{Algorithm: strings.ToLower(parts[0]), Hex: strings.ToLower(parts[1])}, nil
}

// URLDigests returns the digests named by the fragment of a URL; such as
// "https://example.com/foo-1.0-py3-none-any.whl#sha256=...".  Unknown algorithms are dropped.
func URLDigests(rawURL string) []Digest {
	u, err := url.Parse(rawURL)
	if err != nil || u.Fragment == "" {
		return nil
	}
	keyvals, err := url.ParseQuery(u.Fragment)
	if err != nil {
		return nil
	}
	var ret []Digest
	for key, vals := range keyvals {
		if _, ok := HashlibAlgorithmsGuaranteed[key]; !ok {
			continue
		}
		for _, val := range vals {
			ret = append(ret, Digest{Algorithm: key, Hex: strings.ToLower(val)})
		}
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].String() < ret[j].String()
	})
	return ret
}

// Verify returns an error if content doesn't match the digest.  Algorithms that aren't in
// HashlibAlgorithmsGuaranteed are an error.
func (d Digest) Verify(content []byte) error {
	newHash, ok := HashlibAlgorithmsGuaranteed[d.Algorithm]
	if !ok {
		return fmt.Errorf("unsupported checksum algorithm: %q", d.Algorithm)
	}
	h := newHash()
	_, _ = h.Write(content)
	if actual := hex.EncodeToString(h.Sum(nil)); actual != d.Hex {
		return fmt.Errorf("checksum mismatch: %s: expected=%s actual=%s",
			d.Algorithm, d.Hex, actual)
	}
	return nil
}
