package content

import (
	"crypto/sha256"
	"encoding/hex"
)

// domainArticle versions the checksum scheme. Changing the normalization
// or hash requires a new domain so old and new digests never collide.
const domainArticle = "kbsync/article/v1"

// Checksum hashes the canonical form of src.
//
// Equal checksums mean the two documents are identical for sync purposes
// even if their raw source text differs. Computed fresh from the live file
// on every run; never cached across runs.
func Checksum(src []byte) (string, error) {
	canonical, err := Normalize(src)
	if err != nil {
		return "", err
	}
	return hashWithDomain(domainArticle, canonical), nil
}

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
