// Package content computes the canonical form and content checksum of a
// troubleshooting article body.
//
// Two source documents that differ only in cosmetic markdown choices
// (setext vs ATX headings, list marker style, emphasis delimiter, trailing
// whitespace) render identically, so they must compare as identical for
// sync purposes. The package round-trips the body through a markdown
// parse and re-serialization to erase that variance, then hashes the
// canonical bytes.
//
// The checksum is the dedup key for the whole reconciliation pipeline:
// "has this article changed" and "does a row for this article already
// exist" are both answered by comparing checksums, never raw source text.
//
// Checksum format: hex(SHA-256(domain || 0x00 || canonical)) where domain
// is "kbsync/article/v1". The null separator prevents domain/data boundary
// ambiguity, and the version suffix leaves room for algorithm migration
// without colliding with old digests.
package content
