// Package dedupe finds groups of content-identical files.
//
// Detection is a two-phase filter. Files are first bucketed by size, which costs no I/O
// and discards every file whose size is unique. Only the survivors are hashed, and files
// sharing a fingerprint form a DuplicateGroup. Files that cannot be read are left out of
// the result rather than reported as errors.
package dedupe
