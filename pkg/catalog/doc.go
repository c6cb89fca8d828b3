// Package catalog defines the canonical package record and the stateless
// steps that produce and consume it: fetching the registry snapshot,
// normalizing its schema, filtering dependency lists, and flattening
// records for relational storage.
//
// # Normalization
//
// [Normalize] renames registry fields to their canonical names, keeps only
// GitHub-hosted records, and derives git_short and target_link:
//
//	Homepage "https://github.com/madler/zlib"  ->  git_short "madler/zlib"
//	Dependencies ["vcpkg-cmake", "zlib"]       ->  [{"name": "zlib"}]
//
// Dependency lists lose structured (platform-conditional) entries and any
// name listed in [ExclusionRules].
//
// # Flattening
//
// [Flatten] encodes list and structured fields as JSON strings. Records are
// copied, so a flattened snapshot never aliases the working dataset.
package catalog
