// Package overrides loads and applies locally curated catalog corrections.
//
// An override tree has one directory per package:
//
//	index/
//	  zlib/
//	    overrides.json   {"license": "Zlib", "summary": "..."}
//	  my-lib/
//	    entry.json       {"Name": "my-lib", "Homepage": "https://github.com/me/my-lib"}
//
// overrides.json patches canonical fields of every record with that name.
// entry.json adds a full record in registry schema; it is normalized like
// registry records and appended without deduplication.
package overrides
