package catalog

import "strings"

const (
	tagRefPrefix = "refs/tags/"
	peeledSuffix = "^{}"
)

// TagName returns the tag name of a refs/tags/* reference: its last "/"
// segment. Peeled references and non-tag references report false.
func TagName(ref string) (string, bool) {
	if !strings.HasPrefix(ref, tagRefPrefix) || strings.HasSuffix(ref, peeledSuffix) {
		return "", false
	}
	name := ref[strings.LastIndex(ref, "/")+1:]
	if name == "" {
		return "", false
	}
	return name, true
}

// ParseRefListing parses "git ls-remote" output, one "hash<TAB>refname"
// pair per line, into tag names in listing order.
func ParseRefListing(out string) []string {
	tags := []string{}
	for line := range strings.Lines(out) {
		_, ref, ok := strings.Cut(strings.TrimRight(line, "\r\n"), "\t")
		if !ok {
			continue
		}
		if name, ok := TagName(strings.TrimSpace(ref)); ok {
			tags = append(tags, name)
		}
	}
	return tags
}
