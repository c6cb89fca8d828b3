package catalog

// Rule describes a meta-dependency that never appears in the catalog.
// Host is nil when the rule does not constrain the host flag; Platform is
// empty when it does not constrain the platform.
type Rule struct {
	Name     string
	Host     *bool
	Platform string
}

func boolPtr(b bool) *bool { return &b }

// ExclusionRules are the build-tool and platform meta-dependencies stripped
// from every dependency list. The zero rule removes unnamed entries.
var ExclusionRules = []Rule{
	{Name: "vcpkg-cmake", Host: boolPtr(true)},
	{Name: "vcpkg-cmake-config", Host: boolPtr(true)},
	{Name: "vcpkg-msbuild", Host: boolPtr(true), Platform: "windows"},
	{Name: "vcpkg-msbuild", Host: boolPtr(false), Platform: "windows"},
	{},
}

// Matches reports whether a dependency with the given attributes is covered
// by r. Attributes the dependency does not carry (nil host, empty platform)
// are not compared, so a bare name matches on the name alone.
func (r Rule) Matches(name string, host *bool, platform string) bool {
	if name != r.Name {
		return false
	}
	if host != nil && r.Host != nil && *host != *r.Host {
		return false
	}
	if platform != "" && platform != r.Platform {
		return false
	}
	return true
}

// Excluded reports whether any rule in rules matches.
func Excluded(rules []Rule, name string, host *bool, platform string) bool {
	for _, r := range rules {
		if r.Matches(name, host, platform) {
			return true
		}
	}
	return false
}
