package capability

import "testing"

// FuzzCapabilityMatches fuzzes the granted/requested pattern matcher for
// panics and unbounded work on adversarial wildcard patterns.
// TARGETS: Capability.Matches / matchPattern
func FuzzCapabilityMatches(f *testing.F) {
	seeds := []string{
		"*",
		"any",
		"*.example.com",
		"/workspace/*",
		"/workspace/../etc/passwd",
		"*.",
		"**",
		"",
		"*.*.*.*",
		string(make([]byte, 10000)),
		"/very/long/" + string(make([]byte, 4096)),
	}
	for _, s := range seeds {
		f.Add(s, "outbound.example.com")
	}

	f.Fuzz(func(t *testing.T, granted, requested string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("PANIC on granted=%q requested=%q: %v", granted, requested, r)
			}
		}()

		g := Capability{Kind: KindNetwork, Pattern: granted}
		r := Capability{Kind: KindNetwork, Pattern: requested}
		_ = g.Matches(r)
	})
}
