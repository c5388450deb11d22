package cleanup

import (
	"strings"
)

// suffixAlphabet is the character set Kubernetes uses for generated name
// suffixes (rand.String with vowels and ambiguous characters removed).
const suffixAlphabet = "bcdfghjklmnpqrstvwxz2456789"

// BaseName derives a pod's logical workload identity by stripping up to two
// trailing generated segments from its name. Deployment-controlled pods
// carry a pod-template-hash segment plus a random suffix
// ("web-7d4b9c8f6d-x7vqm" -> "web"); bare ReplicaSet pods carry one
// ("cache-x7vqm" -> "cache"). Names with no recognizable suffix are
// returned unchanged, so they form singleton groups keyed by themselves.
func BaseName(name string) string {
	segments := strings.Split(name, "-")
	for stripped := 0; stripped < 2 && len(segments) > 1; stripped++ {
		if !generatedSegment(segments[len(segments)-1]) {
			break
		}
		segments = segments[:len(segments)-1]
	}
	return strings.Join(segments, "-")
}

// generatedSegment reports whether a dash-delimited segment looks like an
// orchestration-generated identifier rather than a word chosen by a human.
// Generated segments are 4-10 lowercase alphanumerics that either contain a
// digit or are drawn entirely from the Kubernetes suffix alphabet.
// StatefulSet ordinals ("-0") and short words stay, as do dictionary words
// like "deployment" (vowels, no digits).
func generatedSegment(segment string) bool {
	if len(segment) < 4 || len(segment) > 10 {
		return false
	}
	hasDigit := false
	fromAlphabet := true
	for _, r := range segment {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
		default:
			return false
		}
		if !strings.ContainsRune(suffixAlphabet, r) {
			fromAlphabet = false
		}
	}
	return hasDigit || fromAlphabet
}

// GroupByBaseName buckets pods by their derived base name. The grouping is
// a pure function of the set of input pods: permuting the input permutes
// only the order within each bucket, never the bucket membership.
func GroupByBaseName(pods []Pod) map[string][]Pod {
	groups := make(map[string][]Pod)
	for _, p := range pods {
		base := BaseName(p.Name)
		groups[base] = append(groups[base], p)
	}
	return groups
}
