// Package shuffle provides deterministic, seeded permutations for the
// exam-taking view and the practice generator. The same seed and input
// always produce the same permutation, so a mid-attempt re-render never
// re-scrambles visible content out from under the learner.
package shuffle

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// lcg is a linear congruential generator (Numerical Recipes constants).
// It only needs to be stable and cheap, not cryptographic.
type lcg struct {
	state uint32
}

func newLCG(seed int64) *lcg {
	return &lcg{state: uint32(seed)}
}

// next returns a pseudo-random float in [0, 1).
func (g *lcg) next() float64 {
	g.state = g.state*1664525 + 1013904223
	return float64(g.state) / (1 << 32)
}

// Strings returns a new slice holding a seeded Fisher-Yates permutation of
// items. The input is never mutated.
func Strings(items []string, seed int64) []string {
	out := make([]string, len(items))
	copy(out, items)
	g := newLCG(seed)
	for i := len(out) - 1; i > 0; i-- {
		j := int(g.next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Indexes returns a seeded permutation of [0, n).
func Indexes(n int, seed int64) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	g := newLCG(seed)
	for i := n - 1; i > 0; i-- {
		j := int(g.next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Letters splits text into characters and returns them seeded-shuffled.
func Letters(text string, seed int64) []string {
	letters := strings.Split(text, "")
	return Strings(letters, seed)
}

// Words splits text on spaces and returns the words seeded-shuffled.
func Words(text string, seed int64) []string {
	return Strings(strings.Fields(text), seed)
}

// SeedFor derives a stable seed from an assignment scope, a question
// ordinal and the scrambled content. The same question reshuffles
// identically across re-renders within one attempt but differently across
// questions and assignments.
func SeedFor(scope string, ordinal int, content string) int64 {
	h := fnv.New32a()
	h.Write([]byte(scope))
	h.Write([]byte(":"))
	h.Write([]byte(strconv.Itoa(ordinal)))
	return int64(h.Sum32()) + int64(len(content))
}
