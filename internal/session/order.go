package session

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/voidwyrm/revw/internal/record"
)

// OrderKey selects how a section's storage order is rebuilt.
type OrderKey int

const (
	// PercentageThenName sorts outside records by percentage
	// descending, absent percentage last, with case-insensitive name
	// as the tie break.
	PercentageThenName OrderKey = iota
	// PercentageOnly sorts by percentage descending only, keeping the
	// relative order of ties.
	PercentageOnly
	// NameOnly sorts by name ascending, case-insensitive.
	NameOnly
	// Random draws a uniform shuffle.
	Random
)

func (k OrderKey) String() string {
	switch k {
	case PercentageOnly:
		return "percentage"
	case NameOnly:
		return "name"
	case Random:
		return "random"
	default:
		return "percentage-name"
	}
}

// pctRank orders an absent percentage below every present value.
func pctRank(r *record.OutsideRecord) int {
	if r.Percentage == nil {
		return -1
	}
	return *r.Percentage
}

// permutation computes the new storage order for a section under key:
// position i of the result names the current index that moves there.
// Inside records sort by date descending under every key except
// Random, which shuffles either section.
func permutation(d *record.Document, section record.Section, key OrderKey, rng *rand.Rand) []int {
	n := d.Len(section)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	if key == Random {
		rng.Shuffle(n, func(i, j int) {
			perm[i], perm[j] = perm[j], perm[i]
		})
		return perm
	}

	if section == record.SectionInside {
		sort.SliceStable(perm, func(a, b int) bool {
			return d.Inside[perm[a]].Date > d.Inside[perm[b]].Date
		})
		return perm
	}

	switch key {
	case PercentageOnly:
		sort.SliceStable(perm, func(a, b int) bool {
			return pctRank(&d.Outside[perm[a]]) > pctRank(&d.Outside[perm[b]])
		})
	case NameOnly:
		sort.SliceStable(perm, func(a, b int) bool {
			na := strings.ToLower(d.Outside[perm[a]].Name)
			nb := strings.ToLower(d.Outside[perm[b]].Name)
			return na < nb
		})
	default:
		sort.SliceStable(perm, func(a, b int) bool {
			pa, pb := pctRank(&d.Outside[perm[a]]), pctRank(&d.Outside[perm[b]])
			if pa != pb {
				return pa > pb
			}
			return strings.ToLower(d.Outside[perm[a]].Name) < strings.ToLower(d.Outside[perm[b]].Name)
		})
	}
	return perm
}

// isIdentity reports whether applying perm would change nothing.
func isIdentity(perm []int) bool {
	for i, p := range perm {
		if i != p {
			return false
		}
	}
	return true
}
