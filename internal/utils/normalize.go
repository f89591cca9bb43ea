package utils

import "strings"

// NormalizeWord maps a query to the form stored in the dictionary.
// Only a simple lowercase mapping is applied.
func NormalizeWord(s string) string {
	return strings.ToLower(s)
}

// CleanWord is NormalizeWord for raw word list entries, which may carry
// surrounding whitespace or CR line endings.
func CleanWord(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RankByDistance turns an ascending list of distances into 1-based ranks.
// Equal distances share a rank, so the first item is always rank 1.
func RankByDistance(distances []int) []uint16 {
	if len(distances) == 0 {
		return []uint16{}
	}
	ranks := make([]uint16, len(distances))
	rank := uint16(1)
	for i := range distances {
		if i > 0 && distances[i] != distances[i-1] {
			rank++
		}
		ranks[i] = rank
	}
	return ranks
}
