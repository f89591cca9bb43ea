/*
Package match implements the bounded, single pass edit matcher used to score
dictionary records against a query word.

The matcher is greedy: it walks both byte sequences once and spends from three
independent budgets (deletions, insertions, substitutions) whenever the bytes
under the cursors differ. It is O(max(len(word), len(candidate))) and does not
compute the optimal Levenshtein distance; the returned score is the number of
operations the greedy walk actually consumed, which is always an upper bound on
the true distance.

When both bytes differ the operations are tried in a fixed order:

	deletion     word[wi+1] == candidate[ci]   (word has an extra byte)
	insertion    word[wi] == candidate[ci+1]   (candidate has an extra byte)
	substitution                               (one byte differs)

Changing that order changes which alignment is found first and therefore the
score, so it must stay as is.
*/
package match

// Budget holds the maximum number of each edit operation the matcher may spend.
type Budget struct {
	Deletions     int
	Insertions    int
	Substitutions int
}

// Total returns the sum of all three budgets.
func (b Budget) Total() int {
	return b.Deletions + b.Insertions + b.Substitutions
}

// Swap returns the budget to use when word and candidate trade places.
// Deletions on one side are insertions on the other.
//
// Matching with b and with b.Swap() on swapped arguments agrees only when b
// does not allow both deletions and insertions, which BudgetFor guarantees.
// With both set, trying deletion first can pick a different alignment in
// each direction.
func (b Budget) Swap() Budget {
	return Budget{
		Deletions:     b.Insertions,
		Insertions:    b.Deletions,
		Substitutions: b.Substitutions,
	}
}

// BudgetFor derives the per-bucket budget for matching a record of recordLen
// bytes against a query of queryLen bytes. The whole length gap goes to
// deletions (record longer) or insertions (record shorter) and whatever is
// left of maxDif is kept for substitutions.
func BudgetFor(recordLen, queryLen, maxDif int) Budget {
	d := recordLen - queryLen
	abs := d
	if abs < 0 {
		abs = -abs
	}
	return Budget{
		Deletions:     max(d, 0),
		Insertions:    max(-d, 0),
		Substitutions: max(maxDif-abs, 0),
	}
}

// MatchesBudget is Matches with the limits taken from b.
func MatchesBudget(word, candidate []byte, b Budget) (bool, int) {
	return Matches(word, candidate, b.Deletions, b.Insertions, b.Substitutions)
}

// Matches reports whether word can be turned into candidate using at most
// maxDeletions, maxInsertions and maxSubstitutions operations, and how many
// operations the walk consumed. Negative budgets are treated as zero.
// On failure the score is 0.
//
// Swapping word and candidate together with the deletion and insertion
// budgets gives the same result as long as one of those two budgets is zero.
func Matches(word, candidate []byte, maxDeletions, maxInsertions, maxSubstitutions int) (bool, int) {
	del := max(maxDeletions, 0)
	ins := max(maxInsertions, 0)
	sub := max(maxSubstitutions, 0)

	wlen := len(word)
	clen := len(candidate)

	wi := CommonPrefix(word, candidate)
	ci := wi
	used := 0

	for wi < wlen && ci < clen {
		switch {
		case word[wi] == candidate[ci]:
			wi++
			ci++
		case del > 0 && wi+1 < wlen && word[wi+1] == candidate[ci]:
			del--
			used++
			wi++
		case ins > 0 && ci+1 < clen && word[wi] == candidate[ci+1]:
			ins--
			used++
			ci++
		case sub > 0:
			sub--
			used++
			wi++
			ci++
		default:
			return false, 0
		}
	}

	restWord := wlen - wi
	restCandidate := clen - ci
	if restWord > del || restCandidate > ins {
		return false, 0
	}
	return true, used + restWord + restCandidate
}
