// Package grouper collapses near-duplicate spellings of canonical address
// strings onto one representative per cluster. Similarity is cosine distance
// over tf-idf weighted character trigrams, clusters are the transitive closure
// of pairs scoring at or above the threshold, and the representative is the
// most frequent spelling in the cluster (ties broken lexicographically), so a
// given input always produces the same output.
package grouper

import (
	"math"
	"sort"

	"github.com/dublin-energylink/internal/frame"
)

// DefaultMinSimilarity merges only near-identical spellings, which is the
// right behaviour for typo collapse on already-canonicalized addresses.
const DefaultMinSimilarity = 0.95

// GroupSimilar returns, for each input string, the representative spelling of
// its similarity cluster. Output has the same length and order as the input.
// Empty strings never merge with text; they map to themselves.
func GroupSimilar(values []string, minSimilarity float64) []string {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		if v != "" {
			counts[v]++
		}
	}
	unique := make([]string, 0, len(counts))
	for v := range counts {
		unique = append(unique, v)
	}
	sort.Strings(unique)

	vectors := make([]map[string]float64, len(unique))
	df := make(map[string]int)
	for i, v := range unique {
		tf := trigramCounts(v)
		for gram := range tf {
			df[gram]++
		}
		vectors[i] = tf
	}
	for i := range vectors {
		vectors[i] = tfidfNormalize(vectors[i], df, len(unique))
	}

	parent := make([]int, len(unique))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	for i := 0; i < len(unique); i++ {
		for j := i + 1; j < len(unique); j++ {
			if cosine(vectors[i], vectors[j]) >= minSimilarity {
				ri, rj := find(i), find(j)
				if ri != rj {
					if ri < rj {
						parent[rj] = ri
					} else {
						parent[ri] = rj
					}
				}
			}
		}
	}

	// Elect one representative per cluster root: highest occurrence count in
	// the input, then lexicographically first. The sorted unique order makes
	// the lexicographic tiebreak fall out of a simple scan.
	representative := make(map[int]string)
	for i, v := range unique {
		root := find(i)
		cur, ok := representative[root]
		if !ok || counts[v] > counts[cur] {
			representative[root] = v
		}
	}

	byValue := make(map[string]string, len(unique))
	for i, v := range unique {
		byValue[v] = representative[find(i)]
	}
	out := make([]string, len(values))
	for i, v := range values {
		if v == "" {
			continue
		}
		out[i] = byValue[v]
	}
	return out
}

// GroupColumn adds a column holding each row's cluster representative for the
// named string column. Nil cells are treated as empty strings and never merge
// with real text.
func GroupColumn(t *frame.Table, column, result string, minSimilarity float64) (*frame.Table, error) {
	if !t.HasColumn(column) {
		return nil, &frame.PreconditionError{Op: "group_similar", Column: column}
	}
	values := make([]string, t.Len())
	for i := 0; i < t.Len(); i++ {
		if s, ok := t.At(i, column).(string); ok {
			values[i] = s
		}
	}
	grouped := GroupSimilar(values, minSimilarity)
	out := make([]any, len(grouped))
	for i, v := range grouped {
		out[i] = v
	}
	return frame.WithColumn(t, result, out)
}

// trigramCounts counts character trigrams; strings shorter than three runes
// contribute themselves as a single gram.
func trigramCounts(s string) map[string]float64 {
	runes := []rune(s)
	tf := make(map[string]float64)
	if len(runes) < 3 {
		tf[s] = 1
		return tf
	}
	for i := 0; i+3 <= len(runes); i++ {
		tf[string(runes[i:i+3])]++
	}
	return tf
}

func tfidfNormalize(tf map[string]float64, df map[string]int, n int) map[string]float64 {
	out := make(map[string]float64, len(tf))
	var norm float64
	for gram, count := range tf {
		w := count * (1 + math.Log(float64(n+1)/float64(df[gram]+1)))
		out[gram] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for gram := range out {
			out[gram] /= norm
		}
	}
	return out
}

func cosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for gram, w := range a {
		dot += w * b[gram]
	}
	return dot
}
