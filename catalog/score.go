package catalog

import (
	"math"

	fuzz "github.com/paul-mannino/go-fuzzywuzzy"
)

// Score rates how well an extracted author/title pair matches the query
// terms, 0-100. Each field is compared with a token-sort ratio so word
// order never lowers the score; the result is the rounded mean of the two.
// The score is advisory only and has no effect on search or download flow.
func Score(queryAuthor, author, queryTitle, title string) int {
	authorScore := fuzz.TokenSortRatio(queryAuthor, author)
	titleScore := fuzz.TokenSortRatio(queryTitle, title)
	return int(math.Round(float64(authorScore+titleScore) / 2))
}
