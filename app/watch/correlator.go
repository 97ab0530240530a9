package watch

import "github.com/lysyi3m/prodwatch/app/prod"

// Correlate returns the n newest comments, assuming the feed is ordered
// newest-first. The feed is not structurally linked to the vote counters,
// so "n new votes means n new comments" is an approximation.
func Correlate(comments []prod.Comment, n int) []prod.Comment {
	if n <= 0 {
		return []prod.Comment{}
	}
	if n > len(comments) {
		n = len(comments)
	}
	return comments[:n:n]
}
