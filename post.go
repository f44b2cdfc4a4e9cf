package texprinter

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Reputation strings used instead of a numeric score.
const (
	ReputationCommunityWiki    = "Community Wiki"
	ReputationMigratedQuestion = "Migrated question"
	ReputationMigratedAnswer   = "Migrated answer"
)

// moderatorMarker is appended to moderator names on the site.
const moderatorMarker = "♦"

// User is the author of a post.
type User struct {
	Name string
	// Reputation is a numeric score or one of the Reputation* sentinels.
	Reputation string
}

// Comment is a comment attached to a question or an answer.
type Comment struct {
	Author string
	Date   string
	Votes  int
	// Body is an HTML fragment.
	Body string
}

// NewComment builds a comment, removing the moderator marker from the author.
func NewComment(author, date string, votes int, body string) Comment {
	return Comment{
		Author: strings.TrimSpace(strings.ReplaceAll(author, moderatorMarker, "")),
		Date:   date,
		Votes:  votes,
		Body:   body,
	}
}

// Post is a question or an answer. Answers have an empty Title.
type Post struct {
	Title    string
	Body     string
	Author   User
	Date     string
	Votes    int
	Accepted bool
	Comments []Comment
}

// Question is a question together with its answers.
type Question struct {
	// ID is the site's question identifier, if known.
	ID       string
	Question Post
	Answers  []Post
}

// SortedAnswers returns a sorted copy of the answers; q.Answers is left untouched.
func (q *Question) SortedAnswers() []Post {
	answers := slices.Clone(q.Answers)
	SortPosts(answers)
	return answers
}

// ComparePosts orders accepted posts before the others and, within each
// group, higher votes first. Posts that tie compare equal.
func ComparePosts(a, b Post) int {
	if a.Accepted != b.Accepted {
		if a.Accepted {
			return -1
		}
		return 1
	}
	switch {
	case a.Votes > b.Votes:
		return -1
	case a.Votes < b.Votes:
		return 1
	}
	return 0
}

// SortPosts sorts posts in place with ComparePosts. Ties keep their input order.
func SortPosts(posts []Post) {
	slices.SortStableFunc(posts, ComparePosts)
}

// ValidQuestionID reports whether id is a non-empty string of decimal digits.
func ValidQuestionID(id string) bool {
	if id == "" {
		return false
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
