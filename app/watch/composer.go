package watch

import (
	"fmt"
	"strings"

	"github.com/lysyi3m/prodwatch/app/prod"
)

const noCachedValue = "(no cached value)"

// Compose renders the notification text. It is shared by every sink, so
// it sticks to plain text with Slack-style <link|title> references.
func Compose(link string, current prod.Prod, prior *prod.Prod, comments []prod.Comment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Prod <%s|%s> now has %s", link, current.Name, current.VoteString())

	if prior != nil {
		delta := current.Votes().Total() - prior.Votes().Total()
		direction := "up"
		if delta < 0 {
			direction = "down"
		}
		fmt.Fprintf(&b, ", %s from %s (%+d)", direction, prior.VoteString(), delta)
	} else {
		fmt.Fprintf(&b, ", up from %s", noCachedValue)
	}

	for _, c := range comments {
		b.WriteString("\n")
		b.WriteString(composeComment(c))
	}

	return b.String()
}

func composeComment(c prod.Comment) string {
	line := fmt.Sprintf("<%s|%s>", c.Link, c.Title)
	if c.Vote != "" {
		line += fmt.Sprintf(" [%s]", c.Vote)
	}
	if c.Body != "" {
		line += ": " + c.Body
	}
	return line
}
