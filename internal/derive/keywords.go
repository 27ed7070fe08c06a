package derive

import (
	"strings"

	"github.com/shassankhatoonabadi/abandoned-prs/internal/constants"
	"github.com/shassankhatoonabadi/abandoned-prs/internal/model"
)

// Keywords scans the pull request's outside voices for abandonment phrases:
// the bodies of "commented" events not authored by the contributor. Bodies
// are cleaned of code spans and block quotes and lowercased before matching,
// so a phrase quoted as code does not count. A pull with no qualifying
// comments gets every flag false.
func Keywords(tl *model.Timeline, phrases []string) {
	var comments []string
	for i := range tl.Events {
		event := &tl.Events[i]
		if event.Kind != constants.EventCommented || event.Contributor {
			continue
		}
		if event.Body == "" {
			continue
		}
		comments = append(comments, strings.ToLower(CleanText(event.Body)))
	}

	flags := make(map[string]bool, len(phrases))
	for _, phrase := range phrases {
		flags[phrase] = containsAny(comments, phrase)
	}
	tl.Keywords = flags
}

func containsAny(texts []string, phrase string) bool {
	for _, text := range texts {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
