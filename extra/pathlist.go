package extra

import (
	"os"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/cmdsyntax/syntax"
)

// PathListSeparator separates the entries of a pathlist value.
const PathListSeparator = string(os.PathListSeparator)

// PathList returns the pathlist type: a run of non-whitespace characters
// holding entries separated by [PathListSeparator], such as the value of
// $PATH. The value is a []string of the non-empty entries in order.
func PathList() *syntax.ValueType {
	return &syntax.ValueType{
		Name:        TypePathList,
		Description: "A list of paths separated by " + PathListSeparator + ".",
		Parse: func(text string, cursor int) syntax.Outcome[any] {
			end := scan(text, cursor, notSpace)
			if end == cursor {
				return syntax.Mismatch[any]("argument is not a path list", text, cursor)
			}

			return syntax.Succeed[any](SplitPathList(text[cursor:end]), end)
		},
	}
}

// SplitPathList normalizes list with mung and returns its non-empty entries.
func SplitPathList(list string) []string {
	joined := mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(PathListSeparator),
	).String()

	entries := make([]string, 0, strings.Count(joined, PathListSeparator)+1)

	for _, e := range strings.Split(joined, PathListSeparator) {
		if e != "" {
			entries = append(entries, e)
		}
	}

	return entries
}
