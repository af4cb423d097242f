package evaluate

import (
	"fmt"
	"io"
)

// PrintSummaries writes a human-readable report of summaries to w.
func PrintSummaries(w io.Writer, summaries []Summary) {
	for _, s := range summaries {
		fmt.Fprintf(w, "%s: %d/%d matched (%.2f%%)\n", s.File, s.Matched, s.Total, s.Percentage)
		printList(w, "Repeated", s.Repeated)
		printList(w, "Missing", s.Missing)
		printList(w, "Unexpected patterns", s.UnexpectedPatterns)
		printList(w, "Duplicate patterns", s.DuplicatePatterns)
	}
}

// PrintValidations writes one line per file, followed by its errors.
func PrintValidations(w io.Writer, validations []Validation) {
	for _, v := range validations {
		status := "valid"
		if !v.IsValid {
			status = "INVALID"
		}
		fmt.Fprintf(w, "%s: %s\n", v.File, status)
		for _, e := range v.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}
}

func printList(w io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s (%d):\n", label, len(items))
	for _, item := range items {
		fmt.Fprintf(w, "    - %s\n", item)
	}
}
