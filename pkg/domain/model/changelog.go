package model

import "strings"

// MergePrefix marks commit subjects that are excluded from changelogs
const MergePrefix = "Merge"

// BuildChangelog renders commit subjects as a bulleted list, one "- <subject>\n"
// per commit, keeping the given order. Merge commits and blank lines are skipped.
func BuildChangelog(subjects []string) string {
	var sb strings.Builder
	for _, subject := range subjects {
		if subject == "" || strings.HasPrefix(subject, MergePrefix) {
			continue
		}
		sb.WriteString("- ")
		sb.WriteString(subject)
		sb.WriteString("\n")
	}
	return sb.String()
}
