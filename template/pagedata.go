package template

// NameForPage picks the template name for a page from the per-document
// template list. The device sometimes stops recording templates for later
// pages; those fall back to the last recorded name, which is usually
// "Blank".
func NameForPage(names []string, page int) string {
	if len(names) == 0 || page < 0 {
		return ""
	}
	if page >= len(names) {
		page = len(names) - 1
	}
	return names[page]
}
