package events

// BuildRecord assembles one Event from the ingestion inputs: the requested
// year, the decoded Wikipedia summary (nil-safe) and the enrichment output.
// Pure data shaping; the store assigns the id on insert.
func BuildRecord(year string, summary map[string]any, aiSummary string) Event {
	return Event{
		Date:            year,
		AccessTimestamp: stringField(summary, "timestamp", UnknownTimestamp),
		Location:        DefaultLocation,
		Theme:           DefaultTheme,
		Summary:         stringField(summary, "extract", NoSummary),
		AISummary:       aiSummary,
		Sources: []map[string]any{
			{
				"type": "Wikipedia",
				"url":  desktopPageURL(summary),
			},
			{
				"type":          "AI Generation",
				"model":         "gpt-4o",
				"provider":      "OpenAI",
				"citation_note": "Citations [1], [2] refer to Wikipedia sources",
				"disclaimer":    "AI content should be verified with primary sources",
			},
		},
		People: []map[string]any{},
	}
}

func stringField(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// desktopPageURL digs content_urls.desktop.page out of the summary payload.
// Missing levels yield an empty url, matching the upstream shape being
// optional.
func desktopPageURL(summary map[string]any) string {
	contentURLs, ok := summary["content_urls"].(map[string]any)
	if !ok {
		return ""
	}
	desktop, ok := contentURLs["desktop"].(map[string]any)
	if !ok {
		return ""
	}
	page, _ := desktop["page"].(string)
	return page
}
