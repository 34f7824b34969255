package llm

// Model rank lists are static, hand-tuned per app, ordered cheapest/fastest to
// most capable. Every stage function of a given app uses the same list; the
// Fallback executor walks it per credential.

// VideoModels is the rank list for the long-form video script pipeline.
func VideoModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-2.5-pro",
	}
}

// VisualModels is the rank list for the image-prompt (visual script) pipeline.
func VisualModels() []string {
	return []string{
		"gemini-2.5-flash-lite",
		"gemini-2.5-flash",
		"gemini-2.5-pro",
	}
}

// ZenShotModels is the rank list for the per-shot action analysis pipeline.
func ZenShotModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-2.5-pro",
	}
}

// TranslateModels is the rank list for subtitle translation. Translation is
// shape-sensitive but cheap, so the lite tier leads.
func TranslateModels() []string {
	return []string{
		"gemini-2.5-flash-lite",
		"gemini-2.5-flash",
	}
}

// ThumbnailModels is the rank list for thumbnail layout generation.
func ThumbnailModels() []string {
	return []string{
		"gemini-2.5-flash-lite",
		"gemini-2.5-flash",
	}
}
