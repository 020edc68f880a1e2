// Package lineutil provides helpers over the LINE Messaging API SDK.
package lineutil

// TruncateRunes truncates text by rune count (not byte count) so UTF-8
// sequences are never cut in half.
func TruncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes])
}

// SplitText splits text into chunks of at most maxRunes runes each,
// preserving order. Empty input yields no chunks.
func SplitText(text string, maxRunes int) []string {
	if text == "" {
		return nil
	}
	if maxRunes <= 0 {
		maxRunes = MaxTextMessageLength
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+maxRunes-1)/maxRunes)
	for start := 0; start < len(runes); start += maxRunes {
		end := start + maxRunes
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
