package bivouac

import "testing"

func bubbleText(t *testing.T, bubble map[string]any, path ...any) string {
	t.Helper()
	node := any(bubble)
	for _, p := range path {
		switch key := p.(type) {
		case string:
			node = node.(map[string]any)[key]
		case int:
			node = node.([]any)[key]
		}
	}
	return node.(map[string]any)["text"].(string)
}

func TestComposeBubblesAllPaths(t *testing.T) {
	records := []Info{{Name: "揖斐川の河原", Spot: "上流の砂利地", Description: "増水注意"}}
	bubbles := composeBubbles(records)

	if got := bubbleText(t, bubbles[0], "body", "contents", 0); got != "揖斐川の河原" {
		t.Errorf("name = %q", got)
	}
	if got := bubbleText(t, bubbles[0], "body", "contents", 2, "contents", 1); got != "上流の砂利地" {
		t.Errorf("spot = %q", got)
	}
	if got := bubbleText(t, bubbles[0], "body", "contents", 3, "contents", 1); got != "増水注意" {
		t.Errorf("description = %q", got)
	}
}

func TestComposeBubblesPlaceholdersKept(t *testing.T) {
	bubbles := composeBubbles([]Info{{Name: "一件だけ"}})
	if len(bubbles) != 3 {
		t.Fatalf("bubble count = %d, want 3", len(bubbles))
	}
	for i := 1; i < 3; i++ {
		if got := bubbleText(t, bubbles[i], "body", "contents", 0); got != "野営地を探しています…" {
			t.Errorf("bubble %d name = %q, want placeholder", i+1, got)
		}
		if got := bubbleText(t, bubbles[i], "body", "contents", 2, "contents", 1); got != "-" {
			t.Errorf("bubble %d spot = %q, want placeholder", i+1, got)
		}
	}
}

func TestComposeBubblesEmptyFieldsKeepPlaceholder(t *testing.T) {
	bubbles := composeBubbles([]Info{{Name: "名前のみ"}})
	if got := bubbleText(t, bubbles[0], "body", "contents", 2, "contents", 1); got != "-" {
		t.Errorf("spot = %q, want placeholder for missing field", got)
	}
}

func TestCompose(t *testing.T) {
	container := Compose([]Info{{Name: "揖斐川の河原", Spot: "砂利地", Description: "静か"}})
	if container == nil {
		t.Fatal("Compose() = nil container")
	}
}
