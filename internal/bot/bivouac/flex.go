package bivouac

import (
	_ "embed"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/sotoasobi/camp-linebot-go/internal/flextmpl"
)

//go:embed template.json
var templateJSON []byte

var template = flextmpl.MustParse(templateJSON)

// AltText is the accessibility text of the composed carousel.
const AltText = "おすすめの野営地"

// Bubble paths: name is the leading text, spot and description are the
// value texts of the two labeled boxes.
func fillBubble(bubble map[string]any, r Info) {
	flextmpl.SetText(bubble, r.Name, "body", "contents", 0)
	if r.Spot != "" {
		flextmpl.SetText(bubble, r.Spot, "body", "contents", 2, "contents", 1)
	}
	if r.Description != "" {
		flextmpl.SetText(bubble, r.Description, "body", "contents", 3, "contents", 1)
	}
}

// composeBubbles fills one bubble per record. Excess records are
// dropped; with fewer records the remaining bubbles keep their
// placeholder content.
func composeBubbles(records []Info) []map[string]any {
	bubbles := template.CloneBubbles()
	n := len(records)
	if n > len(bubbles) {
		n = len(bubbles)
	}
	for i := range n {
		fillBubble(bubbles[i], records[i])
	}
	return bubbles
}

// Compose builds the Flex carousel for the parsed records. The template
// is a trusted static asset; a shape mismatch panics.
func Compose(records []Info) messaging_api.FlexContainerInterface {
	container, err := flextmpl.Carousel(composeBubbles(records))
	if err != nil {
		panic(fmt.Errorf("bivouac flex template: %w", err))
	}
	return container
}
