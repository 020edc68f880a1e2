package camp

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
const AltText = "おすすめのキャンプ場"

// titlePath is the bubble path holding the camp site name.
func setTitle(bubble map[string]any, name string) {
	flextmpl.SetText(bubble, name, "body", "contents", 0)
}

// composeBubbles overwrites one bubble title per record. Excess records
// are dropped; with fewer records the remaining bubbles keep their
// placeholder content.
func composeBubbles(records []Info) []map[string]any {
	bubbles := template.CloneBubbles()
	n := len(records)
	if n > len(bubbles) {
		n = len(bubbles)
	}
	for i := range n {
		setTitle(bubbles[i], records[i].Name)
	}
	return bubbles
}

// Compose builds the Flex carousel for the parsed records. The template
// is a trusted static asset; a shape mismatch panics.
func Compose(records []Info) messaging_api.FlexContainerInterface {
	container, err := flextmpl.Carousel(composeBubbles(records))
	if err != nil {
		panic(fmt.Errorf("camp flex template: %w", err))
	}
	return container
}
