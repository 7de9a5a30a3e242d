package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText strips HTML tags and returns the text content, used to keep
// phone/address extraction from matching digits or words embedded in
// markup attributes. Every text node is included, script and style bodies
// too, so contact data embedded in inline JSON (e.g. JSON-LD) is still
// visible to the extractors.
func PlainText(rawHTML string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(rawHTML))

	var sb strings.Builder

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			sb.Write(tokenizer.Text())
			sb.WriteByte(' ')
		}
	}
}
