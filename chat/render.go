package chat

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nbbb26/lightermeet"
	"golang.org/x/net/html"
)

// Rendered is what the chat UI needs to draw one message: the original text
// (always shown as fallback), the translation overlay once done, and the
// pending/error indicator state.
type Rendered struct {
	Original    string
	Translation string
	Status      Status
	Detail      string // Error detail for StatusError
	Dir         string // "ltr" or "rtl" for the target language
}

// RenderPass maps message text back to translation state for one pass over
// the visible messages. Distinct messages may share identical text, so each
// Format call consumes the next matching key in arrival order; N same-text
// messages map 1:1 to their N states instead of collapsing onto the first.
// Create a fresh pass for every render; a pass must not be reused.
type RenderPass struct {
	c     *Coordinator
	epoch uint64
	used  map[string]int
}

// BeginRenderPass starts a pass over the currently visible messages.
func (c *Coordinator) BeginRenderPass() *RenderPass {
	c.mu.Lock()
	defer c.mu.Unlock()

	return &RenderPass{
		c:     c,
		epoch: c.epoch,
		used:  make(map[string]int),
	}
}

// Format resolves the translation state for the next not-yet-consumed
// message with this text. Text the coordinator has never observed, or a pass
// begun before a language change, renders as the plain original.
func (p *RenderPass) Format(text string) Rendered {
	p.c.mu.Lock()
	defer p.c.mu.Unlock()

	rendered := Rendered{
		Original: text,
		Status:   StatusDone,
		Dir:      lightermeet.Direction(p.c.targetLang),
	}

	if p.epoch != p.c.epoch {
		return rendered
	}

	keys := p.c.byText[text]
	idx := p.used[text]
	p.used[text]++

	if idx >= len(keys) {
		return rendered
	}

	state, ok := p.c.states[keys[idx]]
	if !ok {
		return rendered
	}

	rendered.Translation = state.TranslatedText
	rendered.Status = state.Status
	rendered.Detail = state.ErrorDetail
	return rendered
}

var urlPattern = regexp.MustCompile(`https?://[^\s<>"]+`)

// strippedTags are removed from rendered snippets so a message can never
// smuggle active content into the chat pane.
var strippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"iframe":   true,
	"object":   true,
	"embed":    true,
	"textarea": true,
	"noscript": true,
}

// FormatMessageHTML renders message text as a safe HTML snippet: URLs become
// links, everything else is escaped, and the wrapper carries the direction
// and lang attributes for the given language.
func FormatMessageHTML(text, lang string) string {
	var b strings.Builder

	last := 0
	for _, loc := range urlPattern.FindAllStringIndex(text, -1) {
		b.WriteString(html.EscapeString(text[last:loc[0]]))
		u := html.EscapeString(text[loc[0]:loc[1]])
		b.WriteString(`<a href="` + u + `" target="_blank" rel="noopener noreferrer">` + u + `</a>`)
		last = loc[1]
	}
	b.WriteString(html.EscapeString(text[last:]))

	snippet := `<span dir="` + lightermeet.Direction(lang) + `" lang="` + html.EscapeString(lang) + `">` + b.String() + `</span>`
	return sanitizeHTML(snippet)
}

// sanitizeHTML strips active-content tags from a snippet.
func sanitizeHTML(snippet string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err != nil {
		return snippet
	}

	for tag := range strippedTags {
		doc.Find(tag).Remove()
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return snippet
	}
	return out
}
