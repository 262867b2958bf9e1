package chat

import (
	"bytes"
	_ "embed"
	"html/template"
	"io"

	"python-chat/internal/domain"
	"python-chat/internal/llm"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Fixed text of the page.
const (
	PageTitle        = "🐍 Python-only Chat"
	InputPlaceholder = "Type your message… (Python only!)"
	FooterCaption    = "Model will refuse anything non-Python. Examples are for Python 3.11+."
	MissingKeyNotice = "Add your OpenAI API key in the sidebar to start."
)

//go:embed templates/page.html
var pageTemplateText string

var pageTemplate = template.Must(template.New("page").Parse(pageTemplateText))

type messageView struct {
	Role string
	HTML template.HTML
}

type modelOption struct {
	ID       string
	Selected bool
}

type pageView struct {
	Title            string
	Placeholder      string
	Caption          string
	MissingKeyNotice string
	Interactive      bool
	HasCredential    bool
	Model            string
	Models           []modelOption
	Messages         []messageView
}

// renderer turns sessions into HTML. Message text is Markdown; the
// resulting HTML is sanitized before it reaches the page.
type renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newRenderer() *renderer {
	return &renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// markdown converts one message to safe HTML.
func (r *renderer) markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}

// messages renders the visible turns, oldest first.
func (r *renderer) messages(turns []domain.Turn) []messageView {
	out := make([]messageView, 0, len(turns))
	for _, t := range turns {
		if t.Role == domain.RoleSystem {
			continue
		}
		role := "user"
		if t.Role == domain.RoleAssistant {
			role = "assistant"
		}
		out = append(out, messageView{Role: role, HTML: r.markdown(t.Content)})
	}
	return out
}

// page writes the full chat page for a session.
func (r *renderer) page(w io.Writer, sess *Session, variant Variant) error {
	view := pageView{
		Title:            PageTitle,
		Placeholder:      InputPlaceholder,
		Caption:          FooterCaption,
		MissingKeyNotice: MissingKeyNotice,
		Interactive:      variant == VariantInteractive,
		HasCredential:    sess.HasCredential(),
		Model:            sess.Model,
		Messages:         r.messages(sess.Conversation.Visible()),
	}
	for _, id := range llm.Models {
		view.Models = append(view.Models, modelOption{ID: id, Selected: id == sess.Model})
	}
	return pageTemplate.Execute(w, view)
}
