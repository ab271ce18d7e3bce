package resolvers

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// FormTemplate selects the component used to render a contact form block.
type FormTemplate string

const (
	FormSendRequest FormTemplate = "send-request"
	FormContact     FormTemplate = "contact-form"
)

// sendRequestFields must all be present for a form to render as a request form.
var sendRequestFields = []string{
	"send-request-firstname",
	"send-request-lastname",
	"send-request-email",
	"send-request-phone",
}

// ClassifyForm inspects the rendered form markup and picks its template.
// The markup is parsed on every call: the CMS form configuration can change
// between builds without the block itself changing.
func ClassifyForm(markup string) FormTemplate {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return FormContact
	}
	doc := goquery.NewDocumentFromNode(root)

	for _, name := range sendRequestFields {
		if doc.Find(`[name="` + name + `"]`).Length() == 0 {
			return FormContact
		}
	}
	return FormSendRequest
}

// FieldNames lists the distinct named fields in markup, in document order.
func FieldNames(markup string) []string {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil
	}
	var names []string
	seen := make(map[string]bool)
	goquery.NewDocumentFromNode(root).Find("[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	})
	return names
}
