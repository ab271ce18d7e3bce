package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"git.home.luguber.info/inful/sitegraph/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegraph/internal/resolvers"
)

// ResolveCmd groups the attribute resolver commands.
type ResolveCmd struct {
	Duotone ResolveDuotoneCmd `cmd:"" help:"Resolve a cover block style attribute into duotone channels"`
	Form    ResolveFormCmd    `cmd:"" help:"Classify rendered contact form markup"`
}

// ResolveDuotoneCmd prints the duotone channels of a block style, or null.
type ResolveDuotoneCmd struct {
	Style string `arg:"" help:"Block style attribute (JSON)"`
}

func (r *ResolveDuotoneCmd) Run(g *Global) error {
	v, ok := resolvers.ResolveDuotone(r.Style)
	if !ok {
		_, _ = fmt.Fprintln(g.Out, "null")
		return nil
	}
	_, _ = fmt.Fprintln(g.Out, v)
	return nil
}

// ResolveFormCmd prints the template chosen for a rendered form.
type ResolveFormCmd struct {
	File string `arg:"" help:"File with the rendered form markup, or - for stdin"`
}

func (r *ResolveFormCmd) Run(g *Global) error {
	var (
		data []byte
		err  error
	)
	if r.File == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(r.File)
	}
	if err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "failed to read form markup").
			WithContext("file", r.File).
			Build()
	}
	markup := string(data)
	_, _ = fmt.Fprintln(g.Out, resolvers.ClassifyForm(markup))
	if fields := resolvers.FieldNames(markup); len(fields) > 0 {
		_, _ = fmt.Fprintf(g.Out, "fields: %s\n", strings.Join(fields, ", "))
	}
	return nil
}
