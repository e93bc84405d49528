package fixture

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vango-dev/hybrids/pkg/hybrid"
)

// template is a computed property template: literal text with
// {path} placeholders.
type template struct {
	parts []part
}

type part struct {
	text string
	// path is set for placeholders: property names to follow, the last
	// one read as the value.
	path []string
}

func parseTemplate(src string) (*template, error) {
	t := &template{}
	for len(src) > 0 {
		open := strings.IndexByte(src, '{')
		if open < 0 {
			t.parts = append(t.parts, part{text: src})
			break
		}
		if open > 0 {
			t.parts = append(t.parts, part{text: src[:open]})
		}
		end := strings.IndexByte(src[open:], '}')
		if end < 0 {
			return nil, errors.New("unclosed placeholder")
		}
		expr := strings.TrimSpace(src[open+1 : open+end])
		if expr == "" {
			return nil, errors.New("empty placeholder")
		}
		path := strings.Split(expr, ".")
		for _, seg := range path {
			if seg == "" {
				return nil, fmt.Errorf("invalid placeholder %q", expr)
			}
		}
		t.parts = append(t.parts, part{path: path})
		src = src[open+end+1:]
	}
	return t, nil
}

// eval renders the template for h. Every read is a tracked dependency. A
// path through a nil link renders as empty text.
func (t *template) eval(h *hybrid.Host) (any, error) {
	var b strings.Builder
	for _, p := range t.parts {
		if p.path == nil {
			b.WriteString(p.text)
			continue
		}
		v, err := resolvePath(h, p.path)
		if err != nil {
			return nil, err
		}
		if v != nil {
			fmt.Fprint(&b, v)
		}
	}
	return b.String(), nil
}

func resolvePath(h *hybrid.Host, path []string) (any, error) {
	cur := h
	for i, name := range path {
		v, err := cur.Get(name)
		if err != nil {
			return nil, err
		}
		if i == len(path)-1 {
			return v, nil
		}
		next, ok := v.(*hybrid.Host)
		if !ok || next == nil {
			return nil, nil
		}
		cur = next
	}
	return nil, nil
}
