package render

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// Element is a node of an SVG document.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []*Element `xml:",any"`
}

// newElement creates an element from alternating attribute names and values.
func newElement(name string, attrs ...string) *Element {
	e := &Element{XMLName: xml.Name{Local: name}}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: attrs[i]}, Value: attrs[i+1]})
	}
	return e
}

// Add appends a child element and returns it.
func (e *Element) Add(name string, attrs ...string) *Element {
	child := newElement(name, attrs...)
	e.Children = append(e.Children, child)
	return child
}

// WithText sets the character data of the element.
func (e *Element) WithText(text string) *Element {
	e.Text = text
	return e
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Find returns the first direct child with the given name.
func (e *Element) Find(name string) *Element {
	for _, c := range e.Children {
		if c.XMLName.Local == name {
			return c
		}
	}
	return nil
}

// newSVG creates the document root.
func newSVG(width, height int) *Element {
	return newElement("svg",
		"width", strconv.Itoa(width),
		"height", strconv.Itoa(height),
		"xmlns", svgNamespace,
	)
}

// Marshal renders the document as indented XML with a declaration.
func (e *Element) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(e); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// num formats coordinates without trailing zeros.
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
