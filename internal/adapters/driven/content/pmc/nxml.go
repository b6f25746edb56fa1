package pmc

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// nxmlAbstract extracts the abstract text from article XML. It looks
// for <abstract> elements and, failing that, <sec sec-type="abstract">
// sections. An empty string means the document has no abstract.
func nxmlAbstract(data []byte) (string, error) {
	dec := newNXMLDecoder(data)

	var parts []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local == "abstract" || isAbstractSec(start) {
			text, err := collectElementText(dec, start.Name.Local)
			if err != nil {
				return "", err
			}
			if text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, " "), nil
}

// nxmlBodyText extracts all text inside the article <body>.
func nxmlBodyText(data []byte) string {
	dec := newNXMLDecoder(data)

	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "body" {
			text, err := collectElementText(dec, "body")
			if err != nil {
				return ""
			}
			return text
		}
	}
}

// newNXMLDecoder builds a decoder tolerant of the DTD entities and
// charset declarations found in article XML.
func newNXMLDecoder(data []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	return dec
}

// isAbstractSec reports whether a <sec> element is typed as abstract.
func isAbstractSec(start xml.StartElement) bool {
	if start.Name.Local != "sec" {
		return false
	}
	for _, attr := range start.Attr {
		if attr.Name.Local == "sec-type" && attr.Value == "abstract" {
			return true
		}
	}
	return false
}

// collectElementText gathers character data until the matching close
// tag, joining text runs with spaces.
func collectElementText(dec *xml.Decoder, name string) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == name {
				depth++
			}
		case xml.EndElement:
			if t.Name.Local == name {
				depth--
			}
		case xml.CharData:
			chunk := strings.TrimSpace(string(t))
			if chunk == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(chunk)
		}
	}
	return sb.String(), nil
}
