package xmlcodec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/nbt/format"
)

// Marshal serializes an element tree to XML text. Name is emitted before
// ContentType so the output is stable, but consumers must not rely on
// attribute order.
func Marshal(el *Element) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := encodeElement(enc, el); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func encodeElement(enc *xml.Encoder, el *Element) error {
	start := xml.StartElement{Name: xml.Name{Local: el.Tag}}
	if v, ok := el.Attr(attrName); ok {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: attrName}, Value: v})
	}
	if v, ok := el.Attr(attrContentType); ok {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: attrContentType}, Value: v})
	}

	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if len(el.Children) > 0 {
		for _, child := range el.Children {
			if err := encodeElement(enc, child); err != nil {
				return err
			}
		}
	} else if el.Text != "" {
		if err := enc.EncodeToken(xml.CharData(el.Text)); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

// Unmarshal parses XML text into an element tree. Whitespace between child
// elements is insignificant; leaf text content is preserved verbatim.
func Unmarshal(data []byte) (*Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, &format.SyntaxError{Detail: "document has no root element"}
		}
		if err != nil {
			return nil, fmt.Errorf("xml parse failed: %w", err)
		}

		if start, ok := tok.(xml.StartElement); ok {
			return decodeElement(dec, start)
		}
	}
}

func decodeElement(dec *xml.Decoder, start xml.StartElement) (*Element, error) {
	el := NewElement(start.Name.Local)
	for _, a := range start.Attr {
		el.SetAttr(a.Name.Local, a.Value)
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("xml parse failed: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			el.Append(child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			// Text content is only meaningful on leaves; formatting
			// whitespace around child elements is discarded.
			if len(el.Children) == 0 {
				el.Text = text.String()
			}

			return el, nil
		}
	}
}
