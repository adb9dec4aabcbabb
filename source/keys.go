package source

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// keyOrder accumulates leaf keys in first-seen order
type keyOrder struct {
	keys []string
	seen map[string]bool
}

func newKeyOrder() *keyOrder {
	return &keyOrder{keys: []string{}, seen: make(map[string]bool)}
}

func (o *keyOrder) add(key string) {
	if !o.seen[key] {
		o.seen[key] = true
		o.keys = append(o.keys, key)
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// walkJSON reads one JSON document from dec: an object or an array of them.
// Decoded maps lose member order, so keys are taken from the token stream.
func (o *keyOrder) walkJSON(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	switch tok {
	case json.Delim('{'):
		return o.walkObject(dec, "")
	case json.Delim('['):
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return fmt.Errorf("invalid JSON: %w", err)
			}
			switch tok {
			case json.Delim('{'):
				err = o.walkObject(dec, "")
			case json.Delim('['):
				err = skip(dec)
			}
			if err != nil {
				return err
			}
		}
		_, err = dec.Token()
		return err
	}
	return nil
}

// walkObject is called after the opening brace has been read
func (o *keyOrder) walkObject(dec *json.Decoder, prefix string) error {
	if !dec.More() && prefix != "" {
		o.add(prefix)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("invalid JSON: unexpected %v", tok)
		}
		full := join(prefix, key)

		tok, err = dec.Token()
		if err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
		switch tok {
		case json.Delim('{'):
			err = o.walkObject(dec, full)
		case json.Delim('['):
			o.add(full)
			err = skip(dec)
		default:
			o.add(full)
		}
		if err != nil {
			return err
		}
	}
	_, err := dec.Token()
	return err
}

// skip consumes tokens up to the end of the array or object just opened
func skip(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
		switch tok {
		case json.Delim('{'), json.Delim('['):
			depth++
		case json.Delim('}'), json.Delim(']'):
			depth--
		}
	}
	return nil
}

func (o *keyOrder) walkYAML(node *yaml.Node, prefix string) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		full := join(prefix, node.Content[i].Value)
		value := node.Content[i+1]
		if value.Kind == yaml.AliasNode && value.Alias != nil {
			value = value.Alias
		}
		if value.Kind == yaml.MappingNode && len(value.Content) > 0 {
			o.walkYAML(value, full)
			continue
		}
		o.add(full)
	}
}
