package formats

import (
	"bytes"
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// JSON renders an array of objects keyed by column key, members in column
// order
var JSON = &Format{
	Name:      "json",
	Extension: ".json",
	Render: func(w io.Writer, t Table) error {
		var buf bytes.Buffer
		buf.WriteString("[")
		for r, cells := range t.Rows {
			if r > 0 {
				buf.WriteString(",")
			}
			buf.WriteString("\n  {")
			for i, h := range t.Headers {
				if i > 0 {
					buf.WriteString(", ")
				}
				key, err := json.Marshal(h.Key)
				if err != nil {
					return err
				}
				val, err := json.Marshal(cell(cells, i))
				if err != nil {
					return err
				}
				buf.Write(key)
				buf.WriteString(": ")
				buf.Write(val)
			}
			buf.WriteString("}")
		}
		if len(t.Rows) > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString("]\n")
		_, err := w.Write(buf.Bytes())
		return err
	},
}

// YAML renders a sequence of mappings keyed by column key
var YAML = &Format{
	Name:      "yaml",
	Extension: ".yaml",
	Render: func(w io.Writer, t Table) error {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, cells := range t.Rows {
			m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			for i, h := range t.Headers {
				m.Content = append(m.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: h.Key},
					&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: cell(cells, i)},
				)
			}
			seq.Content = append(seq.Content, m)
		}
		if len(seq.Content) == 0 {
			seq.Style = yaml.FlowStyle
		}

		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(seq); err != nil {
			return err
		}
		return enc.Close()
	},
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}

func init() {
	mustRegister(JSON)
	mustRegister(YAML)
}
