package plan

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Encode writes a plan in the given format. The output parses back with Parse.
func Encode(p *Plan, format Format) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return nil, fmt.Errorf("failed to encode YAML plan: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML plan: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return nil, fmt.Errorf("failed to encode JSON plan: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(p); err != nil {
			return nil, fmt.Errorf("failed to encode TOML plan: %w", err)
		}
	case FormatHCL:
		return encodeHCL(p), nil
	default:
		return nil, fmt.Errorf("%w '%s'", ErrUnsupportedFormat, format)
	}

	return buf.Bytes(), nil
}

func encodeHCL(p *Plan) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	body.SetAttributeValue("project", cty.StringVal(p.Project))
	if p.Description != "" {
		body.SetAttributeValue("description", cty.StringVal(p.Description))
	}

	for _, t := range p.Tasks {
		body.AppendNewline()
		tb := body.AppendNewBlock("task", []string{t.Key}).Body()
		tb.SetAttributeValue("title", cty.StringVal(t.Title))
		tb.SetAttributeValue("start", cty.StringVal(t.Start))
		if t.End != "" {
			tb.SetAttributeValue("end", cty.StringVal(t.End))
		}
		if t.Duration != 0 {
			tb.SetAttributeValue("duration", cty.NumberIntVal(int64(t.Duration)))
		}
		if t.Locked {
			tb.SetAttributeValue("locked", cty.True)
		}

		for _, e := range t.DependsOn {
			eb := tb.AppendNewBlock("depends_on", []string{e.Task}).Body()
			if e.Type != "" {
				eb.SetAttributeValue("type", cty.StringVal(e.Type))
			}
			if e.Lag != 0 {
				eb.SetAttributeValue("lag", cty.NumberIntVal(int64(e.Lag)))
			}
		}
	}

	return f.Bytes()
}
