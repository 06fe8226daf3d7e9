package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"gopkg.in/yaml.v3"

	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/workday"
)

// hclPlan is the block layout of an HCL plan:
//
//	project = "Launch"
//	task "design" {
//	  title    = "Design"
//	  start    = today
//	  duration = 3
//	}
//	task "build" {
//	  title = "Build"
//	  start = add_workdays(today, 3)
//	  depends_on "design" {
//	    type = "fs"
//	  }
//	}
type hclPlan struct {
	Project     string     `hcl:"project"`
	Description string     `hcl:"description,optional"`
	Tasks       []*hclTask `hcl:"task,block"`
}

type hclTask struct {
	Key       string     `hcl:"key,label"`
	Title     string     `hcl:"title"`
	Start     string     `hcl:"start"`
	End       string     `hcl:"end,optional"`
	Duration  int        `hcl:"duration,optional"`
	Locked    bool       `hcl:"locked,optional"`
	DependsOn []*hclEdge `hcl:"depends_on,block"`
}

type hclEdge struct {
	Task string `hcl:"task,label"`
	Type string `hcl:"type,optional"`
	Lag  int    `hcl:"lag,optional"`
}

// Load reads and validates a plan file; the format comes from its extension.
// today is what HCL plans see as the `today` variable.
func Load(path string, today time.Time) (*Plan, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	return Parse(path, data, format, today)
}

// Parse decodes a plan and validates it. filename is only used in messages.
func Parse(filename string, data []byte, format Format, today time.Time) (*Plan, error) {
	p, err := decode(filename, data, format, today)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPlan, err)
	}
	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

func decode(filename string, data []byte, format Format, today time.Time) (*Plan, error) {
	p := &Plan{}

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML plan %s: %w", filename, err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(p); err != nil {
			return nil, fmt.Errorf("failed to parse JSON plan %s: %w", filename, err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), p)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML plan %s: %w", filename, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %q in TOML plan %s", undecoded[0].String(), filename)
		}
	case FormatHCL:
		return decodeHCL(filename, data, today)
	default:
		return nil, fmt.Errorf("%w '%s'", ErrUnsupportedFormat, format)
	}

	return p, nil
}

func decodeHCL(filename string, data []byte, today time.Time) (*Plan, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL plan %s: %w", filename, diags)
	}

	var parsed hclPlan
	diags = gohcl.DecodeBody(file.Body, evalContext(today), &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL plan %s: %w", filename, diags)
	}

	p := &Plan{Project: parsed.Project, Description: parsed.Description}
	for _, t := range parsed.Tasks {
		spec := TaskSpec{
			Key:      t.Key,
			Title:    t.Title,
			Start:    t.Start,
			End:      t.End,
			Duration: t.Duration,
			Locked:   t.Locked,
		}
		for _, e := range t.DependsOn {
			spec.DependsOn = append(spec.DependsOn, EdgeSpec{Task: e.Task, Type: e.Type, Lag: e.Lag})
		}
		p.Tasks = append(p.Tasks, spec)
	}
	return p, nil
}

// evalContext exposes `today` and the working-day helpers to HCL plans
func evalContext(today time.Time) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"today": cty.StringVal(workday.Truncate(today).Format(models.DateLayout)),
		},
		Functions: map[string]function.Function{
			"add_workdays": addWorkdaysFunc,
		},
	}
}

// addWorkdaysFunc is add_workdays(date, n): the date n working days after
// date, or before it when n is negative
var addWorkdaysFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "date", Type: cty.String},
		{Name: "days", Type: cty.Number},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		date, err := time.ParseInLocation(models.DateLayout, args[0].AsString(), time.UTC)
		if err != nil {
			return cty.NilVal, function.NewArgErrorf(0, "invalid date %q: must be YYYY-MM-DD", args[0].AsString())
		}

		days, accuracy := args[1].AsBigFloat().Int64()
		if accuracy != big.Exact {
			return cty.NilVal, function.NewArgErrorf(1, "days must be a whole number")
		}

		return cty.StringVal(workday.AddWorkingDays(date, int(days)).Format(models.DateLayout)), nil
	},
})
