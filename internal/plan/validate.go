package plan

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/thenoetrevino/plazo/internal/graph"
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/types"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "plazo-plan.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Problem is one thing wrong with a plan. Path points into the plan,
// e.g. "tasks.2.depends_on.0.task".
type Problem struct {
	Path    string
	Message string
}

func (p Problem) String() string {
	if p.Path == "" {
		return p.Message
	}
	return p.Path + ": " + p.Message
}

// ValidationError lists every problem found in a plan
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid plan: " + e.Problems[0].String()
	}
	lines := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		lines = append(lines, "  "+p.String())
	}
	return fmt.Sprintf("invalid plan (%d problems):\n%s", len(e.Problems), strings.Join(lines, "\n"))
}

func (e *ValidationError) add(path, format string, args ...any) {
	e.Problems = append(e.Problems, Problem{Path: path, Message: fmt.Sprintf(format, args...)})
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to load plan schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Validate checks a plan's shape against the plan schema, then checks what
// the schema cannot express: unique keys, known references, real calendar
// dates and an acyclic dependency graph. All problems are reported together.
func Validate(p *Plan) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal plan for validation: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal plan for validation: %w", err)
	}

	verr := &ValidationError{}
	if err := s.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		collectSchemaErrors(verr, ve)
		// Semantic checks assume the shape is right
		return verr
	}

	checkSemantics(p, verr)
	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}

func collectSchemaErrors(result *ValidationError, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.add(pointerToPath(err.InstanceLocation), "%s", err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	return strings.ReplaceAll(ptr, "/", ".")
}

func checkSemantics(p *Plan, verr *ValidationError) {
	// Synthetic ids let the plan reuse the store's cycle check before any
	// task exists.
	ids := make(map[string]types.TaskID, len(p.Tasks))
	for i, t := range p.Tasks {
		path := fmt.Sprintf("tasks.%d", i)
		if _, dup := ids[t.Key]; dup {
			verr.add(path+".key", "duplicate task key %q", t.Key)
			continue
		}
		ids[t.Key] = types.TaskID(i + 1)

		start, startErr := parseDate(t.Start)
		if startErr != nil {
			verr.add(path+".start", "%v", startErr)
		}
		if t.End != "" {
			end, err := parseDate(t.End)
			switch {
			case err != nil:
				verr.add(path+".end", "%v", err)
			case startErr == nil && end.Before(start):
				verr.add(path+".end", "end %s is before start %s", t.End, t.Start)
			}
		}
	}

	adj := graph.Adjacency{}
	for i, t := range p.Tasks {
		taskID := types.TaskID(i + 1)
		if ids[t.Key] != taskID {
			continue // duplicate, already reported
		}
		for j, e := range t.DependsOn {
			path := fmt.Sprintf("tasks.%d.depends_on.%d", i, j)
			if e.Type != "" {
				if _, err := models.ParseDependencyType(e.Type); err != nil {
					verr.add(path+".type", "%v", err)
				}
			}
			dependsOnID, ok := ids[e.Task]
			if !ok {
				verr.add(path+".task", "unknown task %q", e.Task)
				continue
			}
			if graph.WouldCreateCycle(adj, taskID, dependsOnID) {
				if taskID == dependsOnID {
					verr.add(path+".task", "task %q depends on itself", t.Key)
				} else {
					verr.add(path+".task", "%q -> %q would create a cycle", t.Key, e.Task)
				}
				continue
			}
			adj.Add(taskID, dependsOnID)
		}
	}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(models.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: must be YYYY-MM-DD", s)
	}
	return d, nil
}
