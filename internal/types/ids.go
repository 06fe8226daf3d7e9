package types

import "strconv"

// ID types give each integer key a meaning at the call site and keep a task id
// from being passed where a project id is expected.

// ProjectID identifies a unique project. All dependency reasoning is scoped to one project.
type ProjectID int

// TaskID identifies a unique task within a project
type TaskID int

// DependencyID identifies a single dependency edge
type DependencyID int

// ToInt converts the id back to int for database/sql parameters
func (id ProjectID) ToInt() int {
	return int(id)
}

func (id TaskID) ToInt() int {
	return int(id)
}

func (id DependencyID) ToInt() int {
	return int(id)
}

// String renders the id the way the CLI prints it
func (id TaskID) String() string {
	return strconv.Itoa(int(id))
}

func (id ProjectID) String() string {
	return strconv.Itoa(int(id))
}

func (id DependencyID) String() string {
	return strconv.Itoa(int(id))
}

// Valid reports whether the id could reference a stored row
func (id TaskID) Valid() bool {
	return id > 0
}

func (id ProjectID) Valid() bool {
	return id > 0
}

func (id DependencyID) Valid() bool {
	return id > 0
}
