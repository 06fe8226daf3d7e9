// Package graph validates proposed dependency edges against a project's
// existing dependency graph.
package graph

import (
	"github.com/thenoetrevino/plazo/internal/models"
	"github.com/thenoetrevino/plazo/internal/types"
)

// Adjacency maps a task to the tasks it depends on.
// Parallel edges between the same pair collapse to repeated entries, which the
// traversal tolerates; reachability is all that matters here.
type Adjacency map[types.TaskID][]types.TaskID

// NewAdjacency builds the depends-on relation from a project's edges
func NewAdjacency(deps []*models.Dependency) Adjacency {
	adj := make(Adjacency, len(deps))
	for _, d := range deps {
		adj[d.TaskID] = append(adj[d.TaskID], d.DependsOnID)
	}
	return adj
}

// Add records taskID -> dependsOnID in place
func (a Adjacency) Add(taskID, dependsOnID types.TaskID) {
	a[taskID] = append(a[taskID], dependsOnID)
}

// WouldCreateCycle reports whether adding "taskID depends on dependsOnID"
// would close a cycle. A task depending on itself is always a cycle.
// Otherwise it walks breadth-first from dependsOnID along its own depends-on
// edges; reaching taskID means the new edge would complete a loop.
func WouldCreateCycle(adj Adjacency, taskID, dependsOnID types.TaskID) bool {
	if taskID == dependsOnID {
		return true
	}
	return Reachable(adj, dependsOnID, taskID)
}

// Reachable reports whether to can be reached from from by following
// depends-on edges. Each task is expanded at most once, so the walk is
// O(V+E) and terminates even on malformed (cyclic) input.
func Reachable(adj Adjacency, from, to types.TaskID) bool {
	visited := map[types.TaskID]bool{from: true}
	queue := []types.TaskID{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range adj[current] {
			if next == to {
				return true
			}
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return false
}

// Path returns one depends-on chain from from to to (both inclusive), or nil
// when to is unreachable. Used to explain a rejected edge to the user.
func Path(adj Adjacency, from, to types.TaskID) []types.TaskID {
	if from == to {
		return []types.TaskID{from}
	}

	parent := map[types.TaskID]types.TaskID{}
	visited := map[types.TaskID]bool{from: true}
	queue := []types.TaskID{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range adj[current] {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = current
			if next == to {
				return unwind(parent, from, to)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func unwind(parent map[types.TaskID]types.TaskID, from, to types.TaskID) []types.TaskID {
	path := []types.TaskID{to}
	for cur := to; cur != from; {
		cur = parent[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
