package database

// DataStore defines the unified interface for all data operations.
// It is composed of the smaller per-table interfaces; consumers such as the
// scheduling engine depend only on the methods they use.
type DataStore interface {
	ProjectRepository
	TaskRepository
	DependencyRepository
}
