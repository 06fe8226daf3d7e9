package models

import (
	"time"

	"github.com/thenoetrevino/plazo/internal/types"
)

// Project groups tasks; a dependency never crosses project boundaries
type Project struct {
	ID          types.ProjectID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GetID lets the CLI formatter print the id in quiet mode
func (p *Project) GetID() int {
	return int(p.ID)
}
