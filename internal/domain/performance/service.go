package performance

import (
	"time"

	"talentops/internal/domain/directory"
)

// Service holds the appraisal lifecycle rules. Storage and org-structure
// lookups are injected so the rules can be exercised without a database.
type Service struct {
	store     StoreAPI
	directory directory.API
	now       func() time.Time
}

func NewService(store StoreAPI, dir directory.API) *Service {
	return &Service{
		store:     store,
		directory: dir,
		now:       time.Now,
	}
}
