package reference

import (
	"context"

	"gorm.io/gorm"
)

type Service struct {
	Destinations *Store[Destination]
	Cities       *Store[City]
	Activities   *Store[Activity]
	Badges       *Store[Badge]
	Policies     *Store[CancellationPolicy]
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		Destinations: NewStore[Destination](db),
		Cities:       NewStore[City](db),
		Activities:   NewStore[Activity](db),
		Badges:       NewStore[Badge](db),
		Policies:     NewStore[CancellationPolicy](db),
	}
}

func (s *Service) DestinationExists(ctx context.Context, id int64) (bool, error) {
	return s.Destinations.Exists(ctx, id)
}

func (s *Service) BadgeExists(ctx context.Context, id int64) (bool, error) {
	return s.Badges.Exists(ctx, id)
}

func (s *Service) CancellationPolicyExists(ctx context.Context, id int64) (bool, error) {
	return s.Policies.Exists(ctx, id)
}
