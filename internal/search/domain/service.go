package domain

import "context"

type Service interface {
	// Search returns an empty slice, never nil, when nothing matches or q is
	// too short to search.
	Search(ctx context.Context, req SearchRequest) ([]CityResponse, error)
}
