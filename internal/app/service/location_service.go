package service

import (
	"strings"

	"github.com/Nil9n/merchshop-backend/internal/app/repository"
)

const locationSuggestionLimit = 10

type LocationService interface {
	SuggestCities(term string) ([]string, error)
	SuggestCountries(term string) ([]string, error)
}

type locationService struct {
	locationRepo repository.LocationRepository
}

func NewLocationService(locationRepo repository.LocationRepository) LocationService {
	return &locationService{locationRepo: locationRepo}
}

// SuggestCities returns up to 10 city names matching the prefix,
// case-insensitively. A blank term yields no suggestions.
func (s *locationService) SuggestCities(term string) ([]string, error) {
	return s.suggest(term, false)
}

func (s *locationService) SuggestCountries(term string) ([]string, error) {
	return s.suggest(term, true)
}

func (s *locationService) suggest(term string, isCountry bool) ([]string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []string{}, nil
	}

	locations, err := s.locationRepo.FindByPrefix(term, isCountry, locationSuggestionLimit)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(locations))
	for i := range locations {
		names = append(names, locations[i].Name)
	}
	return names, nil
}
