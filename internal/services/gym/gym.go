// Package gym finds the gyms of the network near a student's postal code.
package gym

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/aanand-mishra/gym-api/internal/apperr"
	"github.com/aanand-mishra/gym-api/internal/types"
)

// RegionResolver turns a postal code into a region (state) code.
type RegionResolver interface {
	Region(ctx context.Context, postalCode string) (string, error)
}

// Locator filters the static gyms dataset by region.
type Locator struct {
	resolver    RegionResolver
	datasetPath string
}

// New creates a Locator reading the dataset at datasetPath.
func New(resolver RegionResolver, datasetPath string) *Locator {
	return &Locator{resolver: resolver, datasetPath: datasetPath}
}

// FindNearby returns the gyms in the region of postalCode. No gym in the
// region is not an error: the result is an empty, non-nil slice.
func (l *Locator) FindNearby(ctx context.Context, postalCode string) ([]types.Gym, error) {
	cep, err := NormalizePostalCode(postalCode)
	if err != nil {
		return nil, err
	}

	region, err := l.resolver.Region(ctx, cep)
	if err != nil {
		return nil, err
	}

	dataset, err := l.load()
	if err != nil {
		return nil, err
	}

	region = strings.ToUpper(region)
	nearby := make([]types.Gym, 0)
	for _, g := range dataset.Gyms {
		if strings.ToUpper(strings.TrimSpace(g.Region)) == region {
			nearby = append(nearby, g)
		}
	}
	return nearby, nil
}

// load reads the dataset on every call so edits to the file are picked up
// without a restart.
func (l *Locator) load() (types.GymDataset, error) {
	var dataset types.GymDataset

	raw, err := os.ReadFile(l.datasetPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dataset, apperr.Config("gyms dataset not found", err)
		}
		return dataset, apperr.Wrap(apperr.KindValidation, "gyms dataset could not be read", err)
	}

	if err := json.Unmarshal(raw, &dataset); err != nil {
		return dataset, apperr.Wrap(apperr.KindValidation, "gyms dataset is malformed", err)
	}
	return dataset, nil
}

// NormalizePostalCode strips the usual separators and checks that eight
// digits remain.
func NormalizePostalCode(s string) (string, error) {
	cep := strings.NewReplacer("-", "", ".", "", " ", "").Replace(strings.TrimSpace(s))
	if len(cep) != 8 {
		return "", apperr.Validation(fmt.Sprintf("invalid cep %q: must have 8 digits", s))
	}
	for _, r := range cep {
		if r < '0' || r > '9' {
			return "", apperr.Validation(fmt.Sprintf("invalid cep %q: must have 8 digits", s))
		}
	}
	return cep, nil
}
