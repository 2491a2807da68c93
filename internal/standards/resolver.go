package standards

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voltcert/voltcert-backend/internal/domain"
)

// Resolver answers "which standard applies to this reading" over an in-memory
// snapshot of the standards table. Specificity is an explicit ranked list of
// predicates tried in order, so the precedence rule is testable independent of
// the storage layer.
type Resolver struct {
	rows []domain.Standard
}

func NewResolver(rows []domain.Standard) *Resolver {
	copied := make([]domain.Standard, len(rows))
	copy(copied, rows)
	return &Resolver{rows: copied}
}

type predicate func(s *domain.Standard, class domain.CircuitClass, rating float64) bool

func matchClassAndRating(s *domain.Standard, class domain.CircuitClass, rating float64) bool {
	return s.CircuitClass != nil && *s.CircuitClass == class &&
		s.CircuitRating != nil && *s.CircuitRating == rating
}

func matchClassOnly(s *domain.Standard, class domain.CircuitClass, _ float64) bool {
	return s.CircuitClass != nil && *s.CircuitClass == class && s.CircuitRating == nil
}

func matchGeneric(s *domain.Standard, _ domain.CircuitClass, _ float64) bool {
	return s.CircuitClass == nil && s.CircuitRating == nil
}

// Most specific first: class+rating, then class only, then generic.
var rankedPredicates = []predicate{
	matchClassAndRating,
	matchClassOnly,
	matchGeneric,
}

// Resolve returns the most specific standard for the given measurement context,
// or false when no row matches. Callers must surface the no-match case as
// "unknown", never as a silent pass.
func (r *Resolver) Resolve(mt domain.MeasurementType, class domain.CircuitClass, rating float64) (*domain.Standard, bool) {
	for _, match := range rankedPredicates {
		for i := range r.rows {
			s := &r.rows[i]
			if s.MeasurementType != mt {
				continue
			}
			if match(s, class, rating) {
				return s, true
			}
		}
	}
	return nil, false
}

// Len reports the number of loaded rows.
func (r *Resolver) Len() int {
	return len(r.rows)
}

type seedFile struct {
	Standards []domain.Standard `yaml:"standards"`
}

// LoadSeed reads a YAML standards seed file, used to administer the table.
func LoadSeed(path string) ([]domain.Standard, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read standards seed: %w", err)
	}
	return ParseSeed(raw)
}

func ParseSeed(raw []byte) ([]domain.Standard, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse standards seed: %w", err)
	}
	for i := range f.Standards {
		if f.Standards[i].MeasurementType == "" {
			return nil, fmt.Errorf("standards seed row %d: measurement_type required", i)
		}
		if f.Standards[i].MinAcceptable == nil && f.Standards[i].MaxAcceptable == nil {
			return nil, fmt.Errorf("standards seed row %d: at least one bound required", i)
		}
	}
	return f.Standards, nil
}
