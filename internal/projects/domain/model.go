package domain

import (
	"fmt"
	"math"
	"strings"
)

// ProjectRecord is one building project stored in the "projects" collection.
// Field names match the documents already present in the collection.
type ProjectRecord struct {
	ID        string  `json:"id" firestore:"id"`
	Type      string  `json:"type_projet" firestore:"type_projet"`
	SurfaceM2 float64 `json:"surface_m2" firestore:"surface_m2"`
	TotalCost float64 `json:"cout_total" firestore:"cout_total"`
}

// ProjectTypes are the categories the seeder draws from.
var ProjectTypes = []string{"Renovation", "Neuf", "Extension", "Restauration", "Aménagement"}

// Validate reports whether the record can be used to fit the preprocessor.
func (r ProjectRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.Type) == "" {
		return fmt.Errorf("%w: record %s has no type_projet", ErrInvalidRecord, r.ID)
	}
	if !(r.SurfaceM2 > 0) || math.IsInf(r.SurfaceM2, 0) {
		return fmt.Errorf("%w: record %s has surface_m2=%v", ErrInvalidRecord, r.ID, r.SurfaceM2)
	}
	if !(r.TotalCost >= 0) || math.IsInf(r.TotalCost, 0) {
		return fmt.Errorf("%w: record %s has cout_total=%v", ErrInvalidRecord, r.ID, r.TotalCost)
	}
	return nil
}
