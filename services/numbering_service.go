package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/hospitality-suite/models"
	"github.com/yeremiapane/hospitality-suite/utils"
)

// NumberScope is a counter family. Each scope is sequenced independently and
// resets to 1 at the local-day boundary.
type NumberScope string

const (
	ScopeBill   NumberScope = "BILL"
	ScopeHotel  NumberScope = "HT"
	ScopeGarden NumberScope = "GD"
)

const datePrefixLayout = "20060102"

// NumberingService hands out gap-free, date-scoped sequential identifiers.
// The read-increment-write runs as a single locked transaction; two callers
// can never observe the same sequence for one (scope, day).
type NumberingService struct {
	db *gorm.DB
}

func NewNumberingService(db *gorm.DB) *NumberingService {
	return &NumberingService{db: db}
}

// NextNumber atomically increments the counter for (scope, datePrefix) and
// returns the new value. Sequences start at 1 each day.
func (s *NumberingService) NextNumber(scope NumberScope, datePrefix string) (int, error) {
	name := fmt.Sprintf("%s-%s", scope, datePrefix)

	var seq int
	// A creation race loses on the unique index and is retried; by the second
	// attempt the row exists and the locked increment path applies.
	for attempt := 0; attempt < 3; attempt++ {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var counter models.Counter
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("name = ?", name).
				First(&counter).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				counter = models.Counter{Name: name, Value: 1}
				if err := tx.Create(&counter).Error; err != nil {
					return err
				}
				seq = 1
				return nil
			}
			if err != nil {
				return err
			}

			counter.Value++
			if err := tx.Model(&counter).Update("value", counter.Value).Error; err != nil {
				return err
			}
			seq = counter.Value
			return nil
		})
		if err == nil {
			return seq, nil
		}
		if attempt == 2 {
			return 0, fmt.Errorf("%w: counter %s: %v", ErrStorageUnavailable, name, err)
		}
	}
	return 0, ErrStorageUnavailable
}

// IssueSequentialID returns a formatted identifier like BILL-20240115-003.
// When the atomic counter path is unavailable it falls back to a
// collision-resistant timestamp identifier instead of failing the caller;
// fallback identifiers are detectable via IsFallbackID and may be renumbered
// by a later reconciliation pass.
func (s *NumberingService) IssueSequentialID(scope NumberScope) (string, error) {
	datePrefix := time.Now().Format(datePrefixLayout)

	seq, err := s.NextNumber(scope, datePrefix)
	if err != nil {
		utils.ErrorLogger.Printf("numbering: counter unavailable for %s, issuing fallback id: %v", scope, err)
		return fmt.Sprintf("%s-%s-T%d", scope, datePrefix, time.Now().UnixNano()), nil
	}

	return fmt.Sprintf("%s-%s-%03d", scope, datePrefix, seq), nil
}

// IsFallbackID reports whether id was issued by the degraded timestamp path
// rather than the sequential counter.
func IsFallbackID(id string) bool {
	parts := strings.Split(id, "-")
	if len(parts) < 3 {
		return false
	}
	return strings.HasPrefix(parts[len(parts)-1], "T")
}
