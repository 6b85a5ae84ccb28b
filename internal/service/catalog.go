package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/apperror"
	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/types"
)

const importBatchSize = 500

// ImportResult counts rows of an ingredient import.
type ImportResult struct {
	Created int64
	Skipped int64
}

// CatalogService serves the read-only tag and ingredient catalogs and loads
// them in bulk.
type CatalogService struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db, validate: types.NewValidator()}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	var tag model.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "tag", id.String(), "failed to load tag")
	}
	return &tag, nil
}

// SearchIngredients returns ingredients whose name contains term, ignoring
// case. An empty term returns the whole catalog.
func (s *CatalogService) SearchIngredients(ctx context.Context, term string) ([]model.Ingredient, error) {
	q := s.db.WithContext(ctx).Order("name ASC").Order("measurement_unit ASC")
	if term = strings.TrimSpace(term); term != "" {
		q = q.Where(`name_lower LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(term))+"%")
	}

	var ingredients []model.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "ingredient", id.String(), "failed to load ingredient")
	}
	return &ingredient, nil
}

// ImportIngredients reads "name,measurement_unit" rows and inserts the ones
// not already in the catalog. An optional header row is skipped. The whole
// import is one transaction.
func (s *CatalogService) ImportIngredients(ctx context.Context, r io.Reader) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		result ImportResult
		batch  []model.Ingredient
		line   int
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&batch)
			if res.Error != nil {
				return fmt.Errorf("failed to insert ingredients: %w", res.Error)
			}
			result.Created += res.RowsAffected
			result.Skipped += int64(len(batch)) - res.RowsAffected
			batch = batch[:0]
			return nil
		}

		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			line++
			if err != nil {
				return apperror.ValidationFailed("csv", fmt.Sprintf("line %d: %v", line, err))
			}
			if len(record) != 2 {
				return apperror.ValidationFailed("csv", fmt.Sprintf("line %d: expected 2 columns, got %d", line, len(record)))
			}

			name, unit := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
			if line == 1 && strings.EqualFold(name, "name") && strings.EqualFold(unit, "measurement_unit") {
				continue
			}
			if name == "" || unit == "" {
				return apperror.ValidationFailed("csv", fmt.Sprintf("line %d: name and measurement unit are required", line))
			}

			batch = append(batch, model.Ingredient{Name: name, MeasurementUnit: unit})
			if len(batch) == importBatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return flush()
	})
	if err != nil {
		return ImportResult{}, err
	}

	l := applog.Ctx(ctx)
	l.Info().Int64("created", result.Created).Int64("skipped", result.Skipped).Msg("ingredients imported")
	return result, nil
}

// SeedTags validates and inserts tags, skipping any that clash with an
// existing name, color or slug. It returns how many were created.
func (s *CatalogService) SeedTags(ctx context.Context, inputs []types.TagInput) (int64, error) {
	tags := make([]model.Tag, 0, len(inputs))
	for i, in := range inputs {
		in.Color = strings.ToUpper(in.Color)
		if err := s.validate.Struct(in); err != nil {
			return 0, apperror.ValidationFailed("tags", fmt.Sprintf("tag %d (%q): %v", i, in.Slug, err))
		}
		tags = append(tags, model.Tag{Name: in.Name, Color: in.Color, Slug: in.Slug})
	}
	if len(tags) == 0 {
		return 0, nil
	}

	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&tags)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to seed tags: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
