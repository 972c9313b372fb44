package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/data/repos"
	"github.com/yungbote/apprende-client/internal/domain/catalog"
	"github.com/yungbote/apprende-client/internal/forms"
	"github.com/yungbote/apprende-client/internal/pkg/dbctx"
	"github.com/yungbote/apprende-client/internal/platform/apierr"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

type CategoryService interface {
	List(dbc dbctx.Context, parentID *int, skip, limit int) ([]*catalog.Category, error)
	All(dbc dbctx.Context) ([]*catalog.Category, error)
	Get(dbc dbctx.Context, id int) (*catalog.Category, error)
	Create(dbc dbctx.Context, draft catalog.CategoryDraft) (*catalog.Category, error)
}

type categoryService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
}

func NewCategoryService(db *gorm.DB, log *logger.Logger, categoryRepo repos.CategoryRepo) CategoryService {
	serviceLog := log.With("service", "CategoryService")
	return &categoryService{db: db, log: serviceLog, categoryRepo: categoryRepo}
}

// List returns the root categories, or the children of parentID when set.
func (cs *categoryService) List(dbc dbctx.Context, parentID *int, skip, limit int) ([]*catalog.Category, error) {
	skip, limit = pageBounds(skip, limit, 50, 200)
	rows, err := cs.categoryRepo.ListByParent(dbc.Ctx, transactionFor(dbc, cs.db), parentID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return rows, nil
}

func (cs *categoryService) All(dbc dbctx.Context) ([]*catalog.Category, error) {
	rows, err := cs.categoryRepo.ListAll(dbc.Ctx, transactionFor(dbc, cs.db))
	if err != nil {
		return nil, fmt.Errorf("list all categories: %w", err)
	}
	return rows, nil
}

func (cs *categoryService) Get(dbc dbctx.Context, id int) (*catalog.Category, error) {
	transaction := transactionFor(dbc, cs.db)
	rows, err := cs.categoryRepo.GetByIDs(dbc.Ctx, transaction, []int{id})
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	if len(rows) == 0 {
		return nil, apierr.New(http.StatusNotFound, "category_not_found", errors.New("Categoría no encontrada"))
	}
	cat := rows[0]
	children, err := cs.categoryRepo.ListByParent(dbc.Ctx, transaction, &cat.ID, 0, 500)
	if err != nil {
		return nil, fmt.Errorf("load subcategories: %w", err)
	}
	cat.Subcategories = make([]catalog.Category, 0, len(children))
	for _, c := range children {
		cat.Subcategories = append(cat.Subcategories, *c)
	}
	return cat, nil
}

// Create is restricted to admins.
func (cs *categoryService) Create(dbc dbctx.Context, draft catalog.CategoryDraft) (*catalog.Category, error) {
	rd, err := currentUser(dbc.Ctx)
	if err != nil {
		return nil, err
	}
	if !isAdmin(rd) {
		return nil, apierr.New(http.StatusForbidden, "admins_only", errors.New("Solo los administradores pueden crear categorías"))
	}
	draft.Slug = strings.ToLower(strings.TrimSpace(draft.Slug))
	if err := forms.Check(draft); err != nil {
		return nil, err
	}
	cat := &catalog.Category{
		Name:     strings.TrimSpace(draft.Name),
		Slug:     draft.Slug,
		IconURL:  draft.IconURL,
		ParentID: draft.ParentID,
	}
	err = inTx(dbc, cs.db, func(tx *gorm.DB) error {
		exists, err := cs.categoryRepo.SlugExists(dbc.Ctx, tx, cat.Slug)
		if err != nil {
			return fmt.Errorf("check slug: %w", err)
		}
		if exists {
			return apierr.New(http.StatusBadRequest, "slug_taken", errors.New("El slug ya existe"))
		}
		if cat.ParentID != nil {
			parents, err := cs.categoryRepo.GetByIDs(dbc.Ctx, tx, []int{*cat.ParentID})
			if err != nil {
				return fmt.Errorf("load parent: %w", err)
			}
			if len(parents) == 0 {
				return apierr.New(http.StatusNotFound, "category_not_found", errors.New("Categoría padre no encontrada"))
			}
		}
		if _, err := cs.categoryRepo.Create(dbc.Ctx, tx, []*catalog.Category{cat}); err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}
