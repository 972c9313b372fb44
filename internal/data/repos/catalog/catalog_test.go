package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/apprende-client/internal/data/repos/testutil"
	"github.com/yungbote/apprende-client/internal/domain/account"
	types "github.com/yungbote/apprende-client/internal/domain/catalog"
)

func TestCourseRepoDetailOrdering(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, ctx, tx, "owner@example.com", account.RoleInstructor)
	course := testutil.SeedCourse(t, ctx, tx, owner.ID, 2, 1)

	// flip the stored section order so the query, not insertion order, decides
	sections := NewSectionRepo(db, testutil.Logger(t))
	if ok, err := sections.UpdateOrderIndex(ctx, tx, course.ID, course.Sections[0].ID, 1); err != nil || !ok {
		t.Fatalf("UpdateOrderIndex: ok=%v err=%v", ok, err)
	}
	if ok, err := sections.UpdateOrderIndex(ctx, tx, course.ID, course.Sections[1].ID, 0); err != nil || !ok {
		t.Fatalf("UpdateOrderIndex: ok=%v err=%v", ok, err)
	}
	if ok, _ := sections.UpdateOrderIndex(ctx, tx, uuid.New(), course.Sections[1].ID, 0); ok {
		t.Fatalf("section from another course must not be updated")
	}

	repo := NewCourseRepo(db, testutil.Logger(t))
	got, err := repo.GetDetail(ctx, tx, course.ID)
	if err != nil || got == nil {
		t.Fatalf("GetDetail: got=%v err=%v", got, err)
	}
	if got.Sections[0].ID != course.Sections[1].ID || got.Sections[1].ID != course.Sections[0].ID {
		t.Fatalf("sections not ordered by order_index")
	}
	if len(got.Sections[1].Lessons) != 2 || got.Sections[1].Lessons[0].OrderIndex != 0 {
		t.Fatalf("lessons not loaded in order: %+v", got.Sections[1].Lessons)
	}

	missing, err := repo.GetDetail(ctx, tx, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("missing course: got=%v err=%v", missing, err)
	}

	mine, err := repo.ListByUser(ctx, tx, owner.ID)
	if err != nil || len(mine) != 1 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(mine))
	}
	if exists, err := repo.SlugExists(ctx, tx, course.Slug); err != nil || !exists {
		t.Fatalf("SlugExists: exists=%v err=%v", exists, err)
	}
}

func TestLessonRepoMoveAndCounts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, ctx, tx, "owner@example.com", account.RoleInstructor)
	course := testutil.SeedCourse(t, ctx, tx, owner.ID, 2, 0)
	a, b := course.Sections[0], course.Sections[1]

	repo := NewLessonRepo(db, testutil.Logger(t))
	if next, err := repo.NextOrderIndex(ctx, tx, a.ID); err != nil || next != 2 {
		t.Fatalf("NextOrderIndex(a) = %d, %v", next, err)
	}
	if next, err := repo.NextOrderIndex(ctx, tx, b.ID); err != nil || next != 0 {
		t.Fatalf("NextOrderIndex(empty) = %d, %v", next, err)
	}

	moved := a.Lessons[1]
	if err := repo.Move(ctx, tx, moved.ID, b.ID, 0); err != nil {
		t.Fatalf("Move: %v", err)
	}
	rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{moved.ID})
	if err != nil || len(rows) != 1 || rows[0].SectionID != b.ID || rows[0].OrderIndex != 0 {
		t.Fatalf("after Move: rows=%+v err=%v", rows, err)
	}

	if n, err := repo.CountByCourse(ctx, tx, course.ID); err != nil || n != 2 {
		t.Fatalf("CountByCourse = %d, %v", n, err)
	}
	ids, err := repo.ListIDsByCourse(ctx, tx, course.ID)
	if err != nil || len(ids) != 2 {
		t.Fatalf("ListIDsByCourse = %v, %v", ids, err)
	}
}

func TestCategoryRepoHierarchy(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewCategoryRepo(db, testutil.Logger(t))

	roots, err := repo.Create(ctx, tx, []*types.Category{{Name: "Desarrollo", Slug: "desarrollo"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	parent := roots[0].ID
	if _, err := repo.Create(ctx, tx, []*types.Category{{Name: "Web", Slug: "web", ParentID: &parent}}); err != nil {
		t.Fatalf("Create child: %v", err)
	}

	top, err := repo.ListByParent(ctx, tx, nil, 0, 50)
	if err != nil || len(top) != 1 || top[0].Slug != "desarrollo" {
		t.Fatalf("roots = %+v, %v", top, err)
	}
	children, err := repo.ListByParent(ctx, tx, &parent, 0, 50)
	if err != nil || len(children) != 1 || children[0].Slug != "web" {
		t.Fatalf("children = %+v, %v", children, err)
	}
	all, err := repo.ListAll(ctx, tx)
	if err != nil || len(all) != 2 {
		t.Fatalf("all = %d, %v", len(all), err)
	}
	if exists, _ := repo.SlugExists(ctx, tx, "web"); !exists {
		t.Fatalf("slug web should exist")
	}
}
