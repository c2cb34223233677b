package pg

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"gadgetry.org/internal/gadget"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

var gadgetRowColumns = []string{"id", "name", "success_probability", "status", "created_at", "updated_at"}

func TestGadgetsFindBuildsFilteredQuery(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)select id, name, success_probability, status, created_at, updated_at from gadgets where success_probability between \$1 and \$2 and status = \$3 and name ilike \$4 order by id`).
		WithArgs(50, 50, "AVAILABLE", `%50\%%`).
		WillReturnRows(sqlmock.NewRows(gadgetRowColumns).AddRow("g1", "Rapid 50% Pen", 50, "AVAILABLE", now, now))

	res, err := store.Gadgets().Find(context.Background(), gadget.Filter{
		Status:         gadget.StatusAvailable,
		Name:           "50%",
		MinProbability: 50,
		MaxProbability: 50,
	})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(res) != 1 || res[0].ID != "g1" || res[0].Status != gadget.StatusAvailable {
		t.Fatalf("unexpected result: %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGadgetsFindWithoutOptionalFilters(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`from gadgets where success_probability between \$1 and \$2 order by id$`).
		WithArgs(0, 100).
		WillReturnRows(sqlmock.NewRows(gadgetRowColumns))

	res, err := store.Gadgets().Find(context.Background(), gadget.AllGadgets())
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if res == nil || len(res) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGadgetsInsert(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`insert into gadgets\(id, name, success_probability, status\) values\(\$1,\$2,\$3,\$4\) returning created_at, updated_at`).
		WithArgs(sqlmock.AnyArg(), "Quiet Cipher", 77, "AVAILABLE").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	g := gadget.Gadget{Name: "Quiet Cipher", SuccessProbability: 77, Status: gadget.StatusAvailable}
	if err := store.Gadgets().Insert(context.Background(), &g); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if g.ID == "" || !g.CreatedAt.Equal(now) {
		t.Fatalf("unexpected gadget: %+v", g)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGadgetsUpdateByID(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`update gadgets set name = \$1, status = \$2, updated_at = now\(\) where id = \$3 returning id`).
		WithArgs("Brave Beacon", "DESTROYED", "g7").
		WillReturnRows(sqlmock.NewRows(gadgetRowColumns).AddRow("g7", "Brave Beacon", 12, "DESTROYED", now, now))

	name := "Brave Beacon"
	st := gadget.StatusDestroyed
	g, err := store.Gadgets().UpdateByID(context.Background(), "g7", gadget.Patch{Name: &name, Status: &st})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if g.Name != name || g.Status != st || g.SuccessProbability != 12 {
		t.Fatalf("unexpected gadget: %+v", g)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGadgetsUpdateByIDNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`update gadgets set status = \$1, updated_at = now\(\) where id = \$2`).
		WithArgs("DECOMMISSIONED", "missing").
		WillReturnError(sql.ErrNoRows)

	st := gadget.StatusDecommissioned
	_, err := store.Gadgets().UpdateByID(context.Background(), "missing", gadget.Patch{Status: &st})
	if !errors.Is(err, gadget.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGadgetsUpdateByIDEmptyPatch(t *testing.T) {
	store, _ := newMockStore(t)
	if _, err := store.Gadgets().UpdateByID(context.Background(), "g1", gadget.Patch{}); !errors.Is(err, gadget.ErrNoValidFields) {
		t.Fatalf("expected ErrNoValidFields, got %v", err)
	}
}
