package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gadgetry.org/internal/gadget"
	"gadgetry.org/internal/ids"
)

var _ gadget.Repository = (*Gadgets)(nil)

const gadgetColumns = `id, name, success_probability, status, created_at, updated_at`

// Gadgets implements gadget.Repository.
type Gadgets struct {
	db *sql.DB
}

func (s *Gadgets) Find(ctx context.Context, f gadget.Filter) ([]gadget.Gadget, error) {
	q := `select ` + gadgetColumns + ` from gadgets where success_probability between $1 and $2`
	args := []any{f.MinProbability, f.MaxProbability}
	if f.Status != "" {
		args = append(args, string(f.Status))
		q += fmt.Sprintf(` and status = $%d`, len(args))
	}
	if f.Name != "" {
		args = append(args, "%"+escapeLike(f.Name)+"%")
		q += fmt.Sprintf(` and name ilike $%d`, len(args))
	}
	q += ` order by id`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []gadget.Gadget{}
	for rows.Next() {
		g, err := scanGadget(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

func (s *Gadgets) Insert(ctx context.Context, g *gadget.Gadget) error {
	if g.ID == "" {
		g.ID = ids.New()
	}
	return s.db.QueryRowContext(ctx,
		`insert into gadgets(id, name, success_probability, status) values($1,$2,$3,$4) returning created_at, updated_at`,
		g.ID, g.Name, g.SuccessProbability, string(g.Status),
	).Scan(&g.CreatedAt, &g.UpdatedAt)
}

func (s *Gadgets) UpdateByID(ctx context.Context, id string, p gadget.Patch) (gadget.Gadget, error) {
	var (
		sets []string
		args []any
	)
	if p.Name != nil {
		args = append(args, *p.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if p.SuccessProbability != nil {
		args = append(args, *p.SuccessProbability)
		sets = append(sets, fmt.Sprintf("success_probability = $%d", len(args)))
	}
	if p.Status != nil {
		args = append(args, string(*p.Status))
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(sets) == 0 {
		return gadget.Gadget{}, gadget.ErrNoValidFields
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	q := fmt.Sprintf(`update gadgets set %s where id = $%d returning %s`,
		strings.Join(sets, ", "), len(args), gadgetColumns)

	g, err := scanGadget(s.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return gadget.Gadget{}, gadget.ErrNotFound
	}
	if err != nil {
		return gadget.Gadget{}, err
	}
	return g, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGadget(row scanner) (gadget.Gadget, error) {
	var (
		g      gadget.Gadget
		status string
	)
	if err := row.Scan(&g.ID, &g.Name, &g.SuccessProbability, &status, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return gadget.Gadget{}, err
	}
	g.Status = gadget.Status(status)
	return g, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
