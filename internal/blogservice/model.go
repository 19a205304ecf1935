package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sushihentaime/blogapi/internal/common"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateTitle = errors.New("duplicate title")
	ErrUserForeignKey = errors.New("author does not exist")
	ErrEditConflict   = errors.New("edit conflict")
	ErrInvalidID      = errors.New("invalid id")
)

const blogColumns = `b.id, b.title, b.description, b.body, b.tags, b.author_id, b.state, b.read_count, b.reading_time, b.created_at, b.updated_at, b.version`

const authorColumns = `u.first_name AS author_first_name, u.last_name AS author_last_name, u.email AS author_email`

func newBlogModel(db *sqlx.DB) *BlogModel {
	return &BlogModel{db: db}
}

func (m *BlogModel) insert(ctx context.Context, b *Blog) error {
	query := `
		INSERT INTO blogs (title, description, body, tags, author_id, state, reading_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, read_count, created_at, updated_at, version`

	args := []any{b.Title, b.Description, b.Body, b.Tags, b.AuthorID, b.State, b.ReadingTime}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.ReadCount, &b.CreatedAt, &b.UpdatedAt, &b.Version)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "blogs_title_key"):
			return ErrDuplicateTitle
		case common.ForeignKeyViolation(err, "blogs_author_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

// getOwned returns the blog only when it belongs to authorID.
func (m *BlogModel) getOwned(ctx context.Context, id, authorID uuid.UUID) (*Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs b
		WHERE b.id = $1 AND b.author_id = $2`

	var blog Blog
	err := m.db.GetContext(ctx, &blog, query, id, authorID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

// update writes the editable fields of b. The version check makes a concurrent edit lose with ErrEditConflict.
func (m *BlogModel) update(ctx context.Context, b *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, description = $2, body = $3, tags = $4, state = $5, reading_time = $6,
			updated_at = NOW(), version = version + 1
		WHERE id = $7 AND author_id = $8 AND version = $9
		RETURNING read_count, updated_at, version`

	args := []any{b.Title, b.Description, b.Body, b.Tags, b.State, b.ReadingTime, b.ID, b.AuthorID, b.Version}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&b.ReadCount, &b.UpdatedAt, &b.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		case common.UniqueViolation(err, "blogs_title_key"):
			return ErrDuplicateTitle
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) publish(ctx context.Context, id, authorID uuid.UUID) (*Blog, error) {
	query := `
		UPDATE blogs b
		SET state = $1, updated_at = NOW(), version = version + 1
		WHERE b.id = $2 AND b.author_id = $3
		RETURNING ` + blogColumns

	var blog Blog
	err := m.db.GetContext(ctx, &blog, query, StatePublished, id, authorID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &blog, nil
}

func (m *BlogModel) delete(ctx context.Context, id, authorID uuid.UUID) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1 AND author_id = $2`

	res, err := m.db.ExecContext(ctx, query, id, authorID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

// incrementReadCount bumps the read count of a published blog and returns it with its author in
// one statement, so concurrent readers never lose an increment.
func (m *BlogModel) incrementReadCount(ctx context.Context, id uuid.UUID) (*Blog, error) {
	query := `
		WITH b AS (
			UPDATE blogs
			SET read_count = read_count + 1
			WHERE id = $1 AND state = $2
			RETURNING *
		)
		SELECT ` + blogColumns + `, ` + authorColumns + `
		FROM b
		JOIN users u ON u.id = b.author_id`

	var row authoredBlog
	err := m.db.GetContext(ctx, &row, query, id, StatePublished)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	blog := row.blog()
	return &blog, nil
}

// listPublished returns one page of blogs matching w, newest first unless sort says otherwise,
// along with the total number of matches.
func (m *BlogModel) listPublished(ctx context.Context, w *where, sort string, p Pagination) ([]Blog, int, error) {
	total, err := m.count(ctx, w)
	if err != nil {
		return nil, 0, err
	}

	args := append([]any{}, w.args...)
	args = append(args, p.Limit, p.offset())

	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM blogs b
		JOIN users u ON u.id = b.author_id
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, blogColumns, authorColumns, w, sortClause(sort), len(args)-1, len(args))

	var rows []authoredBlog
	if err := m.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, err
	}

	blogs := make([]Blog, len(rows))
	for i, row := range rows {
		blogs[i] = row.blog()
	}

	return blogs, total, nil
}

// listByAuthor returns one page of the blogs matching w, newest first, without author details.
func (m *BlogModel) listByAuthor(ctx context.Context, w *where, p Pagination) ([]Blog, int, error) {
	total, err := m.count(ctx, w)
	if err != nil {
		return nil, 0, err
	}

	args := append([]any{}, w.args...)
	args = append(args, p.Limit, p.offset())

	query := fmt.Sprintf(`
		SELECT %s
		FROM blogs b
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, blogColumns, w, sortClause(SortTimestamp), len(args)-1, len(args))

	blogs := []Blog{}
	if err := m.db.SelectContext(ctx, &blogs, query, args...); err != nil {
		return nil, 0, err
	}

	return blogs, total, nil
}

func (m *BlogModel) count(ctx context.Context, w *where) (int, error) {
	query := `SELECT COUNT(*) FROM blogs b ` + w.String()

	var total int
	if err := m.db.GetContext(ctx, &total, query, w.args...); err != nil {
		return 0, err
	}

	return total, nil
}
