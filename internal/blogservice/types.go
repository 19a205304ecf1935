package blogservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type State string

const (
	StateDraft     State = "draft"
	StatePublished State = "published"
)

// Author is the public subset of a user embedded in published blogs.
type Author struct {
	FirstName string `json:"first_name" db:"author_first_name"`
	LastName  string `json:"last_name" db:"author_last_name"`
	Email     string `json:"email" db:"author_email"`
}

type Blog struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	// Body is stored as submitted after trimming and script removal.
	Body        string         `json:"body" db:"body"`
	Tags        pq.StringArray `json:"tags" db:"tags"`
	AuthorID    uuid.UUID      `json:"author_id" db:"author_id"`
	Author      *Author        `json:"author,omitempty" db:"-"`
	State       State          `json:"state" db:"state"`
	ReadCount   int            `json:"read_count" db:"read_count"`
	ReadingTime int            `json:"reading_time" db:"reading_time"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
	Version     int            `json:"-" db:"version"`
}

// authoredBlog is a blog row joined with its author's public fields.
type authoredBlog struct {
	Blog
	Author
}

func (r authoredBlog) blog() Blog {
	b := r.Blog
	author := r.Author
	b.Author = &author
	return b
}

type BlogModel struct {
	db *sqlx.DB
}

// AuthorFinder resolves a free-text term to the ids of users whose name contains it.
type AuthorFinder interface {
	FindAuthorIDs(ctx context.Context, term string) ([]uuid.UUID, error)
}

type BlogService struct {
	m       *BlogModel
	authors AuthorFinder
}

type CreateBlogRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	Tags        []string `json:"tags"`
}

// UpdateBlogRequest carries a partial update; nil fields are left untouched.
type UpdateBlogRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Body        *string   `json:"body"`
	Tags        *[]string `json:"tags"`
	State       *string   `json:"state"`
}

// Page is one page of a blog listing.
type Page struct {
	Blogs []Blog `json:"data"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
	Total int    `json:"total"`
}
