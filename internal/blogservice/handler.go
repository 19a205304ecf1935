package blogservice

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sushihentaime/blogapi/internal/common"
)

// NewBlogService wires the blog store. authors resolves search terms to author ids and may be
// nil, in which case search only looks at the blogs themselves.
func NewBlogService(db *sqlx.DB, authors AuthorFinder) *BlogService {
	return &BlogService{m: newBlogModel(db), authors: authors}
}

// ParseID parses a blog identifier, failing with ErrInvalidID when it is malformed.
func ParseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}

	return parsed, nil
}

// CreateBlog stores a new draft authored by authorID.
func (s *BlogService) CreateBlog(ctx context.Context, authorID uuid.UUID, req *CreateBlogRequest) (*Blog, error) {
	blog, err := newBlog(authorID, req)
	if err != nil {
		return nil, err
	}

	err = s.m.insert(ctx, blog)
	if err != nil {
		return nil, err
	}

	return blog, nil
}

// UpdateBlog applies a partial update to a blog owned by authorID. Blogs of other authors are
// reported as ErrRecordNotFound.
func (s *BlogService) UpdateBlog(ctx context.Context, authorID uuid.UUID, id string, req *UpdateBlogRequest) (*Blog, error) {
	blogID, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	blog, err := s.m.getOwned(ctx, blogID, authorID)
	if err != nil {
		return nil, err
	}

	err = applyUpdate(blog, req)
	if err != nil {
		return nil, err
	}

	err = s.m.update(ctx, blog)
	if err != nil {
		return nil, err
	}

	return blog, nil
}

// DeleteBlog removes a blog owned by authorID.
func (s *BlogService) DeleteBlog(ctx context.Context, authorID uuid.UUID, id string) error {
	blogID, err := ParseID(id)
	if err != nil {
		return err
	}

	return s.m.delete(ctx, blogID, authorID)
}

// PublishBlog marks a blog owned by authorID as published. Publishing twice is a no-op.
func (s *BlogService) PublishBlog(ctx context.Context, authorID uuid.UUID, id string) (*Blog, error) {
	blogID, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	return s.m.publish(ctx, blogID, authorID)
}

// GetPublishedBlog returns a published blog with its author and counts the read.
func (s *BlogService) GetPublishedBlog(ctx context.Context, id string) (*Blog, error) {
	blogID, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	return s.m.incrementReadCount(ctx, blogID)
}

// ListPublished returns a page of published blogs. A search term matches the title, the
// description, any tag or the name of the author.
func (s *BlogService) ListPublished(ctx context.Context, q ListQuery) (*Page, error) {
	v := common.NewValidator()
	validatePagination(v, q.Pagination)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	term := strings.TrimSpace(q.Search)

	var authorIDs []uuid.UUID
	if term != "" && s.authors != nil {
		ids, err := s.authors.FindAuthorIDs(ctx, term)
		if err != nil {
			return nil, err
		}
		authorIDs = ids
	}

	// stored text is escaped, so the term is escaped the same way before matching
	blogs, total, err := s.m.listPublished(ctx, publishedFilter(sanitizeText(term), authorIDs), q.Sort, q.Pagination)
	if err != nil {
		return nil, err
	}

	return newPage(blogs, total, q.Pagination), nil
}

// ListMine returns a page of the blogs of authorID. state filters the result only when it is
// exactly draft or published.
func (s *BlogService) ListMine(ctx context.Context, authorID uuid.UUID, state string, p Pagination) (*Page, error) {
	v := common.NewValidator()
	validatePagination(v, p)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	filter := State(state)
	if !common.PermittedValue(filter, StateDraft, StatePublished) {
		filter = ""
	}

	blogs, total, err := s.m.listByAuthor(ctx, authorFilter(authorID, filter), p)
	if err != nil {
		return nil, err
	}

	return newPage(blogs, total, p), nil
}

func newPage(blogs []Blog, total int, p Pagination) *Page {
	if blogs == nil {
		blogs = []Blog{}
	}

	return &Page{
		Blogs: blogs,
		Page:  p.Page,
		Pages: pages(total, p.Limit),
		Total: total,
	}
}
