package blogservice

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/sushihentaime/blogapi/internal/common"
)

const (
	maxDescriptionLength = 500
	maxBodyLength        = 5000
	maxTags              = 10
	maxTagLength         = 30
)

var (
	TagRX          = regexp.MustCompile(`^[a-zA-Z0-9\s\-_]+$`)
	UnsafeMarkupRX = regexp.MustCompile(`(?i)<script|javascript:|on\w+=`)
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
}

func validateDescription(v *common.Validator, description string) {
	v.Check(description != "", "description", "must be provided")
	v.Check(v.CheckStringLength(description, 0, maxDescriptionLength), "description", "must not be more than 500 characters long")
	v.Check(!UnsafeMarkupRX.MatchString(description), "description", "contains invalid characters")
}

func validateBody(v *common.Validator, body string) {
	v.Check(body != "", "body", "must be provided")
	v.Check(v.CheckStringLength(body, 0, maxBodyLength), "body", "must not be more than 5000 characters long")
}

func validateTags(v *common.Validator, tags []string) {
	v.Check(len(tags) <= maxTags, "tags", "must not contain more than 10 tags")

	for _, tag := range tags {
		v.Check(v.CheckStringLength(tag, 1, maxTagLength), "tags", "each tag must not be more than 30 characters long")
		v.Check(TagRX.MatchString(tag), "tags", "each tag must only contain letters, numbers, spaces, hyphens and underscores")
	}
}

func validateState(v *common.Validator, state State) {
	v.Check(common.PermittedValue(state, StateDraft, StatePublished), "state", "must be either draft or published")
}

// validateBlog checks the stored form of b. The description is checked before escaping, see
// newBlog and applyUpdate.
func validateBlog(v *common.Validator, b *Blog) {
	validateTitle(v, b.Title)
	validateBody(v, b.Body)
	validateTags(v, b.Tags)
	validateState(v, b.State)
}

// newBlog sanitizes the submitted fields and builds a draft owned by authorID. It fails with a
// ValidationError before anything reaches the store.
func newBlog(authorID uuid.UUID, req *CreateBlogRequest) (*Blog, error) {
	description := strings.TrimSpace(req.Description)

	b := &Blog{
		Title:       sanitizeText(req.Title),
		Description: sanitizeText(description),
		Body:        sanitizeBody(req.Body),
		Tags:        sanitizeTags(req.Tags),
		AuthorID:    authorID,
		State:       StateDraft,
	}
	b.ReadingTime = ReadingTime(b.Body)

	v := common.NewValidator()
	validateDescription(v, description)
	validateBlog(v, b)
	v.Check(authorID != uuid.Nil, "author", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return b, nil
}

// applyUpdate merges the supplied fields into b and validates the result. A published blog
// cannot go back to draft.
func applyUpdate(b *Blog, req *UpdateBlogRequest) error {
	v := common.NewValidator()

	if req.Title != nil {
		b.Title = sanitizeText(*req.Title)
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		validateDescription(v, description)
		b.Description = sanitizeText(description)
	}

	if req.Tags != nil {
		b.Tags = sanitizeTags(*req.Tags)
	}

	if req.Body != nil {
		b.Body = sanitizeBody(*req.Body)
		b.ReadingTime = ReadingTime(b.Body)
	}

	if req.State != nil {
		state := State(*req.State)
		v.Check(!(b.State == StatePublished && state == StateDraft), "state", "a published blog cannot be reverted to draft")
		b.State = state
	}

	validateBlog(v, b)
	if !v.Valid() {
		return v.ValidationError()
	}

	return nil
}
