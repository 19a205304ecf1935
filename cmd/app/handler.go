package main

import (
	"errors"
	"net/http"

	"github.com/sushihentaime/blogapi/internal/blogservice"
	"github.com/sushihentaime/blogapi/internal/common"
	"github.com/sushihentaime/blogapi/internal/userservice"
)

const myBlogsPath = "my-blogs"

func (app *application) signUpHandler(w http.ResponseWriter, r *http.Request) {
	var input userservice.SignUpRequest

	// Parse the request body
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	// Call the user service
	result, err := app.userService.SignUp(r.Context(), &input)
	if err != nil {
		var validationErr common.ValidationError

		switch {
		case errors.As(err, &validationErr):
			app.failedValidationErrorResponse(w, r, validationErr)
		case errors.Is(err, userservice.ErrDuplicateEmail):
			app.writeErrorResponse(w, r, http.StatusBadRequest, "a user with this email address already exists")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"token": result.Token, "user": result.User}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var input loginRequest

	// Parse the request body
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	// Call the user service
	result, err := app.userService.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrInvalidCredentials):
			app.invalidCredentialsErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"token": result.Token, "user": result.User}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// blogErrorResponse maps the blog service errors to responses.
func (app *application) blogErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr common.ValidationError

	switch {
	case errors.As(err, &validationErr):
		app.failedValidationErrorResponse(w, r, validationErr)
	case errors.Is(err, blogservice.ErrInvalidID):
		app.writeErrorResponse(w, r, http.StatusBadRequest, "invalid blog id")
	case errors.Is(err, blogservice.ErrDuplicateTitle):
		app.writeErrorResponse(w, r, http.StatusBadRequest, "a blog with this title already exists")
	case errors.Is(err, blogservice.ErrRecordNotFound):
		app.notFoundErrorResponse(w, r)
	case errors.Is(err, blogservice.ErrEditConflict):
		app.editConflictResponse(w, r)
	case errors.Is(err, blogservice.ErrUserForeignKey):
		app.unAuthorizedErrorResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) writeBlog(w http.ResponseWriter, r *http.Request, status int, blog *blogservice.Blog) {
	err := app.writeJSON(w, status, envelope{"status": "success", "data": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) writePage(w http.ResponseWriter, r *http.Request, page *blogservice.Page) {
	env := envelope{
		"status": "success",
		"data":   page.Blogs,
		"page":   page.Page,
		"pages":  page.Pages,
		"total":  page.Total,
	}

	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createBlogRequest accepts a state so that clients sending one are not rejected, but the
// value is ignored: new blogs are always drafts.
type createBlogRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	Tags        []string `json:"tags"`
	State       *string  `json:"state"`
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input createBlogRequest

	// Parse the request body
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	userID := app.contextGetUserID(r)

	blog, err := app.blogService.CreateBlog(r.Context(), userID, &blogservice.CreateBlogRequest{
		Title:       input.Title,
		Description: input.Description,
		Body:        input.Body,
		Tags:        input.Tags,
	})
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	app.writeBlog(w, r, http.StatusCreated, blog)
}

// getBlogHandler serves both a single published blog and, for the my-blogs segment, the
// authenticated author's own blogs. The router cannot hold a static segment next to :id.
func (app *application) getBlogHandler(w http.ResponseWriter, r *http.Request) {
	id := app.readIDParam(r, "id")
	if id == myBlogsPath {
		app.requireAuth(app.listMyBlogsHandler)(w, r)
		return
	}

	blog, err := app.blogService.GetPublishedBlog(r.Context(), id)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	app.writeBlog(w, r, http.StatusOK, blog)
}

func (app *application) listBlogsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	p, err := app.readPagination(qs)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	page, err := app.blogService.ListPublished(r.Context(), blogservice.ListQuery{
		Pagination: p,
		Search:     qs.Get("search"),
		Sort:       qs.Get("sort"),
	})
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	app.writePage(w, r, page)
}

func (app *application) listMyBlogsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	p, err := app.readPagination(qs)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	userID := app.contextGetUserID(r)

	page, err := app.blogService.ListMine(r.Context(), userID, qs.Get("state"), p)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	app.writePage(w, r, page)
}

func (app *application) updateBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input blogservice.UpdateBlogRequest

	// id is a URL parameter
	id := app.readIDParam(r, "id")

	// Parse the request body
	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	userID := app.contextGetUserID(r)

	blog, err := app.blogService.UpdateBlog(r.Context(), userID, id, &input)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	app.writeBlog(w, r, http.StatusOK, blog)
}

func (app *application) publishBlogHandler(w http.ResponseWriter, r *http.Request) {
	id := app.readIDParam(r, "id")
	userID := app.contextGetUserID(r)

	blog, err := app.blogService.PublishBlog(r.Context(), userID, id)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	app.writeBlog(w, r, http.StatusOK, blog)
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	id := app.readIDParam(r, "id")
	userID := app.contextGetUserID(r)

	err := app.blogService.DeleteBlog(r.Context(), userID, id)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"status": "success", "message": "blog deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}
