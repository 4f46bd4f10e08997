package tolet

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/eringen/tolet/api"
	"github.com/eringen/tolet/listing"
	"github.com/eringen/tolet/markdown"
	"github.com/eringen/tolet/views"
)

func (a *App) handleBlogList(c echo.Context) error {
	ctx := c.Request().Context()
	pager := listing.NewPager()
	pager.SetSort(listing.ParseBlogSort(c.QueryParam("sort")))
	pager.Page = queryInt(c.QueryParam("page"), 1)

	res, err := a.API.ListBlogs(ctx, pager.Query())
	if err == nil {
		asked := pager.Page
		pager.SetTotal(res.TotalPages)
		if pager.Page != asked {
			res, err = a.API.ListBlogs(ctx, pager.Query())
		}
	}

	page := views.BlogListPage{Sort: string(pager.SortBy)}
	if err != nil {
		a.Logger.Warn("list blogs", "error", err)
		page.Chrome = a.chromeWith(c, "Blog", flashError, api.UserMessage(err, "Failed to load blogs"))
		page.Page, page.TotalPages = 1, 1
		return Render(c, views.BlogList(page))
	}

	page.Chrome = a.chrome(c, "Blog")
	page.Page = pager.Page
	page.TotalPages = pager.TotalPages
	page.Links = pager.Window()
	page.HasPrev = pager.HasPrev()
	page.HasNext = pager.HasNext()
	for _, b := range res.Blogs {
		page.Cards = append(page.Cards, a.blogCard(b))
	}
	return Render(c, views.BlogList(page))
}

func (a *App) handleBlogDetail(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	b, err := a.API.GetBlog(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return echo.ErrNotFound
		}
		return a.fail(c, err, failure{Fallback: "Failed to load blog details", Redirect: "/blog"})
	}

	// One view per post per browser session.
	if !idSet(c, keyViewed)[b.ID] {
		if err := a.API.RecordView(ctx, b.ID); err != nil {
			a.Logger.Debug("record blog view", "id", b.ID, "error", err)
		} else {
			b.Views++
			if err := markID(c, keyViewed, b.ID, true); err != nil {
				a.Logger.Warn("save viewed", "error", err)
			}
		}
	}

	st := Visitor(c)
	page := views.BlogDetailPage{
		Chrome: a.chrome(c, b.Title),
		ID:     b.ID,
		Title:  b.Title,
		Author: b.AuthorName(),
		Date:   formatDate(b.Created()),
		Tags:   FilterEmpty(b.Tags),
		Body:   markdown.Content(b.Content),
		Views:  b.Views,
		Likes:  b.Likes,
		Liked:  idSet(c, keyLiked)[b.ID],
		Owned:  st.LoggedIn && b.Author != nil && b.Author.ID != "" && b.Author.ID == st.UserID(),
	}
	if b.CoverImage != "" {
		page.Cover = a.API.AssetURL(b.CoverImage)
	}
	return Render(c, views.BlogDetail(page))
}

// handleLikeBlog flips this browser's like on a post. The backend counter
// is bumped on every call; the liked flag lives in the cookie session.
func (a *App) handleLikeBlog(c echo.Context) error {
	id := c.Param("id")
	back := "/blog/" + url.PathEscape(id)
	if err := a.API.Like(c.Request().Context(), id); err != nil {
		a.Logger.Warn("like blog", "id", id, "error", err)
		a.flash(c, flashError, api.UserMessage(err, "Failed to like blog"))
		return c.Redirect(http.StatusSeeOther, back)
	}
	liked := idSet(c, keyLiked)[id]
	if err := markID(c, keyLiked, id, !liked); err != nil {
		a.Logger.Warn("save liked", "error", err)
	}
	return c.Redirect(http.StatusSeeOther, back)
}

func (a *App) handleAddBlog(c echo.Context) error {
	st := Visitor(c)
	if !st.LoggedIn {
		a.flash(c, flashWarning, "Please login to create a blog")
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	if !st.CanPublish() {
		a.flash(c, flashWarning, "Only content creators can add blogs. Please login as a content creator.")
		return c.Redirect(http.StatusSeeOther, "/blog")
	}
	f := a.Drafts.CreateBlog(SessionID(c))
	return c.Redirect(http.StatusSeeOther, draftURL(f.ID))
}

func (a *App) handleEditBlog(c echo.Context) error {
	st := Visitor(c)
	if !st.LoggedIn {
		a.flash(c, flashError, "Please login to update a blog post")
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	id := c.Param("id")
	back := "/blog/" + url.PathEscape(id)
	f, err := a.Drafts.EditBlog(c.Request().Context(), SessionID(c), id, func(ctx context.Context) (api.Blog, error) {
		b, err := a.API.GetBlog(ctx, id)
		if err != nil {
			return api.Blog{}, err
		}
		if b.Author != nil && b.Author.ID != "" && b.Author.ID != st.UserID() {
			return api.Blog{}, &api.ForbiddenError{}
		}
		return b, nil
	})
	if err != nil {
		return a.fail(c, err, failure{
			Fallback:  "Failed to load blog details",
			Forbidden: "You are not authorized to edit this blog",
			Redirect:  back,
		})
	}
	return c.Redirect(http.StatusSeeOther, draftURL(f.ID))
}

func (a *App) handleDeleteBlog(c echo.Context) error {
	st := Visitor(c)
	if !st.LoggedIn {
		a.flash(c, flashError, "Please login to update a blog post")
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	id := c.Param("id")
	if err := a.API.DeleteBlog(c.Request().Context(), st.Token, id); err != nil {
		return a.fail(c, err, failure{
			Fallback:  "Failed to delete blog",
			Forbidden: "You are not authorized to edit this blog",
			Redirect:  "/blog/" + url.PathEscape(id),
		})
	}
	a.flash(c, flashSuccess, "Blog deleted successfully")
	return c.Redirect(http.StatusSeeOther, "/blog")
}
