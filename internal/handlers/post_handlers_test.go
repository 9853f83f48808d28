package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/blog_backend/internal/models"
)

func createPost(t *testing.T, db *gorm.DB, author *models.User, title, content string) *models.Post {
	t.Helper()

	post := models.Post{Title: title, Content: content, AuthorID: author.ID}
	require.NoError(t, db.Create(&post).Error)
	return &post
}

func TestGetPosts(t *testing.T) {
	db := initTestDB(t)
	h := &PostHandler{DB: db}
	e := echo.New()

	author := createUser(t, db, "author", "password", models.RoleAdmin)
	createPost(t, db, author, "First Post", "Some content")

	rec, c := newContext(e, http.MethodGet, "/api/posts", nil)
	require.NoError(t, h.GetPosts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	require.Equal(t, "First Post", out[0]["title"])
	require.Contains(t, out[0], "excerpt")
	require.Contains(t, out[0], "timestamp")
}

func TestGetPostNotFound(t *testing.T) {
	db := initTestDB(t)
	h := &PostHandler{DB: db}
	e := echo.New()

	rec, c := newContext(e, http.MethodGet, "/api/posts/999", nil)
	c.SetParamNames("id")
	c.SetParamValues("999")

	require.NoError(t, h.GetPost(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, decodeBody(t, rec)["error"], "999")
}

func TestCreatePost(t *testing.T) {
	db := initTestDB(t)
	h := &PostHandler{DB: db}
	e := echo.New()

	author := createUser(t, db, "author", "password", models.RoleAdmin)

	rec, c := newContext(e, http.MethodPost, "/api/posts", map[string]string{
		"title":   "New Post",
		"content": "Post body",
	})
	require.NoError(t, h.CreatePost(c, author))
	require.Equal(t, http.StatusCreated, rec.Code)

	var post models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	require.Equal(t, "New Post", post.Title)
	require.Equal(t, author.ID, post.AuthorID)
}

func TestCreatePostEmptyFields(t *testing.T) {
	db := initTestDB(t)
	h := &PostHandler{DB: db}
	e := echo.New()

	author := createUser(t, db, "author", "password", models.RoleAdmin)

	for _, payload := range []map[string]string{
		{"title": "", "content": "body"},
		{"title": "Title", "content": "   "},
		{},
	} {
		rec, c := newContext(e, http.MethodPost, "/api/posts", payload)
		require.NoError(t, h.CreatePost(c, author))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestUpdatePostOwnership(t *testing.T) {
	db := initTestDB(t)
	h := &PostHandler{DB: db}
	e := echo.New()

	owner := createUser(t, db, "owner", "password", models.RoleUser)
	stranger := createUser(t, db, "stranger", "password", models.RoleUser)
	admin := createUser(t, db, "admin_user", "password", models.RoleAdmin)

	post := createPost(t, db, owner, "Original Title", "Original content")
	target := fmt.Sprintf("/api/posts/%d", post.ID)
	payload := map[string]string{"title": "Changed Title", "content": "Changed content"}

	// A non-owner, non-admin must be rejected and the post left untouched.
	rec, c := newContext(e, http.MethodPut, target, payload)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(post.ID))
	require.NoError(t, h.UpdatePost(c, stranger))
	require.Equal(t, http.StatusForbidden, rec.Code)

	var unchanged models.Post
	require.NoError(t, db.First(&unchanged, post.ID).Error)
	require.Equal(t, "Original Title", unchanged.Title)
	require.Equal(t, "Original content", unchanged.Content)

	// The owner may edit.
	rec, c = newContext(e, http.MethodPut, target, payload)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(post.ID))
	require.NoError(t, h.UpdatePost(c, owner))
	require.Equal(t, http.StatusOK, rec.Code)

	// So may an admin who is not the owner.
	rec, c = newContext(e, http.MethodPut, target, map[string]string{
		"title":   "Admin Title",
		"content": "Admin content",
	})
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(post.ID))
	require.NoError(t, h.UpdatePost(c, admin))
	require.Equal(t, http.StatusOK, rec.Code)

	var final models.Post
	require.NoError(t, db.First(&final, post.ID).Error)
	require.Equal(t, "Admin Title", final.Title)
}

func TestUpdatePostNotFound(t *testing.T) {
	db := initTestDB(t)
	h := &PostHandler{DB: db}
	e := echo.New()

	user := createUser(t, db, "test_user", "password", models.RoleUser)

	rec, c := newContext(e, http.MethodPut, "/api/posts/123", map[string]string{
		"title":   "Title",
		"content": "Content",
	})
	c.SetParamNames("id")
	c.SetParamValues("123")
	require.NoError(t, h.UpdatePost(c, user))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, decodeBody(t, rec)["error"], "123")
}

func TestDeletePostCascadesComments(t *testing.T) {
	db := initTestDB(t)
	h := &PostHandler{DB: db}
	e := echo.New()

	owner := createUser(t, db, "owner", "password", models.RoleUser)
	post := createPost(t, db, owner, "Doomed Post", "Going away")
	other := createPost(t, db, owner, "Surviving Post", "Staying put")

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Comment{PostID: post.ID, Content: "a comment"}).Error)
	}
	require.NoError(t, db.Create(&models.Comment{PostID: other.ID, Content: "unrelated"}).Error)

	rec, c := newContext(e, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(post.ID))
	require.NoError(t, h.DeletePost(c, owner))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Post deleted successfully", decodeBody(t, rec)["message"])

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error)
	require.Zero(t, count)

	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", other.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestDeletePostForbiddenForStranger(t *testing.T) {
	db := initTestDB(t)
	h := &PostHandler{DB: db}
	e := echo.New()

	owner := createUser(t, db, "owner", "password", models.RoleUser)
	stranger := createUser(t, db, "stranger", "password", models.RoleUser)
	post := createPost(t, db, owner, "Protected Post", "Content")

	rec, c := newContext(e, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(post.ID))
	require.NoError(t, h.DeletePost(c, stranger))
	require.Equal(t, http.StatusForbidden, rec.Code)

	var still models.Post
	require.NoError(t, db.First(&still, post.ID).Error)
}

func TestSearchPostsUnconfigured(t *testing.T) {
	db := initTestDB(t)
	h := &PostHandler{DB: db}
	e := echo.New()

	rec, c := newContext(e, http.MethodGet, "/api/posts/search?q=hello", nil)
	require.NoError(t, h.SearchPosts(c))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
