package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shahwaizSattar/mern-blog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    models.Post `json:"data"`
}

func createPost(t *testing.T, h *PostHandler, author uuid.UUID, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fields, "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", contentType)
	req = asUser(req, author)
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func TestCreateAndGetPost_RoundTrip(t *testing.T) {
	t.Parallel()

	posts := newFakePostRepo()
	h := NewPostHandler(posts, &fakeMediaStore{})
	author := uuid.New()

	rec := createPost(t, h, author, map[string]string{"title": "T", "content": "C"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created postResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "T", created.Data.Title)
	assert.Equal(t, "C", created.Data.Content)
	assert.Nil(t, created.Data.Image)
	assert.Equal(t, author, created.Data.AuthorID)

	req := httptest.NewRequest(http.MethodGet, "/api/posts/"+created.Data.ID.String(), nil)
	req.SetPathValue("id", created.Data.ID.String())
	getRec := httptest.NewRecorder()
	h.Get(getRec, req)
	require.Equal(t, http.StatusOK, getRec.Code)

	var fetched postResponse
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &fetched))
	assert.Equal(t, "T", fetched.Data.Title)
	assert.Equal(t, "C", fetched.Data.Content)
	assert.Nil(t, fetched.Data.Image)
}

func TestCreatePost_Validation(t *testing.T) {
	t.Parallel()

	h := NewPostHandler(newFakePostRepo(), &fakeMediaStore{})
	author := uuid.New()

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{"missing title", map[string]string{"content": "C"}},
		{"missing content", map[string]string{"title": "T"}},
		{"empty title", map[string]string{"title": "", "content": "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := createPost(t, h, author, tt.fields)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreatePost_WithImage(t *testing.T) {
	t.Parallel()

	store := &fakeMediaStore{}
	h := NewPostHandler(newFakePostRepo(), store)

	body, contentType := multipartBody(t,
		map[string]string{"title": "T", "content": "C"},
		"image", "pic.png", []byte("image bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", contentType)
	req = asUser(req, uuid.New())
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp postResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Image)
	require.Len(t, store.saved, 1)
	assert.Equal(t, store.saved[0], *resp.Data.Image)
}

func TestCreatePost_Unauthenticated(t *testing.T) {
	t.Parallel()

	h := NewPostHandler(newFakePostRepo(), &fakeMediaStore{})

	body, contentType := multipartBody(t, map[string]string{"title": "T", "content": "C"}, "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func updatePost(t *testing.T, h *PostHandler, caller, postID uuid.UUID, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fields, "", "", nil)
	req := httptest.NewRequest(http.MethodPut, "/api/posts/"+postID.String(), body)
	req.Header.Set("Content-Type", contentType)
	req.SetPathValue("id", postID.String())
	req = asUser(req, caller)
	rec := httptest.NewRecorder()
	h.Update(rec, req)
	return rec
}

func TestUpdatePost_OwnerSucceedsStrangerGets404(t *testing.T) {
	t.Parallel()

	posts := newFakePostRepo()
	h := NewPostHandler(posts, &fakeMediaStore{})
	owner := uuid.New()
	stranger := uuid.New()

	rec := createPost(t, h, owner, map[string]string{"title": "Hello", "content": "world"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created postResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	ownerRec := updatePost(t, h, owner, created.Data.ID, map[string]string{"title": "Hi"})
	require.Equal(t, http.StatusOK, ownerRec.Code)
	var updated postResponse
	require.NoError(t, json.Unmarshal(ownerRec.Body.Bytes(), &updated))
	assert.Equal(t, "Hi", updated.Data.Title)
	assert.Equal(t, "world", updated.Data.Content)

	strangerRec := updatePost(t, h, stranger, created.Data.ID, map[string]string{"title": "Hijacked"})
	assert.Equal(t, http.StatusNotFound, strangerRec.Code)

	missingRec := updatePost(t, h, owner, uuid.New(), map[string]string{"title": "X"})
	assert.Equal(t, http.StatusNotFound, missingRec.Code)
	// A stranger's attempt and a missing post must read identically.
	assert.Equal(t, missingRec.Body.String(), strangerRec.Body.String())
}

func TestUpdatePost_ImageFieldSemantics(t *testing.T) {
	t.Parallel()

	posts := newFakePostRepo()
	h := NewPostHandler(posts, &fakeMediaStore{})
	owner := uuid.New()

	existing := "http://localhost:8080/uploads/old.png"
	post, err := posts.Create(context.Background(), owner, "T", "C", &existing)
	require.NoError(t, err)

	// No image field at all: the reference is retained.
	rec := updatePost(t, h, owner, post.ID, map[string]string{"title": "T2"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp postResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Image)
	assert.Equal(t, existing, *resp.Data.Image)

	// Explicit empty image field: cleared without re-upload.
	rec = updatePost(t, h, owner, post.ID, map[string]string{"image": ""})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Data.Image)

	// Explicit image value: honored verbatim.
	rec = updatePost(t, h, owner, post.ID, map[string]string{"image": existing})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Image)
	assert.Equal(t, existing, *resp.Data.Image)
}

func TestDeletePost_OwnerScoped(t *testing.T) {
	t.Parallel()

	posts := newFakePostRepo()
	h := NewPostHandler(posts, &fakeMediaStore{})
	owner := uuid.New()
	stranger := uuid.New()

	post, err := posts.Create(context.Background(), owner, "T", "C", nil)
	require.NoError(t, err)

	del := func(caller uuid.UUID) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/api/posts/"+post.ID.String(), nil)
		req.SetPathValue("id", post.ID.String())
		req = asUser(req, caller)
		rec := httptest.NewRecorder()
		h.Delete(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNotFound, del(stranger).Code)
	assert.Equal(t, http.StatusOK, del(owner).Code)
	// Gone now, even for the owner.
	assert.Equal(t, http.StatusNotFound, del(owner).Code)
}

func TestListByUser_NewestFirst(t *testing.T) {
	t.Parallel()

	posts := newFakePostRepo()
	h := NewPostHandler(posts, &fakeMediaStore{})
	author := uuid.New()

	base := time.Now()
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		post, err := posts.Create(context.Background(), author, "T", "C", nil)
		require.NoError(t, err)
		posts.posts[post.ID].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		ids = append(ids, post.ID)
	}
	// Noise from another author.
	_, err := posts.Create(context.Background(), uuid.New(), "T", "C", nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/posts/user/"+author.String(), nil)
	req.SetPathValue("userId", author.String())
	req = asUser(req, uuid.New())
	rec := httptest.NewRecorder()
	h.ListByUser(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Post `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	assert.Equal(t, ids[2], resp.Data[0].ID)
	assert.Equal(t, ids[1], resp.Data[1].ID)
	assert.Equal(t, ids[0], resp.Data[2].ID)
	for i := 1; i < len(resp.Data); i++ {
		assert.False(t, resp.Data[i].CreatedAt.After(resp.Data[i-1].CreatedAt))
	}
}

func TestGetPost_NotFound(t *testing.T) {
	t.Parallel()

	h := NewPostHandler(newFakePostRepo(), &fakeMediaStore{})

	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/posts/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/posts/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	rec = httptest.NewRecorder()
	h.Get(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
