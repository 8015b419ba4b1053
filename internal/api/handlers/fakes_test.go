package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shahwaizSattar/mern-blog/internal/api/middleware"
	"github.com/shahwaizSattar/mern-blog/internal/models"
	"github.com/shahwaizSattar/mern-blog/internal/repositories"
	"github.com/stretchr/testify/require"
)

// In-memory stand-ins for the gorm repositories, mirroring their contracts:
// sentinel errors, owner-scoped lookups, cascade on user deletion.

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
	posts *fakePostRepo
}

func newFakeUserRepo(posts *fakePostRepo) *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*models.User{}, posts: posts}
}

func (r *fakeUserRepo) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, repositories.ErrValidation
	}
	for _, u := range r.users {
		if u.Username == username {
			return nil, repositories.ErrDuplicateUsername
		}
	}
	for _, u := range r.users {
		if u.Email == email {
			return nil, repositories.ErrDuplicateEmail
		}
	}
	user := &models.User{
		ID:       uuid.New(),
		Username: username,
		Email:    email,
		Password: password,
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, upd repositories.UserUpdate) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if upd.Username != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Username == *upd.Username {
				return nil, repositories.ErrDuplicateUsername
			}
		}
		u.Username = *upd.Username
	}
	if upd.Email != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Email == *upd.Email {
				return nil, repositories.ErrDuplicateEmail
			}
		}
		u.Email = *upd.Email
	}
	if upd.Bio != nil {
		u.Bio = upd.Bio
	}
	if upd.ProfileImage != nil {
		if *upd.ProfileImage == "" {
			u.ProfileImage = nil
		} else {
			u.ProfileImage = upd.ProfileImage
		}
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return repositories.ErrNotFound
	}
	if r.posts != nil {
		if err := r.posts.DeleteAllByAuthor(ctx, id); err != nil {
			return err
		}
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) CheckPassword(user *models.User, password string) bool {
	return user.Password == password
}

type fakePostRepo struct {
	posts map[uuid.UUID]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[uuid.UUID]*models.Post{}}
}

func (r *fakePostRepo) Create(ctx context.Context, authorID uuid.UUID, title, content string, image *string) (*models.Post, error) {
	if title == "" || content == "" {
		return nil, repositories.ErrValidation
	}
	post := &models.Post{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		Image:     image,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.posts[post.ID] = post
	copied := *post
	return &copied, nil
}

func (r *fakePostRepo) List(ctx context.Context) ([]models.Post, error) {
	out := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePostRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Post, error) {
	var out []models.Post
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakePostRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePostRepo) Update(ctx context.Context, id, callerID uuid.UUID, upd repositories.PostUpdate) (*models.Post, error) {
	p, ok := r.posts[id]
	if !ok || p.AuthorID != callerID {
		return nil, repositories.ErrNotFound
	}
	if upd.Title != nil {
		if *upd.Title == "" {
			return nil, repositories.ErrValidation
		}
		p.Title = *upd.Title
	}
	if upd.Content != nil {
		if *upd.Content == "" {
			return nil, repositories.ErrValidation
		}
		p.Content = *upd.Content
	}
	if upd.Image != nil {
		if *upd.Image == "" {
			p.Image = nil
		} else {
			p.Image = upd.Image
		}
	}
	p.UpdatedAt = time.Now()
	copied := *p
	return &copied, nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	p, ok := r.posts[id]
	if !ok || p.AuthorID != callerID {
		return repositories.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) DeleteAllByAuthor(ctx context.Context, authorID uuid.UUID) error {
	for id, p := range r.posts {
		if p.AuthorID == authorID {
			delete(r.posts, id)
		}
	}
	return nil
}

type fakeMediaStore struct {
	saved []string
}

func (s *fakeMediaStore) Save(ctx context.Context, r io.Reader, originalName string) (string, error) {
	io.Copy(io.Discard, r)
	url := fmt.Sprintf("http://localhost:8080/uploads/stored-%d-%s", len(s.saved), originalName)
	s.saved = append(s.saved, url)
	return url, nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(userID string) (string, error) {
	return "token-for-" + userID, nil
}

// multipartBody builds a multipart form with the given text fields and an
// optional file part.
func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

// asUser attaches an authenticated user id the way RequireAuth does.
func asUser(r *http.Request, id uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, id.String())
	return r.WithContext(ctx)
}

func doJSON(t *testing.T, handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}
