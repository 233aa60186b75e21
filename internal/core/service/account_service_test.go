package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulsefeed/social-feed/internal/core/domain"
)

type stubUserRepo struct {
	users        []*domain.User
	nextID       int
	adminClaimed bool
	createErr    error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	r.nextID++
	copy.ID = fmt.Sprintf("u%d", r.nextID)
	r.users = append(r.users, cloneUser(copy))
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) ClaimFirstAdmin(_ context.Context) (bool, error) {
	if r.adminClaimed {
		return false, nil
	}
	r.adminClaimed = true
	return true, nil
}

func (r *stubUserRepo) ReleaseFirstAdmin(_ context.Context) error {
	r.adminClaimed = false
	return nil
}

type stubPostRepo struct {
	posts     []*domain.Post
	nextID    int
	createErr error
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{}
}

func clonePost(p *domain.Post) *domain.Post {
	clone := *p
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	copy := clonePost(post)
	r.nextID++
	copy.ID = fmt.Sprintf("p%d", r.nextID)
	r.posts = append(r.posts, clonePost(copy))
	return clonePost(copy), nil
}

// newestFirst mirrors the repository ordering contract: creation time
// descending, insertion order descending as tiebreak.
func (r *stubPostRepo) newestFirst(filter func(*domain.Post) bool) []*domain.Post {
	var out []*domain.Post
	for _, p := range r.posts {
		if filter(p) {
			out = append(out, clonePost(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *stubPostRepo) FindByAuthor(_ context.Context, authorID string) ([]*domain.Post, error) {
	return r.newestFirst(func(p *domain.Post) bool { return p.AuthorID == authorID }), nil
}

func (r *stubPostRepo) FindAll(_ context.Context) ([]*domain.Post, error) {
	return r.newestFirst(func(*domain.Post) bool { return true }), nil
}

func newAccountService(users *stubUserRepo, posts *stubPostRepo) *AccountService {
	return NewAccountService(users, posts, zerolog.Nop())
}

func TestAccountService_Register_FirstUserIsAdmin(t *testing.T) {
	svc := newAccountService(newStubUserRepo(), newStubPostRepo())

	alice, err := svc.Register(context.Background(), "alice", "pw1", "a@x.com")
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if !alice.IsAdmin {
		t.Fatalf("expected first user to be admin")
	}

	bob, err := svc.Register(context.Background(), "bob", "pw2", "b@x.com")
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}
	if bob.IsAdmin {
		t.Fatalf("expected second user to not be admin")
	}
}

func TestAccountService_Register_HashesPassword(t *testing.T) {
	svc := newAccountService(newStubUserRepo(), newStubPostRepo())

	user, err := svc.Register(context.Background(), "alice", "pw1", "a@x.com")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "pw1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAccountService_Register_DuplicateUsername(t *testing.T) {
	svc := newAccountService(newStubUserRepo(), newStubPostRepo())

	_, _ = svc.Register(context.Background(), "alice", "pw1", "a@x.com")
	if _, err := svc.Register(context.Background(), "alice", "pw2", "other@x.com"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	svc := newAccountService(newStubUserRepo(), newStubPostRepo())

	_, _ = svc.Register(context.Background(), "alice", "pw1", "a@x.com")
	if _, err := svc.Register(context.Background(), "other", "pw2", "a@x.com"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAccountService_Register_ReleasesMarkerOnInsertFailure(t *testing.T) {
	users := newStubUserRepo()
	svc := newAccountService(users, newStubPostRepo())

	users.createErr = errors.New("store down")
	if _, err := svc.Register(context.Background(), "alice", "pw1", "a@x.com"); err == nil {
		t.Fatalf("expected error")
	}

	// The failed registration must not consume the first-admin slot.
	users.createErr = nil
	user, err := svc.Register(context.Background(), "bob", "pw2", "b@x.com")
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}
	if !user.IsAdmin {
		t.Fatalf("expected bob to win the admin slot after alice's failed insert")
	}
}

func TestAccountService_Login_Success(t *testing.T) {
	svc := newAccountService(newStubUserRepo(), newStubPostRepo())

	if _, err := svc.Register(context.Background(), "alice", "pw1", "a@x.com"); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := svc.Login(context.Background(), "alice", "pw1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestAccountService_Login_GenericFailure(t *testing.T) {
	svc := newAccountService(newStubUserRepo(), newStubPostRepo())
	_, _ = svc.Register(context.Background(), "alice", "pw1", "a@x.com")

	// Wrong password and unknown username must be indistinguishable.
	_, wrongPass := svc.Login(context.Background(), "alice", "nope")
	_, unknown := svc.Login(context.Background(), "ghost", "pw1")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("error messages differ: %q vs %q", wrongPass, unknown)
	}
}

func TestAccountService_Overview_Forbidden(t *testing.T) {
	svc := newAccountService(newStubUserRepo(), newStubPostRepo())

	if _, err := svc.Overview(context.Background(), nil); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("anonymous: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Overview(context.Background(), &domain.User{Username: "bob"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-admin: expected ErrForbidden, got %v", err)
	}
}

func TestAccountService_Overview_AdminSeesEverything(t *testing.T) {
	users := newStubUserRepo()
	posts := newStubPostRepo()
	svc := newAccountService(users, posts)

	alice, _ := svc.Register(context.Background(), "alice", "pw1", "a@x.com")
	bob, _ := svc.Register(context.Background(), "bob", "pw2", "b@x.com")
	if _, err := posts.Create(context.Background(), &domain.Post{AuthorID: bob.ID, Content: "hello"}); err != nil {
		t.Fatalf("seed post: %v", err)
	}

	overview, err := svc.Overview(context.Background(), alice)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(overview.Users) != 2 || overview.Users[0].Username != "alice" || overview.Users[1].Username != "bob" {
		t.Fatalf("unexpected users: %+v", overview.Users)
	}
	if len(overview.Posts) != 1 || overview.Posts[0].Content != "hello" {
		t.Fatalf("unexpected posts: %+v", overview.Posts)
	}
}

func TestAccountService_EnsureSuperuser(t *testing.T) {
	users := newStubUserRepo()
	svc := newAccountService(users, newStubPostRepo())

	if err := svc.EnsureSuperuser(context.Background(), "admin", "admin", "admin@example.com"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	admin, err := users.FindByUsername(context.Background(), "admin")
	if err != nil {
		t.Fatalf("superuser missing: %v", err)
	}
	if !admin.IsAdmin {
		t.Fatalf("expected superuser to be admin")
	}

	// A second call on a populated store is a no-op.
	if err := svc.EnsureSuperuser(context.Background(), "admin", "admin", "admin@example.com"); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	if n, _ := users.Count(context.Background()); n != 1 {
		t.Fatalf("expected one user, got %d", n)
	}
}
