package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/dcollins/storyshare/internal/api/middleware"
	"github.com/dcollins/storyshare/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email       string
	displayName string
	password    string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		email:       fmt.Sprintf("testuser_%s@example.com", suffix),
		displayName: fmt.Sprintf("testuser_%s", suffix),
		password:    "testpassword123",
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		DisplayName:  b.displayName,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	} `json:"user"`
}

// BuildAndLogin registers the user via the API and returns the user row and
// its session cookie.
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, *http.Cookie) {
	t.Helper()

	reqBody := map[string]string{
		"email":       b.email,
		"displayName": b.displayName,
		"password":    b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode auth response: %v", err)
	}

	cookie := SessionCookie(resp)
	if cookie == nil {
		t.Fatalf("register response did not set a session cookie")
	}

	var user domain.User
	if err := ts.DB.DB.First(&user, "id = ?", authResp.User.ID).Error; err != nil {
		t.Fatalf("failed to load registered user: %v", err)
	}

	return &user, cookie
}

// SessionCookie extracts the session cookie from a response, or nil.
func SessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

// StoryBuilder creates test stories with a builder pattern
type StoryBuilder struct {
	ownerID    uuid.UUID
	title      string
	body       string
	visibility domain.Visibility
	createdAt  time.Time
}

// NewStoryBuilder creates a new StoryBuilder owned by the given user
func NewStoryBuilder(ownerID uuid.UUID) *StoryBuilder {
	return &StoryBuilder{
		ownerID:    ownerID,
		title:      fmt.Sprintf("story_%s", uuid.New().String()[:8]),
		body:       "Once upon a time.",
		visibility: domain.VisibilityPublic,
		createdAt:  time.Now(),
	}
}

// WithTitle sets the title
func (b *StoryBuilder) WithTitle(title string) *StoryBuilder {
	b.title = title
	return b
}

// WithBody sets the body
func (b *StoryBuilder) WithBody(body string) *StoryBuilder {
	b.body = body
	return b
}

// Private marks the story private
func (b *StoryBuilder) Private() *StoryBuilder {
	b.visibility = domain.VisibilityPrivate
	return b
}

// WithCreatedAt sets the creation timestamp, for ordering tests
func (b *StoryBuilder) WithCreatedAt(at time.Time) *StoryBuilder {
	b.createdAt = at
	return b
}

// Build creates the story in the database
func (b *StoryBuilder) Build(t *testing.T, db *gorm.DB) *domain.Story {
	t.Helper()

	story := &domain.Story{
		ID:         uuid.New(),
		OwnerID:    b.ownerID,
		Title:      b.title,
		Body:       b.body,
		Visibility: b.visibility,
		CreatedAt:  b.createdAt,
		UpdatedAt:  b.createdAt,
	}

	if err := db.Create(story).Error; err != nil {
		t.Fatalf("failed to create story: %v", err)
	}

	return story
}

// DoJSON sends a JSON request with an optional session cookie and returns
// the response.
func DoJSON(t *testing.T, method, url string, payload interface{}, cookie *http.Cookie) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}
