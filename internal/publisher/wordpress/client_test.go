package wordpress

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"zsxq_sync/internal/domain"
)

type ClientTestSuite struct {
	suite.Suite
	ctx    context.Context
	logger *slog.Logger
}

func (s *ClientTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) newClient(baseURL string) *Client {
	return New(Config{
		BaseURL:        baseURL,
		Username:       "editor",
		Password:       "app-password",
		MaxAttempts:    2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}, s.logger)
}

func (s *ClientTestSuite) TestCreatePost() {
	var gotPayload postPayload
	var gotUser, gotPass string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/wp-json/wp/v2/tags" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]termResponse{{ID: 5, Name: "golang"}})
		case r.URL.Path == "/wp-json/wp/v2/categories" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]termResponse{{ID: 3, Name: "Articles"}})
		case r.URL.Path == "/wp-json/wp/v2/posts" && r.Method == http.MethodPost:
			gotUser, gotPass, _ = r.BasicAuth()
			json.NewDecoder(r.Body).Decode(&gotPayload)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(postResponse{ID: 77})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := s.newClient(server.URL)

	post := &domain.Post{
		Kind:       domain.KindArticle,
		Title:      "Hello World",
		Body:       "<p>content</p>",
		Tags:       []string{"golang"},
		Categories: []string{"Articles"},
		CreatedAt:  time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}

	id, err := client.CreatePost(s.ctx, post)

	s.NoError(err)
	s.Equal("77", id)
	s.Equal("editor", gotUser)
	s.Equal("app-password", gotPass)
	s.Equal("Hello World", gotPayload.Title)
	s.Equal("publish", gotPayload.Status)
	s.Equal("2026-08-01T09:00:00", gotPayload.Date)
	s.Equal([]int{5}, gotPayload.Tags)
	s.Equal([]int{3}, gotPayload.Categories)
}

func (s *ClientTestSuite) TestCreatePost_CreatesMissingTerms() {
	var createdName string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/wp-json/wp/v2/tags" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]termResponse{})
		case r.URL.Path == "/wp-json/wp/v2/tags" && r.Method == http.MethodPost:
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			createdName = body["name"]
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(termResponse{ID: 9, Name: createdName})
		case r.URL.Path == "/wp-json/wp/v2/posts":
			json.NewEncoder(w).Encode(postResponse{ID: 1})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := s.newClient(server.URL)

	_, err := client.CreatePost(s.ctx, &domain.Post{Title: "T", Tags: []string{"brand-new"}})

	s.NoError(err)
	s.Equal("brand-new", createdName)
}

func (s *ClientTestSuite) TestCreatePost_TermFailureStillPublishes() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/wp-json/wp/v2/posts":
			var payload postPayload
			json.NewDecoder(r.Body).Decode(&payload)
			s.Empty(payload.Tags)
			json.NewEncoder(w).Encode(postResponse{ID: 2})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := s.newClient(server.URL)

	id, err := client.CreatePost(s.ctx, &domain.Post{Title: "T", Tags: []string{"unresolvable"}})

	s.NoError(err)
	s.Equal("2", id)
}

func (s *ClientTestSuite) TestCreatePost_MomentCustomPostType() {
	var endpoint string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint = r.URL.Path
		json.NewEncoder(w).Encode(postResponse{ID: 3})
	}))
	defer server.Close()

	client := New(Config{
		BaseURL:        server.URL,
		Username:       "u",
		Password:       "p",
		MomentPostType: "moments",
		MaxAttempts:    2,
		InitialBackoff: time.Millisecond,
	}, s.logger)

	_, err := client.CreatePost(s.ctx, &domain.Post{Kind: domain.KindMoment, Title: "M"})

	s.NoError(err)
	s.Equal("/wp-json/wp/v2/moments", endpoint)
}

func (s *ClientTestSuite) TestCreatePost_MomentFallsBackToPosts() {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/wp-json/wp/v2/moments" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(postResponse{ID: 4})
	}))
	defer server.Close()

	client := New(Config{
		BaseURL:        server.URL,
		Username:       "u",
		Password:       "p",
		MomentPostType: "moments",
		MaxAttempts:    2,
		InitialBackoff: time.Millisecond,
	}, s.logger)

	id, err := client.CreatePost(s.ctx, &domain.Post{Kind: domain.KindMoment, Title: "M"})

	s.NoError(err)
	s.Equal("4", id)
	s.Equal([]string{"/wp-json/wp/v2/moments", "/wp-json/wp/v2/posts"}, paths)
}

func (s *ClientTestSuite) TestPostExists_ExactTitleMatch() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/wp-json/wp/v2/posts", r.URL.Path)
		s.Equal("Tom & Jerry", r.URL.Query().Get("search"))
		json.NewEncoder(w).Encode([]postResponse{
			{ID: 1, Title: renderedField{Rendered: "Tom &amp; Jerry part two"}},
			{ID: 2, Title: renderedField{Rendered: "Tom &amp; Jerry"}},
		})
	}))
	defer server.Close()

	client := s.newClient(server.URL)

	exists, err := client.PostExists(s.ctx, "Tom & Jerry")

	s.NoError(err)
	s.True(exists)
}

func (s *ClientTestSuite) TestPostExists_NoMatch() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode([]postResponse{
			{ID: 1, Title: renderedField{Rendered: "Something Else"}},
		})
	}))
	defer server.Close()

	client := s.newClient(server.URL)

	exists, err := client.PostExists(s.ctx, "My Title")

	s.NoError(err)
	s.False(exists)
}

func (s *ClientTestSuite) TestValidate_BadCredentials() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	err := s.newClient(server.URL).Validate(s.ctx)

	s.ErrorIs(err, ErrAuth)
}

func (s *ClientTestSuite) TestValidate_OK() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/wp-json/wp/v2/users/me", r.URL.Path)
		s.Equal("edit", r.URL.Query().Get("context"))
		json.NewEncoder(w).Encode(map[string]int{"id": 1})
	}))
	defer server.Close()

	s.NoError(s.newClient(server.URL).Validate(s.ctx))
}

func (s *ClientTestSuite) TestRequest_RetriesServerError() {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]int{"id": 1})
	}))
	defer server.Close()

	s.NoError(s.newClient(server.URL).Validate(s.ctx))
	s.Equal(2, calls)
}

func (s *ClientTestSuite) TestRequest_AuthNotRetried() {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	err := s.newClient(server.URL).Validate(s.ctx)

	s.ErrorIs(err, ErrAuth)
	s.Equal(1, calls)
}
