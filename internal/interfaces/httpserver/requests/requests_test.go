package requests_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/funtube/funtube-server/internal/domain/video"
	"github.com/funtube/funtube-server/internal/interfaces/httpserver/requests"
)

func ginContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c
}

func TestParseListQuery(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  video.ListParams
	}{
		{"defaults", "/videos", video.ListParams{Page: 1, Limit: video.DefaultPageSize}},
		{"explicit", "/videos?page=3&limit=20", video.ListParams{Page: 3, Limit: 20}},
		{"limit clamped", "/videos?limit=999", video.ListParams{Page: 1, Limit: video.MaxPageSize}},
		{"negative page clamped", "/videos?page=-2", video.ListParams{Page: 1, Limit: video.DefaultPageSize}},
		{"garbage numbers", "/videos?page=abc&limit=xyz", video.ListParams{Page: 1, Limit: video.DefaultPageSize}},
		{"search via q", "/videos?q=cats", video.ListParams{Page: 1, Limit: video.DefaultPageSize, Search: "cats"}},
		{"search via search", "/videos?search=dogs", video.ListParams{Page: 1, Limit: video.DefaultPageSize, Search: "dogs"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := requests.ParseListQuery(ginContext(t, tc.query))
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func formContext(t *testing.T, form url.Values) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPost, "/videos", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return c
}

func TestParseTags(t *testing.T) {
	cases := []struct {
		name string
		form url.Values
		want []string
	}{
		{"repeated fields", url.Values{"tags": {"go", "tutorial"}}, []string{"go", "tutorial"}},
		{"comma separated", url.Values{"tags": {"go, tutorial , "}}, []string{"go", "tutorial"}},
		{"absent", url.Values{}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := requests.ParseTags(formContext(t, tc.form))
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}
