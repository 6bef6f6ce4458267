package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRobotsProbeIsAdvisoryAndIdentified(t *testing.T) {
	robotsRequests := 0
	robotsUA := ""
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsRequests++
			robotsUA = r.Header.Get("User-Agent")
			fmt.Fprint(w, "User-agent: *\nDisallow: /shop\n")
			return
		}
		fmt.Fprint(w, "<html><body><p>ok</p></body></html>")
	}))
	defer server.Close()

	client := NewClient(server.URL, "session=test")
	for i := 0; i < 2; i++ {
		if _, err := client.GetDoc(context.Background(), server.URL+"/shop"); err != nil {
			t.Fatalf("Disallowed path must still fetch (advisory only), got %v", err)
		}
	}

	if robotsRequests != 1 {
		t.Errorf("robots.txt should be probed exactly once, got %d", robotsRequests)
	}
	if robotsUA != userAgent {
		t.Errorf("robots.txt probe must identify itself, got %q", robotsUA)
	}
}
