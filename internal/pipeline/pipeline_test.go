package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// fakeFetcher serves canned bodies and errors keyed by URL and records the
// peak number of concurrent Get calls.
type fakeFetcher struct {
	bodies map[string]string
	errs   map[string]error

	mu       sync.Mutex
	inFlight int
	peak     int
}

func (f *fakeFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.peak {
		f.peak = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	body, ok := f.bodies[url]
	if !ok {
		return nil, fmt.Errorf("no route for %s", url)
	}
	return []byte(body), nil
}

func articleHTML(marker string) string {
	return fmt.Sprintf(`<html><body><article>
		<p>%s This page talks about golang concurrency patterns at length, covering channels and goroutines in enough prose to matter.</p>
		<p>A second paragraph keeps the discussion of golang concurrency going with worker pools and cancellation semantics.</p>
	</article></body></html>`, marker)
}

func TestRun_MixedOutcomes(t *testing.T) {
	f := &fakeFetcher{
		bodies: map[string]string{
			"http://a.example/ok": articleHTML("ALPHA"),
		},
		errs: map[string]error{
			"http://b.example/notfound": errors.New("unexpected status: 404"),
			"http://c.example/slow":     context.DeadlineExceeded,
		},
	}
	p := &Pipeline{Fetcher: f, CharBudget: 9000}

	urls := []string{"http://a.example/ok", "http://b.example/notfound", "http://c.example/slow"}
	outcomes := p.Run(context.Background(), urls, "golang concurrency")

	if len(outcomes) != len(urls) {
		t.Fatalf("got %d outcomes for %d urls", len(outcomes), len(urls))
	}
	for i, o := range outcomes {
		if o.URL != urls[i] {
			t.Errorf("outcome %d for %q, want input order %q", i, o.URL, urls[i])
		}
	}
	succeeded, failed := Counts(outcomes)
	if succeeded != 1 || failed != 2 {
		t.Fatalf("Counts = (%d, %d), want (1, 2)", succeeded, failed)
	}
	if !outcomes[0].Success() || !strings.Contains(outcomes[0].Text, "ALPHA") {
		t.Fatalf("first outcome should carry extracted text, got %+v", outcomes[0])
	}
	if outcomes[1].Success() || outcomes[2].Success() {
		t.Fatal("failed fetches must not be marked successful")
	}
}

func TestRun_Concurrent(t *testing.T) {
	f := &fakeFetcher{bodies: map[string]string{}}
	var urls []string
	for i := 0; i < 7; i++ {
		u := fmt.Sprintf("http://site%d.example/page", i)
		urls = append(urls, u)
		f.bodies[u] = articleHTML(fmt.Sprintf("PAGE%d", i))
	}
	p := &Pipeline{Fetcher: f, CharBudget: 9000}

	outcomes := p.Run(context.Background(), urls, "golang concurrency")
	succeeded, _ := Counts(outcomes)
	if succeeded != len(urls) {
		t.Fatalf("succeeded = %d, want %d", succeeded, len(urls))
	}
}

func TestRun_NoUsableContent(t *testing.T) {
	f := &fakeFetcher{bodies: map[string]string{
		"http://thin.example/": "<html><body><p>Thin.</p></body></html>",
	}}
	p := &Pipeline{Fetcher: f, CharBudget: 9000}

	outcomes := p.Run(context.Background(), []string{"http://thin.example/"}, "anything")
	if len(outcomes) != 1 {
		t.Fatalf("got %d outcomes", len(outcomes))
	}
	if !errors.Is(outcomes[0].Err, ErrNoUsableContent) {
		t.Fatalf("Err = %v, want ErrNoUsableContent", outcomes[0].Err)
	}
}

func TestRun_EmptyBatch(t *testing.T) {
	p := &Pipeline{Fetcher: &fakeFetcher{}, CharBudget: 9000}
	if got := p.Run(context.Background(), nil, "q"); len(got) != 0 {
		t.Fatalf("expected empty outcomes, got %d", len(got))
	}
}

func TestUsable_PreservesOrder(t *testing.T) {
	outcomes := []Outcome{
		{URL: "http://a.example/", Text: "first"},
		{URL: "http://b.example/", Err: errors.New("boom")},
		{URL: "http://c.example/", Text: "third"},
	}
	pages := Usable(outcomes)
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if pages[0].URL != "http://a.example/" || pages[1].URL != "http://c.example/" {
		t.Fatalf("order not preserved: %+v", pages)
	}
}
