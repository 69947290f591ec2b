package discover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/vitrine/internal/catalog"
	"github.com/lepinkainen/vitrine/internal/images"
	"github.com/lepinkainen/vitrine/internal/testutil"
)

type fakeSearcher struct {
	calls atomic.Int64
	urls  map[string]string
	err   error
}

func (s *fakeSearcher) FindImage(_ context.Context, designHouse, product string) (string, error) {
	s.calls.Add(1)
	if s.err != nil {
		return "", s.err
	}
	return s.urls[designHouse+"/"+product], nil
}

type fakeDownloader struct {
	calls atomic.Int64
	data  map[string][]byte
	err   error
}

func (d *fakeDownloader) GetBytes(_ context.Context, url string) ([]byte, error) {
	d.calls.Add(1)
	if d.err != nil {
		return nil, d.err
	}
	data, ok := d.data[url]
	if !ok {
		return nil, fmt.Errorf("unexpected url %s", url)
	}
	return data, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(2, 2, color.White)
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func testStore(env *testutil.TestEnv) images.Store {
	return images.Store{
		DiscoveryRoot: env.Path("data-store"),
		ProcessedRoot: env.Path("data-store-processed"),
		HostedDomain:  "ibb.co",
	}
}

func TestBuildTasksFlattensCatalog(t *testing.T) {
	cat := catalog.Catalog{
		"Flos":  {"Arco": 1962, "Snoopy": map[string]any{"year": 1967}},
		"Artek": {"Stool 60": "1933"},
		"Vitra": {"Uten.Silo": nil},
	}

	tasks := BuildTasks(cat)

	assert.Equal(t, []Task{
		{DesignHouse: "Artek", Product: "Stool 60", Year: "1933"},
		{DesignHouse: "Flos", Product: "Arco", Year: "1962"},
		{DesignHouse: "Flos", Product: "Snoopy", Year: "1967"},
		{DesignHouse: "Vitra", Product: "Uten.Silo", Year: ""},
	}, tasks)
}

func TestRunDownloadsNewImages(t *testing.T) {
	env := testutil.NewTestEnv(t)
	png := pngBytes(t)

	search := &fakeSearcher{urls: map[string]string{
		"Flos/Arco": "https://img.example/arco.png",
	}}
	download := &fakeDownloader{data: map[string][]byte{
		"https://img.example/arco.png": png,
	}}

	runner := &Runner{Search: search, Download: download, Store: testStore(env), Concurrency: 2}
	summary := runner.Run(context.Background(), catalog.Catalog{
		"Flos": {"Arco": 1962},
	})

	assert.Equal(t, 1, summary.Changed)
	assert.Equal(t, 0, summary.Failed)
	env.RequireFileExists("data-store/flos/arco-1962.jpg")

	written, err := os.ReadFile(env.Path("data-store/flos/arco-1962.jpg"))
	require.NoError(t, err)
	assert.Equal(t, png, written)
}

func TestRunSkipsExistingArtifactWithoutSearching(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFile("data-store/flos/arco-1962.jpg", pngBytes(t))

	search := &fakeSearcher{}
	download := &fakeDownloader{}

	runner := &Runner{Search: search, Download: download, Store: testStore(env), Concurrency: 1}
	summary := runner.Run(context.Background(), catalog.Catalog{
		"Flos": {"Arco": 1962},
	})

	assert.Equal(t, 0, summary.Changed)
	assert.Equal(t, 1, summary.Skipped)
	assert.EqualValues(t, 0, search.calls.Load(), "existing artifact must not trigger a search")
	assert.EqualValues(t, 0, download.calls.Load())
}

func TestRunTreatsNoResultAsSkip(t *testing.T) {
	env := testutil.NewTestEnv(t)

	search := &fakeSearcher{urls: map[string]string{}}
	runner := &Runner{Search: search, Download: &fakeDownloader{}, Store: testStore(env), Concurrency: 1}

	summary := runner.Run(context.Background(), catalog.Catalog{
		"Flos": {"Arco": 1962},
	})

	assert.Equal(t, 0, summary.Changed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
}

func TestRunRejectsNonImagePayload(t *testing.T) {
	env := testutil.NewTestEnv(t)

	search := &fakeSearcher{urls: map[string]string{
		"Flos/Arco": "https://img.example/arco.html",
	}}
	download := &fakeDownloader{data: map[string][]byte{
		"https://img.example/arco.html": []byte("<html>not found</html>"),
	}}

	runner := &Runner{Search: search, Download: download, Store: testStore(env), Concurrency: 1}
	summary := runner.Run(context.Background(), catalog.Catalog{
		"Flos": {"Arco": 1962},
	})

	assert.Equal(t, 1, summary.Failed)
	env.RequireFileNotExists("data-store/flos/arco-1962.jpg")
}

func TestRunIsolatesTaskFailures(t *testing.T) {
	env := testutil.NewTestEnv(t)
	png := pngBytes(t)

	search := &fakeSearcher{urls: map[string]string{
		"Flos/Arco":   "https://img.example/arco.png",
		"Flos/Snoopy": "https://img.example/missing.png",
	}}
	download := &fakeDownloader{data: map[string][]byte{
		"https://img.example/arco.png": png,
	}}

	runner := &Runner{Search: search, Download: download, Store: testStore(env), Concurrency: 2}
	summary := runner.Run(context.Background(), catalog.Catalog{
		"Flos": {"Arco": 1962, "Snoopy": 1967},
	})

	assert.Equal(t, 1, summary.Changed)
	assert.Equal(t, 1, summary.Failed)
	env.RequireFileExists("data-store/flos/arco-1962.jpg")
}

func TestRunReportsSearchErrors(t *testing.T) {
	env := testutil.NewTestEnv(t)

	search := &fakeSearcher{err: errors.New("search backend down")}
	runner := &Runner{Search: search, Download: &fakeDownloader{}, Store: testStore(env), Concurrency: 1}

	summary := runner.Run(context.Background(), catalog.Catalog{
		"Flos": {"Arco": 1962},
	})

	assert.Equal(t, 1, summary.Failed)
}
