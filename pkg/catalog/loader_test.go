package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"testing/fstest"

	"github.com/yeisme/soundboard/pkg/catalog"
	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/model"
)

// testFS 模拟 public/sounds 目录：
//   - brano: 可见分类，两个音效
//   - peres: 隐藏分类，一个音效
//   - jamil: 缺少 category.json
//   - dorit: sounds.json 损坏
//   - shon:  完全不存在
func testFS() fstest.MapFS {
	return fstest.MapFS{
		"brano/category.json": {Data: []byte(`{"id":"brano","name":"ברנו","color":"bg-blue-300","isShown":true}`)},
		"brano/sounds.json": {Data: []byte(`[
			{"title":"שלום","filename":"brano/hello.mp3","tags":["greeting"],"hidden_tags":["hi"],"category":"brano"},
			{"id":"explicit-1","title":"Bye","filename":"brano/bye.mp3","tags":[],"category":"brano"},
			{"title":"","filename":"brano/broken.mp3"}
		]`)},
		"peres/category.json": {Data: []byte(`{"id":"peres","name":"פרס","color":"bg-green-300","isShown":false}`)},
		"peres/sounds.json":   {Data: []byte(`[{"title":"Peace","filename":"peres/peace.mp3","tags":["x"],"hidden_tags":[],"category":"peres"}]`)},
		"jamil/sounds.json":   {Data: []byte(`[{"title":"Jamil","filename":"jamil/j.mp3","category":"jamil"}]`)},
		"dorit/category.json": {Data: []byte(`{"id":"dorit","name":"דורית","color":"bg-pink-300","isShown":true}`)},
		"dorit/sounds.json":   {Data: []byte(`[{"title":`)},
		"catalog.json": {Data: []byte(`[
			{"id":"1","title":"Shown","link":"https://example.com","isShown":true},
			{"id":"2","title":"Hidden","isShown":false}
		]`)},
	}
}

func testConfig() configs.CatalogConfig {
	cfg := configs.Defaults().Catalog
	cfg.Directories = []string{"brano", "peres", "jamil", "dorit", "shon"}

	return cfg
}

func newLoader() *catalog.Loader {
	return catalog.NewLoader(catalog.NewDirSource(testFS(), "memfs"), testConfig())
}

// TestLoadAllCategories 测试只返回可见且加载成功的分类.
func TestLoadAllCategories(t *testing.T) {
	cats := newLoader().LoadAllCategories(context.Background())

	ids := make([]string, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}

	sort.Strings(ids)

	if len(ids) != 2 || ids[0] != "brano" || ids[1] != "dorit" {
		t.Errorf("expected [brano dorit], got %v", ids)
	}
}

// TestLoadAllSounds 测试失败目录贡献空结果，隐藏分类的音效仍然保留.
func TestLoadAllSounds(t *testing.T) {
	sounds := newLoader().LoadAllSounds(context.Background())

	if len(sounds) != 4 {
		t.Fatalf("expected 4 sounds (2 brano + 1 peres + 1 jamil), got %d", len(sounds))
	}

	var sawPeres bool

	for _, s := range sounds {
		if s.ID == "" {
			t.Errorf("sound %q has no id", s.Title)
		}

		if s.Tags == nil || s.HiddenTags == nil {
			t.Errorf("sound %q should have non-nil tag slices", s.Title)
		}

		if s.Category == "peres" {
			sawPeres = true
		}
	}

	if !sawPeres {
		t.Error("sounds of hidden categories must not be filtered at load time")
	}
}

// TestSoundIdentity 测试显式 id 优先，否则由 category+filename 派生且稳定.
func TestSoundIdentity(t *testing.T) {
	sounds := newLoader().LoadSoundsForCategory(context.Background(), "brano")
	if len(sounds) != 2 {
		t.Fatalf("expected 2 valid sounds, got %d", len(sounds))
	}

	if sounds[0].ID != model.DeriveSoundID("brano", "brano/hello.mp3") {
		t.Errorf("unexpected derived id %s", sounds[0].ID)
	}

	if sounds[1].ID != "explicit-1" {
		t.Errorf("expected explicit id, got %s", sounds[1].ID)
	}

	if sounds[0].Dir != "brano" {
		t.Errorf("expected dir brano, got %s", sounds[0].Dir)
	}
}

// TestLoadSoundsForMissingCategory 测试不存在的目录返回空切片.
func TestLoadSoundsForMissingCategory(t *testing.T) {
	sounds := newLoader().LoadSoundsForCategory(context.Background(), "shon")
	if sounds == nil || len(sounds) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", sounds)
	}
}

// TestLoadCategory 测试单个分类不按 isShown 过滤.
func TestLoadCategory(t *testing.T) {
	l := newLoader()

	cat, err := l.LoadCategory(context.Background(), "peres")
	if err != nil {
		t.Fatalf("load peres: %v", err)
	}

	if cat.IsShown || cat.Name != "פרס" {
		t.Errorf("unexpected category %+v", cat)
	}

	if _, err := l.LoadCategory(context.Background(), "jamil"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestLoadPromotions 测试推广条目按 isShown 过滤.
func TestLoadPromotions(t *testing.T) {
	promos := newLoader().LoadPromotions(context.Background())
	if len(promos) != 1 || promos[0].Title != "Shown" {
		t.Errorf("expected only the shown promotion, got %+v", promos)
	}
}

// TestLoadSnapshot 测试完整快照与版本指纹.
func TestLoadSnapshot(t *testing.T) {
	l := newLoader()

	first := l.Load(context.Background())
	second := l.Load(context.Background())

	if first.Version == "" || first.Version != second.Version {
		t.Errorf("expected stable version, got %q and %q", first.Version, second.Version)
	}

	if _, ok := first.Sound("explicit-1"); !ok {
		t.Error("expected lookup by id to succeed")
	}

	if _, ok := first.Sound("missing"); ok {
		t.Error("expected lookup of unknown id to fail")
	}
}

// TestNewCatalogDeduplicates 测试重复 ID 只保留第一次出现.
func TestNewCatalogDeduplicates(t *testing.T) {
	c := catalog.NewCatalog(nil, []model.Sound{
		{ID: "a", Title: "first"},
		{ID: "a", Title: "second"},
	}, nil, testTime)

	if len(c.Sounds) != 1 || c.Sounds[0].Title != "first" {
		t.Errorf("unexpected sounds %+v", c.Sounds)
	}
}

// TestHTTPSource 测试 HTTP 来源的状态码映射.
func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sounds/brano/category.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"brano","name":"ברנו","color":"bg-blue-300","isShown":true}`))
		case "/sounds/broken/category.json":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src, err := catalog.NewHTTPSource(srv.URL+"/sounds/", srv.Client(), configs.CircuitBreakerConfig{}, "test")
	if err != nil {
		t.Fatalf("new source: %v", err)
	}

	ctx := context.Background()

	if _, err := src.Fetch(ctx, "brano/category.json"); err != nil {
		t.Errorf("expected success, got %v", err)
	}

	if _, err := src.Fetch(ctx, "missing/category.json"); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := src.Fetch(ctx, "broken/category.json"); err == nil || errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected server error, got %v", err)
	}

	cfg := testConfig()
	cfg.Directories = []string{"brano", "broken", "missing"}

	cats := catalog.NewLoader(src, cfg).LoadAllCategories(ctx)
	if len(cats) != 1 || cats[0].ID != "brano" {
		t.Errorf("expected only brano over http, got %+v", cats)
	}
}

// TestHTTPSourceBreaker 测试连续失败后熔断器打开，不再请求服务器.
func TestHTTPSourceBreaker(t *testing.T) {
	hits := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++

		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src, err := catalog.NewHTTPSource(srv.URL, srv.Client(), configs.CircuitBreakerConfig{
		Enabled:           true,
		FailureRate:       0.5,
		MinRequests:       2,
		TimeoutSeconds:    60,
		MaxRequestsInHalf: 1,
	}, "")
	if err != nil {
		t.Fatalf("new source: %v", err)
	}

	for range 5 {
		_, _ = src.Fetch(context.Background(), "x.json")
	}

	if hits != 2 {
		t.Errorf("expected breaker to open after 2 failures, server saw %d requests", hits)
	}
}
