package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yeisme/soundboard/pkg/board"
	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/model"
	"github.com/yeisme/soundboard/pkg/internal/service"
	"github.com/yeisme/soundboard/pkg/internal/storage"
	"github.com/yeisme/soundboard/pkg/library"
)

// writeCatalog 在临时目录写入两个分类的清单.
func writeCatalog(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"brano/category.json": `{"id":"brano","name":"ברנו","color":"bg-blue-300","isShown":true}`,
		"brano/sounds.json":   `[{"id":"b1","title":"אבא","filename":"aba.mp3","tags":["family"]},{"id":"b2","title":"Boom","filename":"boom.mp3"}]`,
		"jamil/category.json": `{"id":"jamil","name":"ג'מיל","isShown":true}`,
		"jamil/sounds.json":   `[{"id":"j1","title":"ג'מיל","filename":"jamil one.mp3"}]`,
	}

	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return root
}

func newServices(t *testing.T) *service.Services {
	t.Helper()

	cfg := configs.Defaults()
	cfg.KV.Type = "memory"
	cfg.Catalog.Source = configs.CatalogSourceDir
	cfg.Catalog.Dir = writeCatalog(t)
	cfg.Catalog.Directories = []string{"brano", "jamil"}
	cfg.Board.Slots = 3
	cfg.Board.InitialFilled = 2

	ctx := context.Background()

	mgr, err := storage.Init(ctx, &cfg, storage.Options{Events: true})
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	t.Cleanup(func() { _ = mgr.Close() })

	svc, err := service.New(ctx, &cfg, mgr)
	if err != nil {
		t.Fatalf("services: %v", err)
	}

	return svc
}

// TestSeedAndView 测试播种后的音板视图.
func TestSeedAndView(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()

	seeded, err := svc.SeedBoard(ctx)
	if err != nil || !seeded {
		t.Fatalf("seed: %v %v", seeded, err)
	}

	view := svc.BoardView(ctx)
	if len(view.Slots) != 3 || !view.HasEmpty || !view.Initialized {
		t.Fatalf("view = %+v", view)
	}

	for _, slot := range view.Slots[:2] {
		if slot.Sound == nil || slot.CategoryName == "" {
			t.Errorf("seeded slot %d incomplete: %+v", slot.Index, slot)
		}
	}

	if view.Slots[2].Sound != nil || view.Slots[2].Color != configs.DefaultCubeColor {
		t.Errorf("empty slot = %+v", view.Slots[2])
	}

	if view.Volume != configs.DefaultGlobalVolume {
		t.Errorf("volume = %d", view.Volume)
	}
}

// TestAddUnknownSound 测试未知音效 ID.
func TestAddUnknownSound(t *testing.T) {
	svc := newServices(t)

	if _, err := svc.AddSound(context.Background(), "nope"); !errors.Is(err, service.ErrSoundNotFound) {
		t.Errorf("expected ErrSoundNotFound, got %v", err)
	}
}

// TestLibraryOnBoard 测试搜索结果标注在音板上的音效.
func TestLibraryOnBoard(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()

	if _, err := svc.AddSound(ctx, "b2"); err != nil {
		t.Fatalf("add: %v", err)
	}

	resp := svc.Library(ctx, library.Query{Category: "brano"})
	if resp.Total != 2 || !resp.HasEmpty {
		t.Fatalf("resp = %+v", resp)
	}

	for _, item := range resp.Items {
		if item.OnBoard != (item.Sound.ID == "b2") {
			t.Errorf("on_board wrong for %s", item.Sound.ID)
		}

		if item.CategoryName != "ברנו" {
			t.Errorf("category name = %q", item.CategoryName)
		}
	}
}

// TestBoardFullThroughService 测试音板满时的错误透传.
func TestBoardFullThroughService(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()

	for _, id := range []string{"b1", "b2", "j1"} {
		if _, err := svc.AddSound(ctx, id); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}

	if err := svc.RemoveSlot(ctx, 0); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if err := svc.PlaceSound(ctx, 0, "b1"); err != nil {
		t.Fatalf("place: %v", err)
	}

	if _, err := svc.Board.Add(ctx, model.Sound{ID: "x"}); !errors.Is(err, board.ErrBoardFull) {
		t.Errorf("expected ErrBoardFull, got %v", err)
	}
}

// TestAudioLocation 测试本地目录来源返回文件路径.
func TestAudioLocation(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()

	req, err := svc.PlayRequest(ctx, "j1")
	if err != nil {
		t.Fatalf("play request: %v", err)
	}

	want := filepath.Join(svc.Config.Catalog.Dir, "jamil one.mp3")
	if req.Location != want || req.Volume != configs.DefaultGlobalVolume {
		t.Errorf("request = %+v, want location %s", req, want)
	}

	link, err := svc.ShareLink(ctx, "j1")
	if err != nil {
		t.Fatalf("share: %v", err)
	}

	if link.URL != "http://localhost:8080/sounds/jamil%20one.mp3" {
		t.Errorf("share url = %q", link.URL)
	}
}
