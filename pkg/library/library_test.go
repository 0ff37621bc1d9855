package library_test

import (
	"testing"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/internal/model"
	"github.com/yeisme/soundboard/pkg/library"
)

func libraryConfig() configs.LibraryConfig {
	return configs.LibraryConfig{
		Locale:              "he",
		UnknownCategoryName: configs.DefaultUnknownCategoryName,
		DefaultColor:        configs.DefaultCubeColor,
	}
}

func fixture() []model.Sound {
	return []model.Sound{
		{ID: "1", Title: "שלום", Category: "brano", Tags: []string{"greeting"}},
		{ID: "2", Title: "Boom", Category: "jamil", HiddenTags: []string{"explosion"}},
		{ID: "3", Title: "אבא", Category: "brano", Tags: []string{}},
		{ID: "4", Title: "banana", Category: "dorit", Tags: []string{"Fruit"}},
	}
}

func titles(sounds []model.Sound) []string {
	out := make([]string, len(sounds))
	for i, s := range sounds {
		out[i] = s.Title
	}

	return out
}

// TestFilterEmptyQuery 测试空条件返回全部并排序.
func TestFilterEmptyQuery(t *testing.T) {
	s := library.NewSearcher(libraryConfig())

	got := s.Filter(fixture(), library.Query{})
	if len(got) != 4 {
		t.Fatalf("expected 4 results, got %d", len(got))
	}

	// 希伯来字母表内 א 在 ש 之前
	var alef, shin int
	for i, snd := range got {
		switch snd.Title {
		case "אבא":
			alef = i
		case "שלום":
			shin = i
		}
	}

	if alef > shin {
		t.Errorf("expected אבא before שלום, got %v", titles(got))
	}
}

// TestFilterCaseInsensitive 测试大小写不敏感的子串匹配.
func TestFilterCaseInsensitive(t *testing.T) {
	s := library.NewSearcher(libraryConfig())

	got := s.Filter(fixture(), library.Query{Text: "BOO"})
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("expected Boom, got %v", titles(got))
	}
}

// TestFilterWhitespaceQuery 测试空白查询按字面匹配，不会退化为全部结果.
func TestFilterWhitespaceQuery(t *testing.T) {
	s := library.NewSearcher(libraryConfig())

	sounds := append(fixture(), model.Sound{ID: "5", Title: "Big Boom", Category: "jamil"})

	got := s.Filter(sounds, library.Query{Text: " "})
	if len(got) != 1 || got[0].ID != "5" {
		t.Errorf("expected only the title containing a space, got %v", titles(got))
	}

	if got := s.Filter(fixture(), library.Query{Text: "  "}); len(got) != 0 {
		t.Errorf("expected no match for double space, got %v", titles(got))
	}
}

// TestFilterMatchesTags 测试标签与隐藏标签参与匹配.
func TestFilterMatchesTags(t *testing.T) {
	s := library.NewSearcher(libraryConfig())

	if got := s.Filter(fixture(), library.Query{Text: "fruit"}); len(got) != 1 || got[0].ID != "4" {
		t.Errorf("tag match: got %v", titles(got))
	}

	if got := s.Filter(fixture(), library.Query{Text: "plos"}); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("hidden tag match: got %v", titles(got))
	}
}

// TestFilterCategory 测试分类过滤与文本条件同时生效.
func TestFilterCategory(t *testing.T) {
	s := library.NewSearcher(libraryConfig())

	got := s.Filter(fixture(), library.Query{Category: "brano"})
	if len(got) != 2 {
		t.Fatalf("expected 2 brano sounds, got %v", titles(got))
	}

	got = s.Filter(fixture(), library.Query{Category: "brano", Text: "greet"})
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("expected שלום only, got %v", titles(got))
	}

	if got := s.Filter(fixture(), library.Query{Category: "brano", Text: "boom"}); len(got) != 0 {
		t.Errorf("text outside category should not match, got %v", titles(got))
	}
}

// TestFilterStable 测试同名音效保持输入顺序.
func TestFilterStable(t *testing.T) {
	s := library.NewSearcher(libraryConfig())
	in := []model.Sound{
		{ID: "x", Title: "same"},
		{ID: "y", Title: "same"},
		{ID: "z", Title: "same"},
	}

	got := s.Filter(in, library.Query{})
	for i, want := range []string{"x", "y", "z"} {
		if got[i].ID != want {
			t.Fatalf("order changed: %v", got)
		}
	}
}

// TestFilterDoesNotMutateInput 测试过滤不修改输入切片.
func TestFilterDoesNotMutateInput(t *testing.T) {
	s := library.NewSearcher(libraryConfig())
	in := fixture()

	_ = s.Filter(in, library.Query{})

	if in[0].ID != "1" || in[3].ID != "4" {
		t.Errorf("input reordered: %v", titles(in))
	}
}

// TestCategoriesFallbacks 测试分类名与颜色的回退值.
func TestCategoriesFallbacks(t *testing.T) {
	cats := library.NewCategories([]model.Category{
		{ID: "brano", Name: "ברנו", Color: "bg-blue-300"},
		{ID: "jamil", Name: "ג'מיל"},
	}, libraryConfig())

	if got := cats.Name("brano"); got != "ברנו" {
		t.Errorf("name = %q", got)
	}

	if got := cats.Name("nope"); got != configs.DefaultUnknownCategoryName {
		t.Errorf("unknown name = %q", got)
	}

	if got := cats.Color("jamil"); got != configs.DefaultCubeColor {
		t.Errorf("missing color should fall back, got %q", got)
	}

	if got := cats.Color("brano"); got != "bg-blue-300" {
		t.Errorf("color = %q", got)
	}
}

// TestMembershipAndDecorate 测试音板成员集合与结果装饰.
func TestMembershipAndDecorate(t *testing.T) {
	sounds := fixture()
	onBoard := library.NewMembership([]*model.Sound{&sounds[1], nil, nil})

	if !onBoard.Has("2") || onBoard.Has("1") {
		t.Fatalf("unexpected membership %v", onBoard)
	}

	cats := library.NewCategories(nil, libraryConfig())
	items := library.Decorate(sounds[:2], cats, onBoard)

	if items[0].OnBoard || !items[1].OnBoard {
		t.Errorf("on_board flags wrong: %+v", items)
	}

	if items[0].CategoryName != configs.DefaultUnknownCategoryName || items[0].Color != configs.DefaultCubeColor {
		t.Errorf("fallbacks not applied: %+v", items[0])
	}
}
