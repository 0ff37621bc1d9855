package configs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yeisme/soundboard/pkg/configs"
	"github.com/yeisme/soundboard/pkg/rule"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	return p
}

// TestDefaultsValid 测试默认配置能通过校验.
func TestDefaultsValid(t *testing.T) {
	cfg := configs.Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	if cfg.Board.Slots != configs.DefaultBoardSlots || cfg.Board.DefaultVolume != configs.DefaultGlobalVolume {
		t.Errorf("board defaults = %+v", cfg.Board)
	}

	if len(cfg.Catalog.Directories) != len(configs.DefaultCatalogDirectories) {
		t.Errorf("directories = %v", cfg.Catalog.Directories)
	}

	if cfg.KV.Type != "db" || cfg.DB.Type != configs.SQLite {
		t.Errorf("kv = %s db = %s", cfg.KV.Type, cfg.DB.Type)
	}
}

// TestInitConfigFile 测试从 yaml 文件加载并覆盖默认值.
func TestInitConfigFile(t *testing.T) {
	p := writeConfig(t, `
server:
  reload_config: false
board:
  slots: 8
  initial_filled: 3
catalog:
  source: http
  base_url: https://sounds.example/sounds/
  audio_layout: category
`)

	if err := configs.InitConfig(p); err != nil {
		t.Fatalf("InitConfig: %v", err)
	}

	cfg := configs.GetConfig()
	if cfg.Board.Slots != 8 || cfg.Board.InitialFilled != 3 {
		t.Errorf("board = %+v", cfg.Board)
	}

	if cfg.Catalog.Source != configs.CatalogSourceHTTP || cfg.Catalog.AudioPath("jamil", "a.mp3") != "jamil/a.mp3" {
		t.Errorf("catalog = %+v", cfg.Catalog)
	}

	// 未写出的键保持默认
	if cfg.Board.DefaultVolume != configs.DefaultGlobalVolume {
		t.Errorf("default_volume = %d", cfg.Board.DefaultVolume)
	}

	if got := configs.GetViper().ConfigFileUsed(); got != p {
		t.Errorf("config file used = %q, want %q", got, p)
	}
}

// TestInitConfigEnv 测试环境变量覆盖.
func TestInitConfigEnv(t *testing.T) {
	t.Setenv("SOUNDBOARD_BOARD_SLOTS", "10")

	p := writeConfig(t, "server:\n  reload_config: false\n")
	if err := configs.InitConfig(p); err != nil {
		t.Fatalf("InitConfig: %v", err)
	}

	if got := configs.GetConfig().Board.Slots; got != 10 {
		t.Errorf("slots = %d, want 10", got)
	}
}

// TestInitConfigInvalid 测试非法配置被拒绝.
func TestInitConfigInvalid(t *testing.T) {
	cases := map[string]string{
		"initial_filled": "board:\n  slots: 4\n  initial_filled: 4\n",
		"volume":         "board:\n  default_volume: 120\n",
		"layout":         "catalog:\n  audio_layout: nested\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if err := configs.InitConfig(writeConfig(t, body)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

// TestInitialFilledBelowSlots 测试初始填充数必须小于槽位数，错误指向对应字段.
func TestInitialFilledBelowSlots(t *testing.T) {
	cfg := configs.Defaults()
	cfg.Board.Slots = 6
	cfg.Board.InitialFilled = 6

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	if got := rule.Errors(err)["board.initial_filled"]; got != "ltfield=Slots" {
		t.Errorf("board.initial_filled = %q (all: %v)", got, rule.Errors(err))
	}

	cfg.Board.InitialFilled = 5
	if err := cfg.Validate(); err != nil {
		t.Errorf("initial_filled 5 of 6 should pass: %v", err)
	}
}

// TestInitConfigMissingDir 测试目录中没有配置文件时使用默认值.
func TestInitConfigMissingDir(t *testing.T) {
	if err := configs.InitConfig(t.TempDir()); err != nil {
		t.Fatalf("InitConfig: %v", err)
	}

	if got := configs.GetConfig().Board.Slots; got != configs.DefaultBoardSlots {
		t.Errorf("slots = %d", got)
	}
}
