package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LIBRARIUM_CONFIG", filepath.Join(t.TempDir(), "missing.yml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with no config file: %v", err)
	}
	if cfg.Catalog.BaseURL != "https://libgen.li" {
		t.Errorf("catalog.base_url = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.Language != "english" {
		t.Errorf("catalog.language = %q", cfg.Catalog.Language)
	}
	if cfg.Catalog.MaxPages != 9 {
		t.Errorf("catalog.max_pages = %d", cfg.Catalog.MaxPages)
	}
	if len(cfg.Download.DirectHosts) != 1 || cfg.Download.DirectHosts[0] != "library.lol" {
		t.Errorf("download.direct_hosts = %v", cfg.Download.DirectHosts)
	}
	if cfg.Download.PageTimeout != 5*time.Minute {
		t.Errorf("download.page_timeout = %v", cfg.Download.PageTimeout)
	}
	if cfg.Download.HeaderTimeout != 30*time.Second {
		t.Errorf("download.header_timeout = %v", cfg.Download.HeaderTimeout)
	}
	if cfg.EbookMetaPath != "ebook-meta" {
		t.Errorf("ebook_meta_path = %q", cfg.EbookMetaPath)
	}
	if cfg.LibraryPath == "" {
		t.Error("library_path default is empty")
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := []byte(`
library_path: /srv/books
catalog:
  base_url: https://mirror.example.net
  max_pages: 3
download:
  direct_hosts: [library.lol, direct.example.net]
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}
	t.Setenv("LIBRARIUM_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LibraryPath != "/srv/books" {
		t.Errorf("library_path = %q", cfg.LibraryPath)
	}
	if cfg.Catalog.BaseURL != "https://mirror.example.net" {
		t.Errorf("catalog.base_url = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.MaxPages != 3 {
		t.Errorf("catalog.max_pages = %d", cfg.Catalog.MaxPages)
	}
	if len(cfg.Download.DirectHosts) != 2 {
		t.Errorf("download.direct_hosts = %v", cfg.Download.DirectHosts)
	}
	// Untouched keys keep their defaults.
	if cfg.Catalog.Language != "english" {
		t.Errorf("catalog.language = %q", cfg.Catalog.Language)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LIBRARIUM_CONFIG", filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv("LIBRARIUM_LIBRARY_PATH", "/mnt/shelf")
	t.Setenv("LIBRARIUM_CATALOG_MAX_PAGES", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LibraryPath != "/mnt/shelf" {
		t.Errorf("library_path = %q, expected the env override", cfg.LibraryPath)
	}
	if cfg.Catalog.MaxPages != 2 {
		t.Errorf("catalog.max_pages = %d, expected the env override", cfg.Catalog.MaxPages)
	}
}
