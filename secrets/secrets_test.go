package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveLiteral(t *testing.T) {
	r := &Resolver{}
	got, err := r.Resolve("sk-plain-value")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "sk-plain-value" {
		t.Fatalf("literal should pass through, got %q", got)
	}
}

func TestResolveEmptyIsOptional(t *testing.T) {
	r := &Resolver{}
	got, err := r.Resolve("   ")
	if err != nil || got != "" {
		t.Fatalf("empty ref must resolve empty without error, got %q err %v", got, err)
	}
}

func TestResolveEnv(t *testing.T) {
	t.Setenv("MEMEX_TEST_SECRET", "from-env")
	r := &Resolver{}
	got, err := r.Resolve("env:MEMEX_TEST_SECRET")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "from-env" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveEnvAlias(t *testing.T) {
	t.Setenv("REAL_VAR_NAME", "aliased")
	r := &Resolver{Aliases: map[string]string{"openai": "REAL_VAR_NAME"}}
	got, err := r.Resolve("env:openai")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "aliased" {
		t.Fatalf("got %q", got)
	}
}

func TestResolveEnvMissingFails(t *testing.T) {
	r := &Resolver{}
	if _, err := r.Resolve("env:MEMEX_TEST_DEFINITELY_UNSET"); err == nil {
		t.Fatal("missing env var must fail")
	}
}

func TestResolveEnvEmptyFails(t *testing.T) {
	t.Setenv("MEMEX_TEST_EMPTY", "")
	r := &Resolver{}
	if _, err := r.Resolve("env:MEMEX_TEST_EMPTY"); err == nil {
		t.Fatal("empty env var must fail")
	}
}

func TestResolveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("sk-from-file\ntrailing junk\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	r := &Resolver{}
	got, err := r.Resolve("file:" + path)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "sk-from-file" {
		t.Fatalf("expected first line only, got %q", got)
	}
}

func TestResolveFileMissingFails(t *testing.T) {
	r := &Resolver{}
	if _, err := r.Resolve("file:/does/not/exist"); err == nil {
		t.Fatal("missing file must fail")
	}
}
