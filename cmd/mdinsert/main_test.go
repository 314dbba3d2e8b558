package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestPreprocessCmd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "snippets", "main.go"), "package main\n\nfunc main() {\n\tprintln(1)\n}\n")
	writeFile(t, filepath.Join(dir, "doc.md"), "---\ntitle: Doc\n---\n```go\n&[3-5](snippets/main.go)\n```\n")

	out, err := execute(t, "preprocess", filepath.Join(dir, "doc.md"))
	if err != nil {
		t.Fatalf("preprocess error = %v", err)
	}

	want := "---\ntitle: Doc\n---\n```go\nfunc main() {\n\tprintln(1)\n}\n```\n"
	if out != want {
		t.Errorf("preprocess output = %q, want %q", out, want)
	}
}

func TestPreprocessCmd_ParentPathFlag(t *testing.T) {
	docs := t.TempDir()
	snippets := t.TempDir()
	writeFile(t, filepath.Join(snippets, "lib", "a.txt"), "one\ntwo\n")
	writeFile(t, filepath.Join(docs, "doc.md"), "  &[2](a.txt)\n")

	out, err := execute(t, "preprocess", "--parent-path", snippets, "--path", "lib", filepath.Join(docs, "doc.md"))
	if err != nil {
		t.Fatalf("preprocess error = %v", err)
	}
	if out != "  two\n" {
		t.Errorf("preprocess output = %q, want %q", out, "  two\n")
	}
}

func TestPreprocessCmd_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "doc.md"), "intro\n&[1](missing.txt)\n")

	if _, err := execute(t, "preprocess", filepath.Join(dir, "doc.md")); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("preprocess error = %v, want failure naming line 2", err)
	}
	if _, err := execute(t, "preprocess", filepath.Join(dir, "absent.md")); err == nil {
		t.Error("preprocess of a missing document should fail")
	}
	if _, err := execute(t, "preprocess"); err == nil {
		t.Error("preprocess without arguments should fail")
	}
	if _, err := execute(t, "--extensions", "table,mermaid", "preprocess", filepath.Join(dir, "doc.md")); err == nil || !strings.Contains(err.Error(), "mermaid") {
		t.Errorf("unknown --extensions entry error = %v, want failure naming mermaid", err)
	}
	if _, err := execute(t, "--log-level", "loud", "preprocess", filepath.Join(dir, "doc.md")); err == nil {
		t.Error("invalid --log-level should fail")
	}
}

func TestRenderCmd_File(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "part.md"), "Inserted *text*.\n")
	writeFile(t, filepath.Join(dir, "doc.md"), "# Title\n\n&[](part.md)\n")

	out, err := execute(t, "render", filepath.Join(dir, "doc.md"))
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "<p>Inserted <em>text</em>.</p>") {
		t.Errorf("render output = %q", out)
	}

	outDir := filepath.Join(t.TempDir(), "site")
	if _, err := execute(t, "render", "--out", outDir, filepath.Join(dir, "doc.md")); err != nil {
		t.Fatalf("render --out error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "doc.html")); err != nil {
		t.Errorf("render --out should write doc.html: %v", err)
	}
}

func TestRenderCmd_Directory(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "index.md"), "&[1](shared.txt)\n")
	writeFile(t, filepath.Join(src, "shared.txt"), "root snippet\n")
	writeFile(t, filepath.Join(src, "guide", "install.md"), "&[1](shared.txt)\n")
	writeFile(t, filepath.Join(src, "guide", "shared.txt"), "guide snippet\n")
	writeFile(t, filepath.Join(src, ".hidden", "skip.md"), "&[1](nothing.txt)\n")

	outDir := t.TempDir()
	if _, err := execute(t, "render", "--out", outDir, "--jobs", "2", src); err != nil {
		t.Fatalf("render dir error = %v", err)
	}

	tests := []struct {
		path string
		want string
	}{
		{path: "index.html", want: "<p>root snippet</p>"},
		{path: filepath.Join("guide", "install.html"), want: "<p>guide snippet</p>"},
	}
	for _, tt := range tests {
		data, err := os.ReadFile(filepath.Join(outDir, tt.path))
		if err != nil {
			t.Fatalf("render dir missing %s: %v", tt.path, err)
		}
		if !strings.Contains(string(data), tt.want) {
			t.Errorf("%s = %q, want to contain %q", tt.path, data, tt.want)
		}
	}

	if _, err := os.Stat(filepath.Join(outDir, ".hidden")); !os.IsNotExist(err) {
		t.Error("render dir should skip dot-directories")
	}
}

func TestRenderCmd_DirectoryFailure(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "ok.md"), "fine\n")
	writeFile(t, filepath.Join(src, "bad.md"), "&[2-1](ok.md)\n")

	_, err := execute(t, "render", "--out", t.TempDir(), src)
	if err == nil || !strings.Contains(err.Error(), "bad.md") {
		t.Errorf("render dir error = %v, want failure naming bad.md", err)
	}
}

func TestHTMLName(t *testing.T) {
	tests := map[string]string{
		"doc.md":         "doc.html",
		"guide/a.MD":     "guide/a.html",
		"notes.txt":      "notes.txt.html",
		"archive.tar.md": "archive.tar.html",
	}
	for in, want := range tests {
		if got := htmlName(in); got != want {
			t.Errorf("htmlName(%q) = %q, want %q", in, got, want)
		}
	}
}
