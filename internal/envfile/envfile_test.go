package envfile

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Entry
		wantErr bool
	}{
		{
			name:    "plain entries",
			content: "API_KEY=abc123\nPORT=3000\n",
			want: []Entry{
				{Key: "API_KEY", Value: "abc123", Line: 1},
				{Key: "PORT", Value: "3000", Line: 2},
			},
		},
		{
			name:    "comments and blank lines",
			content: "# header\n\nAPI_KEY=abc123\n",
			want:    []Entry{{Key: "API_KEY", Value: "abc123", Line: 3}},
		},
		{
			name:    "export prefix",
			content: "export TOKEN=xyz\n",
			want:    []Entry{{Key: "TOKEN", Value: "xyz", Line: 1}},
		},
		{
			name:    "double quoted value",
			content: `GREETING="hello world"` + "\n",
			want:    []Entry{{Key: "GREETING", Value: "hello world", Line: 1}},
		},
		{
			name:    "single quoted value",
			content: "PASS='p w d'\n",
			want:    []Entry{{Key: "PASS", Value: "p w d", Line: 1}},
		},
		{
			name:    "trailing comment on unquoted value",
			content: "HOST=db.internal # primary\n",
			want:    []Entry{{Key: "HOST", Value: "db.internal", Line: 1}},
		},
		{
			name:    "empty value",
			content: "EMPTY=\n",
			want:    []Entry{{Key: "EMPTY", Value: "", Line: 1}},
		},
		{
			name:    "last duplicate wins",
			content: "KEY=first\nKEY=second\n",
			want:    []Entry{{Key: "KEY", Value: "second", Line: 2}},
		},
		{
			name:    "malformed line",
			content: "NOT A VALID LINE\n",
			wantErr: true,
		},
		{
			name:    "key starting with digit",
			content: "1KEY=value\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), ".env", tt.content)

			file, err := Parse(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Parse() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if !reflect.DeepEqual(file.Entries, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", file.Entries, tt.want)
			}
		})
	}
}

func TestFile_Get(t *testing.T) {
	f := &File{Entries: []Entry{{Key: "A", Value: "1"}}}
	if v, ok := f.Get("A"); !ok || v != "1" {
		t.Errorf("Get(A) = %q, %v", v, ok)
	}
	if _, ok := f.Get("B"); ok {
		t.Error("Get(B) found missing key")
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "A=1\n")
	writeFile(t, dir, ".env.production", "A=2\n")
	writeFile(t, dir, "notes.txt", "not an env file\n")

	paths, err := Discover(dir, nil)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	want := []string{".env", ".env.production"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Discover() = %v, want %v", paths, want)
	}
}

func TestDiscover_CustomGlobs(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "deploy"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "deploy"), "staging.env", "A=1\n")

	paths, err := Discover(dir, []string{"**/*.env"})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	want := []string{"deploy/staging.env"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Discover() = %v, want %v", paths, want)
	}
}
