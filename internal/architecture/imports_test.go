package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestImportBoundaries(t *testing.T) {
	t.Helper()

	root, modulePath := moduleRoot(t)

	type violation struct {
		file string
		imp  string
		rule string
	}
	var violations []violation

	walkErr := walkGoFiles(filepath.Join(root, "internal"), func(path string, imports []string) {
		rel := relPath(root, path)
		disallowed := disallowedImports(modulePath, layerFor(rel))
		for _, imp := range imports {
			for _, bad := range disallowed {
				if strings.HasPrefix(imp, bad) {
					violations = append(violations, violation{file: rel, imp: imp, rule: bad})
					break
				}
			}
		}
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}

	if len(violations) > 0 {
		var b strings.Builder
		b.WriteString("import boundary violations:\n")
		for _, v := range violations {
			fmt.Fprintf(&b, "- %s imports %q (disallowed: %q)\n", v.file, v.imp, v.rule)
		}
		t.Fatal(b.String())
	}
}

// The tree, reorder, progress and session packages talk to the server through interfaces only.
func TestClientCoreHasNoTransport(t *testing.T) {
	t.Helper()

	root, _ := moduleRoot(t)
	banned := []string{
		"github.com/go-resty/",
		"github.com/gin-gonic/",
		"gorm.io/",
		"net/http",
	}

	var violations []string
	for _, pkg := range []string{"content", "reorder", "progress", "session"} {
		walkErr := walkGoFiles(filepath.Join(root, "internal", pkg), func(path string, imports []string) {
			for _, imp := range imports {
				for _, bad := range banned {
					if strings.HasPrefix(imp, bad) {
						violations = append(violations, fmt.Sprintf("- %s imports %q", relPath(root, path), imp))
						break
					}
				}
			}
		})
		if walkErr != nil {
			t.Fatalf("walk internal/%s: %v", pkg, walkErr)
		}
	}
	if len(violations) > 0 {
		t.Fatalf("transport imports in client core:\n%s", strings.Join(violations, "\n"))
	}
}

func moduleRoot(t *testing.T) (string, string) {
	t.Helper()
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}
	return root, modulePath
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// walkGoFiles calls fn with the imports of every non-test Go file under dir.
// Tests are exempt since they may stand up the dev API next to the client.
func walkGoFiles(dir string, fn func(path string, imports []string)) error {
	fset := token.NewFileSet()
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", "vendor", "node_modules", ".gocache":
				return filepath.SkipDir
			default:
				return nil
			}
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		imports := make([]string, 0, len(f.Imports))
		for _, spec := range f.Imports {
			if spec == nil || spec.Path == nil {
				continue
			}
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			imports = append(imports, imp)
		}
		fn(path, imports)
		return nil
	})
}

func layerFor(rel string) string {
	for _, core := range []string{"internal/content/", "internal/reorder/", "internal/progress/", "internal/session/"} {
		if strings.HasPrefix(rel, core) {
			return "core"
		}
	}
	switch {
	case strings.HasPrefix(rel, "internal/platform/"):
		return "platform"
	case strings.HasPrefix(rel, "internal/domain/"):
		return "domain"
	case strings.HasPrefix(rel, "internal/clients/"):
		return "clients"
	case strings.HasPrefix(rel, "internal/client/"):
		return "client"
	case strings.HasPrefix(rel, "internal/tui/"):
		return "tui"
	case strings.HasPrefix(rel, "internal/services/"):
		return "services"
	default:
		return ""
	}
}

func disallowedImports(modulePath string, layer string) []string {
	p := func(names ...string) []string {
		out := make([]string, 0, len(names))
		for _, n := range names {
			out = append(out, modulePath+"/internal/"+n)
		}
		return out
	}
	switch layer {
	case "platform":
		return p("http/", "services/", "app/", "client/", "tui/", "data/repos/")
	case "domain":
		return p("http/", "services/", "app/", "client/", "tui/", "clients/", "data/")
	case "core":
		return p("http/", "services/", "app/", "client/", "tui/", "clients/", "data/")
	case "clients":
		return p("http/", "services/", "app/", "client/", "tui/", "data/")
	case "client":
		return p("http/", "services/", "app/", "tui/", "data/repos/")
	case "tui":
		return p("http/", "services/", "app/", "clients/", "data/")
	case "services":
		return p("http/", "app/", "client/", "tui/")
	default:
		return nil
	}
}

func findModuleRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found from %s", start)
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if !strings.HasPrefix(line, "module ") {
			continue
		}
		mp := strings.TrimSpace(strings.TrimPrefix(line, "module "))
		if mp == "" {
			return "", fmt.Errorf("empty module path in %s", goModPath)
		}
		return mp, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
