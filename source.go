package configs

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"os"
	"path"
	"reflect"
	"strings"

	"golang.org/x/tools/go/packages"
)

// ErrSourceNotFound is returned when no candidate file declares the requested type.
var ErrSourceNotFound = errors.New("declaration source not found")

// SourceProvider returns the Go source file that declares a record type.
type SourceProvider interface {
	Source(t reflect.Type) (filename string, src []byte, err error)
}

// SourceFunc adapts a function to SourceProvider.
type SourceFunc func(t reflect.Type) (string, []byte, error)

func (f SourceFunc) Source(t reflect.Type) (string, []byte, error) { return f(t) }

// FileSource searches a fixed list of files on disk.
type FileSource []string

// NewFileSource returns a provider over the given file paths.
func NewFileSource(paths ...string) FileSource { return FileSource(paths) }

func (s FileSource) Source(t reflect.Type) (string, []byte, error) {
	name := declName(t)
	for _, p := range s {
		src, err := readFile(os.Open, p)
		if err != nil {
			return "", nil, err
		}
		if declaresType(p, src, name) {
			return p, src, nil
		}
	}
	return "", nil, fmt.Errorf("%w: %s in %v", ErrSourceNotFound, t, []string(s))
}

// FSSource searches every .go file below Dir in FS, typically an embed.FS holding
// the package's own sources:
//
//	//go:embed *.go
//	var sources embed.FS
//
//	c := configs.NewWithOptions(configs.WithSourceProvider(configs.FSSource{FS: sources}))
type FSSource struct {
	FS  fs.FS
	Dir string
}

func (s FSSource) Source(t reflect.Type) (string, []byte, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	name := declName(t)
	var (
		foundName string
		foundSrc  []byte
	)
	err := fs.WalkDir(s.FS, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".go" {
			return nil
		}
		src, err := readFile(func(name string) (io.ReadCloser, error) { return s.FS.Open(name) }, p)
		if err != nil {
			return err
		}
		if declaresType(p, src, name) {
			foundName, foundSrc = p, src
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	if foundSrc == nil {
		return "", nil, fmt.Errorf("%w: %s under %s", ErrSourceNotFound, t, dir)
	}
	return foundName, foundSrc, nil
}

// PackageSource locates the declaring package with golang.org/x/tools/go/packages and
// searches its Go files. It needs the go tool and the module sources at run time.
type PackageSource struct {
	Dir   string // working directory for the go tool; empty means the process directory
	Tests bool   // include _test.go files
}

func (s PackageSource) Source(t reflect.Type) (string, []byte, error) {
	if t.PkgPath() == "" {
		return "", nil, fmt.Errorf("%w: %s has no package path", ErrSourceNotFound, t)
	}
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedFiles, Dir: s.Dir, Tests: s.Tests}
	pkgs, err := packages.Load(cfg, t.PkgPath())
	if err != nil {
		return "", nil, fmt.Errorf("failed to load package %s: %w", t.PkgPath(), err)
	}
	name := declName(t)
	for _, pkg := range pkgs {
		for _, file := range pkg.GoFiles {
			src, err := readFile(os.Open, file)
			if err != nil {
				return "", nil, err
			}
			if declaresType(file, src, name) {
				return file, src, nil
			}
		}
	}
	return "", nil, fmt.Errorf("%w: %s in package %s", ErrSourceNotFound, t, t.PkgPath())
}

// readFile reads one file and always releases the handle.
func readFile[F io.ReadCloser](open func(string) (F, error), name string) ([]byte, error) {
	f, err := open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()
	src, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return src, nil
}

func declaresType(filename string, src []byte, name string) bool {
	file, err := parser.ParseFile(token.NewFileSet(), filename, src, parser.SkipObjectResolution)
	if err != nil {
		return false
	}
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			if ts, ok := spec.(*ast.TypeSpec); ok && ts.Name.Name == name {
				return true
			}
		}
	}
	return false
}

// declName strips type arguments from instantiated generic names.
func declName(t reflect.Type) string {
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}
