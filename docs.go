package configs

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

const postInitMethod = "PostInit"

// Docs opts a record type into field documentation. Embed it in the struct:
//
//	type ServerConfig struct {
//		configs.Docs
//
//		// Port the HTTP listener binds to.
//		Port int `config:"port"`
//	}
//
// After conversion FieldDocs returns the comment of every documented field, keyed by
// config key. A documented type must be a plain data holder: its declaration file may
// not declare methods on it other than PostInit.
type Docs struct {
	fieldDocs map[string]string
}

// FieldDocs returns a copy of the field documentation attached at construction.
func (d Docs) FieldDocs() map[string]string {
	out := make(map[string]string, len(d.fieldDocs))
	for k, v := range d.fieldDocs {
		out[k] = v
	}
	return out
}

func (d *Docs) set(m map[string]string) {
	d.fieldDocs = make(map[string]string, len(m))
	for k, v := range m {
		d.fieldDocs[k] = v
	}
}

// fieldDocs returns the docs of a documented record keyed by config key, cached per type.
func (c *Converter) fieldDocs(schema *Schema) (map[string]string, error) {
	if cached, ok := c.docs.Load(schema.Type); ok {
		return cached.(map[string]string), nil
	}
	filename, src, err := c.options.Sources.Source(schema.Type)
	if err != nil {
		return nil, err
	}
	byGoName, err := ExtractFieldDocs(filename, src, declName(schema.Type))
	if err != nil {
		return nil, err
	}
	docs := make(map[string]string, len(byGoName))
	for goName, doc := range byGoName {
		if i, ok := schema.byGoName[goName]; ok {
			docs[schema.Fields[i].Name] = doc
		}
	}
	c.options.Logger.Debug("extracted field docs", "type", typeName(schema.Type), "file", filename, "documented", len(docs))
	actual, _ := c.docs.LoadOrStore(schema.Type, docs)
	return actual.(map[string]string), nil
}

// ExtractFieldDocs parses Go source and returns the normalized comment of each field
// of the struct type typeName, keyed by Go field name. A field's doc comment wins over
// its trailing line comment. Fields without comments are absent. A method declared in
// src on typeName other than PostInit yields a *StructuralViolationError.
// If src does not declare typeName the result is empty.
func ExtractFieldDocs(filename string, src []byte, typeName string) (map[string]string, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	docs := make(map[string]string)
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil || len(d.Recv.List) == 0 {
				continue
			}
			if receiverName(d.Recv.List[0].Type) == typeName && d.Name.Name != postInitMethod {
				return nil, &StructuralViolationError{Type: typeName, Method: d.Name.Name}
			}
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || ts.Name.Name != typeName {
					continue
				}
				st, ok := ts.Type.(*ast.StructType)
				if !ok {
					continue
				}
				collectFieldDocs(st, docs)
			}
		}
	}
	return docs, nil
}

func collectFieldDocs(st *ast.StructType, docs map[string]string) {
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			continue
		}
		group := field.Doc
		if group == nil {
			group = field.Comment
		}
		if group == nil {
			continue
		}
		text := normalizeDoc(group.Text())
		if text == "" {
			continue
		}
		for _, name := range field.Names {
			docs[name.Name] = text
		}
	}
}

func receiverName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return receiverName(e.X)
	case *ast.Ident:
		return e.Name
	case *ast.IndexExpr:
		return receiverName(e.X)
	case *ast.IndexListExpr:
		return receiverName(e.X)
	case *ast.ParenExpr:
		return receiverName(e.X)
	}
	return ""
}

// normalizeDoc trims every line, drops leading and trailing blank lines and joins with "\n".
func normalizeDoc(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
