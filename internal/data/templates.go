package data

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/l1jgo/entityforge/internal/template"
	"github.com/l1jgo/entityforge/internal/types"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/traditionalchinese"
	"gopkg.in/yaml.v3"
)

// LoadOptions controls how template files are read.
type LoadOptions struct {
	// Encoding of the files: "" or "utf-8" for none, "ms950"/"big5" for
	// tables converted from the legacy server, or any WHATWG label.
	Encoding string
}

// LoadTemplates loads component and entity templates from YAML files.
// Files are parsed concurrently and merged in argument order; a later file
// replaces templates of the same name. Component references in entities are
// resolved against every component template loaded, from any file.
func LoadTemplates(reg *types.Registry, opts LoadOptions, paths ...string) (*template.MapStore, error) {
	dec, err := decoderFor(opts.Encoding)
	if err != nil {
		return nil, err
	}

	files := make([]templateFile, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error { return readYAML(path, dec, &files[i]) })
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	store := template.NewMapStore()
	var errs error
	for i := range files {
		for j := range files[i].Components {
			e := &files[i].Components[j]
			c, err := e.toTemplate(reg)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", paths[i], err))
				continue
			}
			store.AddComponent(c)
		}
	}
	for i := range files {
		for j := range files[i].Entities {
			e := &files[i].Entities[j]
			t, err := e.toTemplate(reg, store.ResolveComponent)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", paths[i], err))
				continue
			}
			store.AddEntity(t)
		}
	}
	if errs != nil {
		return nil, errs
	}
	return store, nil
}

// LoadTemplateDir loads every *.yaml / *.yml file under dir, in lexical
// path order.
func LoadTemplateDir(dir string, reg *types.Registry, opts LoadOptions) (*template.MapStore, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan template dir %s: %w", dir, err)
	}
	sort.Strings(paths)
	return LoadTemplates(reg, opts, paths...)
}

// readYAML reads path, converts it to UTF-8 with dec when set, and
// unmarshals it into out.
func readYAML(path string, dec encoding.Encoding, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if dec != nil {
		if raw, err = dec.NewDecoder().Bytes(raw); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func decoderFor(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "ms950", "big5", "cp950":
		return traditionalchinese.Big5, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("template encoding %q: %w", name, err)
	}
	return enc, nil
}
