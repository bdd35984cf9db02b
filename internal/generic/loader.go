package generic

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdelaney-dev/broadside/internal/board"
	"github.com/mdelaney-dev/broadside/internal/targeting"
)

//go:embed docs/*.json
var builtinDocs embed.FS

// RegisterBuiltins parses the documents shipped with the binary and
// registers each one as an algorithm. Ids are the file stems.
func RegisterBuiltins(reg *targeting.Registry) error {
	entries, err := builtinDocs.ReadDir("docs")
	if err != nil {
		return fmt.Errorf("reading embedded documents: %w", err)
	}
	for _, entry := range entries {
		data, err := builtinDocs.ReadFile("docs/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading embedded document %s: %w", entry.Name(), err)
		}
		if err := registerDocument(reg, entry.Name(), data); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDir parses every *.json document in dir and registers it. A
// missing directory is not an error; a malformed document is, since the
// whole point of load-time validation is refusing to run broken machines.
func RegisterDir(reg *targeting.Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading algorithm document directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("reading algorithm document %s: %w", entry.Name(), err)
		}
		if err := registerDocument(reg, entry.Name(), data); err != nil {
			return err
		}
	}
	return nil
}

func registerDocument(reg *targeting.Registry, filename string, data []byte) error {
	doc, err := Parse(data)
	if err != nil {
		return fmt.Errorf("document %s: %w", filename, err)
	}
	id := strings.TrimSuffix(filename, ".json")
	factory := func(size int, cfg board.Config, seed uint64) targeting.Algorithm {
		return New(doc, size, seed)
	}
	if err := reg.Register(id, doc.Name, factory); err != nil {
		return fmt.Errorf("document %s: %w", filename, err)
	}
	return nil
}
