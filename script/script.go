package script

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/moepig/tf-import-gen/resources"
)

// defaultTemplate renders the generated import script. The shebang and the
// directory change come first so the script can run from anywhere.
const defaultTemplate = `#!/bin/bash
cd {{ .ModulePath }}

{{ range .Commands }}{{ . }}
{{ end }}`

// TemplateData represents data passed to the script template
type TemplateData struct {
	ModulePath string
	Commands   []string
}

// Writer renders import scripts and writes them under an output directory,
// one subdirectory per environment
type Writer struct {
	outputDir string
	tmpl      *template.Template
}

// NewWriter creates a Writer rooted at outputDir
func NewWriter(outputDir string) *Writer {
	return &Writer{
		outputDir: outputDir,
		tmpl:      template.Must(template.New("script").Parse(defaultTemplate)),
	}
}

// Command returns the terraform import invocation for one record
func Command(r resources.ImportRecord) string {
	return fmt.Sprintf("terraform import %s %s", r.Address(), r.ResourceID)
}

// Commands returns the terraform import invocations for all records,
// preserving record order
func Commands(records []resources.ImportRecord) []string {
	commands := make([]string, 0, len(records))
	for _, r := range records {
		commands = append(commands, Command(r))
	}
	return commands
}

// Write renders the import script for the records and writes it to
// <outputDir>/<environment>/import_<count>_resources.sh, marked
// executable. It returns the command lines and the script path.
//
// Callers are expected to skip Write entirely when records is empty.
func (w *Writer) Write(records []resources.ImportRecord, environment, modulePath string) ([]string, string, error) {
	commands := Commands(records)

	data := TemplateData{
		ModulePath: modulePath,
		Commands:   commands,
	}

	var buf bytes.Buffer
	if err := w.tmpl.Execute(&buf, data); err != nil {
		return nil, "", fmt.Errorf("failed to render import script: %w", err)
	}

	dir := filepath.Join(w.outputDir, environment)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create output directory '%s': %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("import_%d_resources.sh", len(records)))
	if err := os.WriteFile(path, buf.Bytes(), 0755); err != nil {
		return nil, "", fmt.Errorf("failed to write import script '%s': %w", path, err)
	}

	// WriteFile only applies the mode on creation; make sure a
	// pre-existing file ends up executable too.
	if err := os.Chmod(path, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to mark import script executable: %w", err)
	}

	return commands, path, nil
}
