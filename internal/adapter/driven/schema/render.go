package schema

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
	"text/template"
	"time"
)

// templateData is the value migrations are executed against. Every field is
// already quoted.
type templateData struct {
	Jobs              string
	Sequence          string
	Clients           string
	JobsStatusIndex   string
	JobsDestIDIndex   string
	ClientsUniqueName string
}

func (t Tables) templateData() templateData {
	return templateData{
		Jobs:              Quote(t.Jobs),
		Sequence:          Quote(t.Sequence),
		Clients:           Quote(t.Clients),
		JobsStatusIndex:   Quote(t.Jobs + "_destination_status_idx"),
		JobsDestIDIndex:   Quote(t.Jobs + "_destination_job_id_idx"),
		ClientsUniqueName: Quote(t.Clients + "_destination_password_key"),
	}
}

// Render executes every .sql file in dir of src as a text/template against the
// quoted table names and returns an fs.FS containing the results under dir.
// The result is what golang-migrate's iofs source reads.
func Render(src fs.FS, dir string, tables Tables) (fs.FS, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(src, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	data := tables.templateData()
	out := renderedFS{dir: dir, files: make(map[string][]byte, len(entries))}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		raw, err := fs.ReadFile(src, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		tmpl, err := template.New(entry.Name()).Option("missingkey=error").Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parse migration %s: %w", entry.Name(), err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("render migration %s: %w", entry.Name(), err)
		}

		out.files[entry.Name()] = buf.Bytes()
	}

	return out, nil
}

// renderedFS is a read-only, single-directory fs.FS over rendered files.
type renderedFS struct {
	dir   string
	files map[string][]byte
}

func (r renderedFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	if name == r.dir || name == "." {
		return &renderedDir{info: fileInfo{name: path.Base(name), dir: true}, entries: r.entries()}, nil
	}

	dir, base := path.Split(name)
	if strings.TrimSuffix(dir, "/") != r.dir {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	content, ok := r.files[base]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	return &renderedFile{
		info:   fileInfo{name: base, size: int64(len(content))},
		reader: bytes.NewReader(content),
	}, nil
}

// ReadDir implements fs.ReadDirFS.
func (r renderedFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name != r.dir {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	return r.entries(), nil
}

func (r renderedFS) entries() []fs.DirEntry {
	entries := make([]fs.DirEntry, 0, len(r.files))
	for name, content := range r.files {
		entries = append(entries, fs.FileInfoToDirEntry(fileInfo{name: name, size: int64(len(content))}))
	}
	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return entries
}

type renderedFile struct {
	info   fileInfo
	reader *bytes.Reader
}

func (f *renderedFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *renderedFile) Read(p []byte) (int, error) { return f.reader.Read(p) }
func (f *renderedFile) Close() error               { return nil }

type renderedDir struct {
	info    fileInfo
	entries []fs.DirEntry
	offset  int
}

func (d *renderedDir) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *renderedDir) Read(_ []byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: fs.ErrInvalid}
}
func (d *renderedDir) Close() error { return nil }

// ReadDir implements fs.ReadDirFile.
func (d *renderedDir) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.offset += n
	return rest[:n], nil
}

type fileInfo struct {
	name string
	size int64
	dir  bool
}

func (fi fileInfo) Name() string { return fi.name }
func (fi fileInfo) Size() int64  { return fi.size }
func (fi fileInfo) Mode() fs.FileMode {
	if fi.dir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}
func (fi fileInfo) ModTime() time.Time { return time.Time{} }
func (fi fileInfo) IsDir() bool        { return fi.dir }
func (fi fileInfo) Sys() any           { return nil }
