package out

import (
	"os"

	"github.com/castforge/castforge/data"
	"github.com/castforge/castforge/module"
)

// File is a sink module.Module that appends each received buffer's bytes to
// a file on disk (original_source's Modules::Out::File).
type File struct {
	module.Base
	f *os.File
}

// NewFile creates or truncates path for writing.
func NewFile(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	file := &File{f: f}
	file.AddInput(nil, 0)
	return file, nil
}

// Process writes d's bytes to the file, or ignores end-of-stream.
func (fl *File) Process(_ int, d *data.Data) error {
	if err := fl.CheckClosed(); err != nil {
		return err
	}
	if data.IsEOS(d) {
		return nil
	}
	_, err := fl.f.Write(d.Bytes())
	return err
}

// Flush closes the underlying file.
func (fl *File) Flush() error {
	return fl.f.Close()
}
