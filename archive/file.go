package archive

import (
	"bufio"
	"io"
	"os"

	"github.com/Felo0o0/PrimeSecure/blame"
)

// SaveFile creates path and hands a buffered writer to write. Open, write and
// close failures are reported as IOFailure; errors from write pass through.
func SaveFile(path string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return blame.IOFailureError(path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = blame.IOFailureError(path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return blame.IOFailureError(path, err)
	}
	return nil
}

// LoadFile opens path and hands a buffered reader to read.
func LoadFile(path string, read func(r io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return blame.IOFailureError(path, err)
	}
	defer f.Close()
	return read(bufio.NewReader(f))
}

// ReadText returns the whole file as a string.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", blame.IOFailureError(path, err)
	}
	return string(data), nil
}

// WriteText replaces the file content with text.
func WriteText(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return blame.IOFailureError(path, err)
	}
	return nil
}
