package archive

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/asaskevich/govalidator"
)

// CSVHeader is the column layout of a batch file.
var CSVHeader = []string{"content", "sender", "recipient", "prime_code"}

var templateSamples = [][]string{
	{"Hola, este es un mensaje de prueba", "Alice", "Bob", "101"},
	{"Reunión a las 10:00 en la sala 3", "Carol", "Dave", ""},
	{"Los números primos protegen este texto", "Eve", "Frank", "997"},
}

// Row is one CSV record. PrimeCode is zero when the column was empty and a
// key should be picked from the keyring.
type Row struct {
	Line      int
	Content   string
	Sender    string
	Recipient string
	PrimeCode int
}

// HasKey reports whether the row named its own key.
func (r Row) HasKey() bool {
	return r.PrimeCode != 0
}

// ReadCSV parses a batch file. Malformed rows become ItemMalformed errors
// carrying the line number and do not stop the read; a bad header does.
func ReadCSV(r io.Reader) ([]Row, []error, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, blame.UnMarshalError("csv", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, nil, err
	}

	var (
		rows    []Row
		rowErrs []error
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rowErrs = append(rowErrs, blame.ItemMalformedError(parseErr.Line, err))
				continue
			}
			return rows, rowErrs, blame.UnMarshalError("csv", err)
		}
		line, _ := reader.FieldPos(0)
		row, err := parseRecord(line, record)
		if err != nil {
			rowErrs = append(rowErrs, blame.ItemMalformedError(line, err))
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

func checkHeader(header []string) error {
	if len(header) < len(CSVHeader) {
		return blame.UnMarshalError("csv", fmt.Errorf("header must be %s", strings.Join(CSVHeader, ",")))
	}
	for i, want := range CSVHeader {
		got := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
		if got != want {
			return blame.UnMarshalError("csv", fmt.Errorf("column %d is %q, expected %q", i+1, header[i], want))
		}
	}
	return nil
}

func parseRecord(line int, record []string) (Row, error) {
	if len(record) != len(CSVHeader) {
		return Row{}, fmt.Errorf("expected %d columns, got %d", len(CSVHeader), len(record))
	}
	row := Row{
		Line:      line,
		Content:   record[0],
		Sender:    strings.TrimSpace(record[1]),
		Recipient: strings.TrimSpace(record[2]),
	}
	if strings.TrimSpace(row.Content) == "" {
		return Row{}, errors.New("content is empty")
	}

	code := strings.TrimSpace(record[3])
	if code == "" {
		return row, nil
	}
	if !govalidator.IsInt(code) {
		return Row{}, fmt.Errorf("prime_code %q is not an integer", code)
	}
	key, err := strconv.Atoi(code)
	if err != nil {
		return Row{}, fmt.Errorf("prime_code %q: %w", code, err)
	}
	row.PrimeCode = key
	return row, nil
}

// WriteCSVTemplate writes the header followed by examples sample rows (two when examples <= 0).
func WriteCSVTemplate(w io.Writer, examples int) error {
	if examples <= 0 {
		examples = 2
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return blame.MarshalError("csv", err)
	}
	for i := 0; i < examples; i++ {
		if err := cw.Write(templateSamples[i%len(templateSamples)]); err != nil {
			return blame.MarshalError("csv", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return blame.MarshalError("csv", err)
	}
	return nil
}
