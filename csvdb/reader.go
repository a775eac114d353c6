package csvdb

import (
	"encoding/csv"
	"io"

	"github.com/juju/errors"
)

// RecordMaker is a type which converts parsed CSV record to the Record instance.
type RecordMaker func([]string) (*Record, error)

// CSVReader is a wrapper over csv.Reader to convert each row into Record instance.
type CSVReader struct {
	reader     *csv.Reader
	makeRecord RecordMaker
	skipped    int
}

// Read returns a next record. If a row cannot be parsed, nil record is
// returned and row is counted as skipped.
func (cr *CSVReader) Read() (*Record, error) {
	data, err := cr.next()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}

		return nil, errors.Annotate(err, "cannot read new record")
	}

	record, err := cr.makeRecord(data)
	if err != nil {
		cr.skipped++
		record = nil
	}

	return record, nil
}

// Skipped returns a number of rows which were not parsed.
func (cr *CSVReader) Skipped() int {
	return cr.skipped
}

func (cr *CSVReader) next() (data []string, err error) {
	for err == nil && len(data) == 0 {
		data, err = cr.reader.Read()
	}

	return
}

// NewCSVReader converts given io.Reader instance into CSVReader.
func NewCSVReader(filefp io.Reader, makeRecord RecordMaker) *CSVReader {
	reader := csv.NewReader(filefp)
	reader.ReuseRecord = true
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	return &CSVReader{
		reader:     reader,
		makeRecord: makeRecord,
	}
}
